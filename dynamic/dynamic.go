package dynamic

import (
	"io"
	"os"
	"strings"
	"unsafe"

	"github.com/pkujhd/goloader"
	"go.uber.org/zap"
)

type (
	//Sym points at a heap cell holding the code address of a symbol, which is the layout of a func value.
	Sym unsafe.Pointer
	//Dynamic module from object files or serialized linker, this interface can not be implement outside this package.
	//
	//Use Steps:
	//
	//	1. InitializeMany or Initialize or InitializeSerialized to initialize this dynamic module.
	//	2. [Dynamic.Link] to link the code to runtime and other global dependencies.
	//	3. Resolve functions with [Resolver] or fetch symbols with [Dynamic.Fetch].
	//	4. Call [Dynamic.Free] to release the resources.
	//
	//Note:
	//
	//	1. A function resolved into a transformed function stays in use for the lifetime of the process: a Dynamic feeding resolvers must never be freed.
	//	2. Dynamic itself can be used safe between goroutines, but not thread-safe.
	Dynamic interface {
		Symbols
		InitializeMany(file, pkg []string, types ...any) (err error) //Initialize from many object files
		Initialize(file, pkg string, types ...any) (err error)       //Initialize from one object file
		InitializeSerialized(in io.Reader, types ...any) (err error) //Initialize from serialized linker
		Link() (err error)                                           //link and create code module
		MissingSymbols() []string                                    //dump the missing symbols
		Serialize(out io.Writer) error                               //write linker data which may loaded by InitializeSerialized
		Fetch(sym string) (u Sym, ok bool)                           //fetch a symbol, which can cast to the desired type with As
		MustFetch(sym string) (u Sym)                                //fetch a symbol, panics with ErrUninitialized or ErrMissingSymbol
		Free(sync bool)                                              //release resources, sync parameter to sync the stdout or not
		internal()
		exports() map[string]uintptr
		packages() []string
	}
	dynamic struct {
		files []string
		pkg   []string
		symbols
		linker *goloader.Linker
		module *goloader.CodeModule
		log    *zap.Logger
	}
)

// NewDynamic create new dynamic with provided Symbols, a nil logger disables logging.
func NewDynamic(sym Symbols, log *zap.Logger) Dynamic {
	x := new(dynamic)
	x.symbols = sym.(symbols)
	if log == nil {
		log = zap.NewNop()
	}
	x.log = log.Named("dynamic")
	return x
}
func (s *dynamic) internal() {}

func (s *dynamic) exports() map[string]uintptr {
	if s.module == nil {
		return nil
	}
	return s.module.Syms
}

func (s *dynamic) packages() (v []string) {
	if len(s.pkg) > 0 || s.linker == nil {
		return s.pkg
	}
	for _, pkg := range s.linker.Packages {
		v = append(v, pkg.PkgPath)
	}
	return
}

func (s *dynamic) register(types []any) {
	if len(types) > 0 {
		s.log.Debug("register types", zap.Int("count", len(types)))
		goloader.RegTypes(s.symbols, types...)
	}
}
func (s *dynamic) InitializeMany(file, pkg []string, types ...any) (err error) {
	if s.linker != nil {
		return ErrAlreadyInitialized
	}
	s.register(types)
	s.files = append(s.files, file...)
	s.pkg = append(s.pkg, pkg...)
	if s.linker, err = goloader.ReadObjs(file, pkg); err != nil {
		return
	}
	s.log.Debug("create linker", zap.Strings("files", file), zap.Strings("packages", pkg))
	return
}
func (s *dynamic) Initialize(file, pkg string, types ...any) (err error) {
	if s.linker != nil {
		return ErrAlreadyInitialized
	}
	s.register(types)
	s.files = append(s.files, file)
	s.pkg = append(s.pkg, pkg)
	if s.linker, err = goloader.ReadObj(file, pkg); err != nil {
		return
	}
	s.log.Debug("create linker", zap.String("file", file), zap.String("package", pkg))
	return
}
func (s *dynamic) InitializeSerialized(in io.Reader, types ...any) (err error) {
	if s.linker != nil {
		return ErrAlreadyInitialized
	}
	s.register(types)
	if s.linker, err = goloader.UnSerialize(in); err != nil {
		return
	}
	s.log.Debug("loaded linker")
	return
}

func (s *dynamic) Link() (err error) {
	if s.linker == nil {
		return ErrUninitialized
	}
	if s.module != nil {
		return ErrLinked
	}
	if s.module, err = goloader.Load(s.linker, s.symbols); err != nil {
		return
	}
	s.log.Debug("create module", zap.Int("symbols", len(s.module.Syms)))
	return
}

func (s *dynamic) Fetch(sym string) (u Sym, ok bool) {
	if s.module == nil {
		return
	}
	sym = checkPackage(sym)
	var p uintptr
	p, ok = s.module.Syms[sym]
	if !ok {
		return
	}
	s.log.Debug("found symbol", zap.String("symbol", sym), zap.Uintptr("address", p))
	return symOf(p), ok
}

func checkPackage(sym string) string {
	if strings.IndexByte(sym, '.') < 0 {
		return "main." + sym
	}
	return sym
}
func (s *dynamic) MustFetch(sym string) (u Sym) {
	if s.module == nil {
		panic(ErrUninitialized)
	}
	u, ok := s.Fetch(sym)
	if !ok {
		panic(&MissingError{Symbol: checkPackage(sym)})
	}
	return
}

func (s *dynamic) MissingSymbols() []string {
	if s.linker == nil {
		panic(ErrUninitialized)
	}
	return goloader.UnresolvedSymbols(s.linker, s.symbols)
}
func (s *dynamic) Serialize(out io.Writer) error {
	if s.linker == nil {
		return ErrUninitialized
	}
	return goloader.Serialize(s.linker, out)
}

func (s *dynamic) Free(sync bool) {
	if s.linker == nil {
		return
	}
	s.log.Debug("free", zap.Strings("files", s.files))
	if s.module != nil {
		if sync {
			_ = os.Stdout.Sync()
		}
		s.module.Unload()
		s.module = nil
	}
	s.symbols = nil
	s.linker = nil
	s.pkg = nil
	s.files = nil
}

// symOf moves the code address to the heap: func values made by As keep pointing at it for the lifetime of the process.
func symOf(code uintptr) Sym {
	c := new(uintptr)
	*c = code
	return Sym(unsafe.Pointer(c))
}

// As convert fetched Sym to contract type
func As[T any](ptr Sym) (x T) {
	px := (*T)(unsafe.Pointer(&ptr))
	x = *px
	return
}

// Resolver creates a resolver which fetches sym from dyn as F when invoked.
//
// It is meant as the resolver expression of a transformed function:
//
//	//indirect:resolver="dynamic.Resolver[func() string](plugins, `sample.Run`)"
//	func run() string
//
// A missing symbol panics with a *MissingError, which poisons the slot of the transformed function.
func Resolver[F any](dyn Dynamic, sym string) func() F {
	return func() F {
		return As[F](dyn.MustFetch(sym))
	}
}
