package dynamic

import (
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Pool links modules against shared symbols: a module can use every symbol of the modules loaded before it.
//
// Modules are never unloaded, functions resolved from a Pool stay valid for the lifetime of the process.
type Pool struct {
	symbols
	modules map[string]Dynamic
	log     *zap.Logger
	sync.RWMutex
}

var (
	ErrAlreadyLoad    = errors.New("module already loaded")
	ErrMissingPackage = errors.New("package not loaded")
)

// NewPool create new pool with global symbols, a nil logger disables logging.
func NewPool(log *zap.Logger) (p *Pool, err error) {
	sym, err := NewSymbols()
	if err != nil {
		return nil, err
	}
	return newPool(sym.(symbols), log), nil
}

func newPool(sym symbols, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{symbols: sym, modules: make(map[string]Dynamic), log: log.Named("pool")}
}

// LoadFile load from go archive or go object file
func (p *Pool) LoadFile(file, pkgPath string, types ...any) (err error) {
	p.Lock()
	defer p.Unlock()
	if pkgPath == "" {
		pkgPath = "main"
	}
	if _, ok := p.modules[pkgPath]; ok {
		return ErrAlreadyLoad
	}
	d := NewDynamic(p.symbols, p.log)
	if err = d.Initialize(file, pkgPath, types...); err != nil {
		return
	}
	return p.link(d)
}

// LoadLinkable load from serialized link
func (p *Pool) LoadLinkable(bin io.Reader, types ...any) (err error) {
	p.Lock()
	defer p.Unlock()
	d := NewDynamic(p.symbols, p.log)
	if err = d.InitializeSerialized(bin, types...); err != nil {
		return
	}
	for _, pkg := range d.packages() {
		if _, ok := p.modules[pkg]; ok {
			return ErrAlreadyLoad
		}
	}
	return p.link(d)
}

func (p *Pool) link(d Dynamic) (err error) {
	if err = d.Link(); err != nil {
		return
	}
	for _, pkg := range d.packages() {
		p.modules[pkg] = d
	}
	for s, u := range d.exports() {
		if _, ok := p.symbols[s]; !ok {
			p.symbols[s] = u
		}
	}
	p.log.Debug("linked", zap.Strings("packages", d.packages()))
	return
}

// Require fetch symbol from package, panics with ErrMissingPackage or a *MissingError.
func (p *Pool) Require(pkgPath, symbolName string) Sym {
	p.RLock()
	defer p.RUnlock()
	if pkgPath == "" {
		pkgPath = "main"
	}
	if m, ok := p.modules[pkgPath]; ok {
		return m.MustFetch(pkgPath + "." + symbolName)
	}
	panic(ErrMissingPackage)
}

// Require creates a resolver which fetches symbolName of pkgPath from p as F when invoked.
func Require[F any](p *Pool, pkgPath, symbolName string) func() F {
	return func() F {
		return As[F](p.Require(pkgPath, symbolName))
	}
}
