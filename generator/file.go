package generator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/tools/go/ast/astutil"
)

type (
	// Result of a generated file.
	Result struct {
		Source     string       // source file name
		Output     string       // generated file name
		Code       []byte       // formatted generated code
		Transforms []*Transform // transformed functions in source order
	}
	edit struct {
		start, end int
		text       string
	}
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// Generate rewrites one generator source.
//
// Every function carrying an //indirect:resolver directive gets its body replaced by a dispatch through a slot,
// every other declaration is kept byte for byte. The generator tag is negated in the //go:build line so the output
// replaces the source in normal builds.
//
// Any diagnostic aborts the whole file: the returned error combines every *Diagnostic found and no code is returned.
func Generate(fset *token.FileSet, filename string, src []byte, opts Options) (r *Result, err error) {
	return generate(fset, filename, src, opts.normalize(), true)
}

func generate(fset *token.FileSet, filename string, src []byte, o *Options, guarded bool) (r *Result, err error) {
	log := o.Logger.With(zap.String("file", filename))
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	r = &Result{Source: filename, Output: o.Output(filename)}
	if o, err = fileMode(fset, file, o); err != nil {
		return nil, err
	}
	n := namesOf(file, o)
	declared := packageScope(file)
	tf := fset.File(file.Pos())
	offset := func(p token.Pos) int {
		return tf.Offset(p)
	}
	var edits []edit
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		d, e := FindDirective(fset, fd)
		if e != nil {
			err = multierr.Append(err, e)
			continue
		}
		if d == nil {
			continue
		}
		sig, e := ExtractSignature(fset, fd)
		if e != nil {
			err = multierr.Append(err, e)
			continue
		}
		t := Synthesize(sig, d.Resolver, o, n)
		if e = collisions(fset, fd, d, t, declared); e != nil {
			err = multierr.Append(err, e)
			continue
		}
		for _, name := range t.Names {
			declared[name] = fd.Name.Pos()
		}
		log.Debug("transform",
			zap.String("func", sig.Name),
			zap.String("resolver", d.Source),
			zap.String("type", sig.FuncType()),
			zap.String("mode", string(o.Mode)))
		if fd.Body != nil {
			edits = append(edits, edit{offset(fd.Body.Lbrace), offset(fd.End()), t.Body + "\n\n" + t.Decl})
		} else {
			edits = append(edits, edit{offset(fd.End()), offset(fd.End()), " " + t.Body + "\n\n" + t.Decl})
		}
		r.Transforms = append(r.Transforms, t)
	}
	if len(r.Transforms) > 0 {
		local := n.shim
		if o.Mode == ModeSync {
			local = n.sync
		}
		if pos, ok := declared[local]; ok {
			err = multierr.Append(err, diag(fset.Position(pos), "package level %q shadows the import of %q", local, r.Transforms[0].Import))
		}
	}
	if err != nil {
		return nil, err
	}
	edits = append(edits, constraintEdits(file, o, offset, guarded, log)...)
	code := apply(src, edits)
	if r.Code, err = finish(filename, code, r.Transforms, n); err != nil {
		return nil, err
	}
	return
}

// IsSource reports whether the //go:build line of src requires the generator tag.
func IsSource(src []byte, tag string) bool {
	for _, line := range strings.Split(string(headerOf(src)), "\n") {
		line = strings.TrimSpace(line)
		if !constraint.IsGoBuild(line) {
			continue
		}
		x, err := constraint.Parse(line)
		if err != nil {
			return false
		}
		return requires(x, tag)
	}
	return false
}

// headerOf returns the text before the package clause.
func headerOf(src []byte) []byte {
	for i := 0; i < len(src); {
		j := bytes.IndexByte(src[i:], '\n')
		if j < 0 {
			j = len(src) - i
		}
		line := bytes.TrimSpace(src[i : i+j])
		if bytes.HasPrefix(line, []byte("package ")) {
			return src[:i]
		}
		i += j + 1
	}
	return src
}

func requires(x constraint.Expr, tag string) bool {
	switch x := x.(type) {
	case *constraint.TagExpr:
		return x.Tag == tag
	case *constraint.AndExpr:
		return requires(x.X, tag) || requires(x.Y, tag)
	case *constraint.OrExpr:
		return requires(x.X, tag) && requires(x.Y, tag)
	default:
		return false
	}
}

// negate flips every occurrence of tag in x.
func negate(x constraint.Expr, tag string) constraint.Expr {
	switch x := x.(type) {
	case *constraint.TagExpr:
		if x.Tag == tag {
			return &constraint.NotExpr{X: x}
		}
		return x
	case *constraint.NotExpr:
		if t, ok := x.X.(*constraint.TagExpr); ok && t.Tag == tag {
			return t
		}
		return &constraint.NotExpr{X: negate(x.X, tag)}
	case *constraint.AndExpr:
		return &constraint.AndExpr{X: negate(x.X, tag), Y: negate(x.Y, tag)}
	case *constraint.OrExpr:
		return &constraint.OrExpr{X: negate(x.X, tag), Y: negate(x.Y, tag)}
	default:
		return x
	}
}

func constraintEdits(file *ast.File, o *Options, offset func(token.Pos) int, guarded bool, log *zap.Logger) (v []edit) {
	found := false
	for _, g := range file.Comments {
		if g.Pos() >= file.Package {
			break
		}
		for _, c := range g.List {
			switch {
			case constraint.IsGoBuild(c.Text):
				x, err := constraint.Parse(c.Text)
				if err != nil {
					log.Warn("keep unparsable build constraint", zap.String("line", c.Text), zap.Error(err))
					continue
				}
				found = true
				v = append(v, edit{offset(c.Pos()), offset(c.End()), "//go:build " + negate(x, o.Tag).String()})
			case constraint.IsPlusBuild(c.Text):
				v = append(v, edit{offset(c.Pos()), offset(c.End()), ""})
			}
		}
	}
	if !found && guarded {
		log.Warn("source has no build constraint, the generated file will conflict with it", zap.String("tag", o.Tag))
	}
	v = append(v, edit{0, 0, Header + "\n\n"})
	return
}

func apply(src []byte, edits []edit) []byte {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].start > edits[j].start
	})
	out := append([]byte(nil), src...)
	for _, e := range edits {
		x := make([]byte, 0, len(out)-(e.end-e.start)+len(e.text))
		x = append(x, out[:e.start]...)
		x = append(x, e.text...)
		x = append(x, out[e.end:]...)
		out = x
	}
	return out
}

// finish fixes imports of the rewritten code and formats it.
func finish(filename string, code []byte, transforms []*Transform, n naming) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, code, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("reparse generated %s: %w", filename, err)
	}
	for _, t := range transforms {
		name := ""
		switch {
		case t.Import == "sync" && n.sync != "sync":
			name = n.sync
		case t.Import != "sync" && n.shim != path.Base(t.Import):
			name = n.shim
		}
		astutil.AddNamedImport(fset, file, name, t.Import)
	}
	for _, spec := range append([]*ast.ImportSpec(nil), file.Imports...) {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		} else if base := path.Base(p); !token.IsIdentifier(base) || majorVersion.MatchString(base) {
			// the package name can not be guessed from the path
			continue
		}
		if name == "_" || name == "." {
			continue
		}
		if !astutil.UsesImport(file, p) {
			astutil.DeleteNamedImport(fset, file, name, p)
		}
	}
	b := new(bytes.Buffer)
	if err = format.Node(b, fset, file); err != nil {
		return nil, fmt.Errorf("format generated %s: %w", filename, err)
	}
	return b.Bytes(), nil
}

// namesOf resolves the local names the emitted code uses for its imports.
func namesOf(file *ast.File, o *Options) naming {
	n := naming{shim: path.Base(o.ShimPath), sync: "sync"}
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || spec.Name == nil || spec.Name.Name == "_" || spec.Name.Name == "." {
			continue
		}
		switch p {
		case "sync":
			n.sync = spec.Name.Name
		case o.ShimPath:
			n.shim = spec.Name.Name
		}
	}
	return n
}

// packageScope collects the package level names declared in a file.
func packageScope(file *ast.File) map[string]token.Pos {
	v := make(map[string]token.Pos)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				v[d.Name.Name] = d.Name.Pos()
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, name := range s.Names {
						v[name.Name] = name.Pos()
					}
				case *ast.TypeSpec:
					v[s.Name.Name] = s.Name.Pos()
				}
			}
		}
	}
	return v
}

// collisions reports names of the emitted code which resolve to something else.
func collisions(fset *token.FileSet, fd *ast.FuncDecl, d *Directive, t *Transform, declared map[string]token.Pos) (err error) {
	for _, name := range t.Names {
		if _, ok := declared[name]; ok {
			err = multierr.Append(err, diag(fset.Position(fd.Name.Pos()), "slot name %q already declared", name))
		}
	}
	free := freeNames(d.Resolver)
	for _, field := range fd.Type.Params.List {
		for _, name := range field.Names {
			switch {
			case free[name.Name]:
				err = multierr.Append(err, diag(fset.Position(name.Pos()), "parameter %q shadows the resolver", name.Name))
			case slices.Contains(t.Names, name.Name):
				err = multierr.Append(err, diag(fset.Position(name.Pos()), "parameter %q shadows the slot", name.Name))
			}
		}
	}
	return
}

// freeNames collects the identifiers x refers to, selected fields and function literals excluded.
func freeNames(x ast.Expr) map[string]bool {
	v := make(map[string]bool)
	ast.Inspect(x, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.SelectorExpr:
			ast.Inspect(n.X, func(n ast.Node) bool {
				if id, ok := n.(*ast.Ident); ok {
					v[id.Name] = true
				}
				return true
			})
			return false
		case *ast.FuncLit:
			return false
		case *ast.Ident:
			v[n.Name] = true
		}
		return true
	})
	return v
}

// fileMode applies a //indirect:mode=<mode> line placed before the package clause.
func fileMode(fset *token.FileSet, file *ast.File, o *Options) (*Options, error) {
	for _, g := range file.Comments {
		if g.Pos() >= file.Package {
			break
		}
		for _, c := range g.List {
			v, ok := strings.CutPrefix(c.Text, ModePrefix)
			if !ok {
				continue
			}
			v = strings.TrimSpace(v)
			m, err := ParseMode(v)
			if err != nil || v == "" {
				return nil, diag(fset.Position(c.Slash), "mode must be %q or %q", ModeShim, ModeSync)
			}
			if m != o.Mode {
				x := *o
				x.Mode = m
				o = &x
				o.Logger.Debug("file mode", zap.String("mode", string(m)))
			}
			return o, nil
		}
	}
	return o, nil
}
