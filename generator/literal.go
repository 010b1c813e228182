package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// Literal is a transformed function given by plain text rather than by an annotated declaration.
type Literal struct {
	Package  string // package clause of the output
	Decl     string // name(params) results, an optional empty body {} is accepted
	Resolver string // identifier of the resolver
}

// Generate emits a standalone file holding the transformed function.
//
// The output equals what [Generate] emits for the declaration annotated with //indirect:resolver="<Resolver>".
func (l Literal) Generate(opts Options) (*Result, error) {
	o := opts.normalize()
	if !token.IsIdentifier(l.Resolver) {
		return nil, fmt.Errorf("%w: resolver %q must be an identifier", ErrBadLiteral, l.Resolver)
	}
	if !token.IsIdentifier(l.Package) {
		return nil, fmt.Errorf("%w: package %q must be an identifier", ErrBadLiteral, l.Package)
	}
	decl := strings.TrimSpace(l.Decl)
	decl = strings.TrimPrefix(decl, "func ")
	decl = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(decl), "{}"))
	src := fmt.Sprintf("package %s\n\n%sresolver=%s\nfunc %s\n", l.Package, Prefix, strconv.Quote(l.Resolver), decl)
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadLiteral, err)
	}
	if len(file.Decls) != 1 {
		return nil, fmt.Errorf("%w: expect one function declaration, got %d", ErrBadLiteral, len(file.Decls))
	}
	fd, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok || fd.Body != nil {
		return nil, fmt.Errorf("%w: expect a function header like name(a int) int", ErrBadLiteral)
	}
	name := fd.Name.Name + ".go"
	r, err := generate(token.NewFileSet(), name, []byte(src), o, false)
	if err != nil {
		return nil, err
	}
	r.Source = ""
	return r, nil
}
