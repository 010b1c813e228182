package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"go.uber.org/multierr"
)

// Found is an annotated declaration as seen by the generator.
type Found struct {
	Func      string
	Directive *Directive
	Signature *Signature
	FuncType  string
}

// Inspect lists the annotated declarations of a source without generating anything.
func Inspect(fset *token.FileSet, filename string, src []byte) (v []*Found, err error) {
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
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
		f := &Found{Func: fd.Name.Name, Directive: d}
		if f.Signature, e = ExtractSignature(fset, fd); e != nil {
			err = multierr.Append(err, e)
		} else {
			f.FuncType = f.Signature.FuncType()
		}
		v = append(v, f)
	}
	return
}
