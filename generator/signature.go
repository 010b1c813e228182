package generator

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"strings"

	"go.uber.org/multierr"
)

type (
	// Param is a named parameter of a transformed function.
	Param struct {
		Name string
		Type string // as printed, variadic parameters keep the ... form
	}
	// Signature describes the parameters and results of a transformed function.
	Signature struct {
		Name     string
		Params   []Param
		Results  []string // result types, one per result, named results expanded
		Variadic bool
	}
)

// ExtractSignature walks the declaration parameters and results.
//
// Parameters must be simple named bindings: unnamed and blank parameters can not be forwarded.
// Methods and generic functions are rejected.
func ExtractSignature(fset *token.FileSet, decl *ast.FuncDecl) (sig *Signature, err error) {
	if decl.Recv != nil {
		return nil, diag(fset.Position(decl.Recv.Pos()), "functions with receivers are not supported")
	}
	if decl.Type.TypeParams != nil && decl.Type.TypeParams.NumFields() > 0 {
		return nil, diag(fset.Position(decl.Type.TypeParams.Pos()), "generic functions are not supported")
	}
	if decl.Name.Name == "init" {
		return nil, diag(fset.Position(decl.Name.Pos()), "init functions are not supported")
	}
	sig = &Signature{Name: decl.Name.Name}
	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			if len(field.Names) == 0 {
				err = multierr.Append(err, diag(fset.Position(field.Pos()), "only named arguments are supported"))
				continue
			}
			typ := exprString(fset, field.Type)
			if _, ok := field.Type.(*ast.Ellipsis); ok {
				sig.Variadic = true
			}
			for _, name := range field.Names {
				if name.Name == "_" {
					err = multierr.Append(err, diag(fset.Position(name.Pos()), "only named arguments are supported"))
					continue
				}
				sig.Params = append(sig.Params, Param{Name: name.Name, Type: typ})
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if decl.Type.Results != nil {
		for _, field := range decl.Type.Results.List {
			typ := exprString(fset, field.Type)
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				sig.Results = append(sig.Results, typ)
			}
		}
	}
	return
}

// Header renders the declaration header: func name(params) results.
func (s *Signature) Header() string {
	b := new(strings.Builder)
	b.WriteString("func ")
	b.WriteString(s.Name)
	b.WriteString("(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(" ")
		b.WriteString(p.Type)
	}
	b.WriteString(")")
	b.WriteString(s.results())
	return b.String()
}

// FuncType renders the function type a resolver must return for this signature.
func (s *Signature) FuncType() string {
	b := new(strings.Builder)
	b.WriteString("func(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type)
	}
	b.WriteString(")")
	b.WriteString(s.results())
	return b.String()
}

func (s *Signature) results() string {
	switch len(s.Results) {
	case 0:
		return ""
	case 1:
		return " " + s.Results[0]
	default:
		return " (" + strings.Join(s.Results, ", ") + ")"
	}
}

// Arguments renders the forwarded arguments in declaration order.
func (s *Signature) Arguments() string {
	b := new(strings.Builder)
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
	}
	if s.Variadic {
		b.WriteString("...")
	}
	return b.String()
}

// Returns reports whether the function has results.
func (s *Signature) Returns() bool {
	return len(s.Results) > 0
}

func exprString(fset *token.FileSet, x ast.Expr) string {
	b := new(bytes.Buffer)
	_ = printer.Fprint(b, fset, x)
	return b.String()
}
