package generator

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

// SlotPrefix prefixes the package level slot of a transformed function.
const SlotPrefix = "_indirect_"

// Transform is the synthesized replacement of one function.
type Transform struct {
	Signature *Signature
	Resolver  string   // resolver expression, parenthesized when required by the call form
	Slot      string   // name of the package level slot
	Body      string   // replacement body, braces included
	Decl      string   // slot declaration emitted after the function
	Import    string   // import path the emitted code requires
	Names     []string // package level names the slot declaration introduces
}

// naming of the imports the emitted code refers to
type naming struct {
	shim string // local name of the shim package
	sync string // local name of package sync
}

// Synthesize builds the replacement body and slot declaration of a function.
func Synthesize(sig *Signature, resolver ast.Expr, o *Options, n naming) *Transform {
	t := &Transform{
		Signature: sig,
		Resolver:  callable(resolver),
		Slot:      SlotPrefix + sig.Name,
	}
	fnType := sig.FuncType()
	ret := ""
	if sig.Returns() {
		ret = "return "
	}
	args := sig.Arguments()
	switch {
	case o.Mode == ModeSync && o.onceValue():
		t.Import = "sync"
		t.Decl = fmt.Sprintf("var %s = %s.OnceValue(func() %s {\n\treturn %s()\n})",
			t.Slot, n.sync, fnType, t.Resolver)
		t.Body = fmt.Sprintf("{\n\t%s%s()(%s)\n}", ret, t.Slot, args)
		t.Names = []string{t.Slot}
	case o.Mode == ModeSync:
		t.Import = "sync"
		t.Decl = fmt.Sprintf("var (\n\t%s %s\n\t%s_once %s.Once\n)",
			t.Slot, fnType, t.Slot, n.sync)
		t.Body = fmt.Sprintf("{\n\t%s_once.Do(func() {\n\t\t%s = %s()\n\t})\n\t%s%s(%s)\n}",
			t.Slot, t.Slot, t.Resolver, ret, t.Slot, args)
		t.Names = []string{t.Slot, t.Slot + "_once"}
	default:
		t.Import = o.ShimPath
		t.Decl = fmt.Sprintf("var %s %s.Slot[%s]", t.Slot, n.shim, fnType)
		t.Body = fmt.Sprintf("{\n\t%s%s.Load(func() %s {\n\t\treturn %s()\n\t})(%s)\n}",
			ret, t.Slot, fnType, t.Resolver, args)
		t.Names = []string{t.Slot}
	}
	return t
}

// Render prints the transformed declaration with its slot, as a standalone source fragment.
func (t *Transform) Render() string {
	b := new(strings.Builder)
	b.WriteString(t.Signature.Header())
	b.WriteString(" ")
	b.WriteString(t.Body)
	b.WriteString("\n\n")
	b.WriteString(t.Decl)
	b.WriteString("\n")
	return b.String()
}

// callable renders x so that appending () calls the value x denotes.
func callable(x ast.Expr) string {
	s := exprString(token.NewFileSet(), x)
	switch x.(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.CallExpr, *ast.IndexExpr, *ast.IndexListExpr, *ast.ParenExpr:
		return s
	default:
		return "(" + s + ")"
	}
}
