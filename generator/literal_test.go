package generator

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	r, err := Literal{Package: "main", Decl: "dog(param int32) int32 {}", Resolver: "foo"}.Generate(Options{})
	require.NoError(t, err)
	assert.Equal(t, "dog_indirect.go", r.Output)
	code := string(r.Code)
	assert.Contains(t, code, "func dog(param int32) int32 {")
	assert.Contains(t, code, "var _indirect_dog indirect.Slot[func(int32) int32]")
	assert.Contains(t, code, "})(param)")
	assert.NotContains(t, code, "go:build")
}

func TestLiteralUnit(t *testing.T) {
	r, err := Literal{Package: "main", Decl: "func bark(times int)", Resolver: "barker"}.Generate(Options{})
	require.NoError(t, err)
	code := string(r.Code)
	assert.Contains(t, code, "func bark(times int) {")
	assert.Contains(t, code, "\t_indirect_bark.Load(func() func(int) {")
}

func TestLiteralEquivalent(t *testing.T) {
	r, err := Literal{Package: "sample", Decl: "foo(one, two int32, really bool) (bool, int32)", Resolver: "pick"}.Generate(Options{})
	require.NoError(t, err)
	g, err := Generate(token.NewFileSet(), "foo.go", []byte(`package sample

//indirect:resolver="pick"
func foo(one, two int32, really bool) (bool, int32)
`), Options{})
	require.NoError(t, err)
	assert.Equal(t, string(g.Code), string(r.Code))
}

func TestLiteralErrors(t *testing.T) {
	tests := []struct {
		name string
		lit  Literal
		want string
	}{
		{"resolver expression", Literal{Package: "main", Decl: "dog(a int) int", Resolver: "pick()"}, "must be an identifier"},
		{"package", Literal{Package: "", Decl: "dog(a int) int", Resolver: "pick"}, "package"},
		{"syntax", Literal{Package: "main", Decl: "dog(a int", Resolver: "pick"}, ErrBadLiteral.Error()},
		{"body", Literal{Package: "main", Decl: "dog(a int) int { return a }", Resolver: "pick"}, "function header"},
		{"unnamed", Literal{Package: "main", Decl: "dog(int) int", Resolver: "pick"}, "only named arguments are supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.lit.Generate(Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
