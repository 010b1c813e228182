package indirect

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doThingy(one, two int32, really bool) (bool, int32) {
	if really {
		return really, one + two
	}
	return really, two
}

func TestLazy(t *testing.T) {
	var n atomic.Int32
	get := Lazy(func() func(int32, int32, bool) (bool, int32) {
		n.Add(1)
		return doThingy
	})
	ok, v := get()(1, 2, true)
	assert.True(t, ok)
	assert.Equal(t, int32(3), v)
	ok, v = get()(1, 2, false)
	assert.False(t, ok)
	assert.Equal(t, int32(2), v)
	assert.Equal(t, int32(1), n.Load())
}

func TestFunc1(t *testing.T) {
	dog := Func1(func() func(int32) int32 { return incr })
	assert.Equal(t, int32(42), dog(41))
}

func TestFuncN(t *testing.T) {
	assert.Equal(t, "x", Func0(func() func() string { return func() string { return "x" } })())
	assert.Equal(t, 3, Func2(func() func(int, int) int { return func(a, b int) int { return a + b } })(1, 2))
	assert.Equal(t, 6, Func3(func() func(int, int, int) int { return func(a, b, c int) int { return a * b * c } })(1, 2, 3))
}

func TestProcN(t *testing.T) {
	var got []int
	Proc0(func() func() { return func() { got = append(got, 0) } })()
	Proc1(func() func(int) { return func(a int) { got = append(got, a) } })(1)
	Proc2(func() func(int, int) { return func(a, b int) { got = append(got, a+b) } })(1, 1)
	Proc3(func() func(int, int, int) { return func(a, b, c int) { got = append(got, a+b+c) } })(1, 1, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}
