//go:build indirect

package example

import (
	"errors"
	"time"
)

//go:generate go run github.com/ZenLiuCN/indirect/indirect-gen generate hello.go

func incr(x int32) int32 { return x + 1 }

func decr(x int32) int32 { return x - 1 }

func sum(one, two int32, really bool) (bool, int32) {
	if really {
		return true, one + two
	}
	return false, two
}

func increment() func(int32) int32 { return incr }

func decrement() func(int32) int32 { return decr }

func summing() func(int32, int32, bool) (bool, int32) { return sum }

// HelloWorld adds one to arg.
//
//indirect:resolver="increment"
func HelloWorld(arg int32) int32 {
	return arg
}

// HelloHello subtracts one from arg.
//
//indirect:resolver="decrement"
func HelloHello(arg int32) int32 {
	return arg
}

// Foo sums one and two when really is set.
//
//indirect:resolver="summing"
func Foo(one, two int32, really bool) (bool, int32) {
	return false, 0
}

// Resolutions counts the resolutions of Counted.
var Resolutions int

func counting() func(int) int {
	Resolutions++
	return func(x int) int { return x + 1 }
}

// Counted adds one to x.
//
//indirect:resolver="counting"
func Counted(x int) int {
	return x
}

// Current is resolved by Frozen on its first call.
var Current = incr

func current() func(int32) int32 {
	return Current
}

// Frozen calls Current as it was on the first call.
//
//indirect:resolver="current"
func Frozen(arg int32) int32 {
	return arg
}

// Shared counts the resolutions of Slow.
var Shared int

func slow() func(string) string {
	time.Sleep(10 * time.Millisecond)
	Shared++
	return func(s string) string { return "slow " + s }
}

// Slow greets s, its resolution takes a while.
//
//indirect:resolver="slow"
func Slow(s string) string {
	return s
}

// ErrNoBackend is the panic value of the resolver of Broken.
var ErrNoBackend = errors.New("no backend")

// Attempts counts the resolutions of Broken.
var Attempts int

func broken() func() string {
	Attempts++
	panic(ErrNoBackend)
}

// Broken never resolves.
//
//indirect:resolver="broken"
func Broken() string {
	return ""
}
