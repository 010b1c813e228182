package dynamic

import (
	"bytes"
	"runtime"
	"testing"
	"unsafe"

	"github.com/ZenLiuCN/indirect"
	"github.com/pkujhd/goloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestUninitialized(t *testing.T) {
	d := NewDynamic(symbols{}, zaptest.NewLogger(t))
	defer d.Free(false)
	_, ok := d.Fetch("sample.Run")
	assert.False(t, ok)
	assert.PanicsWithValue(t, ErrUninitialized, func() { d.MustFetch("sample.Run") })
	assert.ErrorIs(t, d.Link(), ErrUninitialized)
	assert.ErrorIs(t, d.Serialize(&bytes.Buffer{}), ErrUninitialized)
	assert.Panics(t, func() { d.MissingSymbols() })
}

func TestResolverPoisons(t *testing.T) {
	d := NewDynamic(symbols{}, nil)
	calls := 0
	run := indirect.Lazy(func() func() string {
		calls++
		return Resolver[func() string](d, "sample.Run")()
	})
	for range 2 {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				assert.ErrorIs(t, err, indirect.ErrPoisoned)
				assert.ErrorIs(t, err, ErrUninitialized)
			}()
			run()
		}()
	}
	assert.Equal(t, 1, calls)
}

func TestMissingError(t *testing.T) {
	err := error(&MissingError{Symbol: checkPackage("Run")})
	assert.ErrorIs(t, err, ErrMissingSymbol)
	assert.Equal(t, "missing symbol: main.Run", err.Error())
	assert.Equal(t, "sample.Run", checkPackage("sample.Run"))
}

func TestAs(t *testing.T) {
	f := func() int { return 7 }
	// the first word of a func value points at its code address.
	code := **(**uintptr)(unsafe.Pointer(&f))
	assert.Equal(t, 7, As[func() int](symOf(code))())
}

//go:noinline
func answer() int { return 42 }

func churn(n int) uintptr {
	var pad [256]uintptr
	for i := range pad {
		pad[i] = uintptr(n + i)
	}
	if n == 0 {
		return pad[7]
	}
	return churn(n-1) + pad[n%256]&1
}

func TestResolvedSymbolOutlivesFetch(t *testing.T) {
	f := answer
	code := **(**uintptr)(unsafe.Pointer(&f))
	d := &dynamic{
		symbols: symbols{},
		module:  &goloader.CodeModule{Syms: map[string]uintptr{"sample.Answer": code}},
		log:     zaptest.NewLogger(t),
	}
	u, ok := d.Fetch("sample.Answer")
	require.True(t, ok)
	assert.Equal(t, code, *(*uintptr)(u))

	run := indirect.Lazy(Resolver[func() int](d, "sample.Answer"))
	assert.Equal(t, 42, run()())
	churn(64)
	runtime.GC()
	assert.Equal(t, 42, run()())

	_, ok = d.Fetch("sample.Missing")
	assert.False(t, ok)
	assert.PanicsWithError(t, "missing symbol: sample.Missing", func() { d.MustFetch("sample.Missing") })
}
