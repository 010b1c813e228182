package indirect

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incr(x int32) int32 {
	return x + 1
}

func decr(x int32) int32 {
	return x - 1
}

func TestSlotLoad(t *testing.T) {
	var s Slot[func(int32) int32]
	require.False(t, s.Resolved())
	assert.Equal(t, int32(11), s.Load(func() func(int32) int32 { return incr })(10))
	require.True(t, s.Resolved())
	assert.NoError(t, s.Poisoned())
}

func TestSlotFrozen(t *testing.T) {
	var s Slot[func(int32) int32]
	assert.Equal(t, int32(11), s.Load(func() func(int32) int32 { return incr })(10))
	assert.Equal(t, int32(11), s.Load(func() func(int32) int32 { return decr })(10))
}

func TestSlotRunsOnce(t *testing.T) {
	var s Slot[func(int32) int32]
	var n atomic.Int32
	chooser := func() func(int32) int32 {
		n.Add(1)
		return incr
	}
	assert.Equal(t, int32(2), s.Load(chooser)(1))
	assert.Equal(t, int32(3), s.Load(chooser)(2))
	assert.Equal(t, int32(1), n.Load())
}

func TestSlotConcurrent(t *testing.T) {
	var s Slot[func(int32) int32]
	var n atomic.Int32
	start := make(chan struct{})
	chooser := func() func(int32) int32 {
		n.Add(1)
		<-start
		return incr
	}
	var w sync.WaitGroup
	results := make([]int32, 32)
	for i := range results {
		w.Add(1)
		go func(i int) {
			defer w.Done()
			results[i] = s.Load(chooser)(int32(i))
		}(i)
	}
	close(start)
	w.Wait()
	assert.Equal(t, int32(1), n.Load())
	for i, r := range results {
		assert.Equal(t, int32(i+1), r)
	}
}

func TestSlotPoisoned(t *testing.T) {
	var s Slot[func(int32) int32]
	cause := errors.New("no implementation")
	var n int
	bad := func() func(int32) int32 {
		n++
		panic(cause)
	}
	load := func() (p any) {
		defer func() { p = recover() }()
		s.Load(bad)
		return
	}
	first := load()
	second := load()
	require.IsType(t, &PoisonError{}, first)
	assert.Same(t, first, second)
	err := first.(error)
	assert.ErrorIs(t, err, ErrPoisoned)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, n)
	assert.False(t, s.Resolved())
	assert.ErrorIs(t, s.Poisoned(), ErrPoisoned)
}

func TestSlotGoexit(t *testing.T) {
	var s Slot[func(int32) int32]
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Load(func() func(int32) int32 {
			runtime.Goexit()
			return incr
		})
	}()
	<-done
	assert.False(t, s.Resolved())
	err := s.Poisoned()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPoisoned)
	assert.ErrorIs(t, err, ErrGoexit)
	assert.PanicsWithValue(t, err, func() {
		s.Load(func() func(int32) int32 { return incr })(1)
	})
}

func TestPoisonErrorNonError(t *testing.T) {
	p := &PoisonError{Value: "boom"}
	assert.Nil(t, p.Unwrap())
	assert.Equal(t, "indirect: resolver panicked: boom", p.Error())
}
