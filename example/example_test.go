package example

import (
	"sync"
	"testing"

	"github.com/ZenLiuCN/indirect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHello(t *testing.T) {
	assert.Equal(t, int32(11), HelloWorld(10))
	assert.Equal(t, int32(9), HelloHello(10))
	for i := int32(0); i < 3; i++ {
		assert.Equal(t, i+1, HelloWorld(i))
	}
}

func TestFoo(t *testing.T) {
	ok, n := Foo(1, 2, true)
	assert.True(t, ok)
	assert.Equal(t, int32(3), n)
	ok, n = Foo(1, 2, false)
	assert.False(t, ok)
	assert.Equal(t, int32(2), n)
}

func TestCounted(t *testing.T) {
	assert.Equal(t, 2, Counted(1))
	assert.Equal(t, 3, Counted(2))
	assert.Equal(t, 1, Resolutions)
}

func TestFrozen(t *testing.T) {
	assert.Equal(t, int32(2), Frozen(1))
	Current = decr
	defer func() { Current = incr }()
	assert.Equal(t, int32(2), Frozen(1), "the first resolution stays")
}

func TestConcurrentResolution(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Slow("go")
		}()
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, "slow go", r)
	}
	assert.Equal(t, 1, Shared)
}

func TestPoisoned(t *testing.T) {
	for range 3 {
		func() {
			defer func() {
				err, ok := recover().(error)
				require.True(t, ok)
				assert.ErrorIs(t, err, indirect.ErrPoisoned)
				assert.ErrorIs(t, err, ErrNoBackend)
			}()
			Broken()
		}()
	}
	assert.Equal(t, 1, Attempts)
}

func TestSyncMode(t *testing.T) {
	assert.Equal(t, "HEY", Shout("hey"))
	assert.Equal(t, "a-b-c", Join("-", "a", "b", "c"))
	assert.Equal(t, "", Join("-"))
}
