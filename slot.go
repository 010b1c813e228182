package indirect

import (
	"sync"
	"sync/atomic"
)

const (
	empty uint32 = iota
	resolved
	poisoned
)

type (
	// Slot holds a function value resolved at most once for the lifetime of the process.
	//
	// The zero value is an empty slot ready to use. Generated code declares one package level Slot per transformed function:
	//
	//	var _indirect_helloWorld indirect.Slot[func(int32) int32]
	//
	//	func helloWorld(arg int32) int32 {
	//		return _indirect_helloWorld.Load(func() func(int32) int32 {
	//			return foo()
	//		})(arg)
	//	}
	//
	// Note:
	//
	//	1. The resolver must not call, directly or transitively, the function it is resolving: the guard is not reentrant and such a call deadlocks.
	//	2. A resolver that never returns blocks every caller forever, there is no timeout.
	//	3. A resolver that panics or calls runtime.Goexit poisons the slot, see [PoisonError].
	Slot[F any] struct {
		once   sync.Once
		fn     F
		poison *PoisonError
		state  atomic.Uint32
	}
)

// Load returns the cached function, running resolve first when the slot is still empty.
//
// Concurrent first callers block until the single running resolve returns.
// Every later call, whatever resolve it passes, returns the function stored by the first one.
// Load panics with a *PoisonError when the resolution panicked or exited its goroutine.
func (s *Slot[F]) Load(resolve func() F) F {
	s.once.Do(func() {
		normal := false
		defer func() {
			// runtime.Goexit skips the assignment below but still completes the once.
			if !normal {
				s.poison = &PoisonError{Value: ErrGoexit}
				s.state.Store(poisoned)
			}
		}()
		s.fn, s.poison = call(resolve)
		normal = true
		if s.poison != nil {
			s.state.Store(poisoned)
		} else {
			s.state.Store(resolved)
		}
	})
	if s.poison != nil {
		panic(s.poison)
	}
	return s.fn
}

// Resolved reports whether the slot holds a function.
func (s *Slot[F]) Resolved() bool {
	return s.state.Load() == resolved
}

// Poisoned returns the failure of the resolution, or nil when the slot is empty or resolved.
func (s *Slot[F]) Poisoned() error {
	if s.state.Load() != poisoned {
		return nil
	}
	return s.poison
}

func call[F any](resolve func() F) (f F, p *PoisonError) {
	defer func() {
		if r := recover(); r != nil {
			p = &PoisonError{Value: r}
		}
	}()
	f = resolve()
	return
}
