package indirect

import (
	"errors"
	"fmt"
)

var (
	// ErrPoisoned matches every *PoisonError with [errors.Is].
	ErrPoisoned = errors.New("indirect: resolver panicked")
	// ErrGoexit is the cause of a PoisonError when the resolver ended its goroutine with runtime.Goexit.
	ErrGoexit = errors.New("indirect: resolver called runtime.Goexit")
)

// PoisonError is the panic value of every call through a slot whose resolver panicked.
//
// The resolver never runs again after the failure: the first caller and all later callers observe the same PoisonError.
type PoisonError struct {
	Value any // the value recovered from the resolver
}

func (p *PoisonError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPoisoned, p.Value)
}

func (p *PoisonError) Is(target error) bool {
	return target == ErrPoisoned
}

// Unwrap returns the recovered value when it is an error.
func (p *PoisonError) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}
