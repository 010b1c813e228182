package dynamic

import (
	"errors"
	"fmt"
	"maps"

	"github.com/ZenLiuCN/fn"
)

type (
	// Symbols is a symbol table used to link a Dynamic.
	Symbols interface {
		Symbols() []string // dump symbol names
	}
	symbols map[string]uintptr
)

// NewSymbols create a Symbols with global symbols.
func NewSymbols() (Symbols, error) {
	g, err := globals()
	if err != nil {
		return nil, err
	}
	mu.RLock()
	defer mu.RUnlock()
	return symbols(maps.Clone(g)), nil
}

// Symbols dump symbol names inside Symbol
func (s symbols) Symbols() []string {
	return fn.MapKeys(s)
}

var (
	// ErrMissingSymbol occurs when can't found a symbol.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrAlreadyInitialized occurs when a Dynamic reinitializing.
	ErrAlreadyInitialized = errors.New("already initialized dynamic")
	// ErrLinked occurs when a Dynamic relinking.
	ErrLinked = errors.New("already linked")
	// ErrUninitialized occurs use or link a Dynamic before initialized.
	ErrUninitialized = errors.New("module not initialized")
)

// MissingError names the symbol a Dynamic could not provide.
type MissingError struct {
	Symbol string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingSymbol, e.Symbol)
}

func (e *MissingError) Is(target error) bool {
	return target == ErrMissingSymbol
}
