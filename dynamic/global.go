package dynamic

import (
	"sync"

	"github.com/pkujhd/goloader"
)

var (
	mu sync.RWMutex
	// runtime symbols are registered on first use, not at package init.
	globals = sync.OnceValues(func() (map[string]uintptr, error) {
		g := make(map[string]uintptr)
		if err := goloader.RegSymbol(g); err != nil {
			return nil, err
		}
		return g, nil
	})
)

func global(f func(g map[string]uintptr) error) error {
	g, err := globals()
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return f(g)
}

// UseGlobalSo register symbols of a shared object into the global symbols.
func UseGlobalSo(p string) error {
	return global(func(g map[string]uintptr) error {
		return goloader.RegSymbolWithSo(g, p)
	})
}

// UseGlobalPath register symbols of an executable into the global symbols.
func UseGlobalPath(p string) error {
	return global(func(g map[string]uintptr) error {
		return goloader.RegSymbolWithPath(g, p)
	})
}

// UseGlobalTypes register types into the global symbols, which lets object files refer to them.
func UseGlobalTypes(p ...any) error {
	return global(func(g map[string]uintptr) error {
		goloader.RegTypes(g, p...)
		return nil
	})
}
