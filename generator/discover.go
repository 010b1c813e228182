package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// Discover lists the generator sources below dir: .go files, tests excluded, whose //go:build line requires tag.
//
// Hidden directories, vendor and testdata are skipped. Only dir itself is scanned unless recursive.
func Discover(dir string, recursive bool, tag string) (files []string, err error) {
	if tag == "" {
		tag = DefaultTag
	}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if !recursive || skipped(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if IsSource(src, tag) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	return
}

func skipped(dir string) bool {
	return strings.HasPrefix(dir, ".") || strings.HasPrefix(dir, "_") || dir == "vendor" || dir == "testdata"
}

// ModuleGoVersion reads the go directive of the go.mod enclosing dir, empty when there is none.
func ModuleGoVersion(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		p := filepath.Join(dir, "go.mod")
		data, err := os.ReadFile(p)
		switch {
		case err == nil:
			f, err := modfile.ParseLax(p, data, nil)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", p, err)
			}
			if f.Go == nil {
				return "", nil
			}
			return f.Go.Version, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
