package generator

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Files generates every source, diagnostics of all files are combined in the returned error.
func Files(files []string, opts Options) (v []*Result, err error) {
	o := opts.normalize()
	fset := token.NewFileSet()
	for _, file := range files {
		src, e := os.ReadFile(file)
		if e != nil {
			err = multierr.Append(err, e)
			continue
		}
		r, e := generate(fset, file, src, o, true)
		if e != nil {
			err = multierr.Append(err, e)
			continue
		}
		o.Logger.Debug("generated", zap.String("source", file), zap.String("output", r.Output), zap.Int("transforms", len(r.Transforms)))
		v = append(v, r)
	}
	return
}

// Write stores the generated code, skipping the write when the output already holds it.
func (r *Result) Write() (written bool, err error) {
	old, err := os.ReadFile(r.Output)
	if err == nil && bytes.Equal(old, r.Code) {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err = os.WriteFile(r.Output, r.Code, 0644); err != nil {
		return false, err
	}
	return true, nil
}

// Diff compares the output file with the generated code line by line.
//
// It returns an empty string when they are equal, otherwise the changed lines prefixed with "- " for lines to remove
// and "+ " for lines to add, and an error matching [ErrStale].
func (r *Result) Diff() (string, error) {
	old, err := os.ReadFile(r.Output)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if bytes.Equal(old, r.Code) {
		return "", nil
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(old), string(r.Code))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	s := new(strings.Builder)
	for _, d := range diffs {
		prefix := ""
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			s.WriteString(prefix)
			s.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				s.WriteString("\n")
			}
		}
	}
	return s.String(), fmt.Errorf("%w: %s", ErrStale, r.Output)
}
