package generator

import (
	"errors"
	"fmt"
	"go/token"

	"go.uber.org/multierr"
)

var (
	// ErrNotSource occurs when a file is not guarded by the generator build tag.
	ErrNotSource = errors.New("not a generator source")
	// ErrStale occurs when a generated file differs from what the generator would write now.
	ErrStale = errors.New("generated file is stale")
	// ErrBadLiteral occurs when a literal function declaration can not be parsed.
	ErrBadLiteral = errors.New("bad literal declaration")
)

// Diagnostic is a transformation failure located at the offending token.
type Diagnostic struct {
	Pos token.Position
	Msg string
}

func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", d.Pos, d.Msg)
	}
	return d.Msg
}

func diag(pos token.Position, format string, args ...any) error {
	return &Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Diagnostics flattens err into its diagnostics, errors which are not a *Diagnostic are wrapped into one without position.
func Diagnostics(err error) (v []*Diagnostic) {
	for _, e := range multierr.Errors(err) {
		var d *Diagnostic
		if errors.As(e, &d) {
			v = append(v, d)
		} else {
			v = append(v, &Diagnostic{Msg: e.Error()})
		}
	}
	return
}
