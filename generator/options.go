package generator

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// Mode selects the once primitive emitted into transformed functions.
type Mode string

const (
	// ModeShim emits an indirect.Slot, a resolver panic poisons the slot.
	ModeShim Mode = "shim"
	// ModeSync emits only package sync: sync.OnceValue from go 1.21, a sync.Once and a func variable before.
	ModeSync Mode = "sync"
)

const (
	// DefaultTag is the build tag guarding generator sources.
	DefaultTag = "indirect"
	// DefaultSuffix is appended to the source file name, before .go, to name the generated file.
	DefaultSuffix = "_indirect"
	// DefaultShimPath is the import path of the runtime shim.
	DefaultShimPath = "github.com/ZenLiuCN/indirect"
	// Header marks generated files.
	Header = "// Code generated by indirect-gen. DO NOT EDIT."
)

var onceValueSince = semver.MustParse("1.21.0")

// Options configures the generator, the zero value uses every default.
type Options struct {
	Tag       string
	Suffix    string
	Mode      Mode
	GoVersion string // go directive of the target module, empty for the running toolchain level
	ShimPath  string
	Logger    *zap.Logger
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case "", ModeShim:
		return ModeShim, nil
	case ModeSync:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q, expected %q or %q", s, ModeShim, ModeSync)
	}
}

func (o Options) normalize() *Options {
	if o.Tag == "" {
		o.Tag = DefaultTag
	}
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if o.Mode == "" {
		o.Mode = ModeShim
	}
	if o.ShimPath == "" {
		o.ShimPath = DefaultShimPath
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &o
}

// onceValue reports whether the target go version has sync.OnceValue.
func (o *Options) onceValue() bool {
	if o.GoVersion == "" {
		return true
	}
	v, err := semver.NewVersion(strings.TrimPrefix(o.GoVersion, "go"))
	if err != nil {
		o.Logger.Warn("unparsable go version, assume sync.OnceValue is available", zap.String("version", o.GoVersion), zap.Error(err))
		return true
	}
	return !v.LessThan(onceValueSince)
}

// Output names the generated file of a source file.
func (o Options) Output(file string) string {
	n := o.normalize()
	return strings.TrimSuffix(file, ".go") + n.Suffix + ".go"
}
