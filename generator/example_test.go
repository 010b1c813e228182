package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleUpToDate(t *testing.T) {
	dir := filepath.Join("..", "example")
	v, err := ModuleGoVersion(dir)
	require.NoError(t, err)
	files, err := Discover(dir, false, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "hello.go"), filepath.Join(dir, "once.go")}, files)
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			rs, err := Files([]string{file}, Options{GoVersion: v})
			require.NoError(t, err)
			require.Len(t, rs, 1)
			want, err := os.ReadFile(rs[0].Output)
			require.NoError(t, err)
			assert.Equal(t, string(want), string(rs[0].Code))
			d, err := rs[0].Diff()
			require.NoError(t, err)
			assert.Empty(t, d)
		})
	}
}
