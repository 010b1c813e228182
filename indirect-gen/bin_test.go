package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const source = `//go:build indirect

package sample

func pick() func(int) int {
	return func(x int) int { return x + 1 }
}

//indirect:resolver="pick"
func incr(x int) int
`

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	a := app()
	o, e := new(bytes.Buffer), new(bytes.Buffer)
	a.Writer, a.ErrWriter = o, e
	a.ExitErrHandler = func(*cli.Context, error) {}
	err = a.Run(append([]string{"indirect-gen"}, args...))
	return o.String(), e.String(), err
}

func sourceDir(t *testing.T, content string) string {
	dir := t.TempDir()
	fn.Panic(os.WriteFile(filepath.Join(dir, "sample.go"), []byte(content), 0644))
	return dir
}

func TestGenerateCheck(t *testing.T) {
	dir := sourceDir(t, source)
	out := filepath.Join(dir, "sample_indirect.go")

	stdout, _, err := run(t, "check", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "--- "+out)
	assert.Contains(t, stdout, "+ //go:build !indirect\n")

	_, _, err = run(t, "generate", dir)
	require.NoError(t, err)
	code := string(fn.Panic1(os.ReadFile(out)))
	assert.Contains(t, code, "var _indirect_incr indirect.Slot[func(int) int]")

	stdout, _, err = run(t, "check", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestGenerateSync(t *testing.T) {
	dir := sourceDir(t, source)
	_, _, err := run(t, "--mode", "sync", "--go", "1.20", "generate", filepath.Join(dir, "sample.go"))
	require.NoError(t, err)
	code := string(fn.Panic1(os.ReadFile(filepath.Join(dir, "sample_indirect.go"))))
	assert.Contains(t, code, "_indirect_incr_once sync.Once")
}

func TestGenerateDiagnostics(t *testing.T) {
	dir := sourceDir(t, "//go:build indirect\n\npackage sample\n\n//indirect:resolver=\"pick\"\nfunc incr(int) int\n")
	_, stderr, err := run(t, "generate", dir)
	require.Error(t, err)
	assert.Contains(t, stderr, filepath.Join(dir, "sample.go")+":6:11: only named arguments are supported")
	assert.NoFileExists(t, filepath.Join(dir, "sample_indirect.go"))
}

func TestGenerateNotSource(t *testing.T) {
	dir := sourceDir(t, "package sample\n")
	_, stderr, err := run(t, "generate", filepath.Join(dir, "sample.go"))
	require.Error(t, err)
	assert.Contains(t, stderr, "not a generator source")
}

func TestLiteral(t *testing.T) {
	stdout, _, err := run(t, "fn", "-r", "foo", "-o", "-", "dog(param int32) int32")
	require.NoError(t, err)
	assert.Contains(t, stdout, "package main")
	assert.Contains(t, stdout, "func dog(param int32) int32 {")
}

func TestInspect(t *testing.T) {
	dir := sourceDir(t, source)
	stdout, _, err := run(t, "inspect", filepath.Join(dir, "sample.go"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "incr resolver=pick")
	assert.Contains(t, stdout, `FuncType: (string) (len=13) "func(int) int"`)
}

func TestCheckExample(t *testing.T) {
	stdout, stderr, err := run(t, "check", filepath.Join("..", "example"))
	require.NoError(t, err, stderr)
	assert.Empty(t, stdout)
}
