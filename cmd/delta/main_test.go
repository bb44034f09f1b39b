package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in an empty working directory with the
// memory backend.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("DELTA_STORE", "memory")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func program(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.delta")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `^delta version \d+\.\d+\.\d+\n$`, out)
}

func TestEval(t *testing.T) {
	out, err := execute(t, "eval", "--set", "x=4", "x * 2 > 5")
	require.NoError(t, err)
	assert.Equal(t, "8 > 5\ntrue\n", out)
}

func TestEval_SyntaxError(t *testing.T) {
	_, err := execute(t, "eval", "(1 +")
	assert.ErrorContains(t, err, "syntax error")
}

func TestLines(t *testing.T) {
	out, err := execute(t, "lines", program(t, "print \"1\"\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "   0  print 1\n")
	assert.Contains(t, out, "   1  +\n")
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "graph", program(t, "print \"1\"\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, `L0>"print 1"]`)
}

func TestShow_StoredDefault(t *testing.T) {
	out, err := execute(t, "show", "--raw", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "# Even or odd")
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", program(t, "print \"1\"\n"))
	require.NoError(t, err)
	assert.Contains(t, out, ": valid\n")

	_, err = execute(t, "validate", program(t, "print \"1 +\"\n"))
	assert.ErrorContains(t, err, "validation failed")
}

func TestSync_NoRemote(t *testing.T) {
	_, err := execute(t, "sync")
	assert.ErrorContains(t, err, "no remote configured")
}

func TestRun_Headless(t *testing.T) {
	out, err := execute(t, "run", "--headless", program(t, "input \"n\" default \"5\"\nprint \"n * n\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "25\n", out)
}

func TestRun_LogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "delta.log")
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("log-file", "")
		_ = rootCmd.PersistentFlags().Set("log-level", "")
	})

	out, err := execute(t, "run", "--headless", "--log-level", "debug", "--log-file", logFile, program(t, `print "1"`))
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"stack ready"`)
}

func TestConfig_UnknownBackend(t *testing.T) {
	_, err := execute(t, "version", "--store", "tape")
	assert.ErrorContains(t, err, "unknown store backend")
}
