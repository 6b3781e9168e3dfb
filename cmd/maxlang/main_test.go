package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCommand()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return buf.String()
}

func TestEvalCommand(t *testing.T) {
	out := execute(t, "eval", "(+ 1 2)")
	require.Equal(t, "3\n", out)
}

func TestEvalCommandPrints(t *testing.T) {
	out := execute(t, "eval", `(print "hi")`)
	// print writes the text; the program's nil result is not echoed.
	require.Equal(t, "hi\n", out)
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.max")
	src := "letrec { fib: |n| < (lt n 2): n, (+ (fib (- n 1)) (fib (- n 2))) >, (fib 10) }"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	out := execute(t, "run", path)
	require.Equal(t, "55\n", out)
}

func TestDisCommand(t *testing.T) {
	out := execute(t, "dis", "-c", "(+ 1 2)")
	require.Contains(t, out, "TailCall")
	require.Contains(t, out, "InsertNativeFunction")
}

func TestEvalError(t *testing.T) {
	var buf bytes.Buffer
	root := newRootCommand()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"eval", "(missing 1)"})
	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined symbol")
}
