package maxlang

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxlang/maxlang/errz"
	"github.com/maxlang/maxlang/object"
	"github.com/maxlang/maxlang/parser"
)

func TestEval(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		input string
		want  object.Object
	}{
		{"42", object.NewNumber(42)},
		{"(+ 1 2)", object.NewNumber(3)},
		{"let { x: 2, (* x 21) }", object.NewNumber(42)},
		{"(eq [1 2] [1 2])", object.True},
		{`(str 7)`, object.NewString("7")},
		{
			"letrec { fib: |n| < (lt n 2): n, (+ (fib (- n 1)) (fib (- n 2))) >, (fib 10) }",
			object.NewNumber(55),
		},
	}
	for _, tt := range tests {
		result, err := Eval(ctx, tt.input)
		require.NoError(t, err, tt.input)
		require.True(t, result.Equals(tt.want), tt.input)
	}
}

func TestEvalOutput(t *testing.T) {
	var buf bytes.Buffer
	result, err := Eval(context.Background(), `{ (print "hello") 1 }`, WithOutput(&buf))
	require.NoError(t, err)
	require.True(t, result.Equals(object.NewNumber(1)))
	require.Equal(t, "hello\n", buf.String())
}

func TestEvalParseError(t *testing.T) {
	_, err := Eval(context.Background(), "(+ 1")
	require.Error(t, err)
	_, ok := err.(*parser.Error)
	require.True(t, ok)
}

func TestEvalCompileError(t *testing.T) {
	_, err := Eval(context.Background(), "missing")
	require.Error(t, err)
	cerr, ok := err.(*errz.CompileError)
	require.True(t, ok)
	require.Equal(t, errz.UndefinedSymbol, cerr.Kind)
}

func TestEvalRuntimeError(t *testing.T) {
	_, err := Eval(context.Background(), "(1 2)")
	require.Error(t, err)
	rerr, ok := err.(*errz.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errz.NotAFunction, rerr.Kind)
}

func TestCompileWithFilename(t *testing.T) {
	_, err := Compile(context.Background(), "(+ 1", WithFilename("prog.max"))
	require.Error(t, err)
	perr, ok := err.(*parser.Error)
	require.True(t, ok)
	require.Equal(t, "prog.max", perr.Location().File())
}
