package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxlang/maxlang/ast"
	"github.com/maxlang/maxlang/internal/lexer"
)

func parse(t *testing.T, input string) ast.Expr {
	t.Helper()
	expr, err := Parse(context.Background(), input)
	require.NoError(t, err)
	return expr
}

func TestLiterals(t *testing.T) {
	num, ok := parse(t, "3.25").(*ast.Number)
	require.True(t, ok)
	require.Equal(t, 3.25, num.Value)

	str, ok := parse(t, `"hello"`).(*ast.String)
	require.True(t, ok)
	require.Equal(t, "hello", str.Value)

	b, ok := parse(t, "true").(*ast.Bool)
	require.True(t, ok)
	require.True(t, b.Value)

	_, ok = parse(t, "nil").(*ast.Nil)
	require.True(t, ok)
}

func TestIdent(t *testing.T) {
	ident, ok := parse(t, "fib").(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "fib", ident.Name)
}

func TestCall(t *testing.T) {
	call, ok := parse(t, "(+ 1 2)").(*ast.Call)
	require.True(t, ok)
	callee, ok := call.Callee.(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "+", callee.Name)
	require.Len(t, call.Args, 2)
	require.Equal(t, "(+ 1 2)", call.String())
}

func TestNestedCall(t *testing.T) {
	call, ok := parse(t, "(f (g x) y)").(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	inner, ok := call.Args[0].(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "(g x)", inner.String())
}

func TestZeroArgCall(t *testing.T) {
	call, ok := parse(t, "(f)").(*ast.Call)
	require.True(t, ok)
	require.Empty(t, call.Args)
}

func TestFunc(t *testing.T) {
	fn, ok := parse(t, "|a b| (+ a b)").(*ast.Func)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, fn.Params)
	require.Equal(t, "(+ a b)", fn.Body.String())
}

func TestThunk(t *testing.T) {
	fn, ok := parse(t, "|| 42").(*ast.Func)
	require.True(t, ok)
	require.Empty(t, fn.Params)
}

func TestLet(t *testing.T) {
	let, ok := parse(t, "let { x: 1, y: 2, (+ x y) }").(*ast.Let)
	require.True(t, ok)
	require.False(t, let.Recursive)
	require.Len(t, let.Bindings, 2)
	require.Equal(t, "x", let.Bindings[0].Name)
	require.Equal(t, "y", let.Bindings[1].Name)
	require.Equal(t, "(+ x y)", let.Body.String())
}

func TestLetrec(t *testing.T) {
	let, ok := parse(t, "letrec { f: |n| (f n), (f 1) }").(*ast.Let)
	require.True(t, ok)
	require.True(t, let.Recursive)
	require.Len(t, let.Bindings, 1)
}

func TestLetWithoutBody(t *testing.T) {
	// Accepted by the grammar; rejected later by the compiler.
	let, ok := parse(t, "let { x: 1 }").(*ast.Let)
	require.True(t, ok)
	require.Nil(t, let.Body)
}

func TestLetBodyMustBeLast(t *testing.T) {
	_, err := Parse(context.Background(), "let { x, y: 1, y }")
	require.Error(t, err)
	require.Contains(t, err.Error(), "final element")
}

func TestCond(t *testing.T) {
	cond, ok := parse(t, "< (lt n 2): n, else 0 >").(*ast.Cond)
	require.True(t, ok)
	require.Len(t, cond.Clauses, 1)
	require.Equal(t, "(lt n 2)", cond.Clauses[0].Test.String())
	require.Equal(t, "0", cond.Else.String())
}

func TestCondBareDefault(t *testing.T) {
	cond, ok := parse(t, "< a: 1, b: 2, 3 >").(*ast.Cond)
	require.True(t, ok)
	require.Len(t, cond.Clauses, 2)
	require.Equal(t, "3", cond.Else.String())
}

func TestCondRequiresDefault(t *testing.T) {
	_, err := Parse(context.Background(), "< a: 1 >")
	require.Error(t, err)
	require.Contains(t, err.Error(), "default")
}

func TestBlock(t *testing.T) {
	block, ok := parse(t, "{ (print 1) (print 2) 3 }").(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Exprs, 3)
}

func TestList(t *testing.T) {
	list, ok := parse(t, "[1 2 (+ 1 2)]").(*ast.List)
	require.True(t, ok)
	require.Len(t, list.Items, 3)
}

func TestEmptyList(t *testing.T) {
	list, ok := parse(t, "[]").(*ast.List)
	require.True(t, ok)
	require.Empty(t, list.Items)
}

func TestTopLevelSequence(t *testing.T) {
	block, ok := parse(t, "(print 1) 2").(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Exprs, 2)
}

func TestReservedForms(t *testing.T) {
	for _, input := range []string{"extract", "$", "`"} {
		_, err := Parse(context.Background(), input)
		require.Error(t, err, input)
		require.Contains(t, err.Error(), "reserved", input)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "empty input"},
		{"(f", "unexpected end of input"},
		{"(f 1 2", `expected ")"`},
		{")", "unexpected token"},
		{"|a 1| x", "expected SYMBOL"},
		{"{ }", "empty block"},
	}
	for _, tt := range tests {
		_, err := Parse(context.Background(), tt.input)
		require.Error(t, err, tt.input)
		require.Contains(t, err.Error(), tt.want, tt.input)
	}
}

func TestErrorLocation(t *testing.T) {
	_, err := Parse(context.Background(), "let { x: }")
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, 1, perr.Location().Start.LineNumber())
}

func TestLexErrorPassthrough(t *testing.T) {
	_, err := Parse(context.Background(), `"open`)
	require.Error(t, err)
	_, ok := err.(*lexer.Error)
	require.True(t, ok)
}

func TestFilename(t *testing.T) {
	expr := parse(t, "x")
	// The filename option threads through to locations.
	named, err := Parse(context.Background(), "x", WithFilename("main.max"))
	require.NoError(t, err)
	require.Equal(t, "", expr.Location().File())
	require.Equal(t, "main.max", named.Location().File())
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "(+ 1 2)")
	require.ErrorIs(t, err, context.Canceled)
}
