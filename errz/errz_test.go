package errz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxlang/maxlang/token"
)

func TestCompileError(t *testing.T) {
	err := Compile(NoFrames, "frame stack empty")
	require.Equal(t, "compile error: no compiler frames: frame stack empty", err.Error())
}

func TestCompileErrorWithLocation(t *testing.T) {
	loc := token.Location{Start: token.Position{Line: 2, Column: 4}}
	err := CompileAt(UndefinedSymbol, loc, "%q", "foo")
	require.Equal(t, `compile error: undefined symbol: "foo" (line 3, column 5)`, err.Error())
	require.Equal(t, UndefinedSymbol, err.Kind)
}

func TestRuntimeError(t *testing.T) {
	err := Runtime(NotAFunction, "got number")
	require.Equal(t, "runtime error: value is not a function: got number", err.Error())

	bare := &RuntimeError{Kind: NoMoreOpCodes}
	require.Equal(t, "runtime error: no more instructions", bare.Error())
}
