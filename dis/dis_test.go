package dis

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxlang/maxlang/compiler"
	"github.com/maxlang/maxlang/parser"
)

func disassembleSource(t *testing.T, input string) []Row {
	t.Helper()
	expr, err := parser.Parse(context.Background(), input)
	require.NoError(t, err)
	fn, err := compiler.Compile(expr)
	require.NoError(t, err)
	return Disassemble(fn)
}

func TestDisassembleLiteral(t *testing.T) {
	rows := disassembleSource(t, "42")
	require.Len(t, rows, 1)
	require.Equal(t, "main", rows[0].Function)
	require.Equal(t, "Return", rows[0].Name)
	require.Equal(t, "c0", rows[0].Operands)
	require.Equal(t, "42", rows[0].Annotation)
}

func TestDisassembleNestedFunctions(t *testing.T) {
	rows := disassembleSource(t, "let { add: |a b| (+ a b), (add 1 2) }")
	var functions []string
	for _, row := range rows {
		functions = append(functions, row.Function)
	}
	require.Contains(t, functions, "main")
	require.Contains(t, functions, "main.add")
}

func TestAnnotations(t *testing.T) {
	rows := disassembleSource(t, "(+ 1 2)")
	require.Equal(t, "InsertNativeFunction", rows[0].Name)
	require.Equal(t, "+", rows[0].Annotation)
	require.Equal(t, "TailCall", rows[1].Name)
	require.Equal(t, "CallArgument", rows[2].Name)
	require.Equal(t, "1", rows[2].Annotation)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(disassembleSource(t, "(+ 1 2)"), &buf)
	out := buf.String()
	require.Contains(t, out, "OPCODE")
	require.Contains(t, out, "TailCall")
	require.Contains(t, out, "CallArgument")
}
