// Package dis supports analysis of compiled maxlang code by disassembling
// it into printable rows.
package dis

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/maxlang/maxlang/builtins"
	"github.com/maxlang/maxlang/object"
	"github.com/maxlang/maxlang/op"
)

// Row is one disassembled instruction.
type Row struct {
	Function   string
	Offset     int
	Name       string
	Operands   string
	Annotation string
}

// Disassemble returns the rows for fn and, recursively, for every nested
// function.
func Disassemble(fn *object.Function) []Row {
	return disassemble(fn, functionLabel(fn, "main"))
}

func functionLabel(fn *object.Function, fallback string) string {
	if fn.Name != "" {
		return fn.Name
	}
	return fallback
}

func disassemble(fn *object.Function, label string) []Row {
	var rows []Row
	for offset, ins := range fn.Instructions {
		info := op.GetInfo(ins.Op)
		var operands []string
		for _, operand := range info.Operands {
			switch operand {
			case op.OperandValue:
				operands = append(operands, ins.Value.String())
			case op.OperandTarget:
				operands = append(operands, fmt.Sprintf("r%d", ins.Target))
			case op.OperandIndex:
				operands = append(operands, fmt.Sprintf("%d", ins.Index))
			case op.OperandOffset:
				operands = append(operands, fmt.Sprintf("%+d", ins.Offset))
			}
		}
		rows = append(rows, Row{
			Function:   label,
			Offset:     offset,
			Name:       info.Name,
			Operands:   strings.Join(operands, ", "),
			Annotation: annotate(fn, ins),
		})
	}
	for i, nested := range fn.Functions {
		nestedLabel := fmt.Sprintf("%s.%s", label,
			functionLabel(nested, fmt.Sprintf("fn%d", i)))
		rows = append(rows, disassemble(nested, nestedLabel)...)
	}
	return rows
}

// annotate resolves operand indices into something human readable: constant
// values, nested function names and native names.
func annotate(fn *object.Function, ins op.Instruction) string {
	switch ins.Op {
	case op.CreateClosure:
		if int(ins.Index) < len(fn.Functions) {
			return functionLabel(fn.Functions[ins.Index], fmt.Sprintf("fn%d", ins.Index))
		}
	case op.InsertNativeFunction:
		if b, ok := builtins.ByID(ins.Index); ok {
			return b.Name()
		}
	default:
		if ins.Value.Kind == op.ConstantKind && int(ins.Value.Index) < len(fn.Constants) {
			return fn.Constants[ins.Value.Index].Inspect()
		}
	}
	return ""
}

// Print writes rows as an aligned table.
func Print(rows []Row, w io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tOFFSET\tOPCODE\tOPERANDS\tINFO")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			row.Function, row.Offset, bold(row.Name), row.Operands, cyan(row.Annotation))
	}
	tw.Flush()
}
