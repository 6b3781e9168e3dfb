// Package op defines the maxlang instruction set. Compiled functions are
// sequences of Instruction values executed by the register machine in the vm
// package.
package op

import "fmt"

// Code identifies one opcode.
type Code uint8

const (
	// Nop does nothing. The zero value of Instruction is a Nop, which keeps
	// accidentally zeroed instructions from silently behaving like opcode 0.
	Nop Code = iota

	// CopyValue copies the operand value into the target register.
	CopyValue

	// CloseValue marks the target register unused so it can be reallocated.
	CloseValue

	// Call applies the operand value to the arguments supplied by the run
	// of CallArgument instructions that follows it, leaving the result in
	// the target register. The run's length is implicit: it ends at the
	// first instruction that is not a CallArgument.
	Call

	// TailCall is Call in tail position: the current frame is replaced
	// rather than suspended, and there is no result register.
	TailCall

	// CallArgument supplies one argument to the nearest preceding Call or
	// TailCall. It is consumed by that instruction, never executed on its
	// own.
	CallArgument

	// Return ends the current frame, yielding its operand value.
	Return

	// Jump moves the instruction pointer by Offset (relative, may be
	// negative).
	Jump

	// JumpToPositionIfFalse moves the instruction pointer by Offset when
	// the operand value is false. The operand must be a boolean.
	JumpToPositionIfFalse

	// CreateClosure instantiates function number Index of the current
	// function's table into the target register, capturing the values
	// supplied by the run of CaptureValue instructions that follows it.
	// The run must be exactly as long as the function's capture list.
	CreateClosure

	// CaptureValue supplies one capture to the immediately preceding
	// CreateClosure. Unlike other operand reads it does not dereference
	// recursive-binding cells, so closures share the cell itself.
	CaptureValue

	// DeclareRecursive seeds the target register with a fresh unfilled
	// cell, making the name visible before its value exists.
	DeclareRecursive

	// FillRecursive performs the single write into the cell held in the
	// target register.
	FillRecursive

	// InsertNativeFunction materialises native function number Index into
	// the target register.
	InsertNativeFunction

	// Crash stops execution with a runtime error. The compiler emits it as
	// a placeholder at jump sites awaiting backpatching; one surviving in
	// emitted code is a compiler bug.
	Crash
)

// IndexKind says which value space a ValueIndex points into.
type IndexKind uint8

const (
	// RegisterKind addresses the current frame's registers.
	RegisterKind IndexKind = iota
	// ConstantKind addresses the current function's constant pool.
	ConstantKind
	// CaptureKind addresses the current closure's captured values.
	CaptureKind
)

// ValueIndex is a tagged operand: a register, constant or capture index.
type ValueIndex struct {
	Kind  IndexKind
	Index uint16
}

// Register returns a ValueIndex addressing register i.
func Register(i uint16) ValueIndex {
	return ValueIndex{Kind: RegisterKind, Index: i}
}

// Constant returns a ValueIndex addressing constant i.
func Constant(i uint16) ValueIndex {
	return ValueIndex{Kind: ConstantKind, Index: i}
}

// Capture returns a ValueIndex addressing capture i.
func Capture(i uint16) ValueIndex {
	return ValueIndex{Kind: CaptureKind, Index: i}
}

func (v ValueIndex) String() string {
	switch v.Kind {
	case RegisterKind:
		return fmt.Sprintf("r%d", v.Index)
	case ConstantKind:
		return fmt.Sprintf("c%d", v.Index)
	case CaptureKind:
		return fmt.Sprintf("u%d", v.Index)
	default:
		return fmt.Sprintf("?%d", v.Index)
	}
}

// Instruction is one decoded instruction. Which fields are meaningful
// depends on the opcode; see the Info table.
type Instruction struct {
	Op     Code
	Value  ValueIndex // operand value (source)
	Target uint16     // destination register
	Index  uint16     // function index or native id
	Offset int        // relative jump distance
}

// Info holds the printable shape of an opcode.
type Info struct {
	Name string
	// Operands names which Instruction fields the opcode uses, in
	// disassembly order.
	Operands []Operand
}

// Operand identifies one Instruction field for disassembly.
type Operand uint8

const (
	OperandValue Operand = iota
	OperandTarget
	OperandIndex
	OperandOffset
)

var infos = map[Code]Info{
	Nop:                   {Name: "Nop"},
	CopyValue:             {Name: "CopyValue", Operands: []Operand{OperandValue, OperandTarget}},
	CloseValue:            {Name: "CloseValue", Operands: []Operand{OperandTarget}},
	Call:                  {Name: "Call", Operands: []Operand{OperandValue, OperandTarget}},
	TailCall:              {Name: "TailCall", Operands: []Operand{OperandValue}},
	CallArgument:          {Name: "CallArgument", Operands: []Operand{OperandValue}},
	Return:                {Name: "Return", Operands: []Operand{OperandValue}},
	Jump:                  {Name: "Jump", Operands: []Operand{OperandOffset}},
	JumpToPositionIfFalse: {Name: "JumpToPositionIfFalse", Operands: []Operand{OperandValue, OperandOffset}},
	CreateClosure:         {Name: "CreateClosure", Operands: []Operand{OperandIndex, OperandTarget}},
	CaptureValue:          {Name: "CaptureValue", Operands: []Operand{OperandValue}},
	DeclareRecursive:      {Name: "DeclareRecursive", Operands: []Operand{OperandTarget}},
	FillRecursive:         {Name: "FillRecursive", Operands: []Operand{OperandValue, OperandTarget}},
	InsertNativeFunction:  {Name: "InsertNativeFunction", Operands: []Operand{OperandIndex, OperandTarget}},
	Crash:                 {Name: "Crash"},
}

// GetInfo returns the Info for the given opcode.
func GetInfo(c Code) Info {
	if info, ok := infos[c]; ok {
		return info
	}
	return Info{Name: fmt.Sprintf("Code(%d)", c)}
}

func (c Code) String() string {
	return GetInfo(c).Name
}

func (i Instruction) String() string {
	info := GetInfo(i.Op)
	out := info.Name
	for _, operand := range info.Operands {
		switch operand {
		case OperandValue:
			out += " " + i.Value.String()
		case OperandTarget:
			out += fmt.Sprintf(" r%d", i.Target)
		case OperandIndex:
			out += fmt.Sprintf(" %d", i.Index)
		case OperandOffset:
			out += fmt.Sprintf(" %+d", i.Offset)
		}
	}
	return out
}
