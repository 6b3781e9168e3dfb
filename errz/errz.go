// Package errz defines the structured errors shared by the compiler and the
// virtual machine. Tokeniser and parser errors live with their producers;
// everything downstream of the syntax tree reports through this package.
package errz

import (
	"fmt"

	"github.com/maxlang/maxlang/token"
)

// CompileKind categorises a compile error.
type CompileKind int

const (
	// UndefinedSymbol: a symbol resolved through neither the frame stack,
	// the capture chain, nor the native table.
	UndefinedSymbol CompileKind = iota
	// NoElementsInLet: a let or letrec form with no value expression.
	NoElementsInLet
	// NoNativeSymbol: an InsertNativeFunction request for a name the
	// native table does not hold.
	NoNativeSymbol
	// NoFrames: the compiler was asked for its current frame while the
	// frame stack was empty. Internal bug guard.
	NoFrames
	// BadDepth: a binding arrived at a smaller scope depth than an
	// existing binding of the same name. Internal bug guard.
	BadDepth
	// UnpatchedJump: a jump placeholder survived to the end of
	// compilation. Internal bug guard.
	UnpatchedJump
)

func (k CompileKind) String() string {
	switch k {
	case UndefinedSymbol:
		return "undefined symbol"
	case NoElementsInLet:
		return "let has no value"
	case NoNativeSymbol:
		return "unknown native function"
	case NoFrames:
		return "no compiler frames"
	case BadDepth:
		return "binding at bad depth"
	case UnpatchedJump:
		return "unpatched jump"
	default:
		return "compile error"
	}
}

// CompileError is an error raised while translating the syntax tree into
// instructions.
type CompileError struct {
	Kind     CompileKind
	Message  string
	Location token.Location
}

func (e *CompileError) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Location.IsValid() {
		pos := e.Location.Start
		return fmt.Sprintf("compile error: %s (line %d, column %d)",
			msg, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("compile error: %s", msg)
}

// Compile creates a CompileError without a location.
func Compile(kind CompileKind, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// CompileAt creates a CompileError pointing at a source location.
func CompileAt(kind CompileKind, loc token.Location, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

// RuntimeKind categorises a runtime error.
type RuntimeKind int

const (
	// NotAFunction: Call or TailCall on a value that is not callable.
	NotAFunction RuntimeKind = iota
	// NotABoolean: JumpToPositionIfFalse on a non-boolean value.
	NotABoolean
	// NotANumber: arithmetic on a non-number.
	NotANumber
	// NotAClosure: a closure operation on a value of another type.
	NotAClosure
	// NotAList: a list operation on a value of another type.
	NotAList
	// NotAString: a string operation on a value of another type.
	NotAString
	// ValueNotSet: a read of an unset register or an unfilled recursive
	// binding.
	ValueNotSet
	// TooManyArguments: a call supplied more arguments than the function's
	// arity.
	TooManyArguments
	// NotEnoughArguments completes the arity fault pair with
	// TooManyArguments. Nothing produces it today: applying a closure or
	// native below its arity curries rather than faulting.
	NotEnoughArguments
	// NoMoreOpCodes: the instruction pointer ran off the end of a function
	// without a Return.
	NoMoreOpCodes
	// NoLastFrame: a frame pop on an empty frame stack.
	NoLastFrame
	// Crash: a Crash instruction was executed.
	Crash
)

func (k RuntimeKind) String() string {
	switch k {
	case NotAFunction:
		return "value is not a function"
	case NotABoolean:
		return "value is not a boolean"
	case NotANumber:
		return "value is not a number"
	case NotAClosure:
		return "value is not a closure"
	case NotAList:
		return "value is not a list"
	case NotAString:
		return "value is not a string"
	case ValueNotSet:
		return "value not set"
	case TooManyArguments:
		return "too many arguments"
	case NotEnoughArguments:
		return "not enough arguments"
	case NoMoreOpCodes:
		return "no more instructions"
	case NoLastFrame:
		return "no frame to return to"
	case Crash:
		return "crash"
	default:
		return "runtime error"
	}
}

// RuntimeError is an error raised while executing instructions. The machine
// never recovers from one internally; it is returned to the embedder.
type RuntimeError struct {
	Kind    RuntimeKind
	Message string
}

func (e *RuntimeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("runtime error: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("runtime error: %s", e.Kind)
}

// Runtime creates a RuntimeError.
func Runtime(kind RuntimeKind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
