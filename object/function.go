package object

import (
	"fmt"

	"github.com/maxlang/maxlang/op"
)

// Function is a compiled function body. It is immutable after compilation
// and carries no captured values; the VM pairs it with captures in a Closure
// before it can run.
type Function struct {
	// Name is the binding name the function was compiled under, if any.
	Name string

	// Arity is the number of parameters.
	Arity int

	// Registers is the number of registers a frame running this function
	// needs.
	Registers int

	// Instructions is the compiled body.
	Instructions []op.Instruction

	// Constants is the constant pool addressed by ConstantKind operands.
	Constants []Object

	// Functions holds the compiled bodies of nested function literals,
	// addressed by CreateClosure.
	Functions []*Function

	// Captures describes, for each capture slot, where the value lives in
	// the frame that creates the closure. CreateClosure records the
	// resolved values in creation order.
	Captures []op.ValueIndex
}

func (f *Function) Type() Type {
	return FUNCTION
}

func (f *Function) Inspect() string {
	if f.Name != "" {
		return fmt.Sprintf("function(%s/%d)", f.Name, f.Arity)
	}
	return fmt.Sprintf("function(/%d)", f.Arity)
}

func (f *Function) Interface() interface{} {
	return nil
}

// Equals is identity for functions.
func (f *Function) Equals(other Object) bool {
	return f == other
}

func (f *Function) IsTruthy() bool {
	return true
}
