package vm

import (
	"github.com/maxlang/maxlang/object"
)

// frame is one activation record. registers holds the frame's working
// values; captures are the values the closure grabbed at creation time.
// returnTo is the register in the frame below that receives this frame's
// result.
type frame struct {
	fn        *object.Function
	captures  []object.Object
	registers []object.Object
	ip        int
	returnTo  uint16
}

func newFrame(closure *object.Closure, args []object.Object, returnTo uint16) *frame {
	fn := closure.Function()
	registers := make([]object.Object, fn.Registers)
	copy(registers, args)
	return &frame{
		fn:        fn,
		captures:  closure.Captures(),
		registers: registers,
		returnTo:  returnTo,
	}
}
