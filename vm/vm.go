// Package vm executes compiled maxlang functions on a register machine.
//
// The machine keeps a stack of frames, one per active call. A Call,
// TailCall or CreateClosure reads its operands from the run of CallArgument
// or CaptureValue instructions that follows it, moving the instruction
// pointer past the run; the run's length is never encoded in the consumer.
// Tail calls replace the top frame instead of stacking a new one, so
// self-recursion in tail position runs in constant frame depth.
//
// Applying a function to fewer arguments than its arity does not call it:
// the result is a new closure (or partial, for natives) holding the
// arguments applied so far.
package vm

import (
	"context"
	"io"

	"github.com/maxlang/maxlang/builtins"
	"github.com/maxlang/maxlang/errz"
	"github.com/maxlang/maxlang/object"
	"github.com/maxlang/maxlang/op"
)

// DefaultContextCheckInterval is how many instructions run between checks
// of the context's done channel.
const DefaultContextCheckInterval = 1000

// Option configures a VirtualMachine.
type Option func(*VirtualMachine)

// WithOutput directs the print native's output to w.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.out = w
	}
}

// WithObserver registers an observer that sees every executed instruction.
func WithObserver(o Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = o
	}
}

// WithContextCheckInterval overrides how often Run polls the context.
func WithContextCheckInterval(n int) Option {
	return func(vm *VirtualMachine) {
		if n > 0 {
			vm.checkInterval = n
		}
	}
}

// VirtualMachine executes one compiled main function. It is not safe for
// concurrent use.
type VirtualMachine struct {
	frames        []*frame
	out           io.Writer
	observer      Observer
	checkInterval int
	ctx           context.Context
	result        object.Object
	halted        bool
}

// New creates a machine ready to run fn, which must take no arguments.
func New(fn *object.Function, opts ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		checkInterval: DefaultContextCheckInterval,
		ctx:           context.Background(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.setContext(vm.ctx)
	main := object.NewClosure(fn, nil)
	vm.frames = []*frame{newFrame(main, nil, 0)}
	return vm
}

// Run executes the program to completion, polling ctx between instruction
// batches.
func (vm *VirtualMachine) Run(ctx context.Context) (object.Object, error) {
	vm.setContext(ctx)
	steps := 0
	for {
		value, done, err := vm.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return value, nil
		}
		steps++
		if steps%vm.checkInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
	}
}

func (vm *VirtualMachine) setContext(ctx context.Context) {
	if vm.out != nil {
		ctx = object.WithPrintWriter(ctx, vm.out)
	}
	vm.ctx = ctx
}

// FrameDepth returns the current number of active frames.
func (vm *VirtualMachine) FrameDepth() int {
	return len(vm.frames)
}

// Step executes a single instruction. It returns (value, true, nil) once
// the program has produced its final value; further calls keep returning
// that value.
func (vm *VirtualMachine) Step() (object.Object, bool, error) {
	if vm.halted {
		return vm.result, true, nil
	}
	if len(vm.frames) == 0 {
		return nil, false, errz.Runtime(errz.NoLastFrame, "no active frame")
	}
	f := vm.frames[len(vm.frames)-1]
	if f.ip >= len(f.fn.Instructions) {
		return nil, false, errz.Runtime(errz.NoMoreOpCodes,
			"instruction pointer ran off the end of %s", f.fn.Inspect())
	}
	ins := f.fn.Instructions[f.ip]
	if vm.observer != nil {
		vm.observer.OnStep(StepEvent{
			IP:          f.ip,
			Instruction: ins,
			FrameDepth:  len(vm.frames),
		})
	}
	f.ip++
	if err := vm.execute(f, ins); err != nil {
		return nil, false, err
	}
	if vm.halted {
		return vm.result, true, nil
	}
	return nil, false, nil
}

func (vm *VirtualMachine) execute(f *frame, ins op.Instruction) error {
	switch ins.Op {
	case op.Nop:
		return nil

	case op.CopyValue:
		value, err := vm.readValue(f, ins.Value)
		if err != nil {
			return err
		}
		f.registers[ins.Target] = value
		return nil

	case op.CloseValue:
		f.registers[ins.Target] = nil
		return nil

	case op.CallArgument, op.CaptureValue:
		// Consumers read these runs themselves; reaching one in dispatch
		// means the bytecode is inconsistent.
		return errz.Runtime(errz.Crash,
			"stray %s at %d in %s", ins.Op, f.ip-1, f.fn.Inspect())

	case op.Call:
		callee, err := vm.readValue(f, ins.Value)
		if err != nil {
			return err
		}
		args, err := vm.collectArgs(f)
		if err != nil {
			return err
		}
		return vm.call(callee, args, ins.Target)

	case op.TailCall:
		callee, err := vm.readValue(f, ins.Value)
		if err != nil {
			return err
		}
		args, err := vm.collectArgs(f)
		if err != nil {
			return err
		}
		returnTo := f.returnTo
		vm.frames = vm.frames[:len(vm.frames)-1]
		return vm.call(callee, args, returnTo)

	case op.Return:
		value, err := vm.readValue(f, ins.Value)
		if err != nil {
			return err
		}
		vm.frames = vm.frames[:len(vm.frames)-1]
		vm.route(value, f.returnTo)
		return nil

	case op.Jump:
		f.ip += ins.Offset
		return nil

	case op.JumpToPositionIfFalse:
		value, err := vm.readValue(f, ins.Value)
		if err != nil {
			return err
		}
		b, ok := value.(*object.Bool)
		if !ok {
			return errz.Runtime(errz.NotABoolean, "conditional on %s", value.Type())
		}
		if !b.Value() {
			f.ip += ins.Offset
		}
		return nil

	case op.CreateClosure:
		fn := f.fn.Functions[ins.Index]
		captures, err := vm.collectCaptures(f, len(fn.Captures))
		if err != nil {
			return err
		}
		f.registers[ins.Target] = object.NewClosure(fn, captures)
		return nil

	case op.DeclareRecursive:
		f.registers[ins.Target] = object.NewCell()
		return nil

	case op.FillRecursive:
		value, err := vm.readValue(f, ins.Value)
		if err != nil {
			return err
		}
		cell, ok := f.registers[ins.Target].(*object.Cell)
		if !ok {
			return errz.Runtime(errz.ValueNotSet,
				"recursive fill of register %d, which holds no cell", ins.Target)
		}
		if !cell.Fill(value) {
			return errz.Runtime(errz.ValueNotSet,
				"recursive binding in register %d filled twice", ins.Target)
		}
		return nil

	case op.InsertNativeFunction:
		b, ok := builtins.ByID(ins.Index)
		if !ok {
			return errz.Runtime(errz.NotAFunction, "no native with id %d", ins.Index)
		}
		f.registers[ins.Target] = b
		return nil

	case op.Crash:
		return errz.Runtime(errz.Crash, "crash instruction at %d in %s", f.ip-1, f.fn.Inspect())

	default:
		return errz.Runtime(errz.NoMoreOpCodes, "unknown opcode %d", ins.Op)
	}
}

// call applies callee to args. The result (or the new frame's eventual
// result) is routed to the returnTo register of the frame on top of the
// stack; when the stack is empty it becomes the program's final value. For
// tail calls the caller's frame has already been popped.
func (vm *VirtualMachine) call(callee object.Object, args []object.Object, returnTo uint16) error {
	switch cv := callee.(type) {
	case *object.Closure:
		applied := len(cv.Applied()) + len(args)
		arity := cv.Function().Arity
		if applied > arity {
			return errz.Runtime(errz.TooManyArguments,
				"%s takes %d arguments, got %d", cv.Inspect(), arity, applied)
		}
		if applied < arity {
			vm.route(cv.Apply(args), returnTo)
			return nil
		}
		all := args
		if len(cv.Applied()) > 0 {
			all = make([]object.Object, 0, applied)
			all = append(all, cv.Applied()...)
			all = append(all, args...)
		}
		vm.frames = append(vm.frames, newFrame(cv, all, returnTo))
		return nil

	case *object.Builtin:
		if len(args) > cv.Arity() {
			return errz.Runtime(errz.TooManyArguments,
				"%s takes %d arguments, got %d", cv.Inspect(), cv.Arity(), len(args))
		}
		if len(args) < cv.Arity() {
			vm.route(object.NewPartial(cv, args), returnTo)
			return nil
		}
		result, err := cv.Call(vm.ctx, args...)
		if err != nil {
			return err
		}
		vm.route(result, returnTo)
		return nil

	case *object.Partial:
		combined := make([]object.Object, 0, len(cv.Applied())+len(args))
		combined = append(combined, cv.Applied()...)
		combined = append(combined, args...)
		return vm.call(cv.Builtin(), combined, returnTo)

	case *object.Function:
		// A bare function can only arrive through embedder misuse; treat
		// it as a closure with no captures.
		return vm.call(object.NewClosure(cv, nil), args, returnTo)

	default:
		return errz.Runtime(errz.NotAFunction, "cannot call %s", callee.Type())
	}
}

// route delivers a produced value to the returnTo register of the current
// top frame, or records it as the final result when no frames remain.
func (vm *VirtualMachine) route(value object.Object, returnTo uint16) {
	if len(vm.frames) == 0 {
		vm.result = value
		vm.halted = true
		return
	}
	vm.frames[len(vm.frames)-1].registers[returnTo] = value
}

// collectArgs reads the run of CallArgument instructions following a Call
// or TailCall, moving the frame's instruction pointer past it. The run ends
// at the first instruction of any other opcode.
func (vm *VirtualMachine) collectArgs(f *frame) ([]object.Object, error) {
	var args []object.Object
	for f.ip < len(f.fn.Instructions) && f.fn.Instructions[f.ip].Op == op.CallArgument {
		value, err := vm.readValue(f, f.fn.Instructions[f.ip].Value)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
		f.ip++
	}
	return args, nil
}

// collectCaptures reads exactly n CaptureValue instructions following a
// CreateClosure. A shorter run is a bytecode-consistency fault.
func (vm *VirtualMachine) collectCaptures(f *frame, n int) ([]object.Object, error) {
	caps := make([]object.Object, 0, n)
	for len(caps) < n {
		if f.ip >= len(f.fn.Instructions) || f.fn.Instructions[f.ip].Op != op.CaptureValue {
			return nil, errz.Runtime(errz.Crash,
				"closure in %s needs %d captures, found %d", f.fn.Inspect(), n, len(caps))
		}
		value, err := vm.readRaw(f, f.fn.Instructions[f.ip].Value)
		if err != nil {
			return nil, err
		}
		caps = append(caps, value)
		f.ip++
	}
	return caps, nil
}

// readValue resolves an operand, dereferencing recursive-binding cells.
func (vm *VirtualMachine) readValue(f *frame, vi op.ValueIndex) (object.Object, error) {
	value, err := vm.readRaw(f, vi)
	if err != nil {
		return nil, err
	}
	if cell, ok := value.(*object.Cell); ok {
		inner, filled := cell.Get()
		if !filled {
			return nil, errz.Runtime(errz.ValueNotSet,
				"recursive binding read before it was filled")
		}
		return inner, nil
	}
	return value, nil
}

// readRaw resolves an operand without dereferencing cells. CaptureValue
// uses it so closures capture the cell itself.
func (vm *VirtualMachine) readRaw(f *frame, vi op.ValueIndex) (object.Object, error) {
	switch vi.Kind {
	case op.RegisterKind:
		value := f.registers[vi.Index]
		if value == nil {
			return nil, errz.Runtime(errz.ValueNotSet, "register %d is not set", vi.Index)
		}
		return value, nil
	case op.ConstantKind:
		return f.fn.Constants[vi.Index], nil
	case op.CaptureKind:
		value := f.captures[vi.Index]
		if value == nil {
			return nil, errz.Runtime(errz.ValueNotSet, "capture %d is not set", vi.Index)
		}
		return value, nil
	default:
		return nil, errz.Runtime(errz.ValueNotSet, "bad operand kind %d", vi.Kind)
	}
}
