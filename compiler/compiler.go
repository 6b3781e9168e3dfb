// Package compiler translates a maxlang syntax tree into instructions for
// the register machine in the vm package.
//
// Compilation is a single pass. Each function literal gets its own frame on
// a flat frame stack; a frame owns the function's register slots, constant
// pool, nested functions and capture table. Registers are allocated
// first-free and released eagerly, so register pressure tracks the live
// values of the expression being compiled rather than its syntactic size.
package compiler

import (
	"github.com/maxlang/maxlang/ast"
	"github.com/maxlang/maxlang/builtins"
	"github.com/maxlang/maxlang/errz"
	"github.com/maxlang/maxlang/object"
	"github.com/maxlang/maxlang/op"
)

// Compile translates a parsed expression into a runnable function.
func Compile(expr ast.Expr) (*object.Function, error) {
	c := &Compiler{}
	c.pushFrame("", nil)
	res, err := c.compileExpr(expr, true)
	if err != nil {
		return nil, err
	}
	if !res.done {
		c.emit(op.Instruction{Op: op.Return, Value: res.vi})
	}
	return c.popFrame()
}

type slotState uint8

const (
	slotFree slotState = iota
	slotNamed
	slotTemp
)

// slot describes one register of the frame under compilation.
type slot struct {
	state slotState
	name  string
	depth int
}

// frame accumulates the compiled form of one function literal.
type frame struct {
	name         string
	arity        int
	depth        int
	slots        []slot
	maxSlots     int
	instructions []op.Instruction
	constants    []object.Object
	functions    []*object.Function
	captures     []op.ValueIndex
	pending      int
}

// Compiler holds the flat frame stack. frames[i]'s lexical parent is
// frames[i-1]; index 0 is the main function.
type Compiler struct {
	frames []*frame
	hint   string
}

// result is the outcome of compiling one expression: where its value lives,
// or done when the expression already terminated the frame (a tail call or
// a conditional whose branches all returned).
type result struct {
	vi   op.ValueIndex
	done bool
}

func value(vi op.ValueIndex) result {
	return result{vi: vi}
}

func (c *Compiler) current() (*frame, error) {
	if len(c.frames) == 0 {
		return nil, errz.Compile(errz.NoFrames, "frame stack is empty")
	}
	return c.frames[len(c.frames)-1], nil
}

func (c *Compiler) pushFrame(name string, params []string) {
	f := &frame{name: name, arity: len(params)}
	for _, p := range params {
		f.slots = append(f.slots, slot{state: slotNamed, name: p})
	}
	f.maxSlots = len(f.slots)
	c.frames = append(c.frames, f)
}

func (c *Compiler) popFrame() (*object.Function, error) {
	f, err := c.current()
	if err != nil {
		return nil, err
	}
	if f.pending > 0 {
		return nil, errz.Compile(errz.UnpatchedJump,
			"%d jump placeholders left in %q", f.pending, f.name)
	}
	c.frames = c.frames[:len(c.frames)-1]
	return &object.Function{
		Name:         f.name,
		Arity:        f.arity,
		Registers:    f.maxSlots,
		Instructions: f.instructions,
		Constants:    f.constants,
		Functions:    f.functions,
		Captures:     f.captures,
	}, nil
}

// emit appends an instruction to the current frame and returns its position.
func (c *Compiler) emit(ins op.Instruction) int {
	f := c.frames[len(c.frames)-1]
	f.instructions = append(f.instructions, ins)
	return len(f.instructions) - 1
}

// placeholder reserves an instruction slot for a jump whose distance is not
// yet known. It holds a Crash so an unpatched slot fails loudly.
func (c *Compiler) placeholder() int {
	f := c.frames[len(c.frames)-1]
	f.pending++
	return c.emit(op.Instruction{Op: op.Crash})
}

// patch replaces the placeholder at pos with ins, pointing its Offset at the
// next instruction to be emitted.
func (c *Compiler) patch(pos int, ins op.Instruction) {
	f := c.frames[len(c.frames)-1]
	ins.Offset = len(f.instructions) - pos - 1
	f.instructions[pos] = ins
	f.pending--
}

// constant interns obj in the current frame's constant pool.
func (c *Compiler) constant(obj object.Object) op.ValueIndex {
	f := c.frames[len(c.frames)-1]
	for i, existing := range f.constants {
		if existing.Equals(obj) {
			return op.Constant(uint16(i))
		}
	}
	f.constants = append(f.constants, obj)
	return op.Constant(uint16(len(f.constants) - 1))
}

// alloc claims the first free register.
func (c *Compiler) alloc(s slot) uint16 {
	f := c.frames[len(c.frames)-1]
	for i := range f.slots {
		if f.slots[i].state == slotFree {
			f.slots[i] = s
			return uint16(i)
		}
	}
	f.slots = append(f.slots, s)
	if len(f.slots) > f.maxSlots {
		f.maxSlots = len(f.slots)
	}
	return uint16(len(f.slots) - 1)
}

func (c *Compiler) temp() uint16 {
	f := c.frames[len(c.frames)-1]
	return c.alloc(slot{state: slotTemp, depth: f.depth})
}

// release frees vi if it is a temporary register, emitting CloseValue so
// the machine drops the stale value before the slot is reused. Named
// registers and non-register operands are left alone. It reports whether a
// register was freed.
func (c *Compiler) release(vi op.ValueIndex) bool {
	if vi.Kind != op.RegisterKind {
		return false
	}
	f := c.frames[len(c.frames)-1]
	if f.slots[vi.Index].state != slotTemp {
		return false
	}
	f.slots[vi.Index] = slot{}
	c.emit(op.Instruction{Op: op.CloseValue, Target: vi.Index})
	return true
}

// drop frees a temporary register without emitting CloseValue. It is for
// operands consumed by an instruction that ended the frame, where a close
// would never execute.
func (c *Compiler) drop(vi op.ValueIndex) {
	if vi.Kind != op.RegisterKind {
		return
	}
	f := c.frames[len(c.frames)-1]
	if f.slots[vi.Index].state == slotTemp {
		f.slots[vi.Index] = slot{}
	}
}

// resolve finds name in the current frame or, through the capture chain, in
// an enclosing one.
func (c *Compiler) resolve(name string) (op.ValueIndex, bool) {
	return c.resolveIn(len(c.frames)-1, name)
}

func (c *Compiler) resolveIn(frameIdx int, name string) (op.ValueIndex, bool) {
	f := c.frames[frameIdx]
	// Innermost binding wins: greatest depth, then most recent slot.
	best := -1
	for i, s := range f.slots {
		if s.state != slotNamed || s.name != name || s.depth > f.depth {
			continue
		}
		if best < 0 || s.depth >= f.slots[best].depth {
			best = i
		}
	}
	if best >= 0 {
		return op.Register(uint16(best)), true
	}
	if frameIdx == 0 {
		return op.ValueIndex{}, false
	}
	parentVI, ok := c.resolveIn(frameIdx-1, name)
	if !ok {
		return op.ValueIndex{}, false
	}
	for i, existing := range f.captures {
		if existing == parentVI {
			return op.Capture(uint16(i)), true
		}
	}
	f.captures = append(f.captures, parentVI)
	return op.Capture(uint16(len(f.captures) - 1)), true
}

// bind makes name refer to the value at vi within the current scope depth,
// returning the named register. A temporary register is claimed in place;
// anything else is copied into a register of its own.
func (c *Compiler) bind(name string, vi op.ValueIndex) (uint16, error) {
	f := c.frames[len(c.frames)-1]
	for i, s := range f.slots {
		if s.state != slotNamed || s.name != name {
			continue
		}
		if s.depth > f.depth {
			return 0, errz.Compile(errz.BadDepth,
				"%q bound at depth %d while binding at depth %d", name, s.depth, f.depth)
		}
		if s.depth == f.depth {
			// Rebinding within the same scope reuses the register.
			if vi != op.Register(uint16(i)) {
				c.emit(op.Instruction{Op: op.CopyValue, Value: vi, Target: uint16(i)})
				c.release(vi)
			}
			return uint16(i), nil
		}
	}
	if vi.Kind == op.RegisterKind && f.slots[vi.Index].state == slotTemp {
		f.slots[vi.Index] = slot{state: slotNamed, name: name, depth: f.depth}
		return vi.Index, nil
	}
	r := c.alloc(slot{state: slotNamed, name: name, depth: f.depth})
	c.emit(op.Instruction{Op: op.CopyValue, Value: vi, Target: r})
	return r, nil
}

// closeScope releases every register bound deeper than depth, emitting
// CloseValue for each. A register named by keep survives as a temporary of
// the outer scope, carrying the scope's result outward.
func (c *Compiler) closeScope(depth int, keep op.ValueIndex) {
	f := c.frames[len(c.frames)-1]
	for i := range f.slots {
		s := f.slots[i]
		if s.state == slotFree || s.depth <= depth {
			continue
		}
		if keep.Kind == op.RegisterKind && keep.Index == uint16(i) {
			f.slots[i] = slot{state: slotTemp, depth: depth}
			continue
		}
		c.emit(op.Instruction{Op: op.CloseValue, Target: uint16(i)})
		f.slots[i] = slot{}
	}
	f.depth = depth
}

// native materialises the named native function into a fresh register.
func (c *Compiler) native(name string, loc ast.Expr) (op.ValueIndex, error) {
	id, ok := builtins.Resolve(name)
	if !ok {
		return op.ValueIndex{}, errz.CompileAt(errz.NoNativeSymbol, loc.Location(), "%q", name)
	}
	r := c.temp()
	c.emit(op.Instruction{Op: op.InsertNativeFunction, Index: id, Target: r})
	return op.Register(r), nil
}

func (c *Compiler) compileExpr(expr ast.Expr, tail bool) (result, error) {
	if _, err := c.current(); err != nil {
		return result{}, err
	}
	switch e := expr.(type) {
	case *ast.Number:
		return value(c.constant(object.NewNumber(e.Value))), nil
	case *ast.String:
		return value(c.constant(object.NewString(e.Value))), nil
	case *ast.Bool:
		return value(c.constant(object.FromBool(e.Value))), nil
	case *ast.Nil:
		return value(c.constant(object.Nil)), nil
	case *ast.Ident:
		return c.compileIdent(e)
	case *ast.Call:
		return c.compileCall(e, tail)
	case *ast.Func:
		return c.compileFunc(e)
	case *ast.Let:
		return c.compileLet(e, tail)
	case *ast.Block:
		return c.compileBlock(e, tail)
	case *ast.Cond:
		return c.compileCond(e, tail)
	case *ast.List:
		return c.compileList(e)
	default:
		return result{}, errz.CompileAt(errz.UndefinedSymbol, expr.Location(),
			"unsupported expression %T", expr)
	}
}

func (c *Compiler) compileIdent(e *ast.Ident) (result, error) {
	if vi, ok := c.resolve(e.Name); ok {
		return value(vi), nil
	}
	if _, ok := builtins.Resolve(e.Name); !ok {
		return result{}, errz.CompileAt(errz.UndefinedSymbol, e.Location(), "%q", e.Name)
	}
	vi, err := c.native(e.Name, e)
	if err != nil {
		return result{}, err
	}
	return value(vi), nil
}

func (c *Compiler) compileCall(e *ast.Call, tail bool) (result, error) {
	callee, err := c.compileExpr(e.Callee, false)
	if err != nil {
		return result{}, err
	}
	args := make([]op.ValueIndex, 0, len(e.Args))
	for _, arg := range e.Args {
		av, err := c.compileExpr(arg, false)
		if err != nil {
			return result{}, err
		}
		args = append(args, av.vi)
	}
	if tail {
		c.emit(op.Instruction{Op: op.TailCall, Value: callee.vi})
		for _, av := range args {
			c.emit(op.Instruction{Op: op.CallArgument, Value: av})
			c.drop(av)
		}
		c.drop(callee.vi)
		return result{done: true}, nil
	}
	// The result register must not alias an operand: operand registers are
	// swept only after the call has returned.
	r := c.temp()
	c.emit(op.Instruction{Op: op.Call, Value: callee.vi, Target: r})
	for _, av := range args {
		c.emit(op.Instruction{Op: op.CallArgument, Value: av})
	}
	for _, av := range args {
		c.release(av)
	}
	c.release(callee.vi)
	return value(op.Register(r)), nil
}

func (c *Compiler) compileFunc(e *ast.Func) (result, error) {
	name := c.hint
	c.hint = ""
	c.pushFrame(name, e.Params)
	res, err := c.compileExpr(e.Body, true)
	if err != nil {
		return result{}, err
	}
	if !res.done {
		c.emit(op.Instruction{Op: op.Return, Value: res.vi})
	}
	fn, err := c.popFrame()
	if err != nil {
		return result{}, err
	}
	f, err := c.current()
	if err != nil {
		return result{}, err
	}
	f.functions = append(f.functions, fn)
	fnIndex := uint16(len(f.functions) - 1)
	r := c.temp()
	c.emit(op.Instruction{Op: op.CreateClosure, Index: fnIndex, Target: r})
	for _, capture := range fn.Captures {
		c.emit(op.Instruction{Op: op.CaptureValue, Value: capture})
	}
	return value(op.Register(r)), nil
}

func (c *Compiler) compileLet(e *ast.Let, tail bool) (result, error) {
	if e.Body == nil {
		return result{}, errz.CompileAt(errz.NoElementsInLet, e.Location(),
			"let has no value expression")
	}
	f, err := c.current()
	if err != nil {
		return result{}, err
	}
	outer := f.depth
	f.depth++
	if e.Recursive {
		if err := c.compileRecursiveBindings(e.Bindings); err != nil {
			return result{}, err
		}
	} else {
		for _, b := range e.Bindings {
			c.hint = b.Name
			bv, err := c.compileExpr(b.Value, false)
			c.hint = ""
			if err != nil {
				return result{}, err
			}
			if _, err := c.bind(b.Name, bv.vi); err != nil {
				return result{}, err
			}
		}
	}
	res, err := c.compileExpr(e.Body, tail)
	if err != nil {
		return result{}, err
	}
	if res.done {
		f.depth = outer
		return res, nil
	}
	c.closeScope(outer, res.vi)
	return res, nil
}

// compileRecursiveBindings declares every name with a placeholder cell
// before compiling any value, so the values can refer to each other.
func (c *Compiler) compileRecursiveBindings(bindings []ast.Binding) error {
	registers := make([]uint16, len(bindings))
	f := c.frames[len(c.frames)-1]
	for i, b := range bindings {
		r := c.alloc(slot{state: slotNamed, name: b.Name, depth: f.depth})
		c.emit(op.Instruction{Op: op.DeclareRecursive, Target: r})
		registers[i] = r
	}
	for i, b := range bindings {
		c.hint = b.Name
		bv, err := c.compileExpr(b.Value, false)
		c.hint = ""
		if err != nil {
			return err
		}
		c.emit(op.Instruction{Op: op.FillRecursive, Value: bv.vi, Target: registers[i]})
		c.release(bv.vi)
	}
	return nil
}

func (c *Compiler) compileBlock(e *ast.Block, tail bool) (result, error) {
	f, err := c.current()
	if err != nil {
		return result{}, err
	}
	outer := f.depth
	f.depth++
	for _, expr := range e.Exprs[:len(e.Exprs)-1] {
		res, err := c.compileExpr(expr, false)
		if err != nil {
			return result{}, err
		}
		c.release(res.vi)
	}
	res, err := c.compileExpr(e.Exprs[len(e.Exprs)-1], tail)
	if err != nil {
		return result{}, err
	}
	if res.done {
		f.depth = outer
		return res, nil
	}
	c.closeScope(outer, res.vi)
	return res, nil
}

func (c *Compiler) compileCond(e *ast.Cond, tail bool) (result, error) {
	if tail {
		return c.compileTailCond(e)
	}
	r := c.temp()
	var endJumps []int
	for _, clause := range e.Clauses {
		test, err := c.compileExpr(clause.Test, false)
		if err != nil {
			return result{}, err
		}
		skip := c.placeholder()
		closed := c.release(test.vi)
		res, err := c.compileExpr(clause.Result, false)
		if err != nil {
			return result{}, err
		}
		c.emit(op.Instruction{Op: op.CopyValue, Value: res.vi, Target: r})
		c.release(res.vi)
		endJumps = append(endJumps, c.placeholder())
		c.patch(skip, op.Instruction{Op: op.JumpToPositionIfFalse, Value: test.vi})
		// The skipped path never ran the clause's sweep, so close the test
		// register on its side of the jump too.
		if closed {
			c.emit(op.Instruction{Op: op.CloseValue, Target: test.vi.Index})
		}
	}
	res, err := c.compileExpr(e.Else, false)
	if err != nil {
		return result{}, err
	}
	c.emit(op.Instruction{Op: op.CopyValue, Value: res.vi, Target: r})
	c.release(res.vi)
	for _, pos := range endJumps {
		c.patch(pos, op.Instruction{Op: op.Jump})
	}
	return value(op.Register(r)), nil
}

// compileTailCond compiles a conditional in tail position: every branch
// ends the frame itself, so no merge register or end jumps are needed.
func (c *Compiler) compileTailCond(e *ast.Cond) (result, error) {
	for _, clause := range e.Clauses {
		test, err := c.compileExpr(clause.Test, false)
		if err != nil {
			return result{}, err
		}
		skip := c.placeholder()
		closed := c.release(test.vi)
		res, err := c.compileExpr(clause.Result, true)
		if err != nil {
			return result{}, err
		}
		if !res.done {
			c.emit(op.Instruction{Op: op.Return, Value: res.vi})
			c.drop(res.vi)
		}
		c.patch(skip, op.Instruction{Op: op.JumpToPositionIfFalse, Value: test.vi})
		if closed {
			c.emit(op.Instruction{Op: op.CloseValue, Target: test.vi.Index})
		}
	}
	res, err := c.compileExpr(e.Else, true)
	if err != nil {
		return result{}, err
	}
	if !res.done {
		c.emit(op.Instruction{Op: op.Return, Value: res.vi})
	}
	return result{done: true}, nil
}

// compileList builds a list literal by pushing each item onto the empty
// list with the push native.
func (c *Compiler) compileList(e *ast.List) (result, error) {
	acc := value(c.constant(object.EmptyList))
	if len(e.Items) == 0 {
		return acc, nil
	}
	push, err := c.native("push", e)
	if err != nil {
		return result{}, err
	}
	for _, item := range e.Items {
		iv, err := c.compileExpr(item, false)
		if err != nil {
			return result{}, err
		}
		r := c.temp()
		c.emit(op.Instruction{Op: op.Call, Value: push, Target: r})
		c.emit(op.Instruction{Op: op.CallArgument, Value: acc.vi})
		c.emit(op.Instruction{Op: op.CallArgument, Value: iv.vi})
		c.release(acc.vi)
		c.release(iv.vi)
		acc = value(op.Register(r))
	}
	c.release(push)
	return acc, nil
}
