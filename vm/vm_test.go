package vm

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxlang/maxlang/compiler"
	"github.com/maxlang/maxlang/errz"
	"github.com/maxlang/maxlang/object"
	"github.com/maxlang/maxlang/op"
	"github.com/maxlang/maxlang/parser"
)

func compileSource(t *testing.T, input string) *object.Function {
	t.Helper()
	expr, err := parser.Parse(context.Background(), input)
	require.NoError(t, err)
	fn, err := compiler.Compile(expr)
	require.NoError(t, err)
	return fn
}

func run(t *testing.T, input string, opts ...Option) object.Object {
	t.Helper()
	machine := New(compileSource(t, input), opts...)
	result, err := machine.Run(context.Background())
	require.NoError(t, err)
	return result
}

func runErr(t *testing.T, input string) *errz.RuntimeError {
	t.Helper()
	machine := New(compileSource(t, input))
	_, err := machine.Run(context.Background())
	require.Error(t, err)
	rerr, ok := err.(*errz.RuntimeError)
	require.True(t, ok, "want RuntimeError, got %T: %v", err, err)
	return rerr
}

func num(v float64) *object.Number { return object.NewNumber(v) }

func TestLiteral(t *testing.T) {
	require.True(t, run(t, "42").Equals(num(42)))
	require.True(t, run(t, `"hi"`).Equals(object.NewString("hi")))
	require.Same(t, object.True, run(t, "true"))
	require.Same(t, object.Nil, run(t, "nil"))
}

func TestArithmetic(t *testing.T) {
	require.True(t, run(t, "(+ 1 2)").Equals(num(3)))
	require.True(t, run(t, "(* (+ 1 2) (- 10 6))").Equals(num(12)))
	require.True(t, run(t, "(/ 7 2)").Equals(num(3.5)))
}

func TestLet(t *testing.T) {
	require.True(t, run(t, "let { x: 2, y: 3, (* x y) }").Equals(num(6)))
	require.True(t, run(t, "let { x: 1, x: (+ x 1), x }").Equals(num(2)))
}

func TestShadowing(t *testing.T) {
	require.True(t, run(t, "let { x: 1, y: let { x: 10, x }, (+ x y) }").Equals(num(11)))
}

func TestBlock(t *testing.T) {
	var buf bytes.Buffer
	result := run(t, `{ (print "a") (print "b") 3 }`, WithOutput(&buf))
	require.True(t, result.Equals(num(3)))
	require.Equal(t, "a\nb\n", buf.String())
}

func TestCond(t *testing.T) {
	require.True(t, run(t, "< (lt 1 2): 10, 20 >").Equals(num(10)))
	require.True(t, run(t, "< (lt 2 1): 10, 20 >").Equals(num(20)))
	require.True(t, run(t, "< false: 1, false: 2, (gt 3 0): 3, 4 >").Equals(num(3)))
}

func TestFunctionCall(t *testing.T) {
	require.True(t, run(t, "(|a b| (+ a b) 1 2)").Equals(num(3)))
	require.True(t, run(t, "let { f: || 7, (f) }").Equals(num(7)))
}

func TestClosureCapture(t *testing.T) {
	require.True(t, run(t, "let { a: 2, f: |x| (+ a x), (f 3) }").Equals(num(5)))
}

func TestNestedClosureCapture(t *testing.T) {
	src := `
let {
  make: |a| |b| (+ a b),
  add3: (make 3),
  (add3 4)
}`
	require.True(t, run(t, src).Equals(num(7)))
}

func TestCurryingClosures(t *testing.T) {
	src := `
let {
  add: |a b| (+ a b),
  inc: (add 1),
  (inc 41)
}`
	require.True(t, run(t, src).Equals(num(42)))
}

func TestCurryingStepwise(t *testing.T) {
	src := `
let {
  f: |a b c| (+ a (+ b c)),
  g: (f 1),
  h: (g 2),
  (h 3)
}`
	require.True(t, run(t, src).Equals(num(6)))
}

func TestCurryingNatives(t *testing.T) {
	require.True(t, run(t, "let { inc: (+ 1), (inc 2) }").Equals(num(3)))
	require.True(t, run(t, "let { second: (ind [4 5 6]), (second 1) }").Equals(num(5)))
}

func TestCurriedClosureIsAValue(t *testing.T) {
	machine := New(compileSource(t, "let { add: |a b| (+ a b), (add 1) }"))
	result, err := machine.Run(context.Background())
	require.NoError(t, err)
	closure, ok := result.(*object.Closure)
	require.True(t, ok)
	require.Len(t, closure.Applied(), 1)
}

func TestLetrecFib(t *testing.T) {
	src := `
letrec {
  fib: |n| <
    (lt n 2): n,
    (+ (fib (- n 1)) (fib (- n 2)))
  >,
  (fib 10)
}`
	require.True(t, run(t, src).Equals(num(55)))
}

func TestLetrecMutual(t *testing.T) {
	src := `
letrec {
  even: |n| < (eq n 0): true, (odd (- n 1)) >,
  odd:  |n| < (eq n 0): false, (even (- n 1)) >,
  (even 10)
}`
	require.Same(t, object.True, run(t, src))
}

func TestLetrecValueBinding(t *testing.T) {
	require.True(t, run(t, "letrec { n: 5, f: || n, (f) }").Equals(num(5)))
}

func TestLetrecReadBeforeFill(t *testing.T) {
	err := runErr(t, "letrec { x: x, x }")
	require.Equal(t, errz.ValueNotSet, err.Kind)
}

func TestTailCallsRunInConstantFrameDepth(t *testing.T) {
	src := `
letrec {
  down: |n| < (eq n 0): 0, (down (- n 1)) >,
  (down 500)
}`
	maxDepth := 0
	observer := ObserverFunc(func(e StepEvent) {
		if e.FrameDepth > maxDepth {
			maxDepth = e.FrameDepth
		}
	})
	result := run(t, src, WithObserver(observer))
	require.True(t, result.Equals(num(0)))
	require.LessOrEqual(t, maxDepth, 2)
}

func TestNonTailRecursionGrowsFrameDepth(t *testing.T) {
	src := `
letrec {
  fib: |n| < (lt n 2): n, (+ (fib (- n 1)) (fib (- n 2))) >,
  (fib 8)
}`
	maxDepth := 0
	observer := ObserverFunc(func(e StepEvent) {
		if e.FrameDepth > maxDepth {
			maxDepth = e.FrameDepth
		}
	})
	result := run(t, src, WithObserver(observer))
	require.True(t, result.Equals(num(21)))
	require.GreaterOrEqual(t, maxDepth, 5)
}

func TestLists(t *testing.T) {
	result := run(t, "[1 (+ 1 1) 3]")
	list, ok := result.(*object.List)
	require.True(t, ok)
	require.Equal(t, 3, list.Len())
	item, _ := list.Ind(1)
	require.True(t, item.Equals(num(2)))

	require.True(t, run(t, "(len (push [1 2] 3))").Equals(num(3)))
	require.True(t, run(t, "(ind (set [1 2] 0 9) 0)").Equals(num(9)))
}

func TestStrings(t *testing.T) {
	require.True(t, run(t, `(str 3.5)`).Equals(object.NewString("3.5")))
	require.True(t, run(t, `(len "abc")`).Equals(num(3)))
	require.Same(t, object.True, run(t, `(eq "a" "a")`))
}

func TestRuntimeFaults(t *testing.T) {
	tests := []struct {
		input string
		kind  errz.RuntimeKind
	}{
		{"(1 2)", errz.NotAFunction},
		{"< 1: 2, 3 >", errz.NotABoolean},
		{"< nil: 2, 3 >", errz.NotABoolean},
		{"(+ 1 true)", errz.NotANumber},
		{"let { f: |a| a, (f 1 2) }", errz.TooManyArguments},
		{"(+ 1 2 3)", errz.TooManyArguments},
		{"(push 1 2)", errz.NotAList},
	}
	for _, tt := range tests {
		err := runErr(t, tt.input)
		require.Equal(t, tt.kind, err.Kind, tt.input)
	}
}

func TestStep(t *testing.T) {
	machine := New(compileSource(t, "(+ 1 2)"))
	var result object.Object
	var done bool
	var err error
	steps := 0
	for !done {
		result, done, err = machine.Step()
		require.NoError(t, err)
		steps++
		require.Less(t, steps, 100)
	}
	require.True(t, result.Equals(num(3)))

	// Stepping a finished machine keeps returning the result.
	again, done, err := machine.Step()
	require.NoError(t, err)
	require.True(t, done)
	require.True(t, again.Equals(num(3)))
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := "letrec { loop: |n| (loop n), (loop 0) }"
	machine := New(compileSource(t, src), WithContextCheckInterval(10))
	_, err := machine.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestObserverSeesInstructions(t *testing.T) {
	var ops []op.Code
	observer := ObserverFunc(func(e StepEvent) {
		ops = append(ops, e.Instruction.Op)
	})
	run(t, "42", WithObserver(observer))
	require.Equal(t, []op.Code{op.Return}, ops)
}

func TestNoMoreOpCodes(t *testing.T) {
	fn := &object.Function{
		Instructions: []op.Instruction{{Op: op.Nop}},
	}
	machine := New(fn)
	_, _, err := machine.Step()
	require.NoError(t, err)
	_, _, err = machine.Step()
	require.Error(t, err)
	rerr, ok := err.(*errz.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errz.NoMoreOpCodes, rerr.Kind)
}

func TestCrashInstruction(t *testing.T) {
	fn := &object.Function{
		Instructions: []op.Instruction{{Op: op.Crash}},
	}
	_, _, err := New(fn).Step()
	require.Error(t, err)
	rerr, ok := err.(*errz.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errz.Crash, rerr.Kind)
}

func TestStrayArgumentInstruction(t *testing.T) {
	// A CallArgument reached by dispatch was not consumed by any call.
	fn := &object.Function{
		Instructions: []op.Instruction{{Op: op.CallArgument, Value: op.Constant(0)}},
		Constants:    []object.Object{object.NewNumber(1)},
	}
	_, _, err := New(fn).Step()
	require.Error(t, err)
	rerr, ok := err.(*errz.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errz.Crash, rerr.Kind)
}

func TestTruncatedCaptureRun(t *testing.T) {
	inner := &object.Function{
		Arity:        0,
		Captures:     []op.ValueIndex{op.Register(0)},
		Instructions: []op.Instruction{{Op: op.Return, Value: op.Capture(0)}},
	}
	fn := &object.Function{
		Registers:    1,
		Functions:    []*object.Function{inner},
		Instructions: []op.Instruction{{Op: op.CreateClosure, Index: 0, Target: 0}},
	}
	_, _, err := New(fn).Step()
	require.Error(t, err)
	rerr, ok := err.(*errz.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errz.Crash, rerr.Kind)
}

func TestPrintDefaultsInspectForm(t *testing.T) {
	var buf bytes.Buffer
	run(t, "(print [1 2])", WithOutput(&buf))
	require.Equal(t, "[1 2]\n", buf.String())
}
