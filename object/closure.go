package object

// Closure pairs a compiled function with the values it captured when it was
// created, plus any arguments applied so far. Applying fewer arguments than
// the arity produces a new Closure with a longer Applied list rather than a
// call; len(Applied) is always strictly less than the function's arity.
type Closure struct {
	fn       *Function
	captures []Object
	applied  []Object
}

// NewClosure creates a Closure with no applied arguments.
func NewClosure(fn *Function, captures []Object) *Closure {
	return &Closure{fn: fn, captures: captures}
}

// Function returns the compiled function.
func (c *Closure) Function() *Function {
	return c.fn
}

// Captures returns the captured values, in capture-slot order.
func (c *Closure) Captures() []Object {
	return c.captures
}

// Applied returns the arguments applied so far.
func (c *Closure) Applied() []Object {
	return c.applied
}

// Apply returns a new Closure with args added to the applied list. The
// caller checks saturation; Apply itself never calls.
func (c *Closure) Apply(args []Object) *Closure {
	applied := make([]Object, 0, len(c.applied)+len(args))
	applied = append(applied, c.applied...)
	applied = append(applied, args...)
	return &Closure{fn: c.fn, captures: c.captures, applied: applied}
}

func (c *Closure) Type() Type {
	return CLOSURE
}

func (c *Closure) Inspect() string {
	return c.fn.Inspect()
}

func (c *Closure) Interface() interface{} {
	return nil
}

// Equals is identity for closures.
func (c *Closure) Equals(other Object) bool {
	return c == other
}

func (c *Closure) IsTruthy() bool {
	return true
}
