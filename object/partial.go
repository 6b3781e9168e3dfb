package object

// Partial is a native function with some of its arguments applied. Closures
// track applied arguments themselves; natives need this wrapper.
type Partial struct {
	builtin *Builtin
	applied []Object
}

// NewPartial creates a Partial over a builtin.
func NewPartial(builtin *Builtin, applied []Object) *Partial {
	return &Partial{builtin: builtin, applied: applied}
}

// Builtin returns the wrapped native.
func (p *Partial) Builtin() *Builtin {
	return p.builtin
}

// Applied returns the arguments applied so far.
func (p *Partial) Applied() []Object {
	return p.applied
}

// Apply returns a new Partial with args added to the applied list.
func (p *Partial) Apply(args []Object) *Partial {
	applied := make([]Object, 0, len(p.applied)+len(args))
	applied = append(applied, p.applied...)
	applied = append(applied, args...)
	return &Partial{builtin: p.builtin, applied: applied}
}

func (p *Partial) Type() Type {
	return PARTIAL
}

func (p *Partial) Inspect() string {
	return p.builtin.Inspect()
}

func (p *Partial) Interface() interface{} {
	return nil
}

// Equals is identity for partials.
func (p *Partial) Equals(other Object) bool {
	return p == other
}

func (p *Partial) IsTruthy() bool {
	return true
}
