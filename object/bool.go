package object

// Bool is a maxlang boolean. Use the True and False singletons rather than
// constructing values.
type Bool struct {
	value bool
}

// True is the singleton true value.
var True = &Bool{value: true}

// False is the singleton false value.
var False = &Bool{value: false}

// FromBool returns the singleton for the given Go bool.
func FromBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// Value returns the underlying bool.
func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) Interface() interface{} {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	o, ok := other.(*Bool)
	return ok && o.value == b.value
}

func (b *Bool) IsTruthy() bool {
	return b.value
}
