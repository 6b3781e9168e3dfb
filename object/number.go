package object

import "strconv"

// Number is a maxlang number. All numbers are float64.
type Number struct {
	value float64
}

// NewNumber creates a Number.
func NewNumber(value float64) *Number {
	return &Number{value: value}
}

// Value returns the underlying float64.
func (n *Number) Value() float64 {
	return n.value
}

func (n *Number) Type() Type {
	return NUMBER
}

func (n *Number) Inspect() string {
	return strconv.FormatFloat(n.value, 'g', -1, 64)
}

func (n *Number) Interface() interface{} {
	return n.value
}

func (n *Number) Equals(other Object) bool {
	o, ok := other.(*Number)
	return ok && o.value == n.value
}

func (n *Number) IsTruthy() bool {
	return true
}
