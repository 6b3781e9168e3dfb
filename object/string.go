package object

import "fmt"

// String is a maxlang string.
type String struct {
	value string
}

// NewString creates a String.
func NewString(value string) *String {
	return &String{value: value}
}

// Value returns the underlying Go string.
func (s *String) Value() string {
	return s.value
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Inspect() string {
	return fmt.Sprintf("%q", s.value)
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) Equals(other Object) bool {
	o, ok := other.(*String)
	return ok && o.value == s.value
}

func (s *String) IsTruthy() bool {
	return true
}
