// Package object defines the runtime value model shared by the compiler and
// the virtual machine.
package object

// Type identifies a runtime value type.
type Type string

const (
	NUMBER   Type = "number"
	BOOL     Type = "bool"
	NIL      Type = "nil"
	STRING   Type = "string"
	LIST     Type = "list"
	FUNCTION Type = "function"
	CLOSURE  Type = "closure"
	BUILTIN  Type = "builtin"
	CELL     Type = "cell"
	PARTIAL  Type = "partial"
)

// Object is implemented by all maxlang runtime values.
type Object interface {
	// Type returns the type of the object.
	Type() Type

	// Inspect returns a string representation of the object, as shown by
	// the REPL and the print native.
	Inspect() string

	// Interface converts the object to its closest native Go equivalent.
	Interface() interface{}

	// Equals reports structural equality with another object.
	Equals(other Object) bool

	// IsTruthy reports whether the object counts as true: only false and
	// nil are falsy. Conditional jumps do not consult it; they require a
	// boolean and fault on anything else.
	IsTruthy() bool
}
