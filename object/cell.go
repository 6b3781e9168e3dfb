package object

// Cell is the placeholder box behind a recursive binding. DeclareRecursive
// seeds a register with an unfilled Cell so the name is visible before its
// value exists; FillRecursive performs the single write. Ordinary operand
// reads dereference cells transparently, while capture resolution takes the
// cell itself so every closure observes the eventual fill.
type Cell struct {
	value  Object
	filled bool
}

// NewCell creates an unfilled Cell.
func NewCell() *Cell {
	return &Cell{}
}

// Fill writes the cell's value. A second fill reports false and leaves the
// first value in place.
func (c *Cell) Fill(value Object) bool {
	if c.filled {
		return false
	}
	c.value = value
	c.filled = true
	return true
}

// Get returns the cell's value, or false if it has not been filled.
func (c *Cell) Get() (Object, bool) {
	if !c.filled {
		return nil, false
	}
	return c.value, true
}

func (c *Cell) Type() Type {
	return CELL
}

func (c *Cell) Inspect() string {
	if !c.filled {
		return "cell(unfilled)"
	}
	return c.value.Inspect()
}

func (c *Cell) Interface() interface{} {
	if !c.filled {
		return nil
	}
	return c.value.Interface()
}

// Equals is identity for cells.
func (c *Cell) Equals(other Object) bool {
	return c == other
}

func (c *Cell) IsTruthy() bool {
	return c.filled && c.value.IsTruthy()
}
