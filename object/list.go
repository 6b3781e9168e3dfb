package object

import "strings"

// List is an immutable maxlang list. Mutating operations return a new list
// and leave the receiver untouched, so lists can be shared freely between
// closures.
type List struct {
	items []Object
}

// NewList creates a List holding the given items. The slice is not copied;
// callers must not retain it.
func NewList(items []Object) *List {
	return &List{items: items}
}

// EmptyList is the empty list.
var EmptyList = &List{}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Ind returns item i, or false if i is out of range.
func (l *List) Ind(i int) (Object, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

// Push returns a new list with item appended.
func (l *List) Push(item Object) *List {
	items := make([]Object, len(l.items)+1)
	copy(items, l.items)
	items[len(l.items)] = item
	return &List{items: items}
}

// Set returns a new list with item i replaced, or false if i is out of
// range.
func (l *List) Set(i int, item Object) (*List, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	items := make([]Object, len(l.items))
	copy(items, l.items)
	items[i] = item
	return &List{items: items}, true
}

func (l *List) Type() Type {
	return LIST
}

func (l *List) Inspect() string {
	parts := make([]string, 0, len(l.items))
	for _, item := range l.items {
		parts = append(parts, item.Inspect())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (l *List) Interface() interface{} {
	items := make([]interface{}, 0, len(l.items))
	for _, item := range l.items {
		items = append(items, item.Interface())
	}
	return items
}

func (l *List) Equals(other Object) bool {
	o, ok := other.(*List)
	if !ok || len(o.items) != len(l.items) {
		return false
	}
	for i, item := range l.items {
		if !item.Equals(o.items[i]) {
			return false
		}
	}
	return true
}

func (l *List) IsTruthy() bool {
	return true
}
