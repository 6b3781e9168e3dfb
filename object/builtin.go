package object

import (
	"context"
	"fmt"
)

// BuiltinFunction is the Go signature of a native function implementation.
type BuiltinFunction func(ctx context.Context, args ...Object) (Object, error)

// Builtin is a native function exposed to maxlang programs. Natives have a
// fixed arity and, like closures, curry when applied to fewer arguments.
type Builtin struct {
	name  string
	arity int
	fn    BuiltinFunction
}

// NewBuiltin creates a Builtin.
func NewBuiltin(name string, arity int, fn BuiltinFunction) *Builtin {
	return &Builtin{name: name, arity: arity, fn: fn}
}

// Name returns the native's name in the source language.
func (b *Builtin) Name() string {
	return b.name
}

// Arity returns the number of arguments the native requires.
func (b *Builtin) Arity() int {
	return b.arity
}

// Call invokes the native. The caller supplies exactly Arity arguments.
func (b *Builtin) Call(ctx context.Context, args ...Object) (Object, error) {
	return b.fn(ctx, args...)
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s/%d)", b.name, b.arity)
}

func (b *Builtin) Interface() interface{} {
	return nil
}

// Equals is identity for builtins.
func (b *Builtin) Equals(other Object) bool {
	return b == other
}

func (b *Builtin) IsTruthy() bool {
	return true
}
