// Package builtins holds the native function table. The table is a closed
// enumeration: the compiler resolves unbound symbols against it and emits
// InsertNativeFunction with the stable id returned by Resolve.
package builtins

import (
	"context"
	"fmt"

	"github.com/maxlang/maxlang/errz"
	"github.com/maxlang/maxlang/object"
)

// table order is the id space used by InsertNativeFunction. Append-only.
var table []*object.Builtin

var idsByName = map[string]uint16{}

func register(name string, arity int, fn object.BuiltinFunction) {
	idsByName[name] = uint16(len(table))
	table = append(table, object.NewBuiltin(name, arity, fn))
}

func init() {
	register("+", 2, numeric2("+", func(a, b float64) float64 { return a + b }))
	register("-", 2, numeric2("-", func(a, b float64) float64 { return a - b }))
	register("*", 2, numeric2("*", func(a, b float64) float64 { return a * b }))
	register("/", 2, numeric2("/", func(a, b float64) float64 { return a / b }))
	register("lt", 2, compare2("lt", func(a, b float64) bool { return a < b }))
	register("gt", 2, compare2("gt", func(a, b float64) bool { return a > b }))
	register("eq", 2, eqBuiltin)
	register("print", 1, printBuiltin)
	register("ind", 2, indBuiltin)
	register("push", 2, pushBuiltin)
	register("set", 3, setBuiltin)
	register("len", 1, lenBuiltin)
	register("str", 1, strBuiltin)
}

// Resolve returns the id of the named native.
func Resolve(name string) (uint16, bool) {
	id, ok := idsByName[name]
	return id, ok
}

// ByID returns the native with the given id.
func ByID(id uint16) (*object.Builtin, bool) {
	if int(id) >= len(table) {
		return nil, false
	}
	return table[id], true
}

// Names returns all native names, in id order.
func Names() []string {
	names := make([]string, 0, len(table))
	for _, b := range table {
		names = append(names, b.Name())
	}
	return names
}

func number(name string, arg object.Object) (float64, error) {
	n, ok := arg.(*object.Number)
	if !ok {
		return 0, errz.Runtime(errz.NotANumber, "%s: got %s", name, arg.Type())
	}
	return n.Value(), nil
}

func numeric2(name string, fn func(a, b float64) float64) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		a, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		b, err := number(name, args[1])
		if err != nil {
			return nil, err
		}
		return object.NewNumber(fn(a, b)), nil
	}
}

func compare2(name string, fn func(a, b float64) bool) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		a, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		b, err := number(name, args[1])
		if err != nil {
			return nil, err
		}
		return object.FromBool(fn(a, b)), nil
	}
}

func eqBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.FromBool(args[0].Equals(args[1])), nil
}

func printBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	out := object.PrintWriter(ctx)
	var text string
	if s, ok := args[0].(*object.String); ok {
		text = s.Value()
	} else {
		text = args[0].Inspect()
	}
	if _, err := fmt.Fprintln(out, text); err != nil {
		return nil, err
	}
	return object.Nil, nil
}

func list(name string, arg object.Object) (*object.List, error) {
	l, ok := arg.(*object.List)
	if !ok {
		return nil, errz.Runtime(errz.NotAList, "%s: got %s", name, arg.Type())
	}
	return l, nil
}

func index(name string, arg object.Object) (int, error) {
	n, err := number(name, arg)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func indBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	l, err := list("ind", args[0])
	if err != nil {
		return nil, err
	}
	i, err := index("ind", args[1])
	if err != nil {
		return nil, err
	}
	item, ok := l.Ind(i)
	if !ok {
		return nil, errz.Runtime(errz.ValueNotSet, "ind: index %d out of range (len %d)", i, l.Len())
	}
	return item, nil
}

func pushBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	l, err := list("push", args[0])
	if err != nil {
		return nil, err
	}
	return l.Push(args[1]), nil
}

func setBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	l, err := list("set", args[0])
	if err != nil {
		return nil, err
	}
	i, err := index("set", args[1])
	if err != nil {
		return nil, err
	}
	updated, ok := l.Set(i, args[2])
	if !ok {
		return nil, errz.Runtime(errz.ValueNotSet, "set: index %d out of range (len %d)", i, l.Len())
	}
	return updated, nil
}

func lenBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	switch arg := args[0].(type) {
	case *object.List:
		return object.NewNumber(float64(arg.Len())), nil
	case *object.String:
		return object.NewNumber(float64(len(arg.Value()))), nil
	default:
		return nil, errz.Runtime(errz.NotAList, "len: got %s", arg.Type())
	}
}

func strBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	if s, ok := args[0].(*object.String); ok {
		return s, nil
	}
	return object.NewString(args[0].Inspect()), nil
}
