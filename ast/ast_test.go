package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxlang/maxlang/token"
)

func TestString(t *testing.T) {
	add := &Call{
		Callee: &Ident{Name: "+"},
		Args:   []Expr{&Ident{Name: "x"}, &Number{Value: 1}},
	}
	tests := []struct {
		node Expr
		want string
	}{
		{&Number{Value: 3.25}, "3.25"},
		{&Number{Value: 42}, "42"},
		{&String{Value: "hi"}, `"hi"`},
		{&Bool{Value: true}, "true"},
		{&Bool{Value: false}, "false"},
		{&Nil{}, "nil"},
		{&Ident{Name: "fib"}, "fib"},
		{add, "(+ x 1)"},
		{&Func{Params: []string{"x"}, Body: add}, "|x| (+ x 1)"},
		{&List{Items: []Expr{&Number{Value: 1}, &Number{Value: 2}}}, "[1 2]"},
		{&Block{Exprs: []Expr{&Ident{Name: "a"}, &Ident{Name: "b"}}}, "{ a b }"},
		{
			&Cond{
				Clauses: []CondClause{{Test: &Ident{Name: "p"}, Result: &Number{Value: 1}}},
				Else:    &Number{Value: 2},
			},
			"< p: 1, else 2 >",
		},
		{
			&Let{
				Bindings: []Binding{{Name: "x", Value: &Number{Value: 1}}},
				Body:     &Ident{Name: "x"},
			},
			"let {x: 1, x}",
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.node.String())
	}
}

func TestLocation(t *testing.T) {
	loc := token.Location{
		Start: token.Position{Line: 1, Column: 2},
		End:   token.Position{Line: 1, Column: 5},
	}
	n := &Number{Loc: loc, Value: 7}
	require.Equal(t, loc, n.Location())
	require.True(t, n.Location().IsValid())
}
