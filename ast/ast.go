// Package ast defines the syntax tree produced by the maxlang parser. Every
// node records the source location it spans so later stages can report
// errors against the original text.
package ast

import (
	"fmt"
	"strings"

	"github.com/maxlang/maxlang/token"
)

// Expr is implemented by all expression nodes.
type Expr interface {
	// Location returns the source span of the expression.
	Location() token.Location

	// String returns a compact, source-like rendering of the expression.
	String() string

	expr()
}

// Number is a numeric literal. All maxlang numbers are float64.
type Number struct {
	Loc   token.Location
	Value float64
}

func (n *Number) Location() token.Location { return n.Loc }

func (n *Number) String() string {
	return fmt.Sprintf("%g", n.Value)
}

func (n *Number) expr() {}

// String is a string literal.
type String struct {
	Loc   token.Location
	Value string
}

func (s *String) Location() token.Location { return s.Loc }

func (s *String) String() string { return fmt.Sprintf("%q", s.Value) }

func (s *String) expr() {}

// Bool is a boolean literal (the symbols true and false).
type Bool struct {
	Loc   token.Location
	Value bool
}

func (b *Bool) Location() token.Location { return b.Loc }

func (b *Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

func (b *Bool) expr() {}

// Nil is the nil literal.
type Nil struct {
	Loc token.Location
}

func (n *Nil) Location() token.Location { return n.Loc }

func (n *Nil) String() string { return "nil" }

func (n *Nil) expr() {}

// Ident is a symbol reference.
type Ident struct {
	Loc  token.Location
	Name string
}

func (i *Ident) Location() token.Location { return i.Loc }

func (i *Ident) String() string { return i.Name }

func (i *Ident) expr() {}

// Call is a prefix application: (fn arg1 arg2 ...).
type Call struct {
	Loc    token.Location
	Callee Expr
	Args   []Expr
}

func (c *Call) Location() token.Location { return c.Loc }

func (c *Call) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Callee.String())
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (c *Call) expr() {}

// Func is a function literal: |a b| body.
type Func struct {
	Loc    token.Location
	Params []string
	Body   Expr
}

func (f *Func) Location() token.Location { return f.Loc }

func (f *Func) String() string {
	return fmt.Sprintf("|%s| %s", strings.Join(f.Params, " "), f.Body)
}

func (f *Func) expr() {}

// Binding is one name/value pair in a let or letrec form.
type Binding struct {
	Name  string
	Loc   token.Location
	Value Expr
}

// Let is a let or letrec form. Bindings are evaluated in order; Body is the
// value of the whole form.
type Let struct {
	Loc       token.Location
	Recursive bool
	Bindings  []Binding
	Body      Expr
}

func (l *Let) Location() token.Location { return l.Loc }

func (l *Let) String() string {
	var sb strings.Builder
	if l.Recursive {
		sb.WriteString("letrec {")
	} else {
		sb.WriteString("let {")
	}
	for _, b := range l.Bindings {
		fmt.Fprintf(&sb, "%s: %s, ", b.Name, b.Value)
	}
	sb.WriteString(l.Body.String())
	sb.WriteString("}")
	return sb.String()
}

func (l *Let) expr() {}

// Block is a sequence of expressions; the last one is the block's value.
type Block struct {
	Loc   token.Location
	Exprs []Expr
}

func (b *Block) Location() token.Location { return b.Loc }

func (b *Block) String() string {
	parts := make([]string, 0, len(b.Exprs))
	for _, e := range b.Exprs {
		parts = append(parts, e.String())
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func (b *Block) expr() {}

// CondClause is one test/result pair of a Cond.
type CondClause struct {
	Test   Expr
	Result Expr
}

// Cond is a multi-way conditional: < t1: r1, t2: r2, else r >.
// Else is required; the form always produces a value.
type Cond struct {
	Loc     token.Location
	Clauses []CondClause
	Else    Expr
}

func (c *Cond) Location() token.Location { return c.Loc }

func (c *Cond) String() string {
	var sb strings.Builder
	sb.WriteString("< ")
	for _, cl := range c.Clauses {
		fmt.Fprintf(&sb, "%s: %s, ", cl.Test, cl.Result)
	}
	fmt.Fprintf(&sb, "else %s >", c.Else)
	return sb.String()
}

func (c *Cond) expr() {}

// List is a list literal: [ e1 e2 ... ].
type List struct {
	Loc   token.Location
	Items []Expr
}

func (l *List) Location() token.Location { return l.Loc }

func (l *List) String() string {
	parts := make([]string, 0, len(l.Items))
	for _, e := range l.Items {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (l *List) expr() {}
