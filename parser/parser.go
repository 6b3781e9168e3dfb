// Package parser turns maxlang source text into an ast.Expr. It is a
// recursive-descent parser over the token stream produced by internal/lexer.
//
// A program is a single expression. Multiple top-level expressions are
// accepted and wrapped in a block, so files read naturally.
package parser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/maxlang/maxlang/ast"
	"github.com/maxlang/maxlang/internal/lexer"
	"github.com/maxlang/maxlang/token"
)

// Error is a parse error with the token that triggered it.
type Error struct {
	Message string
	Token   token.Token
}

func (e *Error) Error() string {
	pos := e.Token.Location.Start
	return fmt.Sprintf("parse error: %s (line %d, column %d)",
		e.Message, pos.LineNumber(), pos.ColumnNumber())
}

// Location returns the source span of the offending token.
func (e *Error) Location() token.Location {
	return e.Token.Location
}

type options struct {
	filename string
}

// Option configures a call to Parse.
type Option func(*options)

// WithFilename sets the filename used in locations and error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Parse tokenises and parses the given source code.
func Parse(ctx context.Context, input string, opts ...Option) (ast.Expr, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	l := lexer.New(input)
	if o.filename != "" {
		l.SetFilename(o.filename)
	}
	tokens, err := l.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{ctx: ctx, tokens: tokens}
	var exprs []ast.Expr
	for !p.atEOF() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	switch len(exprs) {
	case 0:
		return nil, &Error{Message: "empty input", Token: p.current()}
	case 1:
		return exprs[0], nil
	default:
		return &ast.Block{
			Loc: token.Location{
				Start: exprs[0].Location().Start,
				End:   exprs[len(exprs)-1].Location().End,
			},
			Exprs: exprs,
		}, nil
	}
}

type parser struct {
	ctx    context.Context
	tokens []token.Token
	pos    int
}

func (p *parser) atEOF() bool {
	return p.pos >= len(p.tokens)
}

// current returns the token at the cursor, or a synthetic EOF token when the
// input is exhausted.
func (p *parser) current() token.Token {
	if p.atEOF() {
		var loc token.Location
		if n := len(p.tokens); n > 0 {
			loc = token.Location{
				Start: p.tokens[n-1].Location.End,
				End:   p.tokens[n-1].Location.End,
			}
		}
		return token.Token{Type: token.EOF, Location: loc}
	}
	return p.tokens[p.pos]
}

func (p *parser) peekIs(typ token.Type) bool {
	if p.pos+1 >= len(p.tokens) {
		return typ == token.EOF
	}
	return p.tokens[p.pos+1].Type == typ
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if !p.atEOF() {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ token.Type) (token.Token, error) {
	tok := p.current()
	if tok.Type != typ {
		return token.Token{}, p.unexpected(tok, string(typ))
	}
	return p.advance(), nil
}

func (p *parser) unexpected(tok token.Token, wanted string) error {
	if tok.Type == token.EOF {
		return &Error{Message: fmt.Sprintf("unexpected end of input (expected %s)", wanted), Token: tok}
	}
	return &Error{
		Message: fmt.Sprintf("unexpected token %q (expected %s)", tok.Literal, wanted),
		Token:   tok,
	}
}

func (p *parser) parseExpr() (ast.Expr, error) {
	if err := p.ctx.Err(); err != nil {
		return nil, err
	}
	tok := p.current()
	switch tok.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		p.advance()
		return &ast.String{Loc: tok.Location, Value: tok.Literal}, nil
	case token.SYMBOL:
		p.advance()
		switch tok.Literal {
		case "true":
			return &ast.Bool{Loc: tok.Location, Value: true}, nil
		case "false":
			return &ast.Bool{Loc: tok.Location, Value: false}, nil
		case "nil":
			return &ast.Nil{Loc: tok.Location}, nil
		}
		return &ast.Ident{Loc: tok.Location, Name: tok.Literal}, nil
	case token.PIPE:
		return p.parseFunc()
	case token.LPAREN:
		return p.parseCall()
	case token.LET:
		return p.parseLet(false)
	case token.LETREC:
		return p.parseLet(true)
	case token.LANGLE:
		return p.parseCond()
	case token.LBRACE:
		return p.parseBlock()
	case token.LBRACKET:
		return p.parseList()
	case token.EXTRACT, token.DOLLAR, token.BACKTICK:
		p.advance()
		return nil, &Error{
			Message: fmt.Sprintf("%q is reserved", tok.Literal),
			Token:   tok,
		}
	default:
		return nil, p.unexpected(tok, "an expression")
	}
}

func (p *parser) parseNumber() (ast.Expr, error) {
	tok := p.advance()
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, &Error{
			Message: fmt.Sprintf("invalid number %q", tok.Literal),
			Token:   tok,
		}
	}
	return &ast.Number{Loc: tok.Location, Value: value}, nil
}

// parseFunc parses |a b| body.
func (p *parser) parseFunc() (ast.Expr, error) {
	open := p.advance()
	var params []string
	for p.current().Type != token.PIPE {
		sym, err := p.expect(token.SYMBOL)
		if err != nil {
			return nil, err
		}
		params = append(params, sym.Literal)
	}
	p.advance()
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Func{
		Loc:    token.Location{Start: open.Location.Start, End: body.Location().End},
		Params: params,
		Body:   body,
	}, nil
}

// parseCall parses (callee arg1 arg2 ...).
func (p *parser) parseCall() (ast.Expr, error) {
	open := p.advance()
	callee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.current().Type != token.RPAREN {
		if p.atEOF() {
			return nil, p.unexpected(p.current(), `")"`)
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	closing := p.advance()
	return &ast.Call{
		Loc:    token.Location{Start: open.Location.Start, End: closing.Location.End},
		Callee: callee,
		Args:   args,
	}, nil
}

// parseLet parses let { name: value, ..., result } and the letrec variant.
// The final element is the form's value; a form whose last element is a
// binding has no value, which the compiler rejects.
func (p *parser) parseLet(recursive bool) (ast.Expr, error) {
	kw := p.advance()
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var bindings []ast.Binding
	var body ast.Expr
	for p.current().Type != token.RBRACE {
		if p.atEOF() {
			return nil, p.unexpected(p.current(), `"}"`)
		}
		if body != nil {
			return nil, &Error{
				Message: "let value must be the final element",
				Token:   p.current(),
			}
		}
		if p.current().Type == token.SYMBOL && p.peekIs(token.COLON) {
			name := p.advance()
			p.advance() // colon
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, ast.Binding{
				Name:  name.Literal,
				Loc:   name.Location,
				Value: value,
			})
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			body = expr
		}
		if p.current().Type == token.COMMA {
			p.advance()
		} else if p.current().Type != token.RBRACE {
			return nil, p.unexpected(p.current(), `"," or "}"`)
		}
	}
	closing := p.advance()
	return &ast.Let{
		Loc:       token.Location{Start: kw.Location.Start, End: closing.Location.End},
		Recursive: recursive,
		Bindings:  bindings,
		Body:      body,
	}, nil
}

// parseCond parses < test: result, ..., default >. The final element is the
// default; it may be introduced with the marker word "else" for readability.
func (p *parser) parseCond() (ast.Expr, error) {
	open := p.advance()
	var clauses []ast.CondClause
	var deflt ast.Expr
	for p.current().Type != token.RANGLE {
		if p.atEOF() {
			return nil, p.unexpected(p.current(), `">"`)
		}
		if deflt != nil {
			return nil, &Error{
				Message: "default must be the final element of a conditional",
				Token:   p.current(),
			}
		}
		if tok := p.current(); tok.Type == token.SYMBOL && tok.Literal == "else" && !p.peekIs(token.RANGLE) && !p.peekIs(token.COLON) {
			p.advance()
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.current().Type == token.COLON {
			p.advance()
			result, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, ast.CondClause{Test: expr, Result: result})
		} else {
			deflt = expr
		}
		if p.current().Type == token.COMMA {
			p.advance()
		} else if p.current().Type != token.RANGLE {
			return nil, p.unexpected(p.current(), `"," or ">"`)
		}
	}
	closing := p.advance()
	if deflt == nil {
		return nil, &Error{
			Message: "conditional has no default",
			Token:   closing,
		}
	}
	return &ast.Cond{
		Loc:     token.Location{Start: open.Location.Start, End: closing.Location.End},
		Clauses: clauses,
		Else:    deflt,
	}, nil
}

// parseBlock parses { expr expr ... }.
func (p *parser) parseBlock() (ast.Expr, error) {
	open := p.advance()
	var exprs []ast.Expr
	for p.current().Type != token.RBRACE {
		if p.atEOF() {
			return nil, p.unexpected(p.current(), `"}"`)
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	closing := p.advance()
	if len(exprs) == 0 {
		return nil, &Error{Message: "empty block", Token: closing}
	}
	return &ast.Block{
		Loc:   token.Location{Start: open.Location.Start, End: closing.Location.End},
		Exprs: exprs,
	}, nil
}

// parseList parses [ e1 e2 ... ].
func (p *parser) parseList() (ast.Expr, error) {
	open := p.advance()
	var items []ast.Expr
	for p.current().Type != token.RBRACKET {
		if p.atEOF() {
			return nil, p.unexpected(p.current(), `"]"`)
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	closing := p.advance()
	return &ast.List{
		Loc:   token.Location{Start: open.Location.Start, End: closing.Location.End},
		Items: items,
	}, nil
}
