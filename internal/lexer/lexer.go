// Package lexer provides the maxlang tokeniser. A Lexer wraps one input
// string and yields a stream of located tokens via Next, ending with an EOF
// token. Lexing is lazy: nothing beyond the requested token is examined.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maxlang/maxlang/token"
)

// ErrorKind classifies a tokeniser error.
type ErrorKind int

const (
	// OpenString indicates a string literal that was never terminated.
	OpenString ErrorKind = iota
	// NoMatch indicates a run of characters that matches no token rule.
	NoMatch
)

func (k ErrorKind) String() string {
	switch k {
	case OpenString:
		return "unterminated string literal"
	case NoMatch:
		return "unrecognized characters"
	default:
		return "tokenise error"
	}
}

// Error is a tokeniser error with the location of the offending characters.
type Error struct {
	Kind     ErrorKind
	Literal  string
	Location token.Location
}

func (e *Error) Error() string {
	pos := e.Location.Start
	if e.Literal != "" {
		return fmt.Sprintf("tokenise error: %s %q (line %d, column %d)",
			e.Kind, e.Literal, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("tokenise error: %s (line %d, column %d)",
		e.Kind, pos.LineNumber(), pos.ColumnNumber())
}

// Lexer tokenises one input string.
type Lexer struct {
	input string
	file  string
	pos   int
	line  int
	col   int
}

// New creates a Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// SetFilename sets the filename reported in token locations.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Tokenize consumes the entire input and returns all tokens up to but not
// including EOF. Convenience for the parser and for tests.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token in the input, or an EOF token once the input
// is exhausted.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, Location: l.span(l.position(), l.position())}, nil
	}
	start := l.position()
	ch := l.input[l.pos]

	if typ, ok := singleCharTokens[ch]; ok {
		l.advance(1)
		return token.Token{
			Type:     typ,
			Literal:  string(ch),
			Location: l.span(start, l.position()),
		}, nil
	}

	if ch == '"' {
		return l.readString(start)
	}

	if isSymbolChar(ch) {
		return l.readSymbol(start)
	}

	// Nothing matches: consume the whole run of unrecognized characters so
	// the error names all of them at once.
	runStart := l.pos
	for l.pos < len(l.input) && !isWhitespace(l.input[l.pos]) && !isTokenStart(l.input[l.pos]) {
		l.advance(1)
	}
	return token.Token{}, &Error{
		Kind:     NoMatch,
		Literal:  l.input[runStart:l.pos],
		Location: l.span(start, l.position()),
	}
}

var singleCharTokens = map[byte]token.Type{
	'|': token.PIPE,
	',': token.COMMA,
	':': token.COLON,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'<': token.LANGLE,
	'>': token.RANGLE,
	'$': token.DOLLAR,
	'`': token.BACKTICK,
}

func (l *Lexer) readString(start token.Position) (token.Token, error) {
	// Opening quote
	l.advance(1)
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return token.Token{}, &Error{
				Kind:     OpenString,
				Location: l.span(start, l.position()),
			}
		}
		ch := l.input[l.pos]
		if ch == '"' {
			l.advance(1)
			return token.Token{
				Type:     token.STRING,
				Literal:  sb.String(),
				Location: l.span(start, l.position()),
			}, nil
		}
		if ch == '\\' {
			if l.pos+1 >= len(l.input) {
				return token.Token{}, &Error{
					Kind:     OpenString,
					Location: l.span(start, l.position()),
				}
			}
			next := l.input[l.pos+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				sb.WriteByte(next)
			}
			l.advance(2)
			continue
		}
		if ch == '\n' {
			l.advanceLine()
		} else {
			l.advance(1)
		}
		sb.WriteByte(ch)
	}
}

func (l *Lexer) readSymbol(start token.Position) (token.Token, error) {
	runStart := l.pos
	for l.pos < len(l.input) && isSymbolChar(l.input[l.pos]) {
		l.advance(1)
	}
	word := l.input[runStart:l.pos]
	loc := l.span(start, l.position())
	if typ, ok := token.Keyword(word); ok {
		return token.Token{Type: typ, Literal: word, Location: loc}, nil
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return token.Token{Type: token.NUMBER, Literal: word, Location: loc}, nil
	}
	return token.Token{Type: token.SYMBOL, Literal: word, Location: loc}, nil
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == '\n':
			l.advanceLine()
		case isWhitespace(ch):
			l.advance(1)
		case ch == ';':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance(1)
			}
		default:
			return
		}
	}
}

func (l *Lexer) position() token.Position {
	return token.Position{Char: l.pos, Line: l.line, Column: l.col, File: l.file}
}

func (l *Lexer) span(start, end token.Position) token.Location {
	return token.Location{Start: start, End: end}
}

func (l *Lexer) advance(n int) {
	l.pos += n
	l.col += n
}

func (l *Lexer) advanceLine() {
	l.pos++
	l.line++
	l.col = 0
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// isSymbolChar reports whether ch may appear inside a symbol or number.
// Symbols include the arithmetic primitives, so operator characters that are
// not structural tokens count as symbol characters.
func isSymbolChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch >= '0' && ch <= '9':
		return true
	}
	switch ch {
	case '_', '+', '-', '*', '/', '?', '!', '=', '.':
		return true
	}
	return false
}

func isTokenStart(ch byte) bool {
	if _, ok := singleCharTokens[ch]; ok {
		return true
	}
	return ch == '"' || ch == ';' || isSymbolChar(ch)
}
