// Package token defines the tokens produced when lexing maxlang source code.
package token

// Type describes the type of a token as a string.
type Type string

// Token types
const (
	PIPE     Type = "|"
	COMMA    Type = ","
	COLON    Type = ":"
	LPAREN   Type = "("
	RPAREN   Type = ")"
	LBRACKET Type = "["
	RBRACKET Type = "]"
	LBRACE   Type = "{"
	RBRACE   Type = "}"
	LANGLE   Type = "<"
	RANGLE   Type = ">"
	DOLLAR   Type = "$"
	BACKTICK Type = "`"
	LET      Type = "let"
	LETREC   Type = "letrec"
	EXTRACT  Type = "extract"
	NUMBER   Type = "NUMBER"
	STRING   Type = "STRING"
	SYMBOL   Type = "SYMBOL"
	EOF      Type = "EOF"
)

// Position points to a particular location in an input string.
type Position struct {
	Char   int    // byte offset within the file
	Line   int    // 0-indexed line number
	Column int    // 0-indexed column number
	File   string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Location is the span of a token or expression over the original source text.
type Location struct {
	Start Position
	End   Position
}

// File returns the filename the location points into.
func (l Location) File() string {
	return l.Start.File
}

// IsValid returns true if the location has been set.
func (l Location) IsValid() bool {
	return l.Start != NoPos || l.End != NoPos
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type     Type
	Literal  string
	Location Location
}

// Keyword returns the keyword token type for the given word, if it is one.
func Keyword(word string) (Type, bool) {
	switch word {
	case "let":
		return LET, true
	case "letrec":
		return LETREC, true
	case "extract":
		return EXTRACT, true
	}
	return "", false
}
