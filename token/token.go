// Package token splits source text into the tokens the parser consumes.
package token

import "fmt"

// Kind identifies the variant of a token.
type Kind int

const (
	EOF Kind = iota
	Number
	Symbol
	Identifier
	Return
	If
	Else
	While
	For
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Number:
		return "number"
	case Symbol:
		return "symbol"
	case Identifier:
		return "identifier"
	case Return:
		return "'return'"
	case If:
		return "'if'"
	case Else:
		return "'else'"
	case While:
		return "'while'"
	case For:
		return "'for'"
	}
	return "unknown"
}

// Pos is a location in the source. Offset is a byte offset; Line and
// Column are 1-based, with Column counted in bytes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexeme. Text holds the source spelling; Value is set
// only for Number tokens.
type Token struct {
	Text  string
	Pos   Pos
	Value int32
	Kind  Kind
}

// Is reports whether t is the symbol s.
func (t Token) Is(s string) bool {
	return t.Kind == Symbol && t.Text == s
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case Symbol:
		return fmt.Sprintf("'%s'", t.Text)
	case Identifier:
		return fmt.Sprintf("identifier %q", t.Text)
	case Number:
		return fmt.Sprintf("number %s", t.Text)
	}
	return t.Kind.String()
}

var keywords = map[string]Kind{
	"return": Return,
	"if":     If,
	"else":   Else,
	"while":  While,
	"for":    For,
}

// symbols is ordered longest first so two-character operators win over
// their one-character prefixes.
var symbols = []string{
	"==", "!=", "<=", ">=",
	"<", ">", "(", ")", "{", "}", "+", "-", "*", "/", "=", ";", ",",
}
