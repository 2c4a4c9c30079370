package token

import (
	"fmt"
	"unicode"
)

// Type classifies a token.
type Type int

const (
	LParen Type = iota
	RParen
	Ident
	String
	Number
)

func (t Type) String() string {
	switch t {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	}
	return "unknown"
}

// Token is one lexeme with its source position.
type Token struct {
	Value  string
	Type   Type
	Line   int
	Column int
}

// Pos formats the token position as line:column.
func (t Token) Pos() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// Tokenize splits text-format source into tokens. Line comments (;;) and
// nestable block comments ((; ;)) are skipped. Characters that start no
// token are reported as an error.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	runes := []rune(input)
	line, col := 1, 1

	advance := func(i int) {
		if runes[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	for i := 0; i < len(runes); {
		r := runes[i]

		if unicode.IsSpace(r) {
			advance(i)
			i++
			continue
		}

		// Line comment
		if r == ';' && i+1 < len(runes) && runes[i+1] == ';' {
			for i < len(runes) && runes[i] != '\n' {
				advance(i)
				i++
			}
			continue
		}

		// Block comment
		if r == '(' && i+1 < len(runes) && runes[i+1] == ';' {
			startLine, startCol := line, col
			depth := 0
			for i < len(runes) {
				if runes[i] == '(' && i+1 < len(runes) && runes[i+1] == ';' {
					depth++
					advance(i)
					advance(i + 1)
					i += 2
					continue
				}
				if runes[i] == ';' && i+1 < len(runes) && runes[i+1] == ')' {
					depth--
					advance(i)
					advance(i + 1)
					i += 2
					if depth == 0 {
						break
					}
					continue
				}
				advance(i)
				i++
			}
			if depth > 0 {
				return nil, fmt.Errorf("%d:%d: unterminated block comment", startLine, startCol)
			}
			continue
		}

		startLine, startCol := line, col

		switch {
		case r == '(':
			tokens = append(tokens, Token{"(", LParen, startLine, startCol})
			advance(i)
			i++

		case r == ')':
			tokens = append(tokens, Token{")", RParen, startLine, startCol})
			advance(i)
			i++

		case r == '"':
			// String literal
			start := i + 1
			advance(i)
			i++
			for i < len(runes) && runes[i] != '"' {
				if runes[i] == '\\' && i+1 < len(runes) {
					advance(i)
					i++
				}
				advance(i)
				i++
			}
			if i >= len(runes) {
				return nil, fmt.Errorf("%d:%d: unterminated string", startLine, startCol)
			}
			tokens = append(tokens, Token{string(runes[start:i]), String, startLine, startCol})
			advance(i)
			i++

		case r == '-' || r == '+' || unicode.IsDigit(r):
			// Integer, optionally signed, hex and underscores allowed
			start := i
			advance(i)
			i++
			for i < len(runes) && isNumChar(runes[i]) {
				advance(i)
				i++
			}
			tokens = append(tokens, Token{string(runes[start:i]), Number, startLine, startCol})

		case r == '$' || unicode.IsLetter(r) || r == '_':
			// Keywords, mnemonics and $names
			start := i
			for i < len(runes) && isIdentChar(runes[i]) {
				advance(i)
				i++
			}
			tokens = append(tokens, Token{string(runes[start:i]), Ident, startLine, startCol})

		default:
			return nil, fmt.Errorf("%d:%d: unexpected character %q", startLine, startCol, r)
		}
	}

	return tokens, nil
}

func isNumChar(c rune) bool {
	return unicode.IsDigit(c) || c == '_' || c == 'x' || c == 'X' ||
		(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) ||
		c == '_' || c == '.' || c == '$' || c == '-' || c == ':'
}
