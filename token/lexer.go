package token

import (
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/wasmc/errors"
)

// Lexer produces tokens lazily from source text.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
	done bool
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Next returns the next token. At the end of input it returns an EOF token,
// and keeps returning it on further calls.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipSpace(); err != nil {
		return Token{}, err
	}
	start := l.position()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Pos: start}, nil
	}

	rest := l.src[l.pos:]
	c := rest[0]

	switch {
	case isIdentStart(c):
		n := 1
		for n < len(rest) && isIdentChar(rest[n]) {
			n++
		}
		word := rest[:n]
		l.advance(n)
		if kind, ok := keywords[word]; ok {
			return Token{Kind: kind, Text: word, Pos: start}, nil
		}
		return Token{Kind: Identifier, Text: word, Pos: start}, nil

	case isDigit(c):
		n := 1
		for n < len(rest) && isDigit(rest[n]) {
			n++
		}
		digits := rest[:n]
		v, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			return Token{}, errors.Overflow(start.Line, start.Column, digits)
		}
		l.advance(n)
		return Token{Kind: Number, Text: digits, Value: int32(v), Pos: start}, nil
	}

	for _, sym := range symbols {
		if strings.HasPrefix(rest, sym) {
			l.advance(len(sym))
			return Token{Kind: Symbol, Text: sym, Pos: start}, nil
		}
	}

	r, _ := utf8.DecodeRuneInString(rest)
	return Token{}, errors.UnexpectedChar(start.Line, start.Column, r)
}

// All returns an iterator over the remaining tokens, excluding EOF.
// Iteration stops after the first error is yielded.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for !l.done {
			tok, err := l.Next()
			if err != nil {
				l.done = true
				yield(Token{}, err)
				return
			}
			if tok.Kind == EOF {
				l.done = true
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize lexes all of src. The returned slice always ends with an EOF token.
func Tokenize(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) position() Pos {
	return Pos{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

// skipSpace skips whitespace, line comments and block comments.
func (l *Lexer) skipSpace() error {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		switch {
		case isSpace(rest[0]):
			l.advance(1)
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			l.advance(end)
		case strings.HasPrefix(rest, "/*"):
			start := l.position()
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return errors.New(errors.PhaseLex, errors.KindUnexpectedEOF).
					At(start.Line, start.Column).
					Detail("unterminated block comment").
					Build()
			}
			l.advance(end + 4)
		default:
			return nil
		}
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
