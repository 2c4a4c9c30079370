package parser

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasmc/wasm"
	"github.com/wippyai/wasmc/wat/internal/token"
)

// Parser builds a wasm.Module from a token stream. Function names are
// resolved in a prescan, so calls and exports may refer forward.
type Parser struct {
	mod     *wasm.Module
	funcMap map[string]uint32
	locals  map[string]uint32
	tokens  []token.Token
	labels  []string
	pos     int
}

// New returns a parser over tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens:  tokens,
		funcMap: make(map[string]uint32),
	}
}

// Parse reads exactly one module and rejects trailing tokens.
func (p *Parser) Parse() (*wasm.Module, error) {
	mod, err := p.parseModule()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != nil {
		return nil, p.errorf(t, "unexpected %v after module", t.Type)
	}
	return mod, nil
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, fmt.Errorf("unexpected end of input, expected %v", typ)
	}
	if t.Type != typ {
		return nil, p.errorf(t, "expected %v, got %q", typ, t.Value)
	}
	return t, nil
}

// expectKeyword consumes the identifier kw.
func (p *Parser) expectKeyword(kw string) error {
	t, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if t.Value != kw {
		return p.errorf(t, "expected '%s', got %q", kw, t.Value)
	}
	return nil
}

func (p *Parser) errorf(t *token.Token, format string, args ...any) error {
	return fmt.Errorf("%s: %s", t.Pos(), fmt.Sprintf(format, args...))
}

func (p *Parser) pushLabel(name string) {
	p.labels = append(p.labels, name)
}

func (p *Parser) popLabel() {
	if len(p.labels) > 0 {
		p.labels = p.labels[:len(p.labels)-1]
	}
}

func (p *Parser) resolveLabel(name string) (uint32, bool) {
	for i := len(p.labels) - 1; i >= 0; i-- {
		if p.labels[i] == name {
			return uint32(len(p.labels) - 1 - i), true
		}
	}
	return 0, false
}

func (p *Parser) parseLabel() string {
	t := p.peek()
	if t != nil && t.Type == token.Ident && strings.HasPrefix(t.Value, "$") {
		p.next()
		return t.Value
	}
	return ""
}

func (p *Parser) parseValType() (wasm.ValType, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	switch t.Value {
	case "i32":
		return wasm.ValI32, nil
	default:
		return 0, p.errorf(t, "unknown value type: %s", t.Value)
	}
}

// parseIdx reads a numeric index or a $name looked up in names.
func (p *Parser) parseIdx(names map[string]uint32, what string) (uint32, error) {
	t := p.peek()
	if t == nil {
		return 0, fmt.Errorf("unexpected end of input, expected %s index", what)
	}
	if t.Type == token.Ident && strings.HasPrefix(t.Value, "$") {
		p.next()
		if idx, ok := names[t.Value]; ok {
			return idx, nil
		}
		return 0, p.errorf(t, "unknown %s: %s", what, t.Value)
	}
	return p.parseU32()
}

// parseLabelIdx reads a branch target as a label name or relative depth.
func (p *Parser) parseLabelIdx() (uint32, error) {
	t := p.peek()
	if t == nil {
		return 0, fmt.Errorf("unexpected end of input, expected label")
	}
	if t.Type == token.Ident && strings.HasPrefix(t.Value, "$") {
		p.next()
		depth, ok := p.resolveLabel(t.Value)
		if !ok {
			return 0, p.errorf(t, "unknown label: %s", t.Value)
		}
		return depth, nil
	}
	depth, err := p.parseU32()
	if err != nil {
		return 0, err
	}
	if int(depth) >= len(p.labels) {
		return 0, p.errorf(t, "branch depth %d exceeds nesting %d", depth, len(p.labels))
	}
	return depth, nil
}
