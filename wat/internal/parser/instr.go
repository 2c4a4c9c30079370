package parser

import (
	"fmt"

	"github.com/wippyai/wasmc/wasm"
	"github.com/wippyai/wasmc/wat/internal/token"
)

// parseSeq appends instructions to code until a closing paren (left
// unconsumed) or one of the stop keywords, which is consumed and returned.
func (p *Parser) parseSeq(code []byte, stops ...string) ([]byte, string, error) {
	for {
		t := p.peek()
		if t == nil {
			return nil, "", fmt.Errorf("unexpected end of input in instruction sequence")
		}
		switch t.Type {
		case token.RParen:
			return code, "", nil
		case token.LParen:
			var err error
			if code, err = p.parseFolded(code); err != nil {
				return nil, "", err
			}
			continue
		case token.Ident:
		default:
			return nil, "", p.errorf(t, "expected instruction, got %v", t.Type)
		}

		for _, s := range stops {
			if t.Value == s {
				p.next()
				return code, s, nil
			}
		}

		p.next()
		var err error
		switch t.Value {
		case "block", "loop", "if":
			code, err = p.parseFlatBlock(code, t)
		case "else", "end", "then":
			err = p.errorf(t, "unexpected '%s'", t.Value)
		default:
			code, err = p.parsePlain(code, t)
		}
		if err != nil {
			return nil, "", err
		}
	}
}

// parsePlain emits a non-structured instruction and its immediates.
func (p *Parser) parsePlain(code []byte, t *token.Token) ([]byte, error) {
	op, ok := wasm.Opcode(t.Value)
	if !ok {
		return nil, p.errorf(t, "unknown instruction: %s", t.Value)
	}
	imm, err := p.parseImmediates(op)
	if err != nil {
		return nil, err
	}
	code = append(code, op)
	return append(code, imm...), nil
}

func (p *Parser) parseImmediates(op byte) ([]byte, error) {
	switch op {
	case wasm.OpI32Const:
		v, err := p.parseI32()
		if err != nil {
			return nil, err
		}
		return wasm.AppendLEB128s(nil, v), nil
	case wasm.OpLocalGet, wasm.OpLocalSet, wasm.OpLocalTee:
		idx, err := p.parseIdx(p.locals, "local")
		if err != nil {
			return nil, err
		}
		return wasm.AppendLEB128u(nil, idx), nil
	case wasm.OpCall:
		idx, err := p.parseIdx(p.funcMap, "function")
		if err != nil {
			return nil, err
		}
		return wasm.AppendLEB128u(nil, idx), nil
	case wasm.OpBr, wasm.OpBrIf:
		depth, err := p.parseLabelIdx()
		if err != nil {
			return nil, err
		}
		return wasm.AppendLEB128u(nil, depth), nil
	}
	return nil, nil
}

// parseBlockType reads an optional (result t) clause.
func (p *Parser) parseBlockType() (byte, error) {
	if p.peekClause() != "result" {
		return wasm.BlockTypeVoid, nil
	}
	start := p.peek()
	p.pos += 2
	types, err := p.parseValTypes()
	if err != nil {
		return 0, err
	}
	switch len(types) {
	case 0:
		return wasm.BlockTypeVoid, nil
	case 1:
		return byte(types[0]), nil
	}
	return 0, p.errorf(start, "block with %d results is not supported", len(types))
}

// parseFlatBlock handles "block/loop/if label? type? ... (else ...)? end label?".
func (p *Parser) parseFlatBlock(code []byte, t *token.Token) ([]byte, error) {
	op, _ := wasm.Opcode(t.Value)
	label := p.parseLabel()
	bt, err := p.parseBlockType()
	if err != nil {
		return nil, err
	}
	code = append(code, op, bt)

	p.pushLabel(label)
	defer p.popLabel()

	stops := []string{"end"}
	if op == wasm.OpIf {
		stops = append(stops, "else")
	}
	code, stop, err := p.parseSeq(code, stops...)
	if err != nil {
		return nil, err
	}
	if stop == "" {
		return nil, p.errorf(t, "missing 'end' for %s", t.Value)
	}
	if stop == "else" {
		p.skipLabel(label)
		code = append(code, wasm.OpElse)
		if code, stop, err = p.parseSeq(code, "end"); err != nil {
			return nil, err
		}
		if stop == "" {
			return nil, p.errorf(t, "missing 'end' for %s", t.Value)
		}
	}
	p.skipLabel(label)
	return append(code, wasm.OpEnd), nil
}

// skipLabel consumes a repeated label after else/end.
func (p *Parser) skipLabel(label string) {
	if t := p.peek(); label != "" && t != nil && t.Type == token.Ident && t.Value == label {
		p.next()
	}
}

// parseFolded handles one parenthesized instruction.
func (p *Parser) parseFolded(code []byte) ([]byte, error) {
	p.next()
	t, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	switch t.Value {
	case "block", "loop":
		op, _ := wasm.Opcode(t.Value)
		label := p.parseLabel()
		bt, err := p.parseBlockType()
		if err != nil {
			return nil, err
		}
		code = append(code, op, bt)
		p.pushLabel(label)
		var stop string
		code, stop, err = p.parseSeq(code)
		p.popLabel()
		if err != nil {
			return nil, err
		}
		if stop != "" {
			return nil, p.errorf(t, "unexpected '%s' in folded %s", stop, t.Value)
		}
		code = append(code, wasm.OpEnd)

	case "if":
		if code, err = p.parseFoldedIf(code); err != nil {
			return nil, err
		}

	case "then", "else":
		return nil, p.errorf(t, "'%s' outside of if", t.Value)

	default:
		op, ok := wasm.Opcode(t.Value)
		if !ok {
			return nil, p.errorf(t, "unknown instruction: %s", t.Value)
		}
		imm, err := p.parseImmediates(op)
		if err != nil {
			return nil, err
		}
		// Folded operands are evaluated before the instruction itself.
		for p.peekClause() != "" {
			if code, err = p.parseFolded(code); err != nil {
				return nil, err
			}
		}
		code = append(code, op)
		code = append(code, imm...)
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return code, nil
}

// parseFoldedIf handles "(if label? type? operand* (then ...) (else ...)?" up
// to, not including, the closing paren.
func (p *Parser) parseFoldedIf(code []byte) ([]byte, error) {
	label := p.parseLabel()
	bt, err := p.parseBlockType()
	if err != nil {
		return nil, err
	}

	for kw := p.peekClause(); kw != "" && kw != "then"; kw = p.peekClause() {
		if code, err = p.parseFolded(code); err != nil {
			return nil, err
		}
	}
	if p.peekClause() != "then" {
		if t := p.peek(); t != nil {
			return nil, p.errorf(t, "expected (then ...) in if")
		}
		return nil, fmt.Errorf("unexpected end of input in if")
	}

	code = append(code, wasm.OpIf, bt)
	p.pushLabel(label)
	defer p.popLabel()

	if code, err = p.parseArm(code); err != nil {
		return nil, err
	}
	if p.peekClause() == "else" {
		code = append(code, wasm.OpElse)
		if code, err = p.parseArm(code); err != nil {
			return nil, err
		}
	}
	return append(code, wasm.OpEnd), nil
}

// parseArm parses a (then ...) or (else ...) clause.
func (p *Parser) parseArm(code []byte) ([]byte, error) {
	p.pos += 2
	code, stop, err := p.parseSeq(code)
	if err != nil {
		return nil, err
	}
	if stop != "" {
		return nil, fmt.Errorf("unexpected '%s' in if arm", stop)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return code, nil
}
