package parser

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasmc/wasm"
	"github.com/wippyai/wasmc/wat/internal/token"
)

// prescanNames assigns function indices before the main pass so calls and
// exports may refer to functions defined later in the module.
func (p *Parser) prescanNames() error {
	depth := 0
	var funcIdx uint32

	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LParen:
			depth++
			if depth != 1 || i+1 >= len(p.tokens) {
				continue
			}
			kw := p.tokens[i+1]
			if kw.Type != token.Ident || kw.Value != "func" {
				continue
			}
			if i+2 < len(p.tokens) {
				name := p.tokens[i+2]
				if name.Type == token.Ident && strings.HasPrefix(name.Value, "$") {
					if _, dup := p.funcMap[name.Value]; dup {
						return p.errorf(&name, "duplicate function %s", name.Value)
					}
					p.funcMap[name.Value] = funcIdx
				}
			}
			funcIdx++
		case token.RParen:
			depth--
			if depth < 0 {
				return nil
			}
		}
	}
	return nil
}

func (p *Parser) parseModule() (*wasm.Module, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("module"); err != nil {
		return nil, err
	}
	p.parseLabel()

	p.mod = &wasm.Module{}
	if err := p.prescanNames(); err != nil {
		return nil, err
	}

	var funcIdx uint32
	for {
		t := p.peek()
		if t == nil {
			return nil, fmt.Errorf("unexpected end of module")
		}
		if t.Type == token.RParen {
			p.next()
			break
		}

		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		t, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}

		switch t.Value {
		case "func":
			if err := p.parseFunc(funcIdx); err != nil {
				return nil, err
			}
			funcIdx++
		case "export":
			if err := p.parseExport(); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf(t, "unknown module field: %s", t.Value)
		}
	}

	return p.mod, nil
}

// peekClause returns the keyword of a "(keyword ..." form at the cursor.
func (p *Parser) peekClause() string {
	if p.pos+1 >= len(p.tokens) {
		return ""
	}
	if p.tokens[p.pos].Type != token.LParen || p.tokens[p.pos+1].Type != token.Ident {
		return ""
	}
	return p.tokens[p.pos+1].Value
}

// parseFunc parses a function after "(func". Every function gets its own
// type entry, in function order, matching the compiler's binary layout.
func (p *Parser) parseFunc(funcIdx uint32) error {
	p.parseLabel()
	p.locals = make(map[string]uint32)
	p.labels = p.labels[:0]

	var ft wasm.FuncType
	var locals []wasm.ValType
	var exports []string
	var localIdx uint32

	// Header clauses come before the first instruction.
header:
	for {
		switch p.peekClause() {
		case "export":
			p.pos += 2
			exp, err := p.expect(token.String)
			if err != nil {
				return err
			}
			exports = append(exports, string(DecodeStringLiteral(exp.Value)))
			if _, err := p.expect(token.RParen); err != nil {
				return err
			}

		case "param":
			p.pos += 2
			types, err := p.parseDecls(&localIdx)
			if err != nil {
				return err
			}
			ft.Params = append(ft.Params, types...)

		case "result":
			p.pos += 2
			types, err := p.parseValTypes()
			if err != nil {
				return err
			}
			ft.Results = append(ft.Results, types...)

		case "local":
			p.pos += 2
			types, err := p.parseDecls(&localIdx)
			if err != nil {
				return err
			}
			locals = append(locals, types...)

		default:
			break header
		}
	}

	code, stop, err := p.parseSeq(nil)
	if err != nil {
		return err
	}
	if stop != "" {
		return fmt.Errorf("unexpected '%s' in function body", stop)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	code = append(code, wasm.OpEnd)

	typeIdx := uint32(len(p.mod.Types))
	p.mod.Types = append(p.mod.Types, ft)
	p.mod.Funcs = append(p.mod.Funcs, typeIdx)
	p.mod.Code = append(p.mod.Code, wasm.FuncBody{Locals: groupLocals(locals), Code: code})

	for _, name := range exports {
		p.mod.Exports = append(p.mod.Exports, wasm.Export{Name: name, Kind: wasm.KindFunc, Idx: funcIdx})
	}
	return nil
}

// parseDecls parses the rest of a param or local clause: either one
// "$name type" pair or any number of anonymous types.
func (p *Parser) parseDecls(next *uint32) ([]wasm.ValType, error) {
	var types []wasm.ValType
	for {
		t := p.peek()
		if t == nil {
			return nil, fmt.Errorf("unexpected end of input in declaration")
		}
		if t.Type == token.RParen {
			p.next()
			return types, nil
		}
		if t.Type == token.Ident && strings.HasPrefix(t.Value, "$") {
			p.next()
			if _, dup := p.locals[t.Value]; dup {
				return nil, p.errorf(t, "duplicate local %s", t.Value)
			}
			p.locals[t.Value] = *next
		}
		vt, err := p.parseValType()
		if err != nil {
			return nil, err
		}
		*next++
		types = append(types, vt)
	}
}

func (p *Parser) parseValTypes() ([]wasm.ValType, error) {
	var types []wasm.ValType
	for {
		t := p.peek()
		if t == nil {
			return nil, fmt.Errorf("unexpected end of input in type list")
		}
		if t.Type == token.RParen {
			p.next()
			return types, nil
		}
		vt, err := p.parseValType()
		if err != nil {
			return nil, err
		}
		types = append(types, vt)
	}
}

// groupLocals run-length encodes declared local types.
func groupLocals(types []wasm.ValType) []wasm.LocalEntry {
	var groups []wasm.LocalEntry
	for _, t := range types {
		if n := len(groups); n > 0 && groups[n-1].ValType == t {
			groups[n-1].Count++
			continue
		}
		groups = append(groups, wasm.LocalEntry{Count: 1, ValType: t})
	}
	return groups
}

func (p *Parser) parseExport() error {
	name, err := p.expect(token.String)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	kind, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if kind.Value != "func" {
		return p.errorf(kind, "unknown export kind: %s", kind.Value)
	}

	idx, err := p.parseIdx(p.funcMap, "function")
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	p.mod.Exports = append(p.mod.Exports, wasm.Export{
		Name: string(DecodeStringLiteral(name.Value)),
		Kind: wasm.KindFunc,
		Idx:  idx,
	})
	return nil
}
