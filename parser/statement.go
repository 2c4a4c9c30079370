package parser

import (
	"github.com/wippyai/wasmc/ast"
	"github.com/wippyai/wasmc/token"
)

// statement := "return" expr ";"
//
//	| "if" "(" expr ")" statement ("else" statement)?
//	| "while" "(" expr ")" statement
//	| "for" "(" expr? ";" expr? ";" expr? ")" statement
//	| block
//	| expr ";"
func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.tok.Kind {
	case token.Return:
		return p.parseReturn()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	}
	if p.is("{") {
		return p.parseBlock()
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return expr, p.expect(";")
}

func (p *Parser) parseReturn() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.Return{Value: value}, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.tok.Kind == token.Else {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if els, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return ast.NewIf(p.ids, cond, then, els), nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(p.ids, cond, body), nil
}

func (p *Parser) parseFor() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	start, err := p.parseOptionalExpr(";")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseOptionalExpr(";")
	if err != nil {
		return nil, err
	}
	inc, err := p.parseOptionalExpr(")")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(p.ids, start, cond, inc, body), nil
}

// parseCondition parses "(" expr ")".
func (p *Parser) parseCondition() (ast.Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return cond, p.expect(")")
}

// parseOptionalExpr parses expr? followed by the terminator. A missing
// expression yields nil.
func (p *Parser) parseOptionalExpr(terminator string) (ast.Node, error) {
	if p.is(terminator) {
		return nil, p.advance()
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return expr, p.expect(terminator)
}
