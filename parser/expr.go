package parser

import (
	"github.com/wippyai/wasmc/ast"
	"github.com/wippyai/wasmc/errors"
	"github.com/wippyai/wasmc/token"
)

// Binary operator levels from loosest to tightest.
var (
	equalityOps       = []string{"==", "!="}
	relationalOps     = []string{"<", "<=", ">", ">="}
	additiveOps       = []string{"+", "-"}
	multiplicativeOps = []string{"*", "/"}
)

func (p *Parser) parseExpr() (ast.Node, error) {
	return p.parseAssign()
}

// assign := equality ("=" assign)?
func (p *Parser) parseAssign() (ast.Node, error) {
	lhs, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.is("=") {
		return lhs, nil
	}
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	target, ok := ast.AsVariable(lhs)
	if !ok {
		return nil, errors.InvalidTarget(pos.Line, pos.Column)
	}
	rhs, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Target: target, Value: rhs}, nil
}

var levels = [][]string{equalityOps, relationalOps, additiveOps, multiplicativeOps}

// parseBinary parses a left-associative chain at the given level,
// descending to unary below the tightest level.
func (p *Parser) parseBinary(level int) (ast.Node, error) {
	if level == len(levels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOp(levels[level])
		if !ok {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) matchOp(ops []string) (ast.Op, bool) {
	if p.tok.Kind != token.Symbol {
		return 0, false
	}
	for _, sym := range ops {
		if p.tok.Text == sym {
			return ast.OpForSymbol(sym)
		}
	}
	return 0, false
}

// unary := ("+" | "-")? primary
func (p *Parser) parseUnary() (ast.Node, error) {
	if ok, err := p.accept("+"); err != nil {
		return nil, err
	} else if ok {
		return p.parsePrimary()
	}
	if ok, err := p.accept("-"); err != nil {
		return nil, err
	} else if ok {
		x, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return ast.Negate(x), nil
	}
	return p.parsePrimary()
}

// primary := number | ident ("(" (expr ("," expr)*)? ")")? | "(" expr ")"
func (p *Parser) parsePrimary() (ast.Node, error) {
	switch p.tok.Kind {
	case token.Number:
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		return &ast.Number{Value: tok.Value}, nil

	case token.Identifier:
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !p.is("(") {
			return &ast.Variable{Name: tok.Text}, nil
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.Call{Name: tok.Text, Args: args}, nil
	}

	if p.is("(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return expr, p.expect(")")
	}
	return nil, p.unexpected("expression")
}

func (p *Parser) parseArgs() ([]ast.Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []ast.Node
	if ok, err := p.accept(")"); err != nil || ok {
		return args, err
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		ok, err := p.accept(",")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return args, p.expect(")")
}
