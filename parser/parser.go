// Package parser builds an ast.Module from source text by recursive
// descent with a single token of lookahead.
package parser

import (
	"github.com/wippyai/wasmc/ast"
	"github.com/wippyai/wasmc/errors"
	"github.com/wippyai/wasmc/token"
	"github.com/wippyai/wasmc/wasm"
)

// Option configures a Parser.
type Option func(*Parser)

// WithIDAllocator makes the parser draw If/While/For IDs from ids instead
// of a fresh allocator.
func WithIDAllocator(ids *ast.IDAllocator) Option {
	return func(p *Parser) {
		p.ids = ids
	}
}

// Parser holds the lexer and the current lookahead token.
type Parser struct {
	lex *token.Lexer
	ids *ast.IDAllocator
	tok token.Token
}

// New returns a parser over src.
func New(src string, opts ...Option) *Parser {
	p := &Parser{lex: token.NewLexer(src)}
	for _, opt := range opts {
		opt(p)
	}
	if p.ids == nil {
		p.ids = ast.NewIDAllocator()
	}
	return p
}

// Parse parses src into a module.
func Parse(src string, opts ...Option) (*ast.Module, error) {
	return New(src, opts...).Parse()
}

// Parse consumes the whole input. The module is complete before it is
// returned; no code is generated here.
func (p *Parser) Parse() (*ast.Module, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	m := ast.NewModule()
	for p.tok.Kind != token.EOF {
		pos := p.tok.Pos
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		if err := m.AddFunction(fn); err != nil {
			return nil, at(err, pos)
		}
	}
	return m, nil
}

// advance moves the lookahead to the next token.
func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// next returns the lookahead token and advances past it.
func (p *Parser) next() (token.Token, error) {
	tok := p.tok
	return tok, p.advance()
}

func (p *Parser) is(sym string) bool {
	return p.tok.Is(sym)
}

// accept consumes the symbol if it is the lookahead.
func (p *Parser) accept(sym string) (bool, error) {
	if !p.is(sym) {
		return false, nil
	}
	return true, p.advance()
}

func (p *Parser) expect(sym string) error {
	if !p.is(sym) {
		return p.unexpected("'" + sym + "'")
	}
	return p.advance()
}

func (p *Parser) expectIdent() (token.Token, error) {
	if p.tok.Kind != token.Identifier {
		return token.Token{}, p.unexpected("identifier")
	}
	return p.next()
}

func (p *Parser) unexpected(want string) error {
	pos := p.tok.Pos
	if p.tok.Kind == token.EOF {
		return errors.UnexpectedEOF(pos.Line, pos.Column, want)
	}
	return errors.UnexpectedToken(pos.Line, pos.Column, want, p.tok.String())
}

// at attaches a source position to a compile error that lacks one.
func at(err error, pos token.Pos) error {
	if e, ok := err.(*errors.Error); ok && e.Line == 0 {
		e.Line, e.Column = pos.Line, pos.Column
	}
	return err
}

// function := ident "(" (ident ("," ident)*)? ")" block
func (p *Parser) parseFunction() (*ast.Function, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}

	var params []ast.Param
	if !p.is(")") {
		for {
			param, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Name: param.Text, Type: wasm.ValI32})
			ok, err := p.accept(",")
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn, err := ast.NewFunction(name.Text, params, body)
	if err != nil {
		return nil, at(err, name.Pos)
	}
	return fn, nil
}

// block := "{" statement* "}"
func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for !p.is("}") {
		if p.tok.Kind == token.EOF {
			return nil, p.unexpected("'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, p.advance()
}
