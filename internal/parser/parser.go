// Package parser implements a recursive-descent parser over the grammar in
// spec.md §6, producing internal/ast terms.
package parser

import (
	"fmt"

	"github.com/mu-lang/mu/internal/ast"
	"github.com/mu-lang/mu/internal/position"
	"github.com/mu-lang/mu/internal/token"
)

// Parser consumes a flat token stream and builds a Program. One parse
// function per grammar production, mirroring the teacher's and the
// original prototype's recursive-descent structure.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a Parser over toks. toks must end with an EOF token (as
// produced by lexer.Tokenize).
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, fmt.Errorf("%s: expected %s, got %s", t.Pos, k, t.Kind)
	}
	return p.advance(), nil
}

func spanFrom(start position.Position, end position.Position) position.Span {
	return position.Span{Start: start, End: end}
}

// Parse consumes the entire token stream, returning a Program of
// sequential top-level terms.
func (p *Parser) Parse() (*ast.Program, error) {
	var terms []ast.Term
	for p.peek().Kind != token.EOF {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return &ast.Program{Terms: terms}, nil
}

// Parse is a convenience entry point: tokenize is assumed to have already
// happened, toks must be a complete token stream ending in EOF.
func Parse(toks []token.Token) (*ast.Program, error) {
	return New(toks).Parse()
}

func (p *Parser) parseTerm() (ast.Term, error) {
	t := p.peek()
	switch t.Kind {
	case token.Num:
		p.advance()
		return ast.NewValueTerm(spanFrom(t.Pos, t.Pos), ast.Num{N: t.Num}), nil

	case token.Ident:
		switch p.peekAt(1).Kind {
		case token.Assign:
			return p.parseAssign()
		case token.LParen:
			return p.parseFnCallRest(t)
		default:
			l, err := p.parseLVal()
			if err != nil {
				return nil, err
			}
			return ast.NewVarTerm(spanFrom(t.Pos, p.peek().Pos), l), nil
		}

	case token.Star:
		return p.parseDerefTerm()

	case token.KwBox:
		p.advance()
		inner, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return ast.NewBoxTerm(spanFrom(t.Pos, inner.Span().End), inner), nil

	case token.KwMut:
		p.advance()
		if _, err := p.expect(token.KwRef); err != nil {
			return nil, err
		}
		l, err := p.parseLVal()
		if err != nil {
			return nil, err
		}
		return ast.NewRefTerm(spanFrom(t.Pos, p.peek().Pos), true, l), nil

	case token.KwRef:
		p.advance()
		l, err := p.parseLVal()
		if err != nil {
			return nil, err
		}
		return ast.NewRefTerm(spanFrom(t.Pos, p.peek().Pos), false, l), nil

	case token.KwLet:
		return p.parseLet()

	case token.KwFn:
		return p.parseFnDecl()

	default:
		return nil, fmt.Errorf("%s: unexpected token %s", t.Pos, t.Kind)
	}
}

// parseLVal parses a (possibly dereferenced) lvalue: an identifier, or a
// chain of '*' prefixes applied to one.
func (p *Parser) parseLVal() (*ast.LVal, error) {
	if p.peek().Kind == token.Star {
		p.advance()
		inner, err := p.parseLVal()
		if err != nil {
			return nil, err
		}
		return ast.NewDeref(inner), nil
	}
	t, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	return ast.NewName(t.Literal), nil
}

// parseDerefTerm parses a leading '*' as an lvalue read (Var term) or as
// the left-hand side of an assignment.
func (p *Parser) parseDerefTerm() (ast.Term, error) {
	start := p.peek().Pos
	l, err := p.parseLVal()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == token.Assign {
		p.advance()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return ast.NewAssignTerm(spanFrom(start, rhs.Span().End), l, rhs), nil
	}
	return ast.NewVarTerm(spanFrom(start, p.peek().Pos), l), nil
}

func (p *Parser) parseAssign() (ast.Term, error) {
	start := p.peek().Pos
	l, err := p.parseLVal()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	rhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignTerm(spanFrom(start, rhs.Span().End), l, rhs), nil
}

func (p *Parser) parseLet() (ast.Term, error) {
	start := p.peek().Pos
	p.advance() // 'let'
	mut := false
	if p.peek().Kind == token.KwMut {
		p.advance()
		mut = true
	}
	l, err := p.parseLVal()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	init, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return ast.NewLetTerm(spanFrom(start, init.Span().End), mut, l, init), nil
}

// parseFnCallRest parses the '(' args ')' suffix of a call whose callee
// name was already the current identifier token nameTok.
func (p *Parser) parseFnCallRest(nameTok token.Token) (ast.Term, error) {
	p.advance() // the callee identifier
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Term
	if p.peek().Kind != token.RParen {
		for {
			param, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if p.peek().Kind != token.Comma {
				break
			}
			p.advance()
		}
	}
	end, err := p.expect(token.RParen)
	if err != nil {
		return nil, err
	}
	return ast.NewFnCallTerm(spanFrom(nameTok.Pos, end.Pos), nameTok.Literal, params), nil
}

func (p *Parser) parseType() (ast.Type, error) {
	t := p.peek()
	switch t.Kind {
	case token.KwBox:
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.BoxType{Elem: elem}, nil
	case token.Ident:
		if t.Literal == "int" {
			p.advance()
			return ast.NumericType{}, nil
		}
		return nil, fmt.Errorf("%s: unknown type %q", t.Pos, t.Literal)
	default:
		return nil, fmt.Errorf("%s: expected a type, got %s", t.Pos, t.Kind)
	}
}

func (p *Parser) parseArg() (ast.Argument, error) {
	var arg ast.Argument
	if p.peek().Kind == token.KwMut {
		p.advance()
		arg.Mutable = true
	}
	if p.peek().Kind == token.KwRef {
		p.advance()
		arg.Reference = true
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return arg, err
	}
	arg.Name = name.Literal
	if _, err := p.expect(token.Colon); err != nil {
		return arg, err
	}
	ty, err := p.parseType()
	if err != nil {
		return arg, err
	}
	arg.Ty = ty
	return arg, nil
}

func (p *Parser) parseFnDecl() (ast.Term, error) {
	start := p.peek().Pos
	p.advance() // 'fn'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var args []ast.Argument
	if p.peek().Kind != token.RParen {
		for {
			arg, err := p.parseArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().Kind != token.Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	var ret ast.Type
	if p.peek().Kind == token.Colon {
		p.advance()
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.LCurl); err != nil {
		return nil, err
	}
	var body []ast.Term
	for p.peek().Kind != token.RCurl {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		body = append(body, term)
	}
	end, err := p.expect(token.RCurl)
	if err != nil {
		return nil, err
	}
	return ast.NewFnDeclTerm(spanFrom(start, end.Pos), name.Literal, args, body, ret), nil
}
