package expr

import (
	"errors"
	"fmt"
)

// grammar:
//
//	or      = and { "||" and }
//	and     = unary { "&&" unary }
//	unary   = "!" unary | primary
//	primary = "(" or ")" | ident [ cmp operand ]
//	operand = string | number | bool | null | ident
type parser struct {
	lexemes []lexeme
	pos     int
}

func parse(lexemes []lexeme) (node, error) {
	p := &parser{lexemes: lexemes}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.lexemes) {
		return nil, fmt.Errorf("rules/expr: unexpected %q", p.lexemes[p.pos].text)
	}
	return root, nil
}

func (p *parser) current() (lexeme, bool) {
	if p.pos >= len(p.lexemes) {
		return lexeme{}, false
	}
	return p.lexemes[p.pos], true
}

func (p *parser) accept(k kind) bool {
	if lx, ok := p.current(); ok && lx.kind == k {
		p.pos++
		return true
	}
	return false
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(kindOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = anyOf{left, right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.accept(kindAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = allOf{left, right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.accept(kindNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return negate{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.accept(kindOpen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(kindClose) {
			return nil, errors.New("rules/expr: missing closing ')'")
		}
		return inner, nil
	}

	lx, ok := p.current()
	if !ok {
		return nil, errors.New("rules/expr: unexpected end of expression")
	}
	if lx.kind != kindIdent {
		return nil, fmt.Errorf("rules/expr: expected identifier, got %q", lx.text)
	}
	p.pos++

	op, ok := p.current()
	if !ok || !op.kind.comparison() {
		return truthy{path: lx.text}, nil
	}
	p.pos++
	rhs, err := p.operand()
	if err != nil {
		return nil, err
	}
	return compare{path: lx.text, op: op.kind, rhs: rhs}, nil
}

func (p *parser) operand() (lexeme, error) {
	lx, ok := p.current()
	if !ok {
		return lexeme{}, errors.New("rules/expr: missing comparison operand")
	}
	switch lx.kind {
	case kindString, kindNumber, kindBool, kindNull, kindIdent:
		p.pos++
		return lx, nil
	default:
		return lexeme{}, fmt.Errorf("rules/expr: expected operand, got %q", lx.text)
	}
}
