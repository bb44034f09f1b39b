package token

import (
	"errors"
	"fmt"
)

// Parse converts text into a Token tree. It never fails: malformed input yields
// a SyntaxError.
func Parse(text string) Token {
	t, err := ParseStrict(text)
	if err != nil {
		return SyntaxError{}
	}
	return t
}

// ParseStrict is Parse with the failure reason. Validators use it to report why
// an expression is rejected.
func ParseStrict(text string) (Token, error) {
	lexemes, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{lexemes: lexemes}
	if p.peek().kind == lexEOF {
		return nil, errors.New("empty expression")
	}
	t, err := p.binary(1)
	if err != nil {
		return nil, err
	}
	if next := p.peek(); next.kind != lexEOF {
		return nil, fmt.Errorf("unexpected %q at %d", next.text, next.pos)
	}
	return t, nil
}

type parser struct {
	lexemes []lexeme
	pos     int
}

func (p *parser) peek() lexeme {
	return p.lexemes[p.pos]
}

func (p *parser) next() lexeme {
	l := p.lexemes[p.pos]
	if l.kind != lexEOF {
		p.pos++
	}
	return l
}

// binary parses left-associative operators of at least minPrecedence.
// Power is handled by power, since it binds tighter than unary minus.
func (p *parser) binary(minPrecedence int) (Token, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		l := p.peek()
		if l.kind != lexOperator || l.op == Power || l.op.Precedence() < minPrecedence {
			return left, nil
		}
		p.next()
		right, err := p.binary(l.op.Precedence() + 1)
		if err != nil {
			return nil, err
		}
		left = build(left, l.op, right)
	}
}

func (p *parser) unary() (Token, error) {
	if l := p.peek(); l.kind == lexOperator && l.unary {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Negate(operand), nil
	}
	return p.power()
}

func (p *parser) power() (Token, error) {
	start := p.peek()
	base, err := p.primary()
	if err != nil {
		return nil, err
	}

	// Implicit multiplication: 2x, 3(a + b)
	if start.kind == lexNumber {
		if next := p.peek(); next.kind == lexIdent || next.kind == lexLParen {
			factor, err := p.power()
			if err != nil {
				return nil, err
			}
			return Expression{Left: base, Right: factor, Operation: Multiplication}, nil
		}
	}

	if l := p.peek(); l.kind == lexOperator && l.op == Power {
		p.next()
		exponent, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Expression{Left: base, Right: exponent, Operation: Power}, nil
	}
	return base, nil
}

func (p *parser) primary() (Token, error) {
	l := p.next()
	switch l.kind {
	case lexNumber:
		return Number{Value: l.num}, nil
	case lexIdent:
		return Variable{Name: l.text}, nil
	case lexLParen:
		inner, err := p.binary(1)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != lexRParen {
			return nil, fmt.Errorf("expected ) at %d", closing.pos)
		}
		return inner, nil
	case lexLBrace:
		return p.list()
	case lexEOF:
		return nil, errors.New("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q at %d", l.text, l.pos)
}

func (p *parser) list() (Token, error) {
	var values []Token
	if p.peek().kind == lexRBrace {
		p.next()
		return List{Values: values}, nil
	}
	for {
		v, err := p.binary(1)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		switch l := p.next(); l.kind {
		case lexComma:
			continue
		case lexRBrace:
			return List{Values: values}, nil
		default:
			return nil, fmt.Errorf("expected , or } at %d", l.pos)
		}
	}
}

// build creates the node for left op right without evaluating it.
func build(left Token, op Operation, right Token) Token {
	if op.IsComparison() {
		return Equation{Left: left, Right: right, Operation: op}
	}
	if op.IsLogical() {
		_, lok := left.(Equation)
		_, rok := right.(Equation)
		if lok && rok {
			return Equation{Left: left, Right: right, Operation: op}
		}
	}
	return Expression{Left: left, Right: right, Operation: op}
}
