// Package expr evaluates the arithmetic amounts users type: decimal literals,
// + - * /, unary signs and parentheses. It is a small recursive-descent parser
// and never hands input to a general purpose evaluator.
package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
)

// maxDepth bounds nesting so hostile input cannot exhaust the stack.
const maxDepth = 256

// Evaluate parses text and returns its value. Blank text yields
// model.NoAmount with a nil error. Failures wrap common.ErrInvalidExpression.
func Evaluate(text string) (model.Amount, error) {
	if strings.TrimSpace(text) == "" {
		return model.NoAmount, nil
	}

	p := &parser{src: text}
	v, err := p.parseExpr()
	if err != nil {
		return model.NoAmount, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return model.NoAmount, p.errorf("unexpected %q", p.src[p.pos])
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.NoAmount, fmt.Errorf("%w: result is not a finite number", common.ErrInvalidExpression)
	}

	return model.NewAmount(v), nil
}

type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", common.ErrInvalidExpression, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// peek returns the next non-space byte, or 0 at end of input.
func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
			continue
		}
		if right == 0 {
			return 0, p.errorf("division by zero")
		}
		left /= right
	}
}

// unary := ('+' | '-') unary | primary
func (p *parser) parseUnary() (float64, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	switch p.peek() {
	case '+':
		p.pos++
		return p.parseUnary()
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePrimary()
}

// primary := number | '(' expr ')'
func (p *parser) parsePrimary() (float64, error) {
	c := p.peek()
	switch {
	case c == 0:
		return 0, p.errorf("unexpected end of expression")
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case isDigit(c) || c == '.':
		return p.parseNumber()
	default:
		return 0, p.errorf("unexpected %q", c)
	}
}

// number := digits ['.' digits] | '.' digits
func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	digits := 0
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
		digits++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		frac := 0
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
			frac++
		}
		if frac == 0 {
			return 0, p.errorf("malformed number %q", p.src[start:p.pos])
		}
		digits += frac
	}
	if digits == 0 {
		return 0, p.errorf("malformed number %q", p.src[start:p.pos])
	}

	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("malformed number %q", p.src[start:p.pos])
	}
	return v, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf("expression nested too deeply")
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
