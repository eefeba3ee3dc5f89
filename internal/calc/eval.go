package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNonFinite is returned when an expression evaluates to ±Inf or NaN
// (division by zero, overflow).
var ErrNonFinite = errors.New("result is not a finite number")

// SyntaxError describes a malformed expression.
type SyntaxError struct {
	Pos int // byte offset into the expression
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// Eval evaluates an arithmetic expression over decimal literals and the
// binary operators + - * / with the usual precedence, left associative.
// Unary + and - are accepted as signs, but the pairs "++" and "--" are
// rejected. Parentheses, exponents and whitespace are not part of the
// grammar.
func Eval(expr string) (float64, error) {
	p := &parser{src: expr}
	if p.src == "" {
		return 0, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	if i := strings.Index(expr, "++"); i >= 0 {
		return 0, &SyntaxError{Pos: i, Msg: `unexpected "++"`}
	}
	if i := strings.Index(expr, "--"); i >= 0 {
		return 0, &SyntaxError{Pos: i, Msg: `unexpected "--"`}
	}

	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.src) {
		return 0, p.errorf("unexpected %q", p.src[p.pos])
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNonFinite
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

// expr = term {("+"|"-") term}
func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
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

// term = unary {("*"|"/") unary}
func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			left /= right
		}
	}
}

// unary = ("+"|"-") unary | number
func (p *parser) unary() (float64, error) {
	switch p.peek() {
	case '+':
		p.pos++
		return p.unary()
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	}
	return p.number()
}

// number = digits ["." {digit}] | "." digits
func (p *parser) number() (float64, error) {
	start := p.pos
	digits := p.digits()
	if p.peek() == '.' {
		p.pos++
		digits += p.digits()
	}
	if digits == 0 {
		if p.pos >= len(p.src) {
			return 0, p.errorf("unexpected end of expression")
		}
		return 0, p.errorf("unexpected %q", p.src[p.pos])
	}
	if p.peek() == '.' {
		return 0, p.errorf("unexpected %q", '.')
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		// ParseFloat only fails here on overflow.
		return 0, ErrNonFinite
	}
	return v, nil
}

func (p *parser) digits() int {
	n := 0
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
		n++
	}
	return n
}

// FormatNumber renders v the way the calculator display shows results:
// shortest round-trip decimal, exponent form below 1e-6 or from 1e21 up,
// and no negative zero.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		n, _ := strconv.Atoi(exp)
		sign := "+"
		if n < 0 {
			sign = "-"
			n = -n
		}
		return mant + "e" + sign + strconv.Itoa(n)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
