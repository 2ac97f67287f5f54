package calculi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MaxNestingDepth bounds how deeply groupings, function calls and negations
// may nest. Deeper input is rejected instead of growing the call stack.
const MaxNestingDepth = 512

var (
	ErrEmptyExpression = errors.New("calculi: expression is empty")
	ErrNestingTooDeep  = errors.New("calculi: expression nests too deeply")
	ErrUnexpectedInput = errors.New("calculi: unexpected input")
)

// Parse builds an expression tree from text. It never fails: input that
// cannot be read yields End, and unknown function names become OpError.
//
// Characters the grammar cannot place are skipped one at a time and parsing
// resumes after them. There is no implicit multiplication and no exponent
// notation, so "2(x+1)" reads as 2 + 1 and "1e5 + x" as 1 + x. Use
// ParseChecked to have such input reported.
func Parse(text string) Expr {
	e, _ := ParseChecked(text)
	return e
}

// ParseChecked is Parse with the failure reason reported. When characters
// were skipped the error wraps ErrUnexpectedInput and the tree Parse would
// have returned comes back with it.
func ParseChecked(text string) (Expr, error) {
	p := newParser(text)
	e := p.parse()
	if p.err != nil {
		return End{}, p.err
	}
	if IsEnd(e) {
		return End{}, ErrEmptyExpression
	}
	if p.skipped != 0 {
		return e, fmt.Errorf("%w: %q cannot be placed", ErrUnexpectedInput, p.skipped)
	}
	return e, nil
}

type parser struct {
	src   []rune
	pos   int
	depth int
	err   error

	// skipped is the first character the top-level loop stepped over.
	skipped rune
}

func newParser(text string) *parser {
	src := make([]rune, 0, len(text))
	for _, r := range text {
		if !unicode.IsSpace(r) {
			src = append(src, r)
		}
	}
	return &parser{src: src}
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) next() { p.pos++ }

func (p *parser) peekPrecedence() int {
	c, ok := p.peek()
	if !ok {
		return -1
	}
	return Precedence(c)
}

// parse drives atom + binary passes until the input is used up, dropping one
// unreadable character between passes.
func (p *parser) parse() Expr {
	e := p.parseBinary(0, p.parseAtom())
	for p.err == nil && p.pos < len(p.src) {
		if p.skipped == 0 {
			p.skipped = p.src[p.pos]
		}
		p.next()
		if IsEnd(e) {
			e = p.parseAtom()
		}
		e = p.parseBinary(0, e)
	}
	if p.err != nil {
		return End{}
	}
	return e
}

func (p *parser) parseExpr() Expr {
	return p.parseBinary(0, p.parseAtom())
}

func (p *parser) enter() bool {
	p.depth++
	if p.depth > MaxNestingDepth {
		if p.err == nil {
			p.err = fmt.Errorf("%w: more than %d levels", ErrNestingTooDeep, MaxNestingDepth)
		}
		return false
	}
	return true
}

func (p *parser) leave() { p.depth-- }

func isDigit(c rune) bool { return (c >= '0' && c <= '9') || c == '.' }

func (p *parser) parseAtom() Expr {
	if p.err != nil {
		return End{}
	}
	var num, ident strings.Builder

	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		if isDigit(c) && ident.Len() == 0 {
			num.WriteRune(c)
			p.next()
			continue
		}
		if num.Len() > 0 {
			break
		}
		if c == '(' {
			p.next()
			return p.parseGroup(ident.String())
		}
		if isInfixSymbol(c) || c == ',' || c == ')' {
			if ident.Len() > 0 || c == ',' || c == ')' {
				break
			}
			p.next()
			if c == '-' {
				return p.parseNegation()
			}
			// Other leading symbols carry no meaning in atom position.
			continue
		}
		ident.WriteRune(c)
		p.next()
	}

	if num.Len() > 0 {
		v, err := strconv.ParseFloat(num.String(), 32)
		if err != nil {
			return End{}
		}
		return N(float32(v))
	}
	if ident.Len() > 0 {
		return V(ident.String())
	}
	return End{}
}

// parseGroup reads what follows an opening parenthesis: a function call when
// name is set, a plain grouping otherwise.
func (p *parser) parseGroup(name string) Expr {
	if !p.enter() {
		return End{}
	}
	defer p.leave()

	first := p.parseExpr()
	if name == "" {
		if c, ok := p.peek(); ok && c == ')' {
			p.next()
		}
		return first
	}

	operands := []Expr{first}
loop:
	for p.err == nil {
		c, ok := p.peek()
		if !ok {
			break
		}
		p.next()
		switch c {
		case ')':
			break loop
		case ',':
			operands = append(operands, p.parseExpr())
		}
	}
	for _, x := range operands {
		if IsEnd(x) {
			return End{}
		}
	}
	return Call(OperatorFromToken(name), operands...)
}

// parseNegation handles a leading minus. It binds tighter than * / % but
// looser than ^, so -2^2 reads as -(2^2).
func (p *parser) parseNegation() Expr {
	if !p.enter() {
		return End{}
	}
	defer p.leave()

	inner := p.parseBinary(OpExponent.Precedence(), p.parseAtom())
	switch x := inner.(type) {
	case *Number:
		return N(-x.val)
	case End:
		return End{}
	}
	return Binary(OpMultiply, N(-1), inner)
}

// parseBinary climbs precedence starting at minPrec with left already read.
func (p *parser) parseBinary(minPrec int, left Expr) Expr {
	for p.err == nil {
		c, ok := p.peek()
		if !ok {
			return left
		}
		prec := Precedence(c)
		if prec < 0 || prec < minPrec {
			return left
		}
		p.next()

		right := p.parseAtom()
		if p.peekPrecedence() > prec {
			right = p.parseBinary(prec+1, right)
		}
		if IsEnd(left) || IsEnd(right) {
			return End{}
		}

		op := OperatorFromToken(string(c))
		left = SimplifyBinary(op, left, right).Apply(op, left, right)
	}
	return End{}
}
