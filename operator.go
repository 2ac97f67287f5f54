package calculi

import "strings"

// ============================================================
// Operator catalog
// ============================================================

// Operator identifies the function applied by a Function node.
type Operator int

const (
	OpError Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpExponent
	OpPow
	OpLog
	OpLn
	OpExp
	OpSqrt
	OpRoot
	OpSin
	OpCos
	OpTan
	OpSec
	OpCsc
	OpCot
	OpAbs
	OpFloor
	OpRound
	OpCeil
	OpMax
	OpMin
)

// Arity is the operand-count class of an operator.
type Arity int

const (
	ArityUnary Arity = iota
	ArityBinary
	ArityVariadic
)

type operatorInfo struct {
	text       string
	arity      Arity
	precedence int
}

var operatorTable = [...]operatorInfo{
	OpError:    {"error", ArityVariadic, -1},
	OpAdd:      {"+", ArityBinary, 1},
	OpSubtract: {"-", ArityBinary, 1},
	OpMultiply: {"*", ArityBinary, 3},
	OpDivide:   {"/", ArityBinary, 3},
	OpModulo:   {"%", ArityBinary, 3},
	OpExponent: {"^", ArityBinary, 5},
	OpPow:      {"pow", ArityBinary, -1},
	OpLog:      {"log", ArityBinary, -1},
	OpLn:       {"ln", ArityUnary, -1},
	OpExp:      {"exp", ArityUnary, -1},
	OpSqrt:     {"sqrt", ArityUnary, -1},
	OpRoot:     {"root", ArityBinary, -1},
	OpSin:      {"sin", ArityUnary, -1},
	OpCos:      {"cos", ArityUnary, -1},
	OpTan:      {"tan", ArityUnary, -1},
	OpSec:      {"sec", ArityUnary, -1},
	OpCsc:      {"csc", ArityUnary, -1},
	OpCot:      {"cot", ArityUnary, -1},
	OpAbs:      {"abs", ArityUnary, -1},
	OpFloor:    {"floor", ArityUnary, -1},
	OpRound:    {"round", ArityUnary, -1},
	OpCeil:     {"ceil", ArityUnary, -1},
	OpMax:      {"max", ArityVariadic, -1},
	OpMin:      {"min", ArityVariadic, -1},
}

var tokenOperators = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorTable))
	for op, info := range operatorTable {
		if Operator(op) == OpError {
			continue
		}
		m[info.text] = Operator(op)
	}
	return m
}()

// OperatorFromToken maps token text to its operator. Infix symbols must match
// exactly; function names are case-insensitive. Unknown tokens map to OpError.
func OperatorFromToken(text string) Operator {
	if op, ok := tokenOperators[text]; ok {
		return op
	}
	if op, ok := tokenOperators[strings.ToLower(text)]; ok && op.Precedence() < 0 {
		return op
	}
	return OpError
}

// Precedence returns the infix precedence of symbol, or -1 when symbol is not
// an infix operator.
func Precedence(symbol rune) int {
	switch symbol {
	case '+', '-':
		return 1
	case '*', '/', '%':
		return 3
	case '^':
		return 5
	}
	return -1
}

func isInfixSymbol(c rune) bool { return Precedence(c) >= 0 }

func (op Operator) valid() bool { return op >= 0 && int(op) < len(operatorTable) }

// String returns the display text, which is also the text the parser accepts.
func (op Operator) String() string {
	if !op.valid() {
		return operatorTable[OpError].text
	}
	return operatorTable[op].text
}

func (op Operator) Arity() Arity {
	if !op.valid() {
		return ArityVariadic
	}
	return operatorTable[op].arity
}

// Precedence returns the infix precedence of op, -1 for named operators.
func (op Operator) Precedence() int {
	if !op.valid() {
		return -1
	}
	return operatorTable[op].precedence
}

// IsInfix reports whether op is written between its operands.
func (op Operator) IsInfix() bool { return op.Precedence() >= 0 }

// accepts reports whether n operands fit the arity class of op.
func (op Operator) accepts(n int) bool {
	switch op.Arity() {
	case ArityUnary:
		return n == 1
	case ArityBinary:
		return n == 2
	}
	return n >= 1
}
