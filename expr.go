// Package calculi parses algebraic expressions into immutable trees and
// evaluates, differentiates, simplifies and solves them.
//
// Design goals:
//   - Total operations: every call returns a best-effort tree, never an error
//   - Immutable trees: transformations always build new nodes
//   - float32 is the only numeric representation
//   - JSON and LaTeX output for tool and agent backends
//
// Quick start:
//
//	eq := calculi.New("x - 2 * a + 4 ^ b")
//	v, _ := calculi.ToFloat(eq.SolveWith(calculi.Bindings{"x": 10, "a": 4.5, "b": 1}))
//	residual, x := eq.SolveFor(10, calculi.Bindings{"a": 4.5, "b": 1})
//	d := calculi.New("x ^ 3").Derive() // d.Text == "3 * x ^ 2"
package calculi

import "math"

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of an expression tree: *Variable, *Number, *Function or End.
type Expr interface {
	String() string
	LaTeX() string
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// Bindings assigns numeric values to variable names.
type Bindings map[string]float32

// ============================================================
// Variable — unbound identifier
// ============================================================

type Variable struct{ name string }

func V(name string) *Variable { return &Variable{name: name} }

func (v *Variable) Name() string     { return v.name }
func (v *Variable) exprType() string { return "var" }
func (v *Variable) Equal(other Expr) bool {
	o, ok := other.(*Variable)
	return ok && v.name == o.name
}

// ============================================================
// Number — float32 literal
// ============================================================

type Number struct{ val float32 }

func N(v float32) *Number { return &Number{val: v} }

func (n *Number) Float32() float32 { return n.val }
func (n *Number) IsZero() bool     { return n.val == 0 }
func (n *Number) IsOne() bool      { return n.val == 1 }
func (n *Number) exprType() string { return "num" }

// Equal compares values exactly; two NaN literals are considered equal so
// that structural comparison stays reflexive.
func (n *Number) Equal(other Expr) bool {
	o, ok := other.(*Number)
	if !ok {
		return false
	}
	if isNaN(n.val) && isNaN(o.val) {
		return true
	}
	return n.val == o.val
}

func isNaN(f float32) bool { return f != f }

// ============================================================
// Function — operator applied to operands
// ============================================================

type Function struct {
	op       Operator
	operands []Expr
}

// Call builds a Function node. The operand slice is copied.
func Call(op Operator, operands ...Expr) *Function {
	return &Function{op: op, operands: append([]Expr(nil), operands...)}
}

// Unary and Binary are the tree-construction helpers used by the rewriting
// passes. Both fail with End when an operand is End.
func Unary(op Operator, x Expr) Expr {
	if IsEnd(x) {
		return End{}
	}
	return &Function{op: op, operands: []Expr{x}}
}

func Binary(op Operator, left, right Expr) Expr {
	if IsEnd(left) || IsEnd(right) {
		return End{}
	}
	return &Function{op: op, operands: []Expr{left, right}}
}

func (f *Function) Operator() Operator { return f.op }

// Operands returns a copy of the operand list.
func (f *Function) Operands() []Expr { return append([]Expr(nil), f.operands...) }

func (f *Function) Len() int           { return len(f.operands) }
func (f *Function) Operand(i int) Expr { return f.operands[i] }
func (f *Function) exprType() string   { return "func" }

func (f *Function) Equal(other Expr) bool {
	o, ok := other.(*Function)
	if !ok || f.op != o.op || len(f.operands) != len(o.operands) {
		return false
	}
	for i := range f.operands {
		if !f.operands[i].Equal(o.operands[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// End — no value
// ============================================================

// End marks empty input, a failed construction, or an undefined derivative.
type End struct{}

func (End) exprType() string { return "end" }
func (End) Equal(other Expr) bool {
	_, ok := other.(End)
	return ok
}

func IsEnd(e Expr) bool {
	_, ok := e.(End)
	return ok || e == nil
}

// ============================================================
// Helpers
// ============================================================

// ToFloat returns the value of e when e is a Number.
func ToFloat(e Expr) (float32, bool) {
	if n, ok := e.(*Number); ok {
		return n.val, true
	}
	return 0, false
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return IsEnd(a) && IsEnd(b)
	}
	return a.Equal(b)
}

func isNumber(e Expr, v float32) bool {
	f, ok := ToFloat(e)
	return ok && f == v
}

// f32 rounds a float64 result back to the package's numeric precision.
func f32(f float64) float32 { return float32(f) }

func nearlyEqual(a, b float32) bool {
	if a == b {
		return true
	}
	diff := math.Abs(float64(a) - float64(b))
	scale := math.Max(1, math.Max(math.Abs(float64(a)), math.Abs(float64(b))))
	return diff <= epsilon32*scale
}

const epsilon32 = 1.1920929e-07
