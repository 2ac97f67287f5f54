package calculi

import (
	"math"
	"sort"
)

// ============================================================
// Evaluation
// ============================================================

// Evaluate substitutes bindings and folds every subtree whose operands are
// all numbers. Unbound variables and operators that cannot fold are kept, so
// the result may still be symbolic.
func Evaluate(e Expr, bindings Bindings) Expr {
	switch n := e.(type) {
	case *Variable:
		if v, ok := bindings[n.name]; ok {
			return N(v)
		}
		return n
	case *Function:
		operands := make([]Expr, len(n.operands))
		for i, x := range n.operands {
			operands[i] = Evaluate(x, bindings)
		}
		if folded, ok := fold(n.op, operands); ok {
			return N(folded)
		}
		return &Function{op: n.op, operands: operands}
	case nil:
		return End{}
	}
	return e
}

// fold computes op over numeric operands. It reports false when any operand
// is symbolic, the operand count does not fit op, or op has no numeric rule.
func fold(op Operator, operands []Expr) (float32, bool) {
	if len(operands) == 0 {
		return 0, false
	}
	values := make([]float32, len(operands))
	for i, x := range operands {
		v, ok := ToFloat(x)
		if !ok {
			return 0, false
		}
		values[i] = v
	}

	switch op.Arity() {
	case ArityUnary:
		if len(values) != 1 {
			return 0, false
		}
		return foldUnary(op, values[0])
	case ArityBinary:
		if len(values) != 2 {
			return 0, false
		}
		return foldBinary(op, values[0], values[1])
	}
	switch op {
	case OpMax:
		return extreme(values, func(candidate, best float32) bool { return candidate > best }), true
	case OpMin:
		return extreme(values, func(candidate, best float32) bool { return candidate < best }), true
	}
	return 0, false
}

func foldUnary(op Operator, f float32) (float32, bool) {
	x := float64(f)
	switch op {
	case OpSin:
		return f32(math.Sin(x)), true
	case OpCos:
		return f32(math.Cos(x)), true
	case OpTan:
		return f32(math.Tan(x)), true
	case OpSec:
		return 1 / f32(math.Cos(x)), true
	case OpCsc:
		return 1 / f32(math.Sin(x)), true
	case OpCot:
		return 1 / f32(math.Tan(x)), true
	case OpAbs:
		return f32(math.Abs(x)), true
	case OpFloor:
		return f32(math.Floor(x)), true
	case OpRound:
		return f32(math.Round(x)), true
	case OpCeil:
		return f32(math.Ceil(x)), true
	case OpExp:
		return f32(math.Exp(x)), true
	case OpLn:
		return f32(math.Log(x)), true
	case OpSqrt:
		return f32(math.Sqrt(x)), true
	}
	return 0, false
}

func foldBinary(op Operator, a, b float32) (float32, bool) {
	switch op {
	case OpAdd:
		return a + b, true
	case OpSubtract:
		return a - b, true
	case OpMultiply:
		return a * b, true
	case OpDivide:
		return a / b, true
	case OpModulo:
		return f32(math.Mod(float64(a), float64(b))), true
	case OpExponent, OpPow:
		return f32(math.Pow(float64(a), float64(b))), true
	case OpLog:
		return logBase(a, b), true
	case OpRoot:
		return f32(math.Pow(float64(a), 1/float64(b))), true
	}
	return 0, false
}

func logBase(x, base float32) float32 {
	return f32(math.Log(float64(x)) / math.Log(float64(base)))
}

// extreme scans values keeping the running best; the first value seeds it and
// only a strict improvement replaces it, so earlier operands win ties.
func extreme(values []float32, better func(candidate, best float32) bool) float32 {
	best := values[0]
	for _, v := range values[1:] {
		if better(v, best) {
			best = v
		}
	}
	return best
}

// ============================================================
// Substitution and free variables
// ============================================================

// Substitute replaces every occurrence of the variable name with value.
func Substitute(e Expr, name string, value Expr) Expr {
	switch n := e.(type) {
	case *Variable:
		if n.name == name {
			return value
		}
		return n
	case *Function:
		operands := make([]Expr, len(n.operands))
		for i, x := range n.operands {
			operands[i] = Substitute(x, name, value)
		}
		return &Function{op: n.op, operands: operands}
	}
	return e
}

// FreeVariables returns the sorted, distinct variable names in e.
func FreeVariables(e Expr) []string {
	seen := map[string]struct{}{}
	collectVariables(e, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVariables(e Expr, out map[string]struct{}) {
	switch n := e.(type) {
	case *Variable:
		out[n.name] = struct{}{}
	case *Function:
		for _, x := range n.operands {
			collectVariables(x, out)
		}
	}
}
