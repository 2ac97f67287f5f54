package calculi

import "math"

// ============================================================
// Inversion
// ============================================================

// maxInversionSteps caps the peel loop. Each productive step removes one
// layer, so only a non-shrinking rewrite could ever reach it.
const maxInversionSteps = 1 << 10

// SolveFor isolates the single unknown left in e after applying bindings, so
// that e evaluates to outcome. It peels one operator per step, inverting it
// against the numeric side, and returns the residual expression with the
// outcome still owed by it. A bare Variable residual means the equation was
// solved; anything else is a partial result (see Solved).
func SolveFor(e Expr, outcome float32, bindings Bindings) (Expr, float32) {
	expr := Evaluate(e, bindings)
	for i := 0; i < maxInversionSteps; i++ {
		if _, ok := expr.(*Function); !ok {
			break
		}
		next, value := invert(expr, outcome)
		if next.Equal(expr) {
			break
		}
		expr, outcome = next, value
	}
	return expr, outcome
}

// Solved reports whether a SolveFor residual is fully isolated: a bare
// variable, or a number when the expression had no unknown at all.
func Solved(residual Expr) bool {
	switch residual.(type) {
	case *Variable, *Number:
		return true
	}
	return false
}

// invert peels one layer off e. When no rule applies it returns e unchanged.
func invert(e Expr, outcome float32) (Expr, float32) {
	f, ok := e.(*Function)
	if !ok {
		return e, outcome
	}
	switch {
	case len(f.operands) == 1 && f.op.Arity() == ArityUnary:
		if v, ok := invertUnary(f.op, outcome); ok {
			return f.operands[0], v
		}
	case len(f.operands) == 2 && f.op.Arity() == ArityBinary:
		l, r := f.operands[0], f.operands[1]
		if n, ok := ToFloat(l); ok {
			if v, ok := invertBinary(f.op, outcome, n, true); ok {
				return r, v
			}
		} else if n, ok := ToFloat(r); ok {
			if v, ok := invertBinary(f.op, outcome, n, false); ok {
				return l, v
			}
		}
	case f.op == OpMax || f.op == OpMin:
		if x, ok := invertExtreme(f, outcome); ok {
			return x, outcome
		}
	}
	return e, outcome
}

func invertUnary(op Operator, y float32) (float32, bool) {
	v := float64(y)
	switch op {
	case OpSin:
		return f32(math.Asin(v)), true
	case OpCos:
		return f32(math.Acos(v)), true
	case OpTan:
		return f32(math.Atan(v)), true
	case OpSec:
		return f32(math.Acos(1 / v)), true
	case OpCsc:
		return f32(math.Asin(1 / v)), true
	case OpCot:
		return f32(math.Atan(1 / v)), true
	case OpExp:
		return f32(math.Log(v)), true
	case OpLn:
		return f32(math.Exp(v)), true
	case OpSqrt:
		return y * y, true
	}
	return 0, false
}

// invertBinary solves op(a, b) = y for the symbolic side, where f is the
// numeric side and numLeft says whether it is the left operand.
func invertBinary(op Operator, y, f float32, numLeft bool) (float32, bool) {
	switch op {
	case OpAdd:
		return y - f, true
	case OpSubtract:
		if numLeft {
			return f - y, true
		}
		return y + f, true
	case OpMultiply:
		return y / f, true
	case OpDivide:
		if numLeft {
			return f / y, true
		}
		return y * f, true
	case OpExponent, OpPow:
		if numLeft {
			return logBase(y, f), true
		}
		return f32(math.Pow(float64(y), 1/float64(f))), true
	case OpLog:
		// log(f, x) = y  =>  x = f^(1/y);  log(x, f) = y  =>  x = f^y
		if numLeft {
			return f32(math.Pow(float64(f), 1/float64(y))), true
		}
		return f32(math.Pow(float64(f), float64(y))), true
	case OpRoot:
		// root(f, x) = y  =>  x = ln f / ln y;  root(x, f) = y  =>  x = y^f
		if numLeft {
			return f32(math.Log(float64(f)) / math.Log(float64(y))), true
		}
		return f32(math.Pow(float64(y), float64(f))), true
	}
	return 0, false
}

// invertExtreme collapses max/min to its only symbolic operand when every
// numeric operand is consistent with the target: none above it for max, none
// below it for min.
func invertExtreme(f *Function, y float32) (Expr, bool) {
	var unknown Expr
	for _, x := range f.operands {
		v, ok := ToFloat(x)
		if !ok {
			if unknown != nil {
				return nil, false
			}
			unknown = x
			continue
		}
		if nearlyEqual(v, y) {
			continue
		}
		if (f.op == OpMax && v > y) || (f.op == OpMin && v < y) {
			return nil, false
		}
	}
	return unknown, unknown != nil
}
