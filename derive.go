package calculi

// ============================================================
// Differentiation
// ============================================================

// Derive returns the raw derivative of e. Every variable is differentiated at
// once, so callers wanting a partial derivative substitute the others first.
// Operators without a rule (abs, floor, round, ceil, max, min, %, root) give
// End. The output is verbose by construction; run Simplify before display.
func Derive(e Expr) Expr {
	switch n := e.(type) {
	case *Number:
		return N(0)
	case *Variable:
		return N(1)
	case *Function:
		return deriveFunction(n)
	}
	return End{}
}

// MaxDeriveOrder is the highest order the tool and CLI surfaces accept.
// Raw derivatives of products and powers grow several-fold per order, so
// unbounded requests are refused at the boundary.
const MaxDeriveOrder = 6

// DeriveN returns the simplified n-th derivative of e.
func DeriveN(e Expr, n int) Expr {
	for i := 0; i < n; i++ {
		e = Simplify(Derive(e))
		if IsEnd(e) {
			break
		}
	}
	return e
}

// chain multiplies the outer derivative by the derivative of inner.
func chain(outer, inner Expr) Expr {
	return Binary(OpMultiply, outer, Derive(inner))
}

func neg(e Expr) Expr { return Binary(OpMultiply, N(-1), e) }

func deriveFunction(f *Function) Expr {
	if !f.op.accepts(len(f.operands)) {
		return End{}
	}
	x := f.operands[0]

	switch f.op {
	case OpAdd, OpSubtract:
		return Binary(f.op, Derive(x), Derive(f.operands[1]))

	case OpMultiply:
		y := f.operands[1]
		return Binary(OpAdd, chain(x, y), chain(y, x))

	case OpDivide:
		y := f.operands[1]
		return Binary(OpDivide,
			Binary(OpSubtract, chain(y, x), chain(x, y)),
			Binary(OpExponent, y, N(2)))

	case OpExponent, OpPow:
		return derivePower(f, x, f.operands[1])

	case OpLog:
		return chain(Binary(OpDivide, N(1), Binary(OpMultiply, Unary(OpLn, f.operands[1]), x)), x)

	case OpLn:
		return chain(Binary(OpDivide, N(1), x), x)

	case OpExp:
		return chain(f, x)

	case OpSqrt:
		return chain(Binary(OpDivide, N(1), Binary(OpMultiply, N(2), f)), x)

	case OpSin:
		return chain(Unary(OpCos, x), x)

	case OpCos:
		return chain(neg(Unary(OpSin, x)), x)

	case OpTan:
		return chain(Binary(OpExponent, Unary(OpSec, x), N(2)), x)

	case OpSec:
		return chain(Binary(OpMultiply, Unary(OpSec, x), Unary(OpTan, x)), x)

	case OpCsc:
		return chain(neg(Binary(OpMultiply, Unary(OpCsc, x), Unary(OpCot, x))), x)

	case OpCot:
		return chain(neg(Binary(OpExponent, Unary(OpCsc, x), N(2))), x)
	}
	return End{}
}

func derivePower(f *Function, base, exponent Expr) Expr {
	// b^n: power rule
	if n, ok := ToFloat(exponent); ok {
		return chain(Binary(OpMultiply, N(n), Binary(f.op, base, N(n-1))), base)
	}
	// c^x: c^x * ln(c) * x'
	if c, ok := ToFloat(base); ok {
		return chain(Binary(OpMultiply, f, Unary(OpLn, N(c))), exponent)
	}
	// b^x: logarithmic differentiation
	return Binary(OpMultiply, f,
		Binary(OpAdd,
			Binary(OpMultiply, Derive(exponent), Unary(OpLn, base)),
			Binary(OpMultiply, exponent, Binary(OpDivide, Derive(base), base))))
}
