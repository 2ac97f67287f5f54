package calculi

// ============================================================
// Algebraic identities
// ============================================================

// SimplifiedKind says how SimplifyBinary rewrote a pair.
type SimplifiedKind int

const (
	NoChange SimplifiedKind = iota
	ReplaceWithLeft
	ReplaceWithRight
	ReplaceWith
)

// Simplified is the outcome of SimplifyBinary. Expr is set only for ReplaceWith.
type Simplified struct {
	Kind SimplifiedKind
	Expr Expr
}

// SimplifyBinary checks the identity table for op applied to left and right.
// Identities only fire on literal numbers; a symbolic side is never assumed
// to be 0 or 1.
func SimplifyBinary(op Operator, left, right Expr) Simplified {
	switch op {
	case OpMultiply, OpExponent, OpPow:
		switch {
		case isNumber(left, 0):
			return Simplified{Kind: ReplaceWith, Expr: N(0)}
		case isNumber(right, 0) && op == OpMultiply:
			return Simplified{Kind: ReplaceWith, Expr: N(0)}
		case isNumber(right, 0):
			return Simplified{Kind: ReplaceWith, Expr: N(1)}
		case isNumber(left, 1) && op == OpMultiply:
			return Simplified{Kind: ReplaceWithRight}
		case isNumber(left, 1):
			return Simplified{Kind: ReplaceWith, Expr: N(1)}
		case isNumber(right, 1):
			return Simplified{Kind: ReplaceWithLeft}
		}
	case OpAdd, OpSubtract:
		switch {
		case isNumber(left, 0) && op == OpAdd:
			return Simplified{Kind: ReplaceWithRight}
		case isNumber(right, 0):
			return Simplified{Kind: ReplaceWithLeft}
		}
	case OpDivide:
		if isNumber(right, 1) {
			return Simplified{Kind: ReplaceWithLeft}
		}
	}
	return Simplified{Kind: NoChange}
}

// Apply resolves the rewrite against the pair it was computed for.
func (s Simplified) Apply(op Operator, left, right Expr) Expr {
	switch s.Kind {
	case ReplaceWithLeft:
		return left
	case ReplaceWithRight:
		return right
	case ReplaceWith:
		return s.Expr
	}
	return Binary(op, left, right)
}

// Simplify applies the identity table bottom-up over the whole tree.
func Simplify(e Expr) Expr {
	f, ok := e.(*Function)
	if !ok {
		return e
	}
	operands := make([]Expr, len(f.operands))
	for i, x := range f.operands {
		operands[i] = Simplify(x)
	}
	if len(operands) == 2 {
		l, r := operands[0], operands[1]
		return SimplifyBinary(f.op, l, r).Apply(f.op, l, r)
	}
	return &Function{op: f.op, operands: operands}
}
