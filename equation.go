package calculi

// ============================================================
// Equation
// ============================================================

// Equation pairs source text with its parsed tree. The tree is evaluated once
// with no bindings, so constant subexpressions are already folded.
type Equation struct {
	// Text is the source, or the canonical infix form for derived equations.
	Text string
	// Expression is the parsed and pre-evaluated tree.
	Expression Expr
}

// New parses text into an Equation.
//
//	eq := calculi.New("a * sqrt(x + 1)")
//	v, _ := calculi.ToFloat(eq.SolveWith(calculi.Bindings{"a": 2, "x": 8})) // 6
func New(text string) *Equation {
	return &Equation{Text: text, Expression: Evaluate(Parse(text), nil)}
}

// FromExpr wraps an existing tree; Text is its infix rendering.
func FromExpr(e Expr) *Equation {
	if e == nil {
		e = End{}
	}
	return &Equation{Text: e.String(), Expression: e}
}

func (eq *Equation) String() string { return eq.Text }

// SolveWith substitutes bindings and folds constants. Use ToFloat on the
// result to get a value; it fails while any variable is left unbound.
func (eq *Equation) SolveWith(bindings Bindings) Expr {
	return Evaluate(eq.Expression, bindings)
}

// Derive returns the simplified derivative as a new Equation.
//
//	calculi.New("x ^ 3").Derive().Text // "3 * x ^ 2"
func (eq *Equation) Derive() *Equation {
	d := Simplify(Derive(eq.Expression))
	return FromExpr(Simplify(Evaluate(d, nil)))
}

// SolveFor solves for the single variable left unbound so that the equation
// equals outcome. See the package-level SolveFor for the residual contract.
//
//	residual, a := calculi.New("a * sqrt(x + 1)").SolveFor(9, calculi.Bindings{"x": 8})
//	// residual.String() == "a", a == 3
func (eq *Equation) SolveFor(outcome float32, bindings Bindings) (Expr, float32) {
	return SolveFor(eq.Expression, outcome, bindings)
}

// Variables lists the free variable names of the equation.
func (eq *Equation) Variables() []string { return FreeVariables(eq.Expression) }
