package calculi

import (
	"strconv"
	"strings"
)

// ============================================================
// Infix text
// ============================================================

func (v *Variable) String() string { return v.name }
func (n *Number) String() string   { return formatNumber(n.val) }
func (f *Function) String() string { return render(f, 0) }
func (End) String() string         { return "" }

func formatNumber(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// render writes e in infix form. ctx is the precedence imposed by the parent:
// a child whose own precedence is strictly lower gets parentheses.
func render(e Expr, ctx int) string {
	switch n := e.(type) {
	case *Number:
		// Unary minus binds looser than ^, so a negative base needs grouping.
		if n.val < 0 && ctx >= OpExponent.Precedence() {
			return "(" + formatNumber(n.val) + ")"
		}
		return formatNumber(n.val)
	case *Function:
		if n.op.IsInfix() && len(n.operands) == 2 {
			prec := n.op.Precedence()
			s := render(n.operands[0], prec) + " " + n.op.String() + " " + render(n.operands[1], prec+1)
			if prec < ctx {
				return "(" + s + ")"
			}
			return s
		}
		args := make([]string, len(n.operands))
		for i, x := range n.operands {
			args[i] = render(x, 0)
		}
		return n.op.String() + "(" + strings.Join(args, ", ") + ")"
	case nil:
		return ""
	}
	return e.String()
}

// ============================================================
// LaTeX
// ============================================================

func (v *Variable) LaTeX() string { return v.name }
func (n *Number) LaTeX() string   { return formatNumber(n.val) }
func (f *Function) LaTeX() string { return latex(f, 0) }
func (End) LaTeX() string         { return "" }

var latexCommands = map[Operator]string{
	OpSin: `\sin`,
	OpCos: `\cos`,
	OpTan: `\tan`,
	OpSec: `\sec`,
	OpCsc: `\csc`,
	OpCot: `\cot`,
	OpLn:  `\ln`,
	OpMax: `\max`,
	OpMin: `\min`,
}

func latex(e Expr, ctx int) string {
	f, ok := e.(*Function)
	if !ok {
		if n, isNum := e.(*Number); isNum && n.val < 0 && ctx >= OpExponent.Precedence() {
			return `\left(` + n.LaTeX() + `\right)`
		}
		if e == nil {
			return ""
		}
		return e.LaTeX()
	}
	group := func(s string, prec int) string {
		if prec < ctx {
			return `\left(` + s + `\right)`
		}
		return s
	}

	// Infix forms render each operand once, in its own context.
	if len(f.operands) == 2 {
		l, r := f.operands[0], f.operands[1]
		switch f.op {
		case OpAdd, OpSubtract:
			p := f.op.Precedence()
			return group(latex(l, p)+" "+f.op.String()+" "+latex(r, p+1), p)
		case OpMultiply:
			p := f.op.Precedence()
			return group(latex(l, p)+` \cdot `+latex(r, p+1), p)
		case OpModulo:
			p := f.op.Precedence()
			return group(latex(l, p)+` \bmod `+latex(r, p+1), p)
		case OpExponent, OpPow:
			// Any compound base is grouped; the exponent sits in braces.
			return group("{"+latex(l, OpExponent.Precedence()+1)+"}^{"+latex(r, 0)+"}", OpExponent.Precedence())
		}
	}

	args := make([]string, len(f.operands))
	for i, x := range f.operands {
		args[i] = latex(x, 0)
	}
	if len(args) == 2 {
		switch f.op {
		case OpDivide:
			return `\frac{` + args[0] + `}{` + args[1] + `}`
		case OpLog:
			return `\log_{` + args[1] + `}\left(` + args[0] + `\right)`
		case OpRoot:
			return `\sqrt[` + args[1] + `]{` + args[0] + `}`
		}
	}
	if len(args) == 1 {
		switch f.op {
		case OpSqrt:
			return `\sqrt{` + args[0] + `}`
		case OpExp:
			return `e^{` + args[0] + `}`
		case OpAbs:
			return `\left|` + args[0] + `\right|`
		case OpFloor:
			return `\lfloor ` + args[0] + ` \rfloor`
		case OpCeil:
			return `\lceil ` + args[0] + ` \rceil`
		}
	}
	name, ok := latexCommands[f.op]
	if !ok {
		name = `\operatorname{` + f.op.String() + `}`
	}
	return name + `\left(` + strings.Join(args, ", ") + `\right)`
}
