package calculi

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall runs one tool against its params. Expressions are read from
// "text" (source) or "expr" (a ToJSON object); failures land in Error.
func HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func() (Expr, error) {
		if v, ok := req.Params["expr"]; ok {
			m, ok := v.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("param expr must be an expression object")
			}
			return FromJSON(m)
		}
		v, ok := req.Params["text"]
		if !ok {
			return nil, fmt.Errorf("missing param: text or expr")
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("param text must be a string")
		}
		e, err := ParseChecked(s)
		if err != nil {
			return nil, err
		}
		return Evaluate(e, nil), nil
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getBindings := func() (Bindings, error) {
		v, ok := req.Params["bindings"]
		if !ok {
			return nil, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param bindings must be an object")
		}
		b := make(Bindings, len(raw))
		for name, val := range raw {
			f, ok := val.(float64)
			if !ok {
				return nil, fmt.Errorf("binding %s must be a number", name)
			}
			b[name] = float32(f)
		}
		return b, nil
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }
	exprResp := func(e Expr) ToolResponse {
		return ToolResponse{Result: e.toJSON(), String: e.String(), LaTeX: e.LaTeX()}
	}

	switch req.Tool {
	case "parse", "simplify", "to_latex":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		if req.Tool == "simplify" {
			e = Simplify(e)
		}
		return exprResp(e)

	case "evaluate":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		b, err := getBindings()
		if err != nil {
			return fail(err)
		}
		out := Evaluate(e, b)
		resp := exprResp(out)
		if v, ok := ToFloat(out); ok {
			resp.Result = map[string]interface{}{"expr": out.toJSON(), "value": jsonNumber(v)}
		}
		return resp

	case "derive", "derive_n":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		n := 1
		if req.Tool == "derive_n" {
			f, err := getNumber("n")
			if err != nil {
				return fail(err)
			}
			if f < 0 || f != math.Trunc(f) {
				return fail(fmt.Errorf("param n must be a non-negative integer"))
			}
			if f > MaxDeriveOrder {
				return fail(fmt.Errorf("param n must be at most %d, got %v", MaxDeriveOrder, f))
			}
			n = int(f)
		}
		d := Simplify(Evaluate(DeriveN(e, n), nil))
		if IsEnd(d) {
			return fail(fmt.Errorf("derivative is undefined for %s", e))
		}
		return exprResp(d)

	case "solve_for":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		outcome, err := getNumber("outcome")
		if err != nil {
			return fail(err)
		}
		b, err := getBindings()
		if err != nil {
			return fail(err)
		}
		residual, value := SolveFor(e, float32(outcome), b)
		return ToolResponse{
			Result: map[string]interface{}{
				"residual": residual.toJSON(),
				"outcome":  jsonNumber(value),
				"solved":   Solved(residual),
			},
			String: residual.String() + " = " + formatNumber(value),
			LaTeX:  residual.LaTeX() + " = " + formatNumber(value),
		}

	case "substitute":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		name, err := getString("var")
		if err != nil {
			return fail(err)
		}
		valueText, err := getString("value")
		if err != nil {
			return fail(err)
		}
		value, err := ParseChecked(valueText)
		if err != nil {
			return fail(fmt.Errorf("value: %w", err))
		}
		return exprResp(Evaluate(Substitute(e, name, value), nil))

	case "free_variables":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: FreeVariables(e)}

	case "tool_spec":
		return ToolResponse{String: ToolSpec()}
	}
	return fail(fmt.Errorf("unknown tool: %s", req.Tool))
}

// jsonNumber keeps non-finite values encodable.
func jsonNumber(v float32) interface{} {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatNumber(v)
	}
	return f
}

// ToolSpec returns the JSON schema of every tool HandleToolCall accepts.
func ToolSpec() string {
	exprProps := map[string]string{"text": "string", "expr": "object"}
	with := func(extra map[string]string) map[string]string {
		m := map[string]string{}
		for k, v := range exprProps {
			m[k] = v
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}
	tools := []map[string]interface{}{
		ts("parse", "Parse text into an expression tree (constants folded)", []string{}, exprProps),
		ts("evaluate", "Substitute numeric bindings and fold constants", []string{}, with(map[string]string{"bindings": "object"})),
		ts("simplify", "Apply algebraic identities (x*1, x+0, x^1, ...)", []string{}, exprProps),
		ts("derive", "Simplified first derivative", []string{}, exprProps),
		ts("derive_n", fmt.Sprintf("Simplified n-th derivative. Requires n (int, 0 to %d)", MaxDeriveOrder), []string{"n"}, with(map[string]string{"n": "integer"})),
		ts("solve_for", "Isolate the single unknown so the expression equals outcome", []string{"outcome"}, with(map[string]string{"outcome": "number", "bindings": "object"})),
		ts("substitute", "Replace var with the expression given as value text", []string{"var", "value"}, with(map[string]string{"var": "string", "value": "string"})),
		ts("to_latex", "Render as LaTeX", []string{}, exprProps),
		ts("free_variables", "Return free variable names", []string{}, exprProps),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
