package calculi_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phiocto/calculi"
)

// ============================================================
// Tool interface tests
// ============================================================

func call(tool string, params map[string]interface{}) calculi.ToolResponse {
	return calculi.HandleToolCall(calculi.ToolRequest{Tool: tool, Params: params})
}

func TestTool_Parse(t *testing.T) {
	resp := call("parse", map[string]interface{}{"text": "(16 + x) / 4"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "(16 + x) / 4", resp.String)
	assert.Equal(t, `\frac{16 + x}{4}`, resp.LaTeX)

	tree, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "func", tree["type"])
	assert.Equal(t, "/", tree["op"])
}

func TestTool_ParseFoldsConstants(t *testing.T) {
	resp := call("parse", map[string]interface{}{"text": "x * (2 + 3)"})
	assert.Equal(t, "x * 5", resp.String)
}

func TestTool_Evaluate(t *testing.T) {
	resp := call("evaluate", map[string]interface{}{
		"text":     "x - 2 * a + 4 ^ b",
		"bindings": map[string]interface{}{"x": 10.0, "a": 4.5, "b": 1.0},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "5", resp.String)
	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 5.0, result["value"])

	partial := call("evaluate", map[string]interface{}{
		"text":     "x - 2 * a",
		"bindings": map[string]interface{}{"a": 4.5},
	})
	require.Empty(t, partial.Error)
	assert.Equal(t, "x - 9", partial.String)
}

func TestTool_EvaluateNonFinite(t *testing.T) {
	resp := call("evaluate", map[string]interface{}{"text": "0 / 0"})
	require.Empty(t, resp.Error)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "NaN", result["value"])

	_, err := json.Marshal(resp)
	assert.NoError(t, err, "non-finite results must stay encodable")
}

func TestTool_Derive(t *testing.T) {
	resp := call("derive", map[string]interface{}{"text": "x ^ 3"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "3 * x ^ 2", resp.String)

	resp = call("derive_n", map[string]interface{}{"text": "x ^ 3", "n": 2.0})
	require.Empty(t, resp.Error)
	assert.Equal(t, "3 * (2 * x)", resp.String)

	for _, n := range []interface{}{-1.0, 1.5, "2", 1e9} {
		resp = call("derive_n", map[string]interface{}{"text": "x ^ 3", "n": n})
		assert.NotEmpty(t, resp.Error, "n=%v should be rejected", n)
	}

	resp = call("derive", map[string]interface{}{"text": "abs(x)"})
	assert.Contains(t, resp.Error, "undefined")
}

func TestTool_DeriveOrderBound(t *testing.T) {
	resp := call("derive_n", map[string]interface{}{"text": "x ^ 8", "n": float64(calculi.MaxDeriveOrder)})
	require.Empty(t, resp.Error)
	v, ok := calculi.ToFloat(calculi.Evaluate(calculi.Parse(resp.String), calculi.Bindings{"x": 1}))
	require.True(t, ok, "derivative %s did not fold", resp.String)
	assert.Equal(t, float32(20160), v)

	resp = call("derive_n", map[string]interface{}{"text": "x ^ x", "n": float64(calculi.MaxDeriveOrder + 1)})
	assert.Contains(t, resp.Error, "at most")
	assert.Nil(t, resp.Result)
}

func TestTool_SolveFor(t *testing.T) {
	resp := call("solve_for", map[string]interface{}{
		"text":     "x - 2 * a + 4 ^ b",
		"outcome":  10.0,
		"bindings": map[string]interface{}{"a": 4.5, "b": 1.0},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "x = 15", resp.String)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, true, result["solved"])
	assert.Equal(t, 15.0, result["outcome"])

	stuck := call("solve_for", map[string]interface{}{"text": "x * y", "outcome": 4.0})
	require.Empty(t, stuck.Error)
	assert.Equal(t, false, stuck.Result.(map[string]interface{})["solved"])

	missing := call("solve_for", map[string]interface{}{"text": "x"})
	assert.Contains(t, missing.Error, "outcome")
}

func TestTool_Substitute(t *testing.T) {
	resp := call("substitute", map[string]interface{}{"text": "x ^ 2", "var": "x", "value": "y + 1"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "(y + 1) ^ 2", resp.String)

	resp = call("substitute", map[string]interface{}{"text": "x ^ 2", "var": "x", "value": "3"})
	assert.Equal(t, "9", resp.String)

	resp = call("substitute", map[string]interface{}{"text": "x ^ 2", "var": "x", "value": ""})
	assert.NotEmpty(t, resp.Error)
}

func TestTool_FreeVariables(t *testing.T) {
	resp := call("free_variables", map[string]interface{}{"text": "a * sqrt(x + 1)"})
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{"a", "x"}, resp.Result)
}

func TestTool_ExprParam(t *testing.T) {
	j, err := calculi.ToJSON(calculi.Parse("sqrt(x) + abs(y)"))
	require.NoError(t, err)
	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(j), &tree))

	resp := call("to_latex", map[string]interface{}{"expr": tree})
	require.Empty(t, resp.Error)
	assert.Equal(t, `\sqrt{x} + \left|y\right|`, resp.LaTeX)

	resp = call("simplify", map[string]interface{}{"expr": "x + 0"})
	assert.NotEmpty(t, resp.Error)
}

func TestTool_Errors(t *testing.T) {
	assert.Equal(t, "unknown tool: nope", call("nope", nil).Error)
	assert.NotEmpty(t, call("parse", map[string]interface{}{}).Error)
	assert.NotEmpty(t, call("parse", map[string]interface{}{"text": 3.0}).Error)
	assert.NotEmpty(t, call("parse", map[string]interface{}{"text": ""}).Error)
	assert.Contains(t, call("parse", map[string]interface{}{"text": "2(x+1)"}).Error, "unexpected input")
	assert.NotEmpty(t, call("evaluate", map[string]interface{}{"text": "x", "bindings": []interface{}{}}).Error)
	assert.NotEmpty(t, call("evaluate", map[string]interface{}{"text": "x", "bindings": map[string]interface{}{"x": "1"}}).Error)
}

func TestToolSpec(t *testing.T) {
	spec := calculi.ToolSpec()
	var m struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(spec), &m), "tool spec should be valid JSON")

	var names []string
	for _, tool := range m.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"parse", "evaluate", "simplify", "derive", "derive_n",
		"solve_for", "substitute", "to_latex", "free_variables", "tool_spec",
	}, names)

	assert.Equal(t, spec, call("tool_spec", nil).String)
}
