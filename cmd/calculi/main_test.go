package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with a config path that does not exist, so every run
// starts from defaults.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "calculi.yaml")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEval(t *testing.T) {
	out, err := run(t, "eval", "x - 2 * a + 4 ^ b", "--bind", "x=10,a=4.5,b=1")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	out, err = run(t, "eval", "x - 2 * a", "-b", "a=4.5")
	require.NoError(t, err)
	assert.Equal(t, "x - 9\n", out)
}

func TestEval_JoinsArguments(t *testing.T) {
	out, err := run(t, "eval", "2", "*", "(3", "+", "4)")
	require.NoError(t, err)
	assert.Equal(t, "14\n", out)
}

func TestEval_JSON(t *testing.T) {
	out, err := run(t, "--json", "eval", "x + 1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"func","op":"+","operands":[{"type":"var","name":"x"},{"type":"num","value":"1"}]}`, out)
}

func TestEval_Errors(t *testing.T) {
	_, err := run(t, "eval", "")
	assert.ErrorContains(t, err, "parse")

	_, err = run(t, "eval", "x", "--bind", "x=abc")
	assert.ErrorContains(t, err, "binding x")

	_, err = run(t, "eval")
	assert.Error(t, err)

	_, err = run(t, "eval", "2(x+1)")
	assert.ErrorContains(t, err, "unexpected input")
}

func TestDerive(t *testing.T) {
	out, err := run(t, "derive", "x ^ 3")
	require.NoError(t, err)
	assert.Equal(t, "3 * x ^ 2\n", out)

	out, err = run(t, "derive", "x ^ 3", "--order", "2")
	require.NoError(t, err)
	assert.Equal(t, "3 * (2 * x)\n", out)

	_, err = run(t, "derive", "abs(x)")
	assert.ErrorContains(t, err, "undefined")

	_, err = run(t, "derive", "x", "-n", "-1")
	assert.ErrorContains(t, err, "must not be negative")

	_, err = run(t, "derive", "x ^ x", "--order", "99")
	assert.ErrorContains(t, err, "must be at most")
}

func TestSimplify(t *testing.T) {
	out, err := run(t, "simplify", "x * 1 + 0")
	require.NoError(t, err)
	assert.Equal(t, "x\n", out)
}

func TestSolve(t *testing.T) {
	out, err := run(t, "solve", "(16 + x) / 4", "--outcome", "8")
	require.NoError(t, err)
	assert.Equal(t, "x = 16\n", out)

	out, err = run(t, "solve", "x - 2 * a + 4 ^ b", "-o", "10", "-b", "a=4.5,b=1")
	require.NoError(t, err)
	assert.Equal(t, "x = 15\n", out)

	// An unsolvable residual is still printed.
	out, err = run(t, "solve", "x % 3", "-o", "1")
	require.NoError(t, err)
	assert.Equal(t, "x % 3 = 1\n", out)
}

func TestLatex(t *testing.T) {
	out, err := run(t, "latex", "(16 + x) / 4")
	require.NoError(t, err)
	assert.Equal(t, "\\frac{16 + x}{4}\n", out)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calculi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0644))

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"eval", "1", "--config", path})
	assert.ErrorContains(t, root.Execute(), "logging.format")
}
