package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Phiocto/calculi"
	"github.com/Phiocto/calculi/internal/server"
)

func parseBindings(raw map[string]string) (calculi.Bindings, error) {
	b := make(calculi.Bindings, len(raw))
	for name, text := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return nil, fmt.Errorf("binding %s=%q: %w", name, text, err)
		}
		b[name] = float32(v)
	}
	return b, nil
}

func parseArg(args []string) (calculi.Expr, error) {
	text := strings.Join(args, " ")
	e, err := calculi.ParseChecked(text)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", text, err)
	}
	return calculi.Evaluate(e, nil), nil
}

func (a *app) printExpr(cmd *cobra.Command, e calculi.Expr) error {
	if a.asJSON {
		s, err := calculi.ToJSON(e)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), e.String())
	return nil
}

func newEvalCmd(a *app) *cobra.Command {
	var binds map[string]string
	cmd := &cobra.Command{
		Use:   "eval [expression]",
		Short: "Substitute bindings and fold constants",
		Example: `  calculi eval "x - 2 * a + 4 ^ b" --bind x=10,a=4.5,b=1
  calculi eval "max(x, 3, y)" --bind y=7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArg(args)
			if err != nil {
				return err
			}
			b, err := parseBindings(binds)
			if err != nil {
				return err
			}
			out := calculi.Evaluate(e, b)
			if _, ok := calculi.ToFloat(out); !ok {
				a.logger.Debug("result still symbolic", zap.Strings("free", calculi.FreeVariables(out)))
			}
			return a.printExpr(cmd, out)
		},
	}
	cmd.Flags().StringToStringVarP(&binds, "bind", "b", nil, "Variable bindings as name=value pairs")
	return cmd
}

func newDeriveCmd(a *app) *cobra.Command {
	var order int
	cmd := &cobra.Command{
		Use:   "derive [expression]",
		Short: "Print the simplified derivative",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if order < 0 {
				return fmt.Errorf("--order must not be negative, got %d", order)
			}
			if order > calculi.MaxDeriveOrder {
				return fmt.Errorf("--order must be at most %d, got %d", calculi.MaxDeriveOrder, order)
			}
			e, err := parseArg(args)
			if err != nil {
				return err
			}
			d := calculi.Simplify(calculi.Evaluate(calculi.DeriveN(e, order), nil))
			if calculi.IsEnd(d) {
				return fmt.Errorf("derivative of %s is undefined", e)
			}
			a.logger.Debug("derived", zap.String("expr", e.String()), zap.Int("order", order))
			return a.printExpr(cmd, d)
		},
	}
	cmd.Flags().IntVarP(&order, "order", "n", 1, "Derivative order")
	return cmd
}

func newSimplifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "simplify [expression]",
		Short: "Apply the algebraic identities and fold constants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArg(args)
			if err != nil {
				return err
			}
			return a.printExpr(cmd, calculi.Simplify(e))
		},
	}
}

func newSolveCmd(a *app) *cobra.Command {
	var (
		outcome float32
		binds   map[string]string
	)
	cmd := &cobra.Command{
		Use:     "solve [expression]",
		Short:   "Solve for the single unbound variable",
		Example: `  calculi solve "x - 2 * a + 4 ^ b" --outcome 10 --bind a=4.5,b=1`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArg(args)
			if err != nil {
				return err
			}
			b, err := parseBindings(binds)
			if err != nil {
				return err
			}
			residual, value := calculi.SolveFor(e, outcome, b)
			if !calculi.Solved(residual) {
				a.logger.Warn("could not isolate the unknown",
					zap.String("residual", residual.String()),
					zap.Float32("outcome", value))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", residual, strconv.FormatFloat(float64(value), 'f', -1, 32))
			return nil
		},
	}
	cmd.Flags().Float32VarP(&outcome, "outcome", "o", 0, "Value the expression must equal")
	cmd.Flags().StringToStringVarP(&binds, "bind", "b", nil, "Variable bindings as name=value pairs")
	return cmd
}

func newLatexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latex [expression]",
		Short: "Render the expression as LaTeX",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArg(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.LaTeX())
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculi tools over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			return server.New(cfg, a.logger).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
