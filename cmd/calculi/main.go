// Command calculi evaluates, differentiates and solves algebraic expressions
// from the command line, or serves the same tools over HTTP.
//
// Usage:
//
//	calculi eval "x - 2 * a + 4 ^ b" --bind x=10,a=4.5,b=1
//	calculi solve "(16 + x) / 4" --outcome 8
//	calculi derive "x ^ sin(x)"
//	calculi serve --addr :8080
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Phiocto/calculi/internal/config"
	"github.com/Phiocto/calculi/internal/logging"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	asJSON     bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "calculi",
		Short: "Parse, evaluate, differentiate and solve algebraic expressions",
		Long: `calculi reads an infix expression such as "a * sqrt(x + 1)" and can
evaluate it under variable bindings, take its symbolic derivative, simplify it,
or solve it for the one variable left unbound given a target outcome.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger, err := logging.New(cfg.Logging, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "calculi.yaml", "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print expression trees as JSON")

	root.AddCommand(
		newEvalCmd(a),
		newDeriveCmd(a),
		newSimplifyCmd(a),
		newSolveCmd(a),
		newLatexCmd(a),
		newServeCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
