// Package cli implements the arena operator command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/pkg/logger"
)

var (
	appVersion = "dev"
	appCommit  = "none"
)

// globals holds state shared by every subcommand.
type globals struct {
	out      io.Writer
	errOut   io.Writer
	logLevel string
	cfg      *config.Config
}

// NewRootCommand builds the arena command tree writing results to out and
// diagnostics to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	g := &globals{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "arena",
		Short:         "arena ranks language models from pairwise votes",
		Version:       fmt.Sprintf("%s (commit: %s)", appVersion, appCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			g.cfg = cfg
			if err := logger.InitWriter(g.errOut, cfg.LogFormat); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return logger.SetLevelString(g.logLevel)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newRankCommand(g), newSimulateCommand(g))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, out, errOut io.Writer, args []string) int {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(errOut, err)
		return 1
	}
	return 0
}
