package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/config"
)

// NewRootCommand builds the root command with all subcommands attached.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "skillrun",
		Short: "Run step-based skills",
		Long: `skillrun executes multi-phase skills as explicit step workflows.

A workflow is a directed graph of steps; each step's outcome selects the
next step until the run reaches the terminal marker. Workflows run either
autonomously (run) or one turn at a time under an external driver (step).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCommand(app),
		newStepCommand(app),
		newListCommand(app),
		newShowCommand(app),
		newManifestCommand(app),
		newCheckCommand(app),
	)

	return root
}

// Execute loads configuration, wires the App, and runs the CLI. The return
// value is the process exit code.
func Execute() int {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "skillrun: %v\n", err)
		return 1
	}

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skillrun: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(app)
	if err := root.ExecuteContext(ctx); err != nil {
		if code, ok := IsExitError(err); ok {
			return code
		}
		fmt.Fprintf(os.Stderr, "skillrun: %v\n", err)
		return 1
	}
	return 0
}
