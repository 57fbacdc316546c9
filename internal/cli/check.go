package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/harness"
)

func newCheckCommand(app *App) *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check registered workflows",
		Long: `Check every registered workflow at escalating levels:

  0  construction: workflows register without error
  1  structure: graph invariants hold (entry, transitions, terminal, reachability)
  2  invocation: handlers survive boundary inputs derived from declared args

Dispatch-bound steps are exercised against a stub, never a live collaborator.
Exits non-zero when any check finds a problem.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if level < int(harness.LevelConstruction) || level > int(harness.LevelInvocation) {
				return fmt.Errorf("invalid level %d: must be 0, 1, or 2", level)
			}

			report := harness.New().Check(app.Registry.All(), harness.Level(level))
			cmd.Print(report.String())

			if !report.OK() {
				return NewExitError(1)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&level, "level", int(harness.LevelInvocation), "maximum check level (0-2)")

	return cmd
}
