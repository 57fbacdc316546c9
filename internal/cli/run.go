package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

func newRunCommand(app *App) *cobra.Command {
	var (
		params []string
		start  string
	)

	cmd := &cobra.Command{
		Use:   "run <workflow>",
		Short: "Run a workflow to completion",
		Long: `Run a workflow autonomously from its entry point (or --start) until it
reaches the terminal marker. Each step's outcome is printed as it resolves;
the final step state is printed as YAML when the run completes.

Example:
  skillrun run demo --param max_iterations=3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.Registry.Get(args[0])
			if err != nil {
				return err
			}

			runParams, err := parseKeyValues(params)
			if err != nil {
				return err
			}

			app.Runner.SetStepCallback(func(stepID string, outcome skill.Outcome) {
				cmd.Printf("%s: %s\n", stepID, outcome)
			})
			defer app.Runner.SetStepCallback(nil)

			startStep := start
			if startStep == "" {
				startStep = w.Entry
			}
			result, err := app.Runner.RunFrom(cmd.Context(), w, runParams, startStep)
			if err != nil {
				cmd.PrintErrf("run failed: %v\n", err)
				return NewExitError(1)
			}

			cmd.Printf("run %s complete (%d steps)\n", result.RunID, len(result.Trace))
			if len(result.FinalState) > 0 {
				out, err := yaml.Marshal(result.FinalState)
				if err != nil {
					return fmt.Errorf("failed to render final state: %w", err)
				}
				cmd.Print(string(out))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "run parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&start, "start", "", "step id to start from instead of the entry point")

	return cmd
}
