package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/runtime"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/state"
)

func newStepCommand(app *App) *cobra.Command {
	var (
		statePath string
		outcome   string
		set       []string
	)

	cmd := &cobra.Command{
		Use:   "step <workflow> [step-id]",
		Short: "Drive a workflow one turn at a time",
		Long: `Render the instructions for the current step of a workflow driven by an
external process. Progress is kept in a snapshot file between invocations.

Without --outcome, the command prints the instructions for the step the
snapshot points at (or the entry point when no snapshot exists). With
--outcome, it first advances past that step using the reported outcome,
merging any --set values into step state, then prints the next step.

Example:
  skillrun step spending-review
  skillrun step spending-review --outcome OK --set collected=ledger`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.Registry.Get(args[0])
			if err != nil {
				return err
			}

			path := statePath
			if path == "" {
				path = app.Config.State.Path
			}

			snap, err := state.Load(path)
			if err != nil {
				return err
			}

			stepID := ""
			var st map[string]any
			if snap != nil {
				if snap.Workflow != w.Name {
					return fmt.Errorf("snapshot %s belongs to workflow %q, not %q; remove it or use --state", path, snap.Workflow, w.Name)
				}
				stepID = snap.Step
				st = snap.State
			}
			if len(args) == 2 {
				stepID = args[1]
			}

			if outcome != "" {
				if stepID == "" {
					return fmt.Errorf("no turn in progress for workflow %q; run without --outcome first", w.Name)
				}
				out := skill.Outcome(strings.ToUpper(outcome))
				if !out.IsValid() {
					return fmt.Errorf("unknown outcome: %q", outcome)
				}

				delta, err := parseKeyValues(set)
				if err != nil {
					return err
				}
				if len(delta) > 0 && st == nil {
					st = map[string]any{}
				}
				for k, v := range delta {
					st[k] = v
				}

				stepID, err = runtime.Advance(w, stepID, out)
				if err != nil {
					return err
				}
			}

			turn, err := app.Runner.Turn(w, stepID, st, app.Formatter)
			if err != nil {
				return err
			}

			if err := state.Save(path, &state.Snapshot{
				Workflow: w.Name,
				Step:     turn.StepID,
				State:    st,
			}); err != nil {
				return err
			}

			if turn.Done {
				cmd.Printf("workflow %s complete\n", w.Name)
				return nil
			}
			cmd.Print(turn.Instructions)
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "snapshot file path (defaults to the configured state path)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "outcome of the step the snapshot points at (OK, FAIL, SKIP, ITERATE)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "state value to merge as key=value (repeatable, with --outcome)")

	return cmd
}
