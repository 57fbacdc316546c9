// Package catalog declares the built-in workflows and installs them into
// the process-wide registry.
//
// Registration happens exactly once, during startup, behind a sync.Once
// barrier: all workflow values are constructed and registered before any run
// begins, and the registry is read-only afterwards. Defining a workflow here
// has no side effect by itself — construction and registration are separate,
// explicit steps.
package catalog

import (
	"errors"
	"sync"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs every built-in workflow into the process-wide registry.
// Dispatch steps are bound to the given dispatcher. Safe to call more than
// once; only the first call registers, and its result is sticky.
func Register(via skill.Dispatcher) error {
	registerOnce.Do(func() {
		registerErr = errors.Join(
			skill.Register(Demo()),
			skill.Register(SpendingReview(via)),
		)
	})
	return registerErr
}

// RegisterInto installs the built-in workflows into an explicit registry.
// Unlike [Register] it has no once-guard; callers own the registry's
// lifecycle.
func RegisterInto(r *skill.Registry, via skill.Dispatcher) error {
	return errors.Join(
		r.Register(Demo()),
		r.Register(SpendingReview(via)),
	)
}

// Demo is a three-step workflow exercising the ITERATE self-loop pattern:
// start → middle (repeats itself up to max_iterations times) → end. The
// iteration cap lives in step state, not in the engine.
func Demo() *skill.Workflow {
	return &skill.Workflow{
		Name:        "demo",
		Description: "Three-step demonstration workflow with a bounded ITERATE loop",
		Entry:       "start",
		Steps: map[string]*skill.Step{
			"start": {
				ID:    "start",
				Title: "Prepare the run",
				Phase: "setup",
				Actions: []string{
					"Record that the run has started.",
				},
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					return skill.Result{
						Outcome: skill.OutcomeOK,
						Delta:   map[string]any{"started": true},
					}, nil
				}),
				Next: map[skill.Outcome]string{
					skill.OutcomeOK: "middle",
				},
			},
			"middle": {
				ID:    "middle",
				Title: "Refine until the iteration budget is spent",
				Phase: "work",
				Actions: []string{
					"Perform one refinement pass.",
					"Repeat while the iteration counter is below the declared maximum.",
				},
				Handler: skill.Func(middleHandler),
				Next: map[skill.Outcome]string{
					skill.OutcomeOK:      "end",
					skill.OutcomeIterate: "middle",
				},
				Args: map[string]skill.ArgSpec{
					"max_iterations": {
						Default: 2,
						Min:     skill.Float64(0),
						Max:     skill.Float64(10),
					},
				},
			},
			"end": {
				ID:    "end",
				Title: "Wrap up",
				Phase: "teardown",
				Actions: []string{
					"Summarize the run and stop.",
				},
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					return skill.Result{
						Outcome: skill.OutcomeOK,
						Delta:   map[string]any{"finished": true},
					}, nil
				}),
				Next: map[skill.Outcome]string{
					skill.OutcomeOK: skill.Terminal,
				},
			},
		},
	}
}

// middleHandler iterates until the counter in step state reaches the
// caller-declared maximum. The engine imposes no ceiling of its own.
func middleHandler(ctx *skill.Context) (skill.Result, error) {
	max := intInput(ctx, "max_iterations", 2)
	n := ctx.StateInt("iterations")
	if n < max {
		return skill.Result{
			Outcome: skill.OutcomeIterate,
			Delta:   map[string]any{"iterations": n + 1},
		}, nil
	}
	return skill.Result{Outcome: skill.OutcomeOK}, nil
}
