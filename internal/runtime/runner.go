// Package runtime executes registered workflows step by step.
//
// The [Runner] walks a workflow's transition graph: it builds a fresh
// [skill.Context] per step, invokes the step's handler, merges the returned
// delta into step state by key replacement, and resolves the next step from
// the outcome. A run ends when a transition resolves to [skill.Terminal].
//
// The runtime is a pure function of the workflow and the ordered sequence of
// (step id, outcome, delta) tuples it observes: there is no hidden mutable
// state, which makes [Runner.Replay] exact.
package runtime

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// UnmappedOutcomeError reports an outcome with no transition entry and no
// DEFAULT fallback. The engine never guesses a next step; this surfaces
// immediately and fails the run.
type UnmappedOutcomeError struct {
	Workflow string
	StepID   string
	Outcome  skill.Outcome
}

func (e *UnmappedOutcomeError) Error() string {
	return fmt.Sprintf("workflow %q: step %q: outcome %q has no transition and no DEFAULT fallback", e.Workflow, e.StepID, e.Outcome)
}

// TraceEntry records one observed step execution.
type TraceEntry struct {
	StepID  string
	Outcome skill.Outcome
	Delta   map[string]any
}

// Result is the output of a completed run.
type Result struct {
	// RunID uniquely identifies the run.
	RunID string

	// FinalState is the step state at termination.
	FinalState map[string]any

	// Trace is the ordered sequence of (step id, outcome, delta) tuples the
	// run observed. Replaying it through [Runner.Replay] reproduces
	// FinalState exactly.
	Trace []TraceEntry
}

// Visits counts how many times each step id appears in the trace.
func (r *Result) Visits(stepID string) int {
	n := 0
	for _, e := range r.Trace {
		if e.StepID == stepID {
			n++
		}
	}
	return n
}

// StepCallback is invoked after each step resolves, with the step id and the
// outcome its handler returned. Used for progress reporting in the CLI.
type StepCallback func(stepID string, outcome skill.Outcome)

// Runner executes workflows. Runs are single-threaded and cooperative: a
// step fully resolves, including any blocking delegation, before the next
// step begins. Independent runs may proceed concurrently; they share only
// the read-only registry, never step state.
type Runner struct {
	stepCallback StepCallback
}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// SetStepCallback configures an optional per-step progress callback.
func (r *Runner) SetStepCallback(cb StepCallback) {
	r.stepCallback = cb
}

// Run executes the workflow from its entry point. Params are fixed for the
// run's duration; step state starts empty.
func (r *Runner) Run(ctx context.Context, w *skill.Workflow, params map[string]string) (*Result, error) {
	return r.RunFrom(ctx, w, params, w.Entry)
}

// RunFrom executes the workflow starting at an explicit step id.
func (r *Runner) RunFrom(ctx context.Context, w *skill.Workflow, params map[string]string, startStep string) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := &Result{
		RunID:      uuid.NewString(),
		FinalState: map[string]any{},
	}

	current := startStep
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("workflow %q: run aborted at step %q: %w", w.Name, current, err)
		}

		step, err := w.Step(current)
		if err != nil {
			return nil, err
		}

		sctx := skill.NewContext(ctx, current, params, result.FinalState)
		res, err := step.Handler.Run(sctx)
		if err != nil {
			return nil, fmt.Errorf("workflow %q: step %q: %w", w.Name, current, err)
		}

		mergeDelta(result.FinalState, res.Delta)
		result.Trace = append(result.Trace, TraceEntry{
			StepID:  current,
			Outcome: res.Outcome,
			Delta:   res.Delta,
		})
		if r.stepCallback != nil {
			r.stepCallback(current, res.Outcome)
		}

		target, err := resolve(w, step, res.Outcome)
		if err != nil {
			return nil, err
		}
		if target == skill.Terminal {
			return result, nil
		}
		current = target
	}
}

// Replay applies a recorded trace against the workflow and returns the final
// step state it produces. Every (step, outcome) pair in the trace must
// resolve legally; replaying a run's own trace always reproduces its final
// state, which makes audits and determinism checks exact.
func (r *Runner) Replay(w *skill.Workflow, trace []TraceEntry) (map[string]any, error) {
	state := map[string]any{}
	for i, entry := range trace {
		step, err := w.Step(entry.StepID)
		if err != nil {
			return nil, fmt.Errorf("trace entry %d: %w", i, err)
		}
		if _, err := resolve(w, step, entry.Outcome); err != nil {
			return nil, fmt.Errorf("trace entry %d: %w", i, err)
		}
		mergeDelta(state, entry.Delta)
	}
	return state, nil
}

// resolve looks the outcome up in the step's transition map, falling back to
// the DEFAULT key when the literal outcome has no entry.
func resolve(w *skill.Workflow, step *skill.Step, outcome skill.Outcome) (string, error) {
	if target, ok := step.Next[outcome]; ok {
		return target, nil
	}
	if target, ok := step.Next[skill.OutcomeDefault]; ok {
		return target, nil
	}
	return "", &UnmappedOutcomeError{Workflow: w.Name, StepID: step.ID, Outcome: outcome}
}

// mergeDelta merges by key: new keys are added, existing keys overwritten.
// Last write wins; values are never deep-merged or accumulated as history.
func mergeDelta(state map[string]any, delta map[string]any) {
	for k, v := range delta {
		state[k] = v
	}
}
