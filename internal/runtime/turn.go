package runtime

import (
	"github.com/jorge-barrios/FinanSheet-sub011/internal/render"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/state"
)

// TurnResult is the outcome of one turn of externally-driven execution: the
// formatted instructions for the current step and a snapshot the caller
// resubmits on the next turn.
type TurnResult struct {
	// Workflow names the workflow being driven.
	Workflow string

	// StepID is the step the instructions belong to, or [skill.Terminal]
	// when the run has ended.
	StepID string

	// Done reports whether the run has reached the terminal marker.
	Done bool

	// Instructions is the rendered title/phase/actions for the current step.
	// Empty when Done.
	Instructions string

	// Snapshot is the serialized step state for the caller to persist and
	// resubmit.
	Snapshot []byte
}

// Turn renders the instructions for one step of a workflow driven by an
// external reasoning process. The caller supplies the step id to execute
// (empty means the entry point) and the state accumulated so far; the engine
// does not invoke the step's handler — the external process performs the
// step and advances via [Advance] once it knows the outcome.
func (r *Runner) Turn(w *skill.Workflow, stepID string, st map[string]any, f *render.Formatter) (*TurnResult, error) {
	if stepID == "" {
		stepID = w.Entry
	}

	snapshot, err := state.Encode(&state.Snapshot{
		Workflow: w.Name,
		Step:     stepID,
		State:    st,
	})
	if err != nil {
		return nil, err
	}

	if stepID == skill.Terminal {
		return &TurnResult{
			Workflow: w.Name,
			StepID:   stepID,
			Done:     true,
			Snapshot: snapshot,
		}, nil
	}

	step, err := w.Step(stepID)
	if err != nil {
		return nil, err
	}

	return &TurnResult{
		Workflow:     w.Name,
		StepID:       stepID,
		Instructions: f.FormatStep(step),
		Snapshot:     snapshot,
	}, nil
}

// Advance resolves the step that follows (stepID, outcome), applying the same
// DEFAULT-fallback rule as an autonomous run. Returns [skill.Terminal] when
// the outcome ends the run.
func Advance(w *skill.Workflow, stepID string, outcome skill.Outcome) (string, error) {
	step, err := w.Step(stepID)
	if err != nil {
		return "", err
	}
	return resolve(w, step, outcome)
}
