package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// scriptedWorkflow builds a two-step workflow whose first step returns the
// outcomes from script in order, one per visit.
func scriptedWorkflow(script []skill.Outcome, next map[skill.Outcome]string) *skill.Workflow {
	calls := 0
	return &skill.Workflow{
		Name:  "scripted",
		Entry: "first",
		Steps: map[string]*skill.Step{
			"first": {
				ID: "first",
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					out := script[calls]
					calls++
					return skill.Result{Outcome: out}, nil
				}),
				Next: next,
			},
			"second": {
				ID: "second",
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					return skill.Result{Outcome: skill.OutcomeOK}, nil
				}),
				Next: map[skill.Outcome]string{
					skill.OutcomeOK: skill.Terminal,
				},
			},
		},
	}
}

func TestRun_LinearCompletion(t *testing.T) {
	w := scriptedWorkflow(
		[]skill.Outcome{skill.OutcomeOK},
		map[skill.Outcome]string{skill.OutcomeOK: "second"},
	)

	result, err := NewRunner().Run(context.Background(), w, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, "first", result.Trace[0].StepID)
	assert.Equal(t, "second", result.Trace[1].StepID)
}

func TestRun_DefaultFallback(t *testing.T) {
	// FAIL has no literal entry; the DEFAULT edge must route it.
	w := scriptedWorkflow(
		[]skill.Outcome{skill.OutcomeFail},
		map[skill.Outcome]string{
			skill.OutcomeOK:      skill.Terminal,
			skill.OutcomeDefault: "second",
		},
	)

	result, err := NewRunner().Run(context.Background(), w, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Visits("second"))
}

func TestRun_UnmappedOutcomeFailsRun(t *testing.T) {
	w := scriptedWorkflow(
		[]skill.Outcome{skill.OutcomeFail},
		map[skill.Outcome]string{skill.OutcomeOK: "second"},
	)

	_, err := NewRunner().Run(context.Background(), w, nil)
	require.Error(t, err)

	var unmapped *UnmappedOutcomeError
	require.ErrorAs(t, err, &unmapped)
	assert.Equal(t, "first", unmapped.StepID)
	assert.Equal(t, skill.OutcomeFail, unmapped.Outcome)
	assert.Contains(t, unmapped.Error(), `"first"`)
	assert.Contains(t, unmapped.Error(), string(skill.OutcomeFail))
}

func TestRun_DeltaMergeLastWriteWins(t *testing.T) {
	w := &skill.Workflow{
		Name:  "merging",
		Entry: "a",
		Steps: map[string]*skill.Step{
			"a": {
				ID: "a",
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					return skill.Result{
						Outcome: skill.OutcomeOK,
						Delta:   map[string]any{"shared": "from-a", "only_a": 1},
					}, nil
				}),
				Next: map[skill.Outcome]string{skill.OutcomeOK: "b"},
			},
			"b": {
				ID: "b",
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					// The previous delta must already be visible here.
					assert.Equal(t, "from-a", ctx.State["shared"])
					return skill.Result{
						Outcome: skill.OutcomeOK,
						Delta:   map[string]any{"shared": "from-b"},
					}, nil
				}),
				Next: map[skill.Outcome]string{skill.OutcomeOK: skill.Terminal},
			},
		},
	}

	result, err := NewRunner().Run(context.Background(), w, nil)
	require.NoError(t, err)

	assert.Equal(t, "from-b", result.FinalState["shared"])
	assert.Equal(t, 1, result.FinalState["only_a"])
}

func TestRun_NilDeltaLeavesStateUntouched(t *testing.T) {
	w := scriptedWorkflow(
		[]skill.Outcome{skill.OutcomeOK},
		map[skill.Outcome]string{skill.OutcomeOK: skill.Terminal},
	)

	result, err := NewRunner().Run(context.Background(), w, nil)
	require.NoError(t, err)
	assert.Empty(t, result.FinalState)
}

func TestRun_HandlerErrorAbortsWithStepContext(t *testing.T) {
	w := &skill.Workflow{
		Name:  "failing",
		Entry: "boom",
		Steps: map[string]*skill.Step{
			"boom": {
				ID: "boom",
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					return skill.Result{}, errors.New("handler exploded")
				}),
				Next: map[skill.Outcome]string{skill.OutcomeOK: skill.Terminal},
			},
		},
	}

	_, err := NewRunner().Run(context.Background(), w, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"boom"`)
	assert.Contains(t, err.Error(), "handler exploded")
}

func TestRun_ContextCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	w := &skill.Workflow{
		Name:  "cancelled",
		Entry: "loop",
		Steps: map[string]*skill.Step{
			"loop": {
				ID: "loop",
				Handler: skill.Func(func(sc *skill.Context) (skill.Result, error) {
					cancel()
					return skill.Result{Outcome: skill.OutcomeIterate}, nil
				}),
				Next: map[skill.Outcome]string{
					skill.OutcomeIterate: "loop",
					skill.OutcomeOK:      skill.Terminal,
				},
			},
		},
	}

	_, err := NewRunner().Run(ctx, w, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ParamsReachHandlers(t *testing.T) {
	var seen string
	w := &skill.Workflow{
		Name:  "params",
		Entry: "read",
		Steps: map[string]*skill.Step{
			"read": {
				ID: "read",
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					seen = ctx.Param("mode", "absent")
					return skill.Result{Outcome: skill.OutcomeOK}, nil
				}),
				Next: map[skill.Outcome]string{skill.OutcomeOK: skill.Terminal},
			},
		},
	}

	_, err := NewRunner().Run(context.Background(), w, map[string]string{"mode": "fast"})
	require.NoError(t, err)
	assert.Equal(t, "fast", seen)
}

func TestRunFrom_StartsAtGivenStep(t *testing.T) {
	w := scriptedWorkflow(
		[]skill.Outcome{skill.OutcomeOK},
		map[skill.Outcome]string{skill.OutcomeOK: "second"},
	)

	result, err := NewRunner().RunFrom(context.Background(), w, nil, "second")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Visits("first"))
	assert.Equal(t, 1, result.Visits("second"))
}

func TestRun_StepCallbackObservesEveryStep(t *testing.T) {
	w := scriptedWorkflow(
		[]skill.Outcome{skill.OutcomeOK},
		map[skill.Outcome]string{skill.OutcomeOK: "second"},
	)

	var order []string
	r := NewRunner()
	r.SetStepCallback(func(stepID string, outcome skill.Outcome) {
		order = append(order, fmt.Sprintf("%s:%s", stepID, outcome))
	})

	_, err := r.Run(context.Background(), w, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"first:OK", "second:OK"}, order)
}

func TestReplay_ReproducesFinalState(t *testing.T) {
	w := &skill.Workflow{
		Name:  "replayable",
		Entry: "count",
		Steps: map[string]*skill.Step{
			"count": {
				ID: "count",
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					n := ctx.StateInt("n") + 1
					out := skill.OutcomeIterate
					if n >= 3 {
						out = skill.OutcomeOK
					}
					return skill.Result{Outcome: out, Delta: map[string]any{"n": n}}, nil
				}),
				Next: map[skill.Outcome]string{
					skill.OutcomeIterate: "count",
					skill.OutcomeOK:      skill.Terminal,
				},
			},
		},
	}

	r := NewRunner()
	result, err := r.Run(context.Background(), w, nil)
	require.NoError(t, err)
	require.Equal(t, 3, result.Visits("count"))

	replayed, err := r.Replay(w, result.Trace)
	require.NoError(t, err)
	assert.Equal(t, result.FinalState, replayed)
}

func TestReplay_RejectsIllegalTransition(t *testing.T) {
	w := scriptedWorkflow(
		[]skill.Outcome{skill.OutcomeOK},
		map[skill.Outcome]string{skill.OutcomeOK: skill.Terminal},
	)

	tests := []struct {
		name  string
		trace []TraceEntry
	}{
		{
			name:  "unknown step",
			trace: []TraceEntry{{StepID: "ghost", Outcome: skill.OutcomeOK}},
		},
		{
			name:  "unmapped outcome",
			trace: []TraceEntry{{StepID: "first", Outcome: skill.OutcomeFail}},
		},
	}

	r := NewRunner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Replay(w, tt.trace)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "trace entry 0")
		})
	}
}

func TestRun_UnknownStartStep(t *testing.T) {
	w := scriptedWorkflow(
		[]skill.Outcome{skill.OutcomeOK},
		map[skill.Outcome]string{skill.OutcomeOK: skill.Terminal},
	)

	_, err := NewRunner().RunFrom(context.Background(), w, nil, "missing")
	require.Error(t, err)
}
