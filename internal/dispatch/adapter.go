package dispatch

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// Status strings of the delegation target contract. Collaborators must
// report exactly one of these (or a status the adapter was explicitly
// configured to map).
const (
	StatusPass  = "PASS"
	StatusFail  = "FAIL"
	StatusSkip  = "SKIP"
	StatusRetry = "RETRY"
)

// UnmappedStatusError reports a collaborator status with no entry in the
// adapter's status table. This is fatal and distinct from an ordinary FAIL:
// a mapped FAIL is ordinary control flow routed per the graph, while an
// unmapped status means the collaborator broke its contract.
type UnmappedStatusError struct {
	Role   string
	Target string
	Status string
}

func (e *UnmappedStatusError) Error() string {
	return fmt.Sprintf("collaborator %s/%s reported unmapped status %q", e.Role, e.Target, e.Status)
}

// DefaultStatusMap is the adapter's fixed status-to-outcome table when no
// override is configured.
func DefaultStatusMap() map[string]skill.Outcome {
	return map[string]skill.Outcome{
		StatusPass:  skill.OutcomeOK,
		StatusFail:  skill.OutcomeFail,
		StatusSkip:  skill.OutcomeSkip,
		StatusRetry: skill.OutcomeIterate,
	}
}

// ParseStatusMap converts a configured status→outcome table from plain
// strings, rejecting values outside the outcome vocabulary.
func ParseStatusMap(raw map[string]string) (map[string]skill.Outcome, error) {
	if len(raw) == 0 {
		return DefaultStatusMap(), nil
	}
	m := make(map[string]skill.Outcome, len(raw))
	for status, name := range raw {
		o := skill.Outcome(name)
		if !o.IsValid() {
			return nil, fmt.Errorf("status map entry %q: outcome %q outside vocabulary", status, name)
		}
		m[status] = o
	}
	return m, nil
}

// Adapter implements [skill.Dispatcher]: it runs the collaborator process
// for a dispatch descriptor and maps its reported status to an outcome.
//
// The adapter never retries. If remediation is desired it must be expressed
// as an explicit FAIL-routed step in the workflow graph, not as hidden retry
// logic here.
type Adapter struct {
	exec      Executor
	statusMap map[string]skill.Outcome
}

// NewAdapter creates an adapter with the default status table.
func NewAdapter(exec Executor) *Adapter {
	return &Adapter{exec: exec, statusMap: DefaultStatusMap()}
}

// NewAdapterWithStatusMap creates an adapter with an explicit status table.
func NewAdapterWithStatusMap(exec Executor, statusMap map[string]skill.Outcome) *Adapter {
	return &Adapter{exec: exec, statusMap: statusMap}
}

// payload is the step context document handed to a collaborator on stdin.
type payload struct {
	Step       string            `yaml:"step"`
	Role       string            `yaml:"role"`
	Target     string            `yaml:"target"`
	StepBudget int               `yaml:"step_budget,omitempty"`
	Params     map[string]string `yaml:"params,omitempty"`
	State      map[string]any    `yaml:"state,omitempty"`
}

// Dispatch implements [skill.Dispatcher]. It blocks until the collaborator
// reports a terminal status, then maps that status to an outcome. The step
// budget travels with the context as advisory metadata; nothing enforces it.
func (a *Adapter) Dispatch(ctx *skill.Context, d *skill.Dispatch) (skill.Result, error) {
	doc, err := yaml.Marshal(payload{
		Step:       ctx.StepID,
		Role:       d.Role,
		Target:     d.Target,
		StepBudget: d.StepBudget,
		Params:     ctx.Params,
		State:      ctx.State,
	})
	if err != nil {
		return skill.Result{}, fmt.Errorf("failed to encode step context for %s/%s: %w", d.Role, d.Target, err)
	}

	res, err := a.exec.Execute(ctx.Ctx, d.Target, doc)
	if err != nil {
		return skill.Result{}, err
	}

	status := res.Status
	if status == "" {
		if res.ExitCode == 0 {
			status = StatusPass
		} else {
			status = StatusFail
		}
	}

	outcome, ok := a.statusMap[status]
	if !ok {
		return skill.Result{}, &UnmappedStatusError{Role: d.Role, Target: d.Target, Status: status}
	}
	return skill.Result{Outcome: outcome}, nil
}
