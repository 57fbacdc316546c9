// Package harness checks registered workflows at three escalating levels of
// confidence: construction, structure, and boundary invocation.
//
// The harness is a function of the registry's contents: it imports every
// registered workflow and drives it with synthesized inputs. Failures are
// collected, never fail-fast — one boundary case failing does not abort the
// remaining cases — and the final [Report] aggregates all findings per
// workflow, step, and parameter.
package harness

import (
	"errors"
	"fmt"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// Level identifies one of the escalating check levels.
type Level int

const (
	// LevelConstruction checks that every registered workflow is
	// constructable: non-nil, named, with steps and a declared entry.
	LevelConstruction Level = iota

	// LevelStructure re-runs the structural validator and reports the
	// specific invariant and offending step ids.
	LevelStructure

	// LevelInvocation synthesizes boundary inputs per handler parameter and
	// requires every invocation to complete without raising.
	LevelInvocation
)

// String names the level for reports.
func (l Level) String() string {
	switch l {
	case LevelConstruction:
		return "construction"
	case LevelStructure:
		return "structure"
	case LevelInvocation:
		return "invocation"
	}
	return fmt.Sprintf("level-%d", int(l))
}

// Finding is one aggregated failure.
type Finding struct {
	Workflow string
	Step     string
	Param    string
	Value    any
	Level    Level
	Err      error
}

// stubDispatcher stands in for the production delegation adapter so that
// boundary invocation never spawns real collaborator processes.
type stubDispatcher struct{}

func (stubDispatcher) Dispatch(ctx *skill.Context, d *skill.Dispatch) (skill.Result, error) {
	return skill.Result{Outcome: skill.OutcomeOK}, nil
}

// Harness drives the checks.
type Harness struct {
	dispatcher skill.Dispatcher
}

// New creates a harness whose dispatch steps run against a stub collaborator.
func New() *Harness {
	return &Harness{dispatcher: stubDispatcher{}}
}

// NewWithDispatcher creates a harness that rebinds dispatch steps to the
// given dispatcher during boundary invocation.
func NewWithDispatcher(d skill.Dispatcher) *Harness {
	return &Harness{dispatcher: d}
}

// Check runs every level up to and including maxLevel against the given
// workflows and aggregates the findings.
func (h *Harness) Check(workflows []*skill.Workflow, maxLevel Level) *Report {
	report := &Report{Workflows: len(workflows), MaxLevel: maxLevel}
	for _, w := range workflows {
		findings := h.checkConstruction(w)
		report.Findings = append(report.Findings, findings...)
		if len(findings) > 0 || maxLevel < LevelStructure {
			// Structure and invocation need a constructable workflow.
			continue
		}

		findings = h.checkStructure(w)
		report.Findings = append(report.Findings, findings...)
		if len(findings) > 0 || maxLevel < LevelInvocation {
			continue
		}

		findings, invocations := h.checkInvocation(w)
		report.Findings = append(report.Findings, findings...)
		report.Invocations += invocations
	}
	return report
}

// checkConstruction is level 0: the workflow must be constructable.
func (h *Harness) checkConstruction(w *skill.Workflow) []Finding {
	if w == nil {
		return []Finding{{Level: LevelConstruction, Err: errors.New("workflow is nil")}}
	}
	var findings []Finding
	if w.Name == "" {
		findings = append(findings, Finding{Level: LevelConstruction, Err: errors.New("workflow has no name")})
	}
	if len(w.Steps) == 0 {
		findings = append(findings, Finding{Workflow: w.Name, Level: LevelConstruction, Err: errors.New("workflow declares no steps")})
	}
	if _, ok := w.Steps[w.Entry]; !ok && len(w.Steps) > 0 {
		findings = append(findings, Finding{Workflow: w.Name, Level: LevelConstruction, Err: fmt.Errorf("entry step %q not declared", w.Entry)})
	}
	return findings
}

// checkStructure is level 1: re-run the validator and report each invariant
// failure individually rather than as one opaque "invalid".
func (h *Harness) checkStructure(w *skill.Workflow) []Finding {
	err := skill.Validate(w)
	if err == nil {
		return nil
	}
	var findings []Finding
	for _, sub := range flatten(err) {
		findings = append(findings, Finding{Workflow: w.Name, Level: LevelStructure, Err: sub})
	}
	return findings
}

// flatten expands an errors.Join aggregate into its individual errors.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, sub := range joined.Unwrap() {
			out = append(out, flatten(sub)...)
		}
		return out
	}
	return []error{err}
}
