// Package skill defines the data model for step-based skill workflows.
//
// A [Workflow] is a named, immutable graph of [Step] values. Each step carries
// a handler and a transition map from [Outcome] to the next step id (or
// [Terminal]). Workflows are declared once during startup, validated by
// [Validate], and installed into a process-wide registry via [Register];
// after registration they are never mutated.
//
// Key types:
//   - [Workflow] - a named graph of steps with a single entry point
//   - [Step] - an atomic unit with a handler and a transition map
//   - [Outcome] - the closed result vocabulary handlers may return
//   - [Handler] - the execution contract shared by inline and delegated steps
//   - [ArgSpec] - constraint metadata for handler inputs, used by the harness
//
// The engine never interprets step content. Titles, phases, and action
// descriptions are opaque text; only the transition structure and the state
// threading contract matter here.
package skill

import (
	"errors"
	"fmt"
)

// Outcome is the closed result category a handler returns.
//
// The vocabulary is fixed: no other values are permitted. Keeping the set
// closed means every workflow's transition graph is fully introspectable as
// data rather than buried in branching code.
type Outcome string

const (
	// OutcomeOK indicates success; proceed to the mapped next step.
	OutcomeOK Outcome = "OK"

	// OutcomeFail indicates failure; route to a remediation step.
	OutcomeFail Outcome = "FAIL"

	// OutcomeSkip bypasses a branch that does not apply to this run.
	OutcomeSkip Outcome = "SKIP"

	// OutcomeIterate repeats the current logical phase. Mapping ITERATE back
	// to the same step id is a legal, expected pattern; the engine imposes no
	// iteration ceiling. Capping is each workflow's own responsibility via
	// state carried in step state.
	OutcomeIterate Outcome = "ITERATE"

	// OutcomeDefault is the fallback transition key consulted when a
	// handler's literal outcome has no explicit mapping entry.
	OutcomeDefault Outcome = "DEFAULT"
)

// Outcomes lists the full outcome vocabulary.
var Outcomes = []Outcome{OutcomeOK, OutcomeFail, OutcomeSkip, OutcomeIterate, OutcomeDefault}

// IsValid reports whether o is part of the declared outcome vocabulary.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeOK, OutcomeFail, OutcomeSkip, OutcomeIterate, OutcomeDefault:
		return true
	}
	return false
}

// Terminal is the reserved transition target that ends a run. It is a marker,
// not a step id: no declared step may use it as its own id.
const Terminal = "__end__"

// Result is what a handler produces: the outcome that selects the next step
// and a state delta merged into the run's step state by key replacement.
type Result struct {
	// Outcome selects the next transition. Must be a valid [Outcome].
	Outcome Outcome

	// Delta is merged into step state: new keys are added, existing keys are
	// overwritten. Never deep-merged, never accumulated as history. A nil
	// delta leaves state untouched.
	Delta map[string]any
}

// Handler executes a step. Inline logic ([Func]) and delegation to an
// external collaborator ([Dispatch]) share this one contract; the runtime
// calls it uniformly and never branches on which variant it holds.
type Handler interface {
	Run(ctx *Context) (Result, error)
}

// Func is an inline handler: ordinary Go logic over the execution context.
type Func func(ctx *Context) (Result, error)

// Run implements [Handler].
func (f Func) Run(ctx *Context) (Result, error) {
	return f(ctx)
}

// ErrNoDispatcher is returned when a [Dispatch] step executes without a bound
// [Dispatcher]. This indicates a wiring bug: dispatch descriptors must be
// constructed with [NewDispatch] or rebound with [Dispatch.Via].
var ErrNoDispatcher = errors.New("dispatch step has no dispatcher bound")

// Dispatcher executes a dispatch descriptor against an external collaborator
// and maps its reported status back into the outcome vocabulary. The
// production implementation lives in the dispatch package; tests substitute
// stubs through the same interface.
type Dispatcher interface {
	Dispatch(ctx *Context, d *Dispatch) (Result, error)
}

// Dispatch describes delegation of a step to an external collaborator.
//
// The descriptor names the collaborator role, the target program to invoke,
// and an advisory step-count budget. It implements [Handler] by forwarding to
// the [Dispatcher] it was constructed with, so the runtime treats delegated
// and inline steps identically.
type Dispatch struct {
	// Role names the external collaborator (e.g., "analyst").
	Role string

	// Target identifies the script or program the collaborator runs.
	Target string

	// StepBudget is the declared step-count budget for the delegated work.
	// Advisory metadata only: nothing in the engine enforces it.
	StepBudget int

	dispatcher Dispatcher
}

// NewDispatch creates a dispatch descriptor bound to the given dispatcher.
func NewDispatch(role, target string, stepBudget int, via Dispatcher) *Dispatch {
	return &Dispatch{
		Role:       role,
		Target:     target,
		StepBudget: stepBudget,
		dispatcher: via,
	}
}

// Via returns a copy of the descriptor bound to a different dispatcher.
// The test harness uses this to substitute a stub collaborator without
// touching the registered workflow.
func (d *Dispatch) Via(via Dispatcher) *Dispatch {
	clone := *d
	clone.dispatcher = via
	return &clone
}

// Run implements [Handler] by delegating to the bound dispatcher.
func (d *Dispatch) Run(ctx *Context) (Result, error) {
	if d.dispatcher == nil {
		return Result{}, fmt.Errorf("dispatch %s/%s: %w", d.Role, d.Target, ErrNoDispatcher)
	}
	return d.dispatcher.Dispatch(ctx, d)
}

// ArgSpec describes the constraints on one named handler input beyond the
// execution context: a default value, numeric bounds, an enumerated choice
// set, and whether the input is required.
//
// ArgSpec is consumed exclusively by the test harness to synthesize boundary
// inputs. It has no effect on runtime behavior: the runtime never validates
// or defaults handler arguments.
type ArgSpec struct {
	// Default is the baseline value the harness uses when this parameter is
	// not the one being varied.
	Default any

	// Min and Max bound numeric parameters. Either may be nil.
	Min *float64
	Max *float64

	// Choices enumerates the permitted values. When set, boundary synthesis
	// tries each declared choice plus one invalid choice.
	Choices []any

	// Required marks the input as mandatory for the handler.
	Required bool
}

// validate checks the descriptor's internal consistency. Called by [Validate] as
// part of the malformed-handler check.
func (a ArgSpec) validate(step, name string) error {
	if a.Min != nil && a.Max != nil && *a.Min > *a.Max {
		return fmt.Errorf("step %q: arg %q: min %v exceeds max %v: %w", step, name, *a.Min, *a.Max, ErrMalformedHandler)
	}
	if len(a.Choices) > 0 && a.Default != nil {
		found := false
		for _, c := range a.Choices {
			if c == a.Default {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("step %q: arg %q: default %v not among choices: %w", step, name, a.Default, ErrMalformedHandler)
		}
	}
	if n, ok := asFloat(a.Default); ok {
		if a.Min != nil && n < *a.Min {
			return fmt.Errorf("step %q: arg %q: default %v below min %v: %w", step, name, a.Default, *a.Min, ErrMalformedHandler)
		}
		if a.Max != nil && n > *a.Max {
			return fmt.Errorf("step %q: arg %q: default %v above max %v: %w", step, name, a.Default, *a.Max, ErrMalformedHandler)
		}
	}
	return nil
}

// Float64 is a convenience for building *float64 bounds in ArgSpec literals.
func Float64(v float64) *float64 {
	return &v
}

// asFloat normalizes the numeric types a constraint default may carry.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// Step is an atomic named unit of a workflow.
type Step struct {
	// ID uniquely identifies the step within its workflow.
	ID string

	// Title is a short human-readable name for the step.
	Title string

	// Phase labels the logical phase the step belongs to (e.g., "analysis").
	Phase string

	// Actions is the ordered sequence of human-readable action descriptions
	// presented to whoever executes the step. Opaque to the engine.
	Actions []string

	// Handler executes the step: a [Func] or a [Dispatch] descriptor.
	Handler Handler

	// Next maps outcomes to the next step id or [Terminal]. Keys must be a
	// subset of the outcome vocabulary and at least one key must exist.
	Next map[Outcome]string

	// Args is the constraint side-table for the handler's named inputs.
	// Consumed only by the test harness.
	Args map[string]ArgSpec
}

// Workflow is a named, immutable graph of steps with a single entry point.
type Workflow struct {
	// Name is the globally unique workflow name.
	Name string

	// Description summarizes the workflow for manifests and listings.
	Description string

	// Entry is the id of the step a run starts at by default.
	Entry string

	// Steps holds every declared step, keyed by step id.
	Steps map[string]*Step
}

// Step returns the declared step with the given id.
func (w *Workflow) Step(id string) (*Step, error) {
	s, ok := w.Steps[id]
	if !ok {
		return nil, fmt.Errorf("workflow %q: unknown step: %q", w.Name, id)
	}
	return s, nil
}
