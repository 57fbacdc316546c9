package harness

import (
	"fmt"
	"sort"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// invalidChoice is the deliberately-invalid value synthesized for
// choice-constrained parameters. Chosen to collide with no plausible real
// choice value.
const invalidChoice = "__invalid__"

// checkInvocation is level 2: boundary invocation. For every step handler,
// each constraint-annotated parameter is varied one at a time away from an
// all-defaults baseline (single-factor design, O(P·V) invocations rather
// than O(V^P)). Every invocation must complete without raising; failures
// are recorded per (workflow, step, parameter, value) and never abort the
// remaining cases.
func (h *Harness) checkInvocation(w *skill.Workflow) ([]Finding, int) {
	var findings []Finding
	invocations := 0

	for _, id := range sortedIDs(w.Steps) {
		step := w.Steps[id]
		handler := step.Handler
		if d, ok := handler.(*skill.Dispatch); ok {
			handler = d.Via(h.dispatcher)
		}

		baseline := defaultArgs(step)

		// All-defaults baseline first.
		invocations++
		if err := invoke(handler, step.ID, baseline); err != nil {
			findings = append(findings, Finding{
				Workflow: w.Name, Step: step.ID, Level: LevelInvocation, Err: err,
			})
		}

		for _, param := range sortedArgNames(step.Args) {
			for _, value := range boundaryValues(step.Args[param]) {
				args := cloneArgs(baseline)
				args[param] = value

				invocations++
				if err := invoke(handler, step.ID, args); err != nil {
					findings = append(findings, Finding{
						Workflow: w.Name, Step: step.ID, Param: param, Value: value,
						Level: LevelInvocation, Err: err,
					})
				}
			}
		}
	}

	return findings, invocations
}

// boundaryValues synthesizes the boundary set for one parameter: minimum,
// maximum, and one out-of-range value for bounded parameters; each declared
// choice plus one invalid choice for choice-constrained parameters. The
// default is not repeated here — it is already exercised by the baseline.
func boundaryValues(spec skill.ArgSpec) []any {
	if len(spec.Choices) > 0 {
		vals := make([]any, 0, len(spec.Choices)+1)
		vals = append(vals, spec.Choices...)
		vals = append(vals, invalidChoice)
		return vals
	}

	var vals []any
	if spec.Min != nil {
		vals = append(vals, *spec.Min)
	}
	if spec.Max != nil {
		vals = append(vals, *spec.Max)
	}
	switch {
	case spec.Max != nil:
		vals = append(vals, *spec.Max+1)
	case spec.Min != nil:
		vals = append(vals, *spec.Min-1)
	}
	return vals
}

// defaultArgs builds the all-defaults baseline argument set.
func defaultArgs(step *skill.Step) map[string]any {
	args := map[string]any{}
	for name, spec := range step.Args {
		if spec.Default != nil {
			args[name] = spec.Default
		}
	}
	return args
}

func cloneArgs(args map[string]any) map[string]any {
	clone := make(map[string]any, len(args))
	for k, v := range args {
		clone[k] = v
	}
	return clone
}

// invoke runs a handler with synthesized arguments, converting panics into
// recorded errors so one raising case cannot abort the sweep.
func invoke(handler skill.Handler, stepID string, args map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	ctx := skill.NewContext(nil, stepID, map[string]string{}, map[string]any{})
	ctx.Args = args
	_, err = handler.Run(ctx)
	return err
}

func sortedIDs(steps map[string]*skill.Step) []string {
	ids := make([]string, 0, len(steps))
	for id := range steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedArgNames(args map[string]skill.ArgSpec) []string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
