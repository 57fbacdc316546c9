package skill

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for structural validation. Each structural failure wraps
// one of these, so callers can classify findings with [errors.Is] while the
// message names the offending workflow, step, and target.
var (
	// ErrMissingEntry indicates the entry point step id is not declared.
	ErrMissingEntry = errors.New("entry point step not declared")

	// ErrDanglingTarget indicates a transition references a step id that is
	// neither declared nor the terminal marker.
	ErrDanglingTarget = errors.New("transition target not declared")

	// ErrNoTerminal indicates no (step, outcome) pair maps to the terminal
	// marker, so no run of the workflow could ever end.
	ErrNoTerminal = errors.New("no terminal reachable")

	// ErrUnreachableStep indicates a declared step cannot be reached from
	// the entry point by any path of outcomes.
	ErrUnreachableStep = errors.New("step unreachable from entry point")

	// ErrMalformedHandler indicates a step's handler or its argument
	// constraint table is not well-formed.
	ErrMalformedHandler = errors.New("malformed handler")

	// ErrBadTransitionKey indicates a transition map is empty or keyed by a
	// value outside the outcome vocabulary.
	ErrBadTransitionKey = errors.New("invalid transition map")
)

// Validate runs the structural checks a workflow must pass before it may be
// registered:
//
//  1. the entry point step id is declared
//  2. every transition target is a declared step id or [Terminal]
//  3. at least one (step, outcome) pair maps to [Terminal]
//  4. every declared step is reachable from the entry point
//  5. every handler is well-formed (non-nil, consistent [ArgSpec] table)
//
// Validation is exhaustive rather than fail-fast: all structural problems are
// collected and reported together via errors.Join. The one exception is
// reachability, which is skipped when the entry point itself is missing,
// since traversal needs a valid starting point.
func Validate(w *Workflow) error {
	if w == nil {
		return errors.New("workflow is nil")
	}
	var errs []error
	if w.Name == "" {
		errs = append(errs, errors.New("workflow name is required"))
	}
	if len(w.Steps) == 0 {
		errs = append(errs, fmt.Errorf("workflow %q declares no steps", w.Name))
		return errors.Join(errs...)
	}

	entryOK := true
	if _, ok := w.Steps[w.Entry]; !ok {
		errs = append(errs, fmt.Errorf("workflow %q: entry %q: %w", w.Name, w.Entry, ErrMissingEntry))
		entryOK = false
	}

	hasTerminal := false
	for _, id := range sortedStepIDs(w) {
		step := w.Steps[id]
		if step == nil {
			errs = append(errs, fmt.Errorf("workflow %q: step %q is nil: %w", w.Name, id, ErrMalformedHandler))
			continue
		}
		if step.ID != id {
			errs = append(errs, fmt.Errorf("workflow %q: step keyed %q declares id %q: %w", w.Name, id, step.ID, ErrMalformedHandler))
		}
		if id == Terminal {
			errs = append(errs, fmt.Errorf("workflow %q: step id %q collides with the terminal marker: %w", w.Name, id, ErrBadTransitionKey))
		}

		if len(step.Next) == 0 {
			errs = append(errs, fmt.Errorf("workflow %q: step %q: empty transition map: %w", w.Name, id, ErrBadTransitionKey))
		}
		for outcome, target := range step.Next {
			if !outcome.IsValid() {
				errs = append(errs, fmt.Errorf("workflow %q: step %q: outcome %q outside vocabulary: %w", w.Name, id, outcome, ErrBadTransitionKey))
			}
			if target == Terminal {
				hasTerminal = true
				continue
			}
			if _, ok := w.Steps[target]; !ok {
				errs = append(errs, fmt.Errorf("workflow %q: step %q: target %q: %w", w.Name, id, target, ErrDanglingTarget))
			}
		}

		errs = append(errs, validateHandler(w.Name, step)...)
	}

	if !hasTerminal {
		errs = append(errs, fmt.Errorf("workflow %q: %w", w.Name, ErrNoTerminal))
	}

	if entryOK {
		if unreachable := unreachableSteps(w); len(unreachable) > 0 {
			errs = append(errs, fmt.Errorf("workflow %q: steps %v: %w", w.Name, unreachable, ErrUnreachableStep))
		}
	}

	return errors.Join(errs...)
}

// validateHandler is the malformed-handler check: the handler must exist and
// every argument constraint must be internally consistent.
func validateHandler(workflow string, step *Step) []error {
	var errs []error
	if step.Handler == nil {
		errs = append(errs, fmt.Errorf("workflow %q: step %q: nil handler: %w", workflow, step.ID, ErrMalformedHandler))
	}
	for _, name := range sortedArgNames(step) {
		if err := step.Args[name].validate(step.ID, name); err != nil {
			errs = append(errs, fmt.Errorf("workflow %q: %w", workflow, err))
		}
	}
	return errs
}

// unreachableSteps runs a breadth-first traversal from the entry point over
// every outcome edge and returns the sorted ids of steps never visited.
func unreachableSteps(w *Workflow) []string {
	visited := map[string]bool{w.Entry: true}
	queue := []string{w.Entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		step := w.Steps[id]
		if step == nil {
			continue
		}
		for _, target := range step.Next {
			if target == Terminal || visited[target] {
				continue
			}
			if _, ok := w.Steps[target]; !ok {
				continue
			}
			visited[target] = true
			queue = append(queue, target)
		}
	}

	var unreachable []string
	for id := range w.Steps {
		if !visited[id] {
			unreachable = append(unreachable, id)
		}
	}
	sort.Strings(unreachable)
	return unreachable
}

// sortedStepIDs keeps validation output deterministic across runs.
func sortedStepIDs(w *Workflow) []string {
	ids := make([]string, 0, len(w.Steps))
	for id := range w.Steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedArgNames(step *Step) []string {
	names := make([]string, 0, len(step.Args))
	for name := range step.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
