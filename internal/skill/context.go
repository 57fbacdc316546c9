package skill

import "context"

// Context is the ephemeral execution context for one step execution.
//
// A fresh Context is created per step by the runtime and discarded when the
// step resolves. Params are the run's immutable workflow parameters, fixed at
// run start. State is the run's mutable step state: handlers observe the
// current mapping and return deltas; the runtime merges deltas by key
// replacement, so handlers never own or replace the map themselves.
type Context struct {
	// Ctx carries the caller's cancellation context across blocking work,
	// most relevantly into dispatched subprocess execution.
	Ctx context.Context

	// StepID is the id of the step being executed.
	StepID string

	// Params are the run's workflow parameters. Read-only by convention.
	Params map[string]string

	// State is the run's step state as of this step. Read-only by
	// convention: mutations travel back through [Result.Delta].
	State map[string]any

	// Args carries synthesized handler inputs. Populated only by the test
	// harness during boundary invocation; nil during ordinary runs.
	Args map[string]any
}

// NewContext builds a step context. A nil ctx defaults to context.Background.
func NewContext(ctx context.Context, stepID string, params map[string]string, state map[string]any) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Ctx:    ctx,
		StepID: stepID,
		Params: params,
		State:  state,
	}
}

// Param returns the named workflow parameter, or fallback when absent.
func (c *Context) Param(name, fallback string) string {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return fallback
}

// StateInt reads an integer out of step state, tolerating the numeric types
// a YAML round-trip may produce. Missing or non-numeric keys read as zero.
func (c *Context) StateInt(key string) int {
	switch n := c.State[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// StateString reads a string out of step state; missing keys read as "".
func (c *Context) StateString(key string) string {
	if s, ok := c.State[key].(string); ok {
		return s
	}
	return ""
}

// Arg returns a harness-synthesized input value, if one was provided.
func (c *Context) Arg(name string) (any, bool) {
	v, ok := c.Args[name]
	return v, ok
}
