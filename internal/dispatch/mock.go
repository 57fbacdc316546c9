package dispatch

import "context"

// MockInvocation records one Execute call for assertions.
type MockInvocation struct {
	Target  string
	Payload []byte
}

// MockExecutor implements [Executor] without spawning real processes.
//
// Configure the result once and inspect Invocations after the code under
// test ran. The zero value reports an empty status with exit code 0, which
// the adapter's exit-code fallback maps to PASS.
type MockExecutor struct {
	// Status is the status string to report.
	Status string

	// ExitCode is the exit code to report.
	ExitCode int

	// Err, when set, is returned instead of a result.
	Err error

	// Invocations records every Execute call in order.
	Invocations []MockInvocation
}

// Execute implements [Executor].
func (m *MockExecutor) Execute(ctx context.Context, target string, payload []byte) (ExecResult, error) {
	m.Invocations = append(m.Invocations, MockInvocation{Target: target, Payload: payload})
	if m.Err != nil {
		return ExecResult{}, m.Err
	}
	return ExecResult{Status: m.Status, ExitCode: m.ExitCode}, nil
}
