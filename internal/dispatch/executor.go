// Package dispatch executes delegated steps via external collaborators.
//
// A step declared with a [skill.Dispatch] handler is performed by an external
// process rather than inline logic. The [Adapter] starts the named target,
// hands it the current step context, blocks until it reports a terminal
// status, and maps that status back into the engine's outcome vocabulary.
//
// Delegation target contract: the collaborator receives the step context as
// YAML on stdin and reports exactly one status string as the final non-empty
// line of stdout. A clean exit with no status line falls back to the exit
// code (zero maps to PASS, non-zero to FAIL). Unrecognized statuses are a
// fatal condition, never silently coerced.
//
// Key types:
//   - [Executor] - interface for spawning collaborator processes
//   - [CommandExecutor] - production implementation over os/exec
//   - [MockExecutor] - test double that records invocations
//   - [Adapter] - the [skill.Dispatcher] mapping statuses to outcomes
package dispatch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecResult is what a collaborator invocation produced.
type ExecResult struct {
	// Status is the final non-empty stdout line, or "" when the process
	// wrote none.
	Status string

	// ExitCode is the process exit code.
	ExitCode int
}

// Executor spawns a collaborator process for a dispatch target.
//
// The payload is the serialized step context delivered on stdin. Execute
// blocks until the process exits. For testing, use [MockExecutor] which
// implements Executor without spawning real processes.
type Executor interface {
	Execute(ctx context.Context, target string, payload []byte) (ExecResult, error)
}

// CommandExecutor implements [Executor] over os/exec.
//
// Binaries maps dispatch targets to executable paths; unmapped targets are
// invoked by name, relying on PATH lookup.
type CommandExecutor struct {
	// Binaries overrides the executable path per dispatch target.
	Binaries map[string]string
}

// NewCommandExecutor creates a CommandExecutor with the given per-target
// binary overrides (may be nil).
func NewCommandExecutor(binaries map[string]string) *CommandExecutor {
	return &CommandExecutor{Binaries: binaries}
}

// Execute starts the target process, feeds it the payload on stdin, and
// scans stdout keeping the last non-empty line as the reported status.
func (e *CommandExecutor) Execute(ctx context.Context, target string, payload []byte) (ExecResult, error) {
	binary := target
	if path, ok := e.Binaries[target]; ok {
		binary = path
	}

	cmd := exec.CommandContext(ctx, binary)
	cmd.Stdin = bytes.NewReader(payload)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to open stdout pipe for %s: %w", target, err)
	}
	if err := cmd.Start(); err != nil {
		return ExecResult{}, fmt.Errorf("failed to start collaborator %s: %w", target, err)
	}

	// The collaborator may emit progress chatter before its status line, and
	// lines can be long; size the scanner accordingly.
	scanner := bufio.NewScanner(stdout)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	status := ""
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			status = line
		}
	}

	err = cmd.Wait()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return ExecResult{}, fmt.Errorf("collaborator %s did not run: %w", target, err)
		}
	}

	return ExecResult{Status: status, ExitCode: exitCode}, nil
}
