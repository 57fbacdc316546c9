package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/catalog"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/config"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/dispatch"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/render"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/runtime"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// newTestApp wires an App against a mock executor so no subprocess ever
// runs. The mock reports the given collaborator status.
func newTestApp(t *testing.T, status string) *App {
	t.Helper()

	adapter := dispatch.NewAdapter(&dispatch.MockExecutor{Status: status})
	registry := skill.NewRegistry()
	require.NoError(t, catalog.RegisterInto(registry, adapter))

	return &App{
		Config:     config.DefaultConfig(),
		Registry:   registry,
		Runner:     runtime.NewRunner(),
		Formatter:  render.NewFormatter(render.EncodingMarkdown),
		Dispatcher: adapter,
	}
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand(app)
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func TestRunCommand_CompletesDemo(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	out, err := execute(t, app, "run", "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "start: OK")
	assert.Contains(t, out, "middle: ITERATE")
	assert.Contains(t, out, "end: OK")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "finished: true")
}

func TestRunCommand_ParamOverridesIterationCap(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	out, err := execute(t, app, "run", "demo", "--param", "max_iterations=0")
	require.NoError(t, err)

	assert.NotContains(t, out, "ITERATE")
}

func TestRunCommand_UnknownWorkflow(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	_, err := execute(t, app, "run", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, skill.ErrUnknownWorkflow)
}

func TestRunCommand_RejectsMalformedParam(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	_, err := execute(t, app, "run", "demo", "--param", "no-equals-sign")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key=value pair")
}

func TestRunCommand_DispatchDrivenWorkflow(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	out, err := execute(t, app, "run", "spending-review")
	require.NoError(t, err)
	assert.Contains(t, out, "categorize: OK")
	assert.Contains(t, out, "report_ready: true")
}

func TestRunCommand_FailedRunExitsNonZero(t *testing.T) {
	// An unmapped collaborator status makes the dispatch step fatal.
	app := newTestApp(t, "TIMEOUT")

	out, err := execute(t, app, "run", "spending-review")
	require.Error(t, err)

	code, ok := IsExitError(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "run failed")
}

func TestStepCommand_TurnLoop(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	// First turn renders the entry step.
	out, err := execute(t, app, "step", "demo", "--state", statePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Prepare the run")

	// Reporting OK advances to the middle step.
	out, err = execute(t, app, "step", "demo", "--state", statePath,
		"--outcome", "OK", "--set", "started=yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Refine until the iteration budget is spent")

	// OK from middle reaches the final step, then the terminal marker.
	out, err = execute(t, app, "step", "demo", "--state", statePath, "--outcome", "OK")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrap up")

	out, err = execute(t, app, "step", "demo", "--state", statePath, "--outcome", "OK")
	require.NoError(t, err)
	assert.Contains(t, out, "workflow demo complete")
}

func TestStepCommand_LowercaseOutcomeAccepted(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	_, err := execute(t, app, "step", "demo", "--state", statePath)
	require.NoError(t, err)

	out, err := execute(t, app, "step", "demo", "--state", statePath, "--outcome", "ok")
	require.NoError(t, err)
	assert.Contains(t, out, "Refine until the iteration budget is spent")
}

func TestStepCommand_RejectsUnknownOutcome(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	_, err := execute(t, app, "step", "demo", "--state", statePath)
	require.NoError(t, err)

	_, err = execute(t, app, "step", "demo", "--state", statePath, "--outcome", "MAYBE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown outcome")
}

func TestStepCommand_OutcomeWithoutSnapshot(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	_, err := execute(t, app, "step", "demo", "--state", statePath, "--outcome", "OK")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no turn in progress")
}

func TestStepCommand_SnapshotWorkflowMismatch(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	_, err := execute(t, app, "step", "demo", "--state", statePath)
	require.NoError(t, err)

	_, err = execute(t, app, "step", "spending-review", "--state", statePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to workflow")
}

func TestListCommand(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	out, err := execute(t, app, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "spending-review")
	// Registry order is sorted by name.
	assert.Less(t, strings.Index(out, "demo"), strings.Index(out, "spending-review"))
}

func TestShowCommand(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	out, err := execute(t, app, "show", "demo", "middle", "--encoding", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "## Refine until the iteration budget is spent")
	assert.Contains(t, out, "_Phase: work_")
}

func TestShowCommand_UnknownStep(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	_, err := execute(t, app, "show", "demo", "ghost")
	require.Error(t, err)
}

func TestManifestCommand_Table(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	out, err := execute(t, app, "manifest")
	require.NoError(t, err)

	assert.Contains(t, out, "WORKFLOW")
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "spending-review")
}

func TestManifestCommand_CSVToStdout(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	out, err := execute(t, app, "manifest", "--csv", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "workflow,entry,steps,description")
	assert.Contains(t, out, "demo,start,3,")
}

func TestCheckCommand_CleanRegistry(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	out, err := execute(t, app, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "no findings")
}

func TestCheckCommand_FindingsExitNonZero(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	// Structurally valid, but the handler cannot survive boundary inputs.
	require.NoError(t, app.Registry.Register(&skill.Workflow{
		Name:  "brittle",
		Entry: "only",
		Steps: map[string]*skill.Step{
			"only": {
				ID: "only",
				Handler: skill.Func(func(ctx *skill.Context) (skill.Result, error) {
					v, _ := ctx.Arg("threshold")
					_ = v.(float64) // panics on the synthesized invalid choice
					return skill.Result{Outcome: skill.OutcomeOK}, nil
				}),
				Next: map[skill.Outcome]string{skill.OutcomeOK: skill.Terminal},
				Args: map[string]skill.ArgSpec{
					"threshold": {Default: 0.5, Choices: []any{0.5, 0.9}},
				},
			},
		},
	}))

	out, err := execute(t, app, "check")
	require.Error(t, err)

	code, ok := IsExitError(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "brittle")
}

func TestCheckCommand_RejectsInvalidLevel(t *testing.T) {
	app := newTestApp(t, dispatch.StatusPass)

	_, err := execute(t, app, "check", "--level", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid level")
}

func TestNewApp_WiresFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Encoding = "markdown"

	app, err := NewApp(cfg)
	require.NoError(t, err)

	assert.Equal(t, render.EncodingMarkdown, app.Formatter.Encoding())
	assert.Contains(t, app.Registry.Names(), "demo")
}

func TestNewApp_RejectsBadEncoding(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Encoding = "html"

	_, err := NewApp(cfg)
	require.Error(t, err)
}

func TestNewApp_RejectsBadStatusMap(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dispatch.StatusMap = map[string]string{"PASS": "SHRUG"}

	_, err := NewApp(cfg)
	require.Error(t, err)
}
