package catalog

import (
	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// SpendingReview is the monthly spending-review skill: collect transactions,
// delegate categorization to the analyst collaborator, analyze with a
// confidence-driven ITERATE loop, and produce a report. Categorization
// failures route explicitly back through a revision step — remediation is a
// FAIL edge in the graph, never a hidden retry.
func SpendingReview(via skill.Dispatcher) *skill.Workflow {
	return &skill.Workflow{
		Name:        "spending-review",
		Description: "Monthly spending review with delegated categorization",
		Entry:       "collect",
		Steps: map[string]*skill.Step{
			"collect": {
				ID:    "collect",
				Title: "Collect the month's transactions",
				Phase: "gather",
				Actions: []string{
					"Load every transaction for the review month from the ledger.",
					"When a cached import already exists, skip straight to analysis.",
				},
				Handler: skill.Func(collectHandler),
				Next: map[skill.Outcome]string{
					skill.OutcomeOK:   "categorize",
					skill.OutcomeSkip: "analyze",
				},
				Args: map[string]skill.ArgSpec{
					"source": {
						Default:  "ledger",
						Choices:  []any{"ledger", "cached"},
						Required: true,
					},
				},
			},
			"categorize": {
				ID:    "categorize",
				Title: "Categorize transactions",
				Phase: "gather",
				Actions: []string{
					"Assign each transaction a spending category.",
					"Report PASS when every transaction is categorized, FAIL otherwise.",
				},
				Handler: skill.NewDispatch("analyst", "skillrun-categorize", 5, via),
				Next: map[skill.Outcome]string{
					skill.OutcomeOK:   "analyze",
					skill.OutcomeFail: "revise",
					skill.OutcomeSkip: "analyze",
				},
			},
			"revise": {
				ID:    "revise",
				Title: "Revise the categorization inputs",
				Phase: "gather",
				Actions: []string{
					"Inspect the transactions the analyst could not categorize.",
					"Normalize merchant names and resubmit.",
				},
				Handler: skill.Func(reviseHandler),
				Next: map[skill.Outcome]string{
					skill.OutcomeDefault: "categorize",
				},
			},
			"analyze": {
				ID:    "analyze",
				Title: "Analyze spending patterns",
				Phase: "analysis",
				Actions: []string{
					"Compare category totals against the previous month.",
					"Repeat the pass until the findings stop changing.",
				},
				Handler: skill.Func(analyzeHandler),
				Next: map[skill.Outcome]string{
					skill.OutcomeOK:      "report",
					skill.OutcomeIterate: "analyze",
				},
				Args: map[string]skill.ArgSpec{
					"min_passes": {
						Default: 2,
						Min:     skill.Float64(1),
						Max:     skill.Float64(5),
					},
				},
			},
			"report": {
				ID:    "report",
				Title: "Write the review report",
				Phase: "report",
				Actions: []string{
					"Summarize notable category changes.",
					"Record the report as ready for the caller.",
				},
				Handler: skill.Func(reportHandler),
				Next: map[skill.Outcome]string{
					skill.OutcomeOK: skill.Terminal,
				},
			},
		},
	}
}

func collectHandler(ctx *skill.Context) (skill.Result, error) {
	if stringInput(ctx, "source", "ledger") == "cached" {
		return skill.Result{
			Outcome: skill.OutcomeSkip,
			Delta:   map[string]any{"collected": "cached"},
		}, nil
	}
	return skill.Result{
		Outcome: skill.OutcomeOK,
		Delta:   map[string]any{"collected": "ledger"},
	}, nil
}

func reviseHandler(ctx *skill.Context) (skill.Result, error) {
	return skill.Result{
		Outcome: skill.OutcomeOK,
		Delta:   map[string]any{"revisions": ctx.StateInt("revisions") + 1},
	}, nil
}

func analyzeHandler(ctx *skill.Context) (skill.Result, error) {
	min := intInput(ctx, "min_passes", 2)
	passes := ctx.StateInt("analysis_passes") + 1
	outcome := skill.OutcomeOK
	if passes < min {
		outcome = skill.OutcomeIterate
	}
	return skill.Result{
		Outcome: outcome,
		Delta:   map[string]any{"analysis_passes": passes},
	}, nil
}

func reportHandler(ctx *skill.Context) (skill.Result, error) {
	return skill.Result{
		Outcome: skill.OutcomeOK,
		Delta:   map[string]any{"report_ready": true},
	}, nil
}
