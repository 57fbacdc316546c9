package harness

import (
	"fmt"
	"strings"
)

// Report aggregates the findings of a harness sweep.
type Report struct {
	// Workflows is how many workflows were checked.
	Workflows int

	// MaxLevel is the highest level the sweep ran.
	MaxLevel Level

	// Invocations counts the level-2 boundary invocations performed.
	Invocations int

	// Findings are every failure, across all workflows and levels.
	Findings []Finding
}

// OK reports whether the sweep found nothing.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

// String renders the aggregate report, one line per finding.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "checked %d workflow(s) through level %d (%s)", r.Workflows, int(r.MaxLevel), r.MaxLevel)
	if r.MaxLevel >= LevelInvocation {
		fmt.Fprintf(&b, ", %d boundary invocation(s)", r.Invocations)
	}
	b.WriteString("\n")

	if r.OK() {
		b.WriteString("no findings\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d finding(s):\n", len(r.Findings))
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "  [%s] %s", f.Level, f.Workflow)
		if f.Step != "" {
			fmt.Fprintf(&b, " step=%s", f.Step)
		}
		if f.Param != "" {
			fmt.Fprintf(&b, " param=%s value=%v", f.Param, f.Value)
		}
		fmt.Fprintf(&b, ": %v\n", f.Err)
	}
	return b.String()
}
