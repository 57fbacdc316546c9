package catalog

import (
	"strconv"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// intInput resolves a declared step input: an arg bound on the context wins,
// then a run param, then the fallback. Unparseable values keep the fallback —
// the built-ins stay permissive so a bad value cannot wedge a run.
func intInput(ctx *skill.Context, name string, fallback int) int {
	if v, ok := ctx.Arg(name); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		case string:
			if i, err := strconv.Atoi(n); err == nil {
				return i
			}
		}
		return fallback
	}
	if s := ctx.Param(name, ""); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
	}
	return fallback
}

// stringInput is the string counterpart of [intInput].
func stringInput(ctx *skill.Context, name, fallback string) string {
	if v, ok := ctx.Arg(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fallback
	}
	return ctx.Param(name, fallback)
}
