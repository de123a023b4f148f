package contract

import (
	"fmt"

	"github.com/mrwong99/worldforge/internal/graph"
)

// CheckEnabledBy evaluates every condition declared in enabledBy against
// view and currentEra, logical-AND'ing them together (spec §4.D
// "Applicability gating"). A nil enabledBy always passes.
func CheckEnabledBy(view graph.View, currentEra string, enabledBy *EnabledBy) GateResult {
	if enabledBy == nil {
		return GateResult{Allowed: true}
	}

	for _, p := range enabledBy.Pressures {
		if view.Pressure(p.Name) < p.Threshold {
			return GateResult{Allowed: false, Reason: fmt.Sprintf("pressure %q below threshold %.3f", p.Name, p.Threshold)}
		}
	}

	for _, c := range enabledBy.EntityCounts {
		count := countEntities(view, c.Kind, c.Subtype)
		if count < c.Min {
			return GateResult{Allowed: false, Reason: fmt.Sprintf("entity count for %s/%s below minimum %d", c.Kind, c.Subtype, c.Min)}
		}
		if c.Max != nil && count > *c.Max {
			return GateResult{Allowed: false, Reason: fmt.Sprintf("entity count for %s/%s above maximum %d", c.Kind, c.Subtype, *c.Max)}
		}
	}

	if len(enabledBy.Eras) > 0 && !containsStr(enabledBy.Eras, currentEra) {
		return GateResult{Allowed: false, Reason: fmt.Sprintf("era %q not in whitelist", currentEra)}
	}

	if enabledBy.Predicate != nil && !enabledBy.Predicate(view) {
		return GateResult{Allowed: false, Reason: "custom predicate refused"}
	}

	return GateResult{Allowed: true}
}

func countEntities(view graph.View, kind, subtype string) int {
	return len(view.FindEntities(graph.EntityCriteria{Kind: kind, Subtype: subtype}))
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
