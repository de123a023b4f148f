package contract

import (
	"fmt"

	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/schema"
)

const (
	minTagCoverage = 3
	maxTagCoverage = 5
)

// CheckTagSaturation rejects a batch of tags-to-add whose addition would
// push any tag's usage past its registered maxUsage (spec §4.D "Tag
// enforcement"). currentUsage is keyed by normalised tag key (see
// [graph.NormalizeTagKey]). Returns the first tag that would overflow, or
// ("", true) if the whole batch is safe.
func CheckTagSaturation(registry schema.TagRegistry, currentUsage map[string]int, tagsToAdd []string) (violating string, ok bool) {
	additions := make(map[string]int)
	for _, tag := range tagsToAdd {
		additions[graph.NormalizeTagKey(tag)]++
	}
	for key, added := range additions {
		max, hasMax := registry.MaxUsageFor(key)
		if !hasMax {
			continue
		}
		if currentUsage[key]+added > max {
			return key, false
		}
	}
	return "", true
}

// CheckTagOrphans flags tags on an entity that are not present in the
// registry.
func CheckTagOrphans(registry schema.TagRegistry, tags map[string]graph.TagValue) []string {
	var orphans []string
	for key := range tags {
		if !registry.IsRegistered(key) {
			orphans = append(orphans, key)
		}
	}
	return orphans
}

// EnforceTagCoverage returns the signed adjustment needed to bring an
// entity's tag count into [3, 5]: positive means "add this many more",
// negative means "remove this many", zero means already in range.
func EnforceTagCoverage(tags map[string]graph.TagValue) int {
	n := len(tags)
	if n < minTagCoverage {
		return minTagCoverage - n
	}
	if n > maxTagCoverage {
		return maxTagCoverage - n
	}
	return 0
}

// ValidateTagTaxonomy lists every mutually-exclusive tag pair present
// together on the entity's tag set.
func ValidateTagTaxonomy(registry schema.TagRegistry, tags map[string]graph.TagValue) [][2]string {
	var violations [][2]string
	for _, pair := range registry.MutuallyExclusive {
		_, hasA := tags[graph.NormalizeTagKey(pair[0])]
		_, hasB := tags[graph.NormalizeTagKey(pair[1])]
		if hasA && hasB {
			violations = append(violations, pair)
		}
	}
	return violations
}

// TagCoverageSuggestion is a human-readable summary of [EnforceTagCoverage],
// useful for history-log entries.
func TagCoverageSuggestion(tags map[string]graph.TagValue) string {
	adjust := EnforceTagCoverage(tags)
	switch {
	case adjust > 0:
		return fmt.Sprintf("add %d more tag(s) to reach minimum coverage", adjust)
	case adjust < 0:
		return fmt.Sprintf("remove %d tag(s) to satisfy maximum coverage", -adjust)
	default:
		return ""
	}
}
