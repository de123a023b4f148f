package schema

// TagRegistry declares per-tag usage limits and mutual-exclusion pairs used
// by the contract enforcer's tag-saturation and taxonomy checks (spec §4.D
// "Tag enforcement").
type TagRegistry struct {
	// MaxUsage bounds how many entities may carry a given tag key. Keys
	// matching "name:*" share a single bucket (spec §3.4).
	MaxUsage map[string]int

	// MutuallyExclusive lists pairs of tag keys that must never co-occur on
	// one entity.
	MutuallyExclusive [][2]string

	// Registered lists every known tag key, used by checkTagOrphans to flag
	// tags not present in the registry.
	Registered map[string]bool
}

// IsRegistered reports whether key (after name:* normalisation) is a known
// tag.
func (t TagRegistry) IsRegistered(key string) bool {
	return t.Registered[normalizeTagKey(key)]
}

// MaxUsageFor returns the usage cap for key and whether one is declared.
func (t TagRegistry) MaxUsageFor(key string) (int, bool) {
	v, ok := t.MaxUsage[normalizeTagKey(key)]
	return v, ok
}

func normalizeTagKey(key string) string {
	if len(key) > 5 && key[:5] == "name:" {
		return "name:*"
	}
	return key
}
