package contract

import (
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/schema"
)

// Saturated reports whether every produced kind is at or above 2x its
// registered target count; a produced kind with no registry entry is
// ignored, and a template with no registries for any of its produced kinds
// is never saturated (spec §4.D "Saturation"). The template remains
// eligible as soon as at least one produced kind is under 2x target.
func Saturated(view graph.View, registries []schema.EntityRegistry, produces []ProducedKind) bool {
	if len(produces) == 0 {
		return false
	}
	anyChecked := false
	for _, p := range produces {
		reg, ok := findRegistry(registries, p.Kind, p.Subtype)
		if !ok || reg.Target <= 0 {
			continue
		}
		anyChecked = true
		count := countEntities(view, p.Kind, reg.Subtype)
		if float64(count) < 2*float64(reg.Target) {
			return false
		}
	}
	return anyChecked
}

// findRegistry looks up the registry for (kind, subtype), preferring a
// subtype-specific entry and falling back to a kind-scoped one (Subtype=="")
// when no entry matches the produced subtype exactly.
func findRegistry(registries []schema.EntityRegistry, kind, subtype string) (schema.EntityRegistry, bool) {
	var kindScoped *schema.EntityRegistry
	for i := range registries {
		r := registries[i]
		if r.Kind != kind {
			continue
		}
		if r.Subtype == subtype {
			return r, true
		}
		if r.Subtype == "" {
			kindScoped = &registries[i]
		}
	}
	if kindScoped != nil {
		return *kindScoped, true
	}
	return schema.EntityRegistry{}, false
}
