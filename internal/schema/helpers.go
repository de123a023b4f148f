package schema

import (
	"errors"
	"fmt"

	"github.com/mrwong99/worldforge/internal/graph"
)

// GetRelationshipStrength returns the registered default strength for kind,
// or 0.5 if none is declared (spec §3.2 default).
func (d Domain) GetRelationshipStrength(kind string) float64 {
	def, ok := d.RelationshipKinds[kind]
	if !ok || def.DefaultStrength == nil {
		return 0.5
	}
	return *def.DefaultStrength
}

// GetRelationshipCategory returns the registered category for kind, or the
// zero Category if undeclared.
func (d Domain) GetRelationshipCategory(kind string) graph.Category {
	return d.RelationshipKinds[kind].Category
}

// GetExpectedDistanceRange returns the lineage distance range for kind and
// whether kind is a lineage relationship at all.
func (d Domain) GetExpectedDistanceRange(kind string) (lo, hi float64, ok bool) {
	def, exists := d.RelationshipKinds[kind]
	if !exists || !def.IsLineage {
		return 0, 0, false
	}
	return def.DistanceRange[0], def.DistanceRange[1], true
}

// CheckRelationshipConflict reports whether adding newKind would conflict
// with any relationship kind already present in existingKinds (spec §4.G
// "Respect relationship conflicts").
func (d Domain) CheckRelationshipConflict(existingKinds []string, newKind string) (conflict bool, with string) {
	def, ok := d.RelationshipKinds[newKind]
	if !ok {
		return false, ""
	}
	conflictSet := make(map[string]bool, len(def.ConflictsWith))
	for _, c := range def.ConflictsWith {
		conflictSet[c] = true
	}
	for _, existing := range existingKinds {
		if conflictSet[existing] {
			return true, existing
		}
		// conflict declarations are symmetric: also check the other side.
		if otherDef, ok := d.RelationshipKinds[existing]; ok {
			for _, c := range otherDef.ConflictsWith {
				if c == newKind {
					return true, existing
				}
			}
		}
	}
	return false, ""
}

// ValidateEntityStructure checks e against its kind's structural rules:
// recognised subtype, recognised status, and (informationally) required
// relationships — the latter cannot be checked without graph access, so
// ValidateEntityStructure only validates the fields on e itself. Required
// relationship presence is validated by the caller using
// [Domain.HasRequiredRelationships].
func (d Domain) ValidateEntityStructure(e graph.Entity) error {
	def, ok := d.EntityKinds[e.Kind]
	if !ok {
		return fmt.Errorf("schema: entity %q has undeclared kind %q", e.ID, e.Kind)
	}
	var errs []error
	if e.Subtype != "" && !contains(def.Subtypes, e.Subtype) {
		errs = append(errs, fmt.Errorf("entity %q: subtype %q not declared for kind %q", e.ID, e.Subtype, e.Kind))
	}
	if e.Status != "" && !contains(def.Statuses, e.Status) {
		errs = append(errs, fmt.Errorf("entity %q: status %q not declared for kind %q", e.ID, e.Status, e.Kind))
	}
	if !e.Prominence.Valid() {
		errs = append(errs, fmt.Errorf("entity %q: prominence %q is not one of the five allowed values", e.ID, e.Prominence))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// HasRequiredRelationships reports whether e satisfies every
// RequiredRelRule declared for its kind, given its current relationship
// list.
func (d Domain) HasRequiredRelationships(e graph.Entity, rels []graph.Relationship) bool {
	def, ok := d.EntityKinds[e.Kind]
	if !ok {
		return true
	}
	for _, rule := range def.RequiredRelationships {
		found := false
		for _, r := range rels {
			if r.Kind != rule.RelKind {
				continue
			}
			switch rule.Direction {
			case graph.DirectionOut:
				found = r.Src == e.ID
			case graph.DirectionIn:
				found = r.Dst == e.ID
			default:
				found = r.Src == e.ID || r.Dst == e.ID
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
