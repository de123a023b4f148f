package contract

import (
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/rng"
	"github.com/mrwong99/worldforge/internal/schema"
)

// NewLineageRelationship is one relationship the lineage pass wants
// committed: newEntity -> ancestor, kind and distance per the kind's
// registered lineage config.
type NewLineageRelationship struct {
	RelationshipKind string
	Src              string // new entity
	Dst              string // ancestor
	Distance         float64
}

// RunLineagePass runs findAncestor for every new entity whose (kind,
// subtype) carries a lineage registry, and returns the relationships to
// commit (spec §4.D "Lineage pass"). view must reflect the graph state
// after the new entities have been committed, so findAncestor can see
// them.
func RunLineagePass(view graph.View, newEntities []graph.Entity, registries []schema.EntityRegistry, rnd *rng.Source) []NewLineageRelationship {
	var out []NewLineageRelationship
	for _, e := range newEntities {
		reg, ok := findRegistry(registries, e.Kind, e.Subtype)
		if !ok || reg.Lineage == nil || reg.Lineage.FindAncestor == nil {
			continue
		}
		ancestorID, found := reg.Lineage.FindAncestor(view, e)
		if !found || ancestorID == e.ID {
			continue
		}
		lo, hi := reg.Lineage.DistanceRange[0], reg.Lineage.DistanceRange[1]
		distance := lo
		if hi > lo {
			distance = rnd.Range(lo, hi)
		}
		out = append(out, NewLineageRelationship{
			RelationshipKind: reg.Lineage.RelationshipKind,
			Src:              e.ID,
			Dst:              ancestorID,
			Distance:         distance,
		})
	}
	return out
}
