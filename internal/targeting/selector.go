package targeting

import (
	"math"
	"sort"

	"github.com/mrwong99/worldforge/internal/graph"
)

type scored struct {
	entity graph.Entity
	score  float64
}

// Select scores every entity of criteria.Kind, returns the top
// criteria.Count by descending score, and — if the best score falls below
// criteria.CreateIfSaturated.Threshold — invokes the factory to manufacture
// replacements (spec §4.D "Anti-hub target selection").
func Select(view graph.View, tracker *DiversityTracker, criteria SelectionCriteria) Selection {
	candidates := view.EntitiesByKind(criteria.Kind)
	scoredCandidates := make([]scored, 0, len(candidates))
	for _, e := range candidates {
		scoredCandidates = append(scoredCandidates, scored{entity: e, score: score(view, tracker, criteria, e)})
	}
	sort.Slice(scoredCandidates, func(i, j int) bool { return scoredCandidates[i].score > scoredCandidates[j].score })

	diag := Diagnostics{}
	if len(scoredCandidates) > 0 {
		var sum float64
		diag.BestScore = scoredCandidates[0].score
		diag.WorstScore = scoredCandidates[len(scoredCandidates)-1].score
		for _, c := range scoredCandidates {
			sum += c.score
		}
		diag.AvgScore = sum / float64(len(scoredCandidates))
	}

	n := criteria.Count
	if n > len(scoredCandidates) {
		n = len(scoredCandidates)
	}
	targets := make([]graph.Entity, 0, n)
	for i := 0; i < n; i++ {
		if scoredCandidates[i].score <= 0 {
			break
		}
		targets = append(targets, scoredCandidates[i].entity)
		if tracker != nil {
			tracker.RecordSelection(criteria.TrackingID, scoredCandidates[i].entity.ID)
		}
	}

	var created []graph.Entity
	cis := criteria.CreateIfSaturated
	if cis != nil && criteria.Factory != nil && diag.BestScore < cis.Threshold {
		diag.CreationTriggered = true
		need := criteria.Count - len(targets)
		if need > cis.MaxCreated {
			need = cis.MaxCreated
		}
		if need > 0 {
			created = criteria.Factory(view, criteria, need)
		}
	}

	return Selection{Targets: targets, Created: created, Diagnostics: diag}
}

func score(view graph.View, tracker *DiversityTracker, criteria SelectionCriteria, e graph.Entity) float64 {
	s := 1.0

	for _, attr := range criteria.PreferredAttributes {
		if matchesAttribute(view, attr, e) {
			bonus := attr.Bonus
			if bonus == 0 {
				bonus = 1
			}
			s *= bonus
		}
	}

	rels := view.EntityRelationships(e.ID, graph.DirectionBoth)
	for _, pk := range criteria.PenalizedKinds {
		count := 0
		for _, r := range rels {
			if r.Kind == pk.Kind {
				count++
			}
		}
		s *= math.Exp(-pk.Strength * float64(count))
	}

	if criteria.HardCap > 0 && len(rels) >= criteria.HardCap {
		return 0
	}

	if criteria.ExcludeRelatedTo != "" {
		for _, r := range rels {
			if r.Src == criteria.ExcludeRelatedTo || r.Dst == criteria.ExcludeRelatedTo {
				return 0
			}
		}
	}

	if tracker != nil {
		s *= tracker.Penalty(criteria.TrackingID, e.ID)
	}

	return s
}

func matchesAttribute(view graph.View, attr PreferredAttribute, e graph.Entity) bool {
	switch {
	case attr.Subtype != "":
		return e.Subtype == attr.Subtype
	case attr.Tag != "":
		_, ok := e.Tags[graph.NormalizeTagKey(attr.Tag)]
		return ok
	case attr.Prominence != "":
		return e.Prominence == attr.Prominence
	case attr.SameLocationAs != "":
		other, ok := view.GetEntity(attr.SameLocationAs)
		if !ok {
			return false
		}
		return sameLocation(e, other)
	default:
		return false
	}
}

// sameLocation reports whether two entities share a coordinate in at least
// one common coordinate space.
func sameLocation(a, b graph.Entity) bool {
	for spaceID, ca := range a.Coordinates {
		cb, ok := b.Coordinates[spaceID]
		if !ok {
			continue
		}
		if ca.Plane.Enum == cb.Plane.Enum &&
			ca.SectorX.Numeric == cb.SectorX.Numeric && ca.SectorY.Numeric == cb.SectorY.Numeric &&
			ca.CellX.Numeric == cb.CellX.Numeric && ca.CellY.Numeric == cb.CellY.Numeric {
			return true
		}
	}
	return false
}
