package enrichment

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/mrwong99/worldforge/internal/graph"
)

// collisionThreshold is the minimum Jaro-Winkler similarity, on top of a
// matching Double Metaphone code, at which two names are treated as the
// same identity for merge-conflict purposes.
const collisionThreshold = 0.92

// MergeResult accounts for one Drain's worth of records (spec §6
// "Enrichment side-channel").
type MergeResult struct {
	Applied  []string // entity ids whose record was applied with no name collision
	Rejected []string // entity ids whose NewName collided with another entity (description/tags may still be applied)
}

// ApplyRecords merges a batch of enrichment [Record]s into store. Only
// name, description, and tag fields are ever touched — never ids, kinds,
// or structural links (spec §5 "the core... may only mutate name,
// description, and tag values").
//
// A record whose NewName collides (phonetically and orthographically)
// with another entity's current name keeps the entity's old name, while
// its description and tags are still applied; the core does not
// resolve naming collisions itself (spec §8 "Enrichment merge conflict...
// resolve by the enrichment collaborator, never by the core") — it simply
// declines the rename and leaves the collision for the collaborator to
// notice and retry under a different name.
func ApplyRecords(store *graph.Store, records []Record) MergeResult {
	var result MergeResult

	for _, rec := range records {
		entity, ok := store.GetEntity(rec.EntityID)
		if !ok {
			continue
		}

		changes := graph.EntityChanges{}
		collided := false

		if rec.NewName != "" && rec.NewName != entity.Name {
			if collidesWithAnotherEntity(store, rec.EntityID, rec.NewName) {
				collided = true
			} else {
				name := rec.NewName
				changes.Name = &name
			}
		}
		if rec.Description != "" {
			desc := rec.Description
			changes.Description = &desc
		}
		if len(rec.Tags) > 0 {
			changes.Tags = make(map[string]graph.TagValue, len(rec.Tags))
			for k, v := range rec.Tags {
				changes.Tags[k] = graph.LabelTag(v)
			}
		}

		if collided {
			result.Rejected = append(result.Rejected, rec.EntityID)
			if changes.Description == nil && len(changes.Tags) == 0 {
				continue
			}
		}

		store.UpdateEntity(rec.EntityID, changes)
		if !collided {
			result.Applied = append(result.Applied, rec.EntityID)
		}
	}

	return result
}

// collidesWithAnotherEntity reports whether candidate is phonetically and
// orthographically indistinguishable from some entity other than
// excludeID, using the same two-stage Double Metaphone + Jaro-Winkler
// scoring strategy as the transcript correction pass: a metaphone code
// match narrows the candidate set, then Jaro-Winkler similarity confirms
// it.
func collidesWithAnotherEntity(store *graph.Store, excludeID, candidate string) bool {
	candPrimary, candAlternate := matchr.DoubleMetaphone(candidate)
	lowerCandidate := strings.ToLower(candidate)

	collision := false
	store.ForEachEntity(func(e graph.Entity) {
		if collision || e.ID == excludeID || e.Name == "" {
			return
		}
		primary, alternate := matchr.DoubleMetaphone(e.Name)
		if primary != candPrimary && primary != candAlternate && alternate != candPrimary {
			return
		}
		if matchr.JaroWinkler(lowerCandidate, strings.ToLower(e.Name), false) >= collisionThreshold {
			collision = true
		}
	})
	return collision
}
