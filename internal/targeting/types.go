// Package targeting implements the anti-hub target selector (spec §4.D
// "Anti-hub target selection"): candidates are scored to prefer
// well-matched, under-connected, recently-unselected entities, and a
// factory fallback manufactures new candidates when the pool is saturated.
package targeting

import "github.com/mrwong99/worldforge/internal/graph"

// PreferredAttribute awards Bonus (multiplicative) to candidates matching
// one dimension: exactly one of Subtype, Tag, Prominence, or
// SameLocationAs (an entity id whose coordinates the candidate must share)
// should be set.
type PreferredAttribute struct {
	Subtype        string
	Tag            string
	Prominence     graph.Prominence
	SameLocationAs string
	Bonus          float64
}

// PenalizedKind attenuates candidates carrying many relationships of Kind,
// by exp(-Strength * count) (spec formula).
type PenalizedKind struct {
	Kind     string
	Strength float64
}

// CreateIfSaturated configures the factory fallback triggered when the best
// candidate score falls below Threshold.
type CreateIfSaturated struct {
	Threshold  float64
	MaxCreated int
}

// Factory manufactures up to n partial new entities (no ID — the caller
// assigns ids, per spec §4.D "ids assigned by the caller") when the
// candidate pool is saturated.
type Factory func(view graph.View, criteria SelectionCriteria, n int) []graph.Entity

// SelectionCriteria is one call to [Select]: pick Count existing entities
// of Kind, scored and filtered per the declared rules.
type SelectionCriteria struct {
	Kind                string
	Count               int
	PreferredAttributes []PreferredAttribute
	PenalizedKinds      []PenalizedKind
	HardCap             int // 0 means no cap
	ExcludeRelatedTo    string
	TrackingID          string
	CreateIfSaturated   *CreateIfSaturated
	Factory             Factory
}

// Diagnostics reports how a selection resolved (spec §4.D "diagnostics
// include bestScore, worstScore, avgScore, creationTriggered").
type Diagnostics struct {
	BestScore         float64
	WorstScore        float64
	AvgScore          float64
	CreationTriggered bool
}

// Selection is the result of [Select].
type Selection struct {
	Targets     []graph.Entity
	Created     []graph.Entity
	Diagnostics Diagnostics
}
