// Package distribution extends the population tracker (package population)
// with graph-connectivity and shape metrics (spec §4.E "Distribution
// tracker extends this with graph-connectivity metrics").
package distribution

import "github.com/mrwong99/worldforge/internal/graph"

// Targets configures the distribution tracker's expected shape, supplied by
// the engine configuration input (spec §6).
type Targets struct {
	ClusteringStrengthThreshold float64 // default 0.6

	ProminenceTargets map[graph.Prominence]float64 // overall fraction per level

	TargetMaxSingleTypeRatio float64
	MinTypesPresent          int
	TargetCategoryBalance    map[graph.Category]float64

	TargetAvgClusterSize      float64
	TargetIntraClusterDensity float64
	TargetInterClusterDensity float64
	TargetIsolatedRatio       float64

	// CorrectionWeights weigh each deviation category into the combined
	// Overall score (spec §4.E "Combine with correction-strength weights").
	CorrectionWeights struct {
		EntityKind           float64
		Prominence           float64
		RelationshipDiversity float64
		Connectivity         float64
	}
}

// ConnectivitySnapshot summarises the graph's cluster structure for one
// tick.
type ConnectivitySnapshot struct {
	Clusters            [][]string
	AvgClusterSize       float64
	IntraClusterDensity  float64
	InterClusterDensity  float64
	IsolatedNodes        []string
	IsolatedNodeRatio    float64
}

// RelationshipDiversitySnapshot summarises relationship-kind spread.
type RelationshipDiversitySnapshot struct {
	MaxSingleTypeRatio float64
	TypesPresent       int
	CategoryBalance    map[graph.Category]float64
}

// Snapshot is the full distribution-tracker output for one tick (spec
// §4.E).
type Snapshot struct {
	EntityKindDeviations map[string]float64 // key = kind or kind/subtype
	PromininenceDeviation float64
	PromininenceByKind     map[string]float64

	RelationshipDiversity         RelationshipDiversitySnapshot
	RelationshipDiversityDeviation float64

	Connectivity         ConnectivitySnapshot
	ConnectivityDeviation float64

	Overall float64
}
