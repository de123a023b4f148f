package distribution

import (
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/population"
)

const defaultClusteringStrengthThreshold = 0.6

// Tracker wraps a [population.Tracker] with the graph-connectivity and
// shape metrics from spec §4.E. Population metrics remain available via
// the Population field; Snapshot is this package's own addition.
type Tracker struct {
	Population *population.Tracker
	targets    Targets
}

// NewTracker constructs a Tracker delegating entity/relationship/pressure
// bookkeeping to pop.
func NewTracker(pop *population.Tracker, targets Targets) *Tracker {
	if targets.ClusteringStrengthThreshold <= 0 {
		targets.ClusteringStrengthThreshold = defaultClusteringStrengthThreshold
	}
	return &Tracker{Population: pop, targets: targets}
}

// Update refreshes the population metrics and recomputes this tick's
// distribution snapshot.
func (t *Tracker) Update(view graph.View) Snapshot {
	t.Population.Update(view)

	entityDeviations := make(map[string]float64)
	for key, m := range t.Population.AllEntityMetrics() {
		entityDeviations[key] = m.Deviation
	}

	prominenceOverall, prominenceByKind := prominenceDeviation(view, t.targets.ProminenceTargets)
	relDiversitySnapshot, relDiversityDeviation := relationshipDiversity(
		view, t.targets.TargetMaxSingleTypeRatio, t.targets.MinTypesPresent, t.targets.TargetCategoryBalance)
	connectivity := computeClusters(view, t.targets.ClusteringStrengthThreshold)
	connDeviation := connectivityDeviation(connectivity, t.targets)

	w := t.targets.CorrectionWeights
	totalWeight := w.EntityKind + w.Prominence + w.RelationshipDiversity + w.Connectivity
	entityKindDeviation := meanAbs(entityDeviations)

	var overall float64
	if totalWeight > 0 {
		overall = (w.EntityKind*entityKindDeviation +
			w.Prominence*prominenceOverall +
			w.RelationshipDiversity*relDiversityDeviation +
			w.Connectivity*connDeviation) / totalWeight
	}

	return Snapshot{
		EntityKindDeviations:           entityDeviations,
		PromininenceDeviation:          prominenceOverall,
		PromininenceByKind:             prominenceByKind,
		RelationshipDiversity:          relDiversitySnapshot,
		RelationshipDiversityDeviation: relDiversityDeviation,
		Connectivity:                   connectivity,
		ConnectivityDeviation:          connDeviation,
		Overall:                        overall,
	}
}

func meanAbs(values map[string]float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum / float64(len(values))
}
