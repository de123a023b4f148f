package distribution

import (
	"github.com/mrwong99/worldforge/internal/graph"
)

func prominenceDeviation(view graph.View, targets map[graph.Prominence]float64) (overall float64, byKind map[string]float64) {
	if len(targets) == 0 {
		return 0, nil
	}
	entities := view.Entities()
	overall = distributionDeviation(countByProminence(entities), targets, len(entities))

	byKindCounts := make(map[string]map[graph.Prominence]int)
	byKindTotal := make(map[string]int)
	for _, e := range entities {
		if byKindCounts[e.Kind] == nil {
			byKindCounts[e.Kind] = make(map[graph.Prominence]int)
		}
		byKindCounts[e.Kind][e.Prominence]++
		byKindTotal[e.Kind]++
	}
	byKind = make(map[string]float64, len(byKindCounts))
	for kind, counts := range byKindCounts {
		byKind[kind] = distributionDeviation(counts, targets, byKindTotal[kind])
	}
	return overall, byKind
}

func countByProminence(entities []graph.Entity) map[graph.Prominence]int {
	counts := make(map[graph.Prominence]int)
	for _, e := range entities {
		counts[e.Prominence]++
	}
	return counts
}

// distributionDeviation is the mean absolute difference between observed
// and target fractions across every declared bucket.
func distributionDeviation(counts map[graph.Prominence]int, targets map[graph.Prominence]float64, total int) float64 {
	if total == 0 {
		return 0
	}
	var sum float64
	for level, target := range targets {
		actual := float64(counts[level]) / float64(total)
		diff := actual - target
		if diff < 0 {
			diff = -diff
		}
		sum += diff
	}
	return sum / float64(len(targets))
}

func relationshipDiversity(view graph.View, targetMaxSingleTypeRatio float64, minTypesPresent int, targetBalance map[graph.Category]float64) (RelationshipDiversitySnapshot, float64) {
	rels := view.Relationships()
	if len(rels) == 0 {
		return RelationshipDiversitySnapshot{}, 0
	}

	byKind := make(map[string]int)
	byCategory := make(map[graph.Category]int)
	for _, r := range rels {
		byKind[r.Kind]++
		byCategory[r.Category]++
	}

	maxCount := 0
	for _, count := range byKind {
		if count > maxCount {
			maxCount = count
		}
	}
	maxRatio := float64(maxCount) / float64(len(rels))
	typesPresent := len(byKind)

	balance := make(map[graph.Category]float64, len(byCategory))
	for cat, count := range byCategory {
		balance[cat] = float64(count) / float64(len(rels))
	}

	snapshot := RelationshipDiversitySnapshot{
		MaxSingleTypeRatio: maxRatio,
		TypesPresent:       typesPresent,
		CategoryBalance:    balance,
	}

	ratioDeviation := maxRatio - targetMaxSingleTypeRatio
	if ratioDeviation < 0 {
		ratioDeviation = 0
	}
	typesDeficit := 0.0
	if typesPresent < minTypesPresent {
		typesDeficit = float64(minTypesPresent-typesPresent) / float64(minTypesPresent)
	}
	var balanceDeviation float64
	if len(targetBalance) > 0 {
		var sum float64
		for cat, target := range targetBalance {
			diff := balance[cat] - target
			if diff < 0 {
				diff = -diff
			}
			sum += diff
		}
		balanceDeviation = sum / float64(len(targetBalance))
	}

	deviation := (ratioDeviation + typesDeficit + balanceDeviation) / 3
	return snapshot, deviation
}

func connectivityDeviation(snapshot ConnectivitySnapshot, targets Targets) float64 {
	clusterDev := relDiff(snapshot.AvgClusterSize, targets.TargetAvgClusterSize)
	intraDev := relDiff(snapshot.IntraClusterDensity, targets.TargetIntraClusterDensity)
	interDev := relDiff(snapshot.InterClusterDensity, targets.TargetInterClusterDensity)
	isolatedDev := relDiff(snapshot.IsolatedNodeRatio, targets.TargetIsolatedRatio)
	return (clusterDev + intraDev + interDev + isolatedDev) / 4
}

func relDiff(actual, target float64) float64 {
	if target == 0 {
		if actual == 0 {
			return 0
		}
		return 1
	}
	diff := (actual - target) / target
	if diff < 0 {
		diff = -diff
	}
	return diff
}
