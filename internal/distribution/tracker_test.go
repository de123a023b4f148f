package distribution

import (
	"testing"

	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/population"
	"github.com/mrwong99/worldforge/internal/schema"
)

func buildClusteredStore() *graph.Store {
	s := graph.New()
	for _, id := range []string{"a", "b", "c", "isolated"} {
		s.SetEntity(graph.Entity{ID: id, Kind: "npc", Prominence: graph.Marginal})
	}
	s.AddRelationship("allied_with", "a", "b", graph.WithStrength(0.9))
	s.AddRelationship("allied_with", "b", "c", graph.WithStrength(0.9))
	return s
}

func TestComputeClusters_FindsConnectedComponentsAndIsolatedNodes(t *testing.T) {
	t.Parallel()
	store := buildClusteredStore()
	snapshot := computeClusters(graph.NewView(store), 0.6)

	if len(snapshot.Clusters) != 2 {
		t.Fatalf("expected 2 clusters (abc + isolated), got %d", len(snapshot.Clusters))
	}
	if len(snapshot.IsolatedNodes) != 1 || snapshot.IsolatedNodes[0] != "isolated" {
		t.Fatalf("expected isolated node 'isolated', got %v", snapshot.IsolatedNodes)
	}
	if snapshot.IsolatedNodeRatio != 0.25 {
		t.Fatalf("expected isolated ratio 0.25, got %f", snapshot.IsolatedNodeRatio)
	}
}

func TestComputeClusters_WeakTiesExcludedFromStrongAdjacency(t *testing.T) {
	t.Parallel()
	store := graph.New()
	store.SetEntity(graph.Entity{ID: "x", Kind: "npc"})
	store.SetEntity(graph.Entity{ID: "y", Kind: "npc"})
	store.AddRelationship("knows", "x", "y", graph.WithStrength(0.2))

	snapshot := computeClusters(graph.NewView(store), 0.6)
	if len(snapshot.Clusters) != 2 {
		t.Fatalf("expected a weak tie to leave x and y in separate clusters, got %d clusters", len(snapshot.Clusters))
	}
}

func TestTracker_Update_ProducesOverallScore(t *testing.T) {
	t.Parallel()
	pop := population.NewTracker([]schema.EntityRegistry{{Kind: "npc", Target: 4}}, []string{"allied_with"}, nil, 5)
	targets := Targets{
		TargetMaxSingleTypeRatio: 0.5,
		MinTypesPresent:          1,
	}
	targets.CorrectionWeights.EntityKind = 1
	targets.CorrectionWeights.Connectivity = 1

	tr := NewTracker(pop, targets)
	store := buildClusteredStore()
	snapshot := tr.Update(graph.NewView(store))

	if snapshot.Connectivity.AvgClusterSize <= 0 {
		t.Fatal("expected a positive average cluster size")
	}
	if snapshot.Overall < 0 {
		t.Fatalf("expected a non-negative overall score, got %f", snapshot.Overall)
	}
}
