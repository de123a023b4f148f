package population

import (
	"testing"

	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/schema"
)

func TestNewTracker_InitialisesZeroEntriesForDeclaredKinds(t *testing.T) {
	t.Parallel()
	tr := NewTracker([]schema.EntityRegistry{{Kind: "settlement", Subtype: "village", Target: 5}}, nil, nil, 4)
	m, ok := tr.EntityMetric("settlement", "village")
	if !ok {
		t.Fatal("expected a zero-initialised entry before any entity exists")
	}
	if m.Value != 0 || m.Target != 5 {
		t.Fatalf("expected Value=0 Target=5, got %+v", m)
	}
}

func TestTracker_Update_ComputesDeviationAndTrend(t *testing.T) {
	t.Parallel()
	tr := NewTracker([]schema.EntityRegistry{{Kind: "settlement", Subtype: "village", Target: 2}}, nil, nil, 3)

	store := graph.New()
	store.SetEntity(graph.Entity{ID: "a", Kind: "settlement", Subtype: "village"})
	tr.Update(graph.NewView(store))
	m, _ := tr.EntityMetric("settlement", "village")
	if m.Value != 1 {
		t.Fatalf("expected Value=1 after first entity, got %f", m.Value)
	}
	if m.Deviation != -0.5 {
		t.Fatalf("expected deviation -0.5 (1 of 2 target), got %f", m.Deviation)
	}

	store.SetEntity(graph.Entity{ID: "b", Kind: "settlement", Subtype: "village"})
	tr.Update(graph.NewView(store))
	m, _ = tr.EntityMetric("settlement", "village")
	if m.Value != 2 || m.Deviation != 0 {
		t.Fatalf("expected Value=2 Deviation=0 at target, got %+v", m)
	}
	if m.Trend <= 0 {
		t.Fatalf("expected positive trend after a growth step, got %f", m.Trend)
	}
}

func TestTracker_Overpopulated_UnderpopulatedSplit(t *testing.T) {
	t.Parallel()
	tr := NewTracker([]schema.EntityRegistry{
		{Kind: "settlement", Subtype: "village", Target: 10},
		{Kind: "settlement", Subtype: "city", Target: 2},
	}, nil, nil, 3)

	store := graph.New()
	for i := 0; i < 8; i++ {
		store.SetEntity(graph.Entity{ID: "city" + string(rune('a'+i)), Kind: "settlement", Subtype: "city"})
	}
	tr.Update(graph.NewView(store))

	over := tr.Overpopulated(0.3)
	under := tr.Underpopulated(0.3)
	if len(over) != 1 || over[0] != "settlement/city" {
		t.Fatalf("expected settlement/city overpopulated, got %v", over)
	}
	if len(under) != 1 || under[0] != "settlement/village" {
		t.Fatalf("expected settlement/village underpopulated, got %v", under)
	}
}
