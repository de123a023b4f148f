package runtime

import (
	"testing"

	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/rng"
	"github.com/mrwong99/worldforge/internal/schema"
)

type stubTemplate struct {
	id     string
	expand func(view graph.View, targets []graph.Entity) (ExpandResult, error)
}

func (s stubTemplate) ID() string { return s.id }
func (s stubTemplate) Expand(view graph.View, targets []graph.Entity) (ExpandResult, error) {
	return s.expand(view, targets)
}

func TestRunGrowthTick_CommitsNewEntitiesAndRelationships(t *testing.T) {
	t.Parallel()
	store := graph.New()
	store.SetEntity(graph.Entity{ID: "capital", Kind: "settlement", Prominence: graph.Recognized})

	tmpl := stubTemplate{
		id: "found_settlement",
		expand: func(view graph.View, targets []graph.Entity) (ExpandResult, error) {
			return ExpandResult{
				NewEntities: []graph.Entity{{Kind: "settlement", Subtype: "village", Prominence: graph.Marginal}},
				NewRelationships: []graph.Relationship{
					{Kind: "supports", Src: "capital", Dst: "capital"},
				},
				Description: "founded a village",
			}, nil
		},
	}

	ctx := &GrowthContext{
		Store:       store,
		Domain:      &schema.Domain{},
		Templates:   []GrowthTemplate{tmpl},
		BaseWeights: map[string]float64{"found_settlement": 1},
		Rnd:         rng.New(42),
	}

	result, err := RunGrowthTick(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TemplateID != "found_settlement" {
		t.Fatalf("expected found_settlement to be chosen, got %s", result.TemplateID)
	}
	if result.EntitiesAdded != 1 {
		t.Fatalf("expected 1 new entity, got %d", result.EntitiesAdded)
	}
	if store.EntityCount() != 2 {
		t.Fatalf("expected 2 entities in store after commit, got %d", store.EntityCount())
	}
	if err := store.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated after growth tick: %v", err)
	}
}

func TestRunGrowthTick_NoEligibleTemplatesIsANoop(t *testing.T) {
	t.Parallel()
	store := graph.New()
	ctx := &GrowthContext{Store: store, Rnd: rng.New(1)}
	result, err := RunGrowthTick(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EntitiesAdded != 0 {
		t.Fatalf("expected a no-op result, got %+v", result)
	}
}
