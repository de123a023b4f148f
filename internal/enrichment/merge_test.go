package enrichment_test

import (
	"testing"

	"github.com/mrwong99/worldforge/internal/enrichment"
	"github.com/mrwong99/worldforge/internal/graph"
)

func newStoreWithEntities(t *testing.T, entities ...graph.Entity) *graph.Store {
	t.Helper()
	store := graph.New()
	for _, e := range entities {
		store.SetEntity(e)
	}
	return store
}

func TestApplyRecords_AppliesNameDescriptionTags(t *testing.T) {
	t.Parallel()
	store := newStoreWithEntities(t, graph.Entity{ID: "e1", Kind: "npc", Name: "Old Name"})

	result := enrichment.ApplyRecords(store, []enrichment.Record{
		{EntityID: "e1", NewName: "New Name", Description: "a weary trader", Tags: map[string]string{"role": "trader"}},
	})

	if len(result.Applied) != 1 || result.Applied[0] != "e1" {
		t.Fatalf("expected e1 applied, got %+v", result)
	}
	entity, _ := store.GetEntity("e1")
	if entity.Name != "New Name" || entity.Description != "a weary trader" {
		t.Fatalf("unexpected entity state: %+v", entity)
	}
	if entity.Tags["role"].Label != "trader" {
		t.Fatalf("expected role tag, got %+v", entity.Tags)
	}
}

func TestApplyRecords_RejectsNameCollision(t *testing.T) {
	t.Parallel()
	store := newStoreWithEntities(t,
		graph.Entity{ID: "e1", Kind: "npc", Name: "Smith"},
		graph.Entity{ID: "e2", Kind: "npc", Name: "Original"},
	)

	result := enrichment.ApplyRecords(store, []enrichment.Record{
		{EntityID: "e2", NewName: "Smyth"},
	})

	if len(result.Rejected) != 1 || result.Rejected[0] != "e2" {
		t.Fatalf("expected e2 rejected for name collision, got %+v", result)
	}
	entity, _ := store.GetEntity("e2")
	if entity.Name != "Original" {
		t.Fatalf("expected name left unchanged after collision, got %q", entity.Name)
	}
}

func TestApplyRecords_UnknownEntityIsSkipped(t *testing.T) {
	t.Parallel()
	store := newStoreWithEntities(t, graph.Entity{ID: "e1", Kind: "npc", Name: "Alice"})

	result := enrichment.ApplyRecords(store, []enrichment.Record{
		{EntityID: "missing", NewName: "Whoever"},
	})
	if len(result.Applied) != 0 || len(result.Rejected) != 0 {
		t.Fatalf("expected no effect for unknown entity, got %+v", result)
	}
}
