package schema_test

import (
	"testing"

	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/schema"
)

func testDomain() schema.Domain {
	strength := 0.8
	return schema.Domain{
		EntityKinds: map[string]schema.EntityKindDef{
			"npc": {Kind: "npc", Subtypes: []string{"commoner", "noble"}, Statuses: []string{"active", "historical"}},
		},
		RelationshipKinds: map[string]schema.RelationshipKindDef{
			"ally_of": {Kind: "ally_of", DefaultStrength: &strength, Category: graph.CategorySocial, ConflictsWith: []string{"rival_of"}},
			"rival_of": {Kind: "rival_of"},
			"derived_from": {Kind: "derived_from", IsLineage: true, DistanceRange: [2]float64{0.1, 0.4}},
		},
	}
}

func TestRelationshipHelpers(t *testing.T) {
	t.Parallel()
	d := testDomain()
	if got := d.GetRelationshipStrength("ally_of"); got != 0.8 {
		t.Fatalf("GetRelationshipStrength: got %v, want 0.8", got)
	}
	if got := d.GetRelationshipStrength("unknown"); got != 0.5 {
		t.Fatalf("GetRelationshipStrength(unknown): got %v, want default 0.5", got)
	}
	lo, hi, ok := d.GetExpectedDistanceRange("derived_from")
	if !ok || lo != 0.1 || hi != 0.4 {
		t.Fatalf("GetExpectedDistanceRange: got (%v,%v,%v)", lo, hi, ok)
	}
	if _, _, ok := d.GetExpectedDistanceRange("ally_of"); ok {
		t.Fatal("GetExpectedDistanceRange: non-lineage kind should report ok=false")
	}
}

func TestCheckRelationshipConflict(t *testing.T) {
	t.Parallel()
	d := testDomain()
	conflict, with := d.CheckRelationshipConflict([]string{"rival_of"}, "ally_of")
	if !conflict || with != "rival_of" {
		t.Fatalf("expected conflict with rival_of, got (%v,%q)", conflict, with)
	}
	conflict, _ = d.CheckRelationshipConflict([]string{"derived_from"}, "ally_of")
	if conflict {
		t.Fatal("expected no conflict")
	}
}

func TestValidateEntityStructure(t *testing.T) {
	t.Parallel()
	d := testDomain()
	good := graph.Entity{ID: "n1", Kind: "npc", Subtype: "noble", Status: "active", Prominence: graph.Recognized}
	if err := d.ValidateEntityStructure(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := graph.Entity{ID: "n2", Kind: "npc", Subtype: "dragon", Status: "active", Prominence: graph.Prominence("legendary")}
	if err := d.ValidateEntityStructure(bad); err == nil {
		t.Fatal("expected validation error for bad subtype and prominence")
	}
}
