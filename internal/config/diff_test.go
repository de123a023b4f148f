package config_test

import (
	"testing"

	"github.com/mrwong99/worldforge/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Domain: config.DomainConfig{
			ID: "d",
			EntityKinds: []config.EntityKindConfig{
				{Kind: "npc", Subtypes: []string{"villager"}, Statuses: []string{"alive"}},
			},
			RelationshipKinds: []config.RelationshipKindConfig{
				{Kind: "lives_in", SrcKinds: []string{"npc"}, DstKinds: []string{"settlement"}},
			},
			CoordinateSpaces: []config.CoordinateSpaceConfig{
				{ID: "geography"},
			},
		},
		Engine: config.EngineConfig{
			Pressures: []string{"unrest"},
			Eras:      []config.EraConfig{{ID: "founding", EpochLength: 4}},
		},
	}
}

func TestDiffConfigs_NoChanges(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	d := config.DiffConfigs(cfg, cfg)
	if d.Changed() {
		t.Errorf("expected no changes, got %+v", d)
	}
}

func TestDiffConfigs_EntityKindAdded(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domain.EntityKinds = append(new.Domain.EntityKinds, config.EntityKindConfig{
		Kind: "settlement", Subtypes: []string{"village"}, Statuses: []string{"active"},
	})

	d := config.DiffConfigs(old, new)
	if len(d.EntityKindsAdded) != 1 || d.EntityKindsAdded[0] != "settlement" {
		t.Errorf("expected settlement added, got %+v", d.EntityKindsAdded)
	}
}

func TestDiffConfigs_EntityKindRemoved(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domain.EntityKinds = nil

	d := config.DiffConfigs(old, new)
	if len(d.EntityKindsRemoved) != 1 || d.EntityKindsRemoved[0] != "npc" {
		t.Errorf("expected npc removed, got %+v", d.EntityKindsRemoved)
	}
}

func TestDiffConfigs_EntityKindChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domain.EntityKinds[0].Statuses = []string{"alive", "dead"}

	d := config.DiffConfigs(old, new)
	if len(d.EntityKindsChanged) != 1 || d.EntityKindsChanged[0] != "npc" {
		t.Errorf("expected npc changed, got %+v", d.EntityKindsChanged)
	}
}

func TestDiffConfigs_RelationshipKindChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domain.RelationshipKinds[0].Protected = true

	d := config.DiffConfigs(old, new)
	if len(d.RelKindsChanged) != 1 || d.RelKindsChanged[0] != "lives_in" {
		t.Errorf("expected lives_in changed, got %+v", d.RelKindsChanged)
	}
}

func TestDiffConfigs_CoordinateSpaceAddedAndRemoved(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domain.CoordinateSpaces = []config.CoordinateSpaceConfig{{ID: "economy"}}

	d := config.DiffConfigs(old, new)
	if len(d.CoordinateSpacesRemoved) != 1 || d.CoordinateSpacesRemoved[0] != "geography" {
		t.Errorf("expected geography removed, got %+v", d.CoordinateSpacesRemoved)
	}
	if len(d.CoordinateSpacesAdded) != 1 || d.CoordinateSpacesAdded[0] != "economy" {
		t.Errorf("expected economy added, got %+v", d.CoordinateSpacesAdded)
	}
}

func TestDiffConfigs_ErasChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Engine.Eras[0].EpochLength = 8

	d := config.DiffConfigs(old, new)
	if !d.ErasChanged {
		t.Error("expected ErasChanged=true")
	}
}

func TestDiffConfigs_PressuresChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Engine.Pressures = []string{"unrest", "scarcity"}

	d := config.DiffConfigs(old, new)
	if !d.PressuresChanged {
		t.Error("expected PressuresChanged=true")
	}
}

func TestDiffConfigs_FeedbackLoopsChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Engine.FeedbackLoops = []config.FeedbackLoopConfig{{ID: "loop1", Strength: 0.5}}

	d := config.DiffConfigs(old, new)
	if !d.FeedbackLoopsChanged {
		t.Error("expected FeedbackLoopsChanged=true")
	}
}
