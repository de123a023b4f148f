package config_test

import (
	"strings"
	"testing"

	"github.com/mrwong99/worldforge/internal/config"
	"github.com/mrwong99/worldforge/internal/coordgeo"
	"github.com/mrwong99/worldforge/internal/graph"
)

func TestBuild_MapsDomainAndEngine(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	built, err := config.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if built.Domain.ID != "frontier" {
		t.Errorf("domain.id: got %q", built.Domain.ID)
	}
	npc, ok := built.Domain.EntityKinds["npc"]
	if !ok {
		t.Fatal("expected npc entity kind")
	}
	if len(npc.Subtypes) != 2 {
		t.Errorf("npc subtypes: got %v", npc.Subtypes)
	}

	lineage, ok := built.Domain.RelationshipKinds["descends_from"]
	if !ok {
		t.Fatal("expected descends_from relationship kind")
	}
	if !lineage.IsLineage || lineage.DistanceRange != [2]float64{0.1, 0.4} {
		t.Errorf("descends_from: got %+v", lineage)
	}

	space, ok := built.Domain.CoordinateSpaces["geography"]
	if !ok {
		t.Fatal("expected geography coordinate space")
	}
	if space.Plane.Semantics != coordgeo.SemanticEnum {
		t.Errorf("plane semantics: got %v, want enum", space.Plane.Semantics)
	}
	if space.SectorX.Semantics != coordgeo.SemanticNumeric || space.SectorX.Max != 100 {
		t.Errorf("sector_x: got %+v", space.SectorX)
	}

	if len(built.Registries) != 1 || built.Registries[0].Kind != "npc" {
		t.Errorf("registries: got %+v", built.Registries)
	}

	if len(built.DriverConfig.Eras) != 1 || built.DriverConfig.Eras[0].ID != "founding" {
		t.Errorf("driver eras: got %+v", built.DriverConfig.Eras)
	}
	if len(built.DriverConfig.PressureRules) != 2 {
		t.Errorf("pressure rules: got %d, want 2", len(built.DriverConfig.PressureRules))
	}

	if len(built.FeedbackLoops) != 1 || built.FeedbackLoops[0].ID != "unrest_curbs_growth" {
		t.Errorf("feedback loops: got %+v", built.FeedbackLoops)
	}
	if built.FeedbackTuning.MaxTemplateWeight != 3.0 {
		t.Errorf("feedback tuning: got %+v", built.FeedbackTuning)
	}

	if len(built.PressureNames) != 2 {
		t.Errorf("pressure names: got %v", built.PressureNames)
	}
}

func TestBuild_RejectsUnknownAxisSemantics(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Domain: config.DomainConfig{
			ID: "d",
			CoordinateSpaces: []config.CoordinateSpaceConfig{
				{ID: "space", Plane: config.AxisConfig{Semantics: "quantum"}},
			},
		},
	}
	_, err := config.Build(cfg)
	if err == nil {
		t.Fatal("expected error for unknown axis semantics, got nil")
	}
}

func TestBuild_DistributionTargetsMapsProminenceKeys(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Domain: config.DomainConfig{ID: "d"},
		Engine: config.EngineConfig{
			DistributionTargets: &config.DistributionTargetsConfig{
				ProminenceTargets: map[string]float64{"renowned": 0.1},
			},
		},
	}
	built, err := config.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.DistributionTargets.ProminenceTargets[graph.Renowned] != 0.1 {
		t.Errorf("prominence targets: got %+v", built.DistributionTargets.ProminenceTargets)
	}
}

func TestBuild_DistributionTargetsRejectsUnknownProminence(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Domain: config.DomainConfig{ID: "d"},
		Engine: config.EngineConfig{
			DistributionTargets: &config.DistributionTargetsConfig{
				ProminenceTargets: map[string]float64{"legendary": 0.1},
			},
		},
	}
	_, err := config.Build(cfg)
	if err == nil {
		t.Fatal("expected error for unknown prominence level, got nil")
	}
}
