package driver

import (
	"context"
	"testing"

	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/rng"
	"github.com/mrwong99/worldforge/internal/runtime"
	"github.com/mrwong99/worldforge/internal/schema"
)

type noopSystem struct{ id string }

func (s noopSystem) ID() string { return s.id }
func (s noopSystem) Apply(view graph.View, modifier float64) (runtime.ApplyResult, error) {
	return runtime.ApplyResult{}, nil
}

type noopTemplate struct{ id string }

func (t noopTemplate) ID() string { return t.id }
func (t noopTemplate) Expand(view graph.View, targets []graph.Entity) (runtime.ExpandResult, error) {
	return runtime.ExpandResult{}, nil
}

func baseDriver() *Driver {
	store := graph.New()
	domain := &schema.Domain{
		EntityKinds: map[string]schema.EntityKindDef{
			"npc": {Kind: "npc"},
		},
		RelationshipKinds: map[string]schema.RelationshipKindDef{
			schema.RelActiveDuring: {Kind: schema.RelActiveDuring},
		},
	}
	return &Driver{
		Store:     store,
		Domain:    domain,
		Templates: []runtime.GrowthTemplate{noopTemplate{id: "grow"}},
		Systems:   []runtime.SimulationSystem{noopSystem{id: "sys"}},
		Rnd:       rng.New(7),
	}
}

func TestRun_AdvancesTicksAndEpochsAcrossOneEra(t *testing.T) {
	t.Parallel()
	d := baseDriver()
	d.Config = Config{
		Eras: []EraConfig{
			{ID: "era_1", EpochLength: 2, SimulationTicksPerGrowth: 3, TemplateWeights: map[string]float64{"grow": 1}},
		},
	}

	report, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 epochs * (3 system ticks + 1 growth tick) = 8 ticks.
	if report.TotalTicks != 8 {
		t.Fatalf("expected 8 ticks, got %d", report.TotalTicks)
	}
	if report.StopReason != "all_eras_complete" {
		t.Fatalf("expected all_eras_complete, got %s", report.StopReason)
	}
	if len(report.ErasCompleted) != 1 || report.ErasCompleted[0] != "era_1" {
		t.Fatalf("expected era_1 completed, got %v", report.ErasCompleted)
	}
}

func TestRun_ArchivesNonProtectedActiveDuringOnEraTransition(t *testing.T) {
	t.Parallel()
	d := baseDriver()
	d.Store.SetEntity(graph.Entity{ID: "npc_1", Kind: "npc"})
	d.Store.SetEntity(graph.Entity{ID: "era_1", Kind: schema.KindEra})
	d.Store.AddRelationship(schema.RelActiveDuring, "npc_1", "era_1")

	d.Config = Config{
		Eras: []EraConfig{
			{ID: "era_1", EpochLength: 1, SimulationTicksPerGrowth: 1, TemplateWeights: map[string]float64{"grow": 1}},
			{ID: "era_2", EpochLength: 1, SimulationTicksPerGrowth: 1, TemplateWeights: map[string]float64{"grow": 1}},
		},
	}

	if _, err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rels := d.Store.FindRelationships(graph.RelationshipCriteria{Kind: schema.RelActiveDuring, Dst: "era_1"})
	if len(rels) != 1 {
		t.Fatalf("expected relationship to survive as historical, got %d", len(rels))
	}
	if rels[0].Status != graph.StatusHistorical {
		t.Fatalf("expected relationship archived to historical status, got %v", rels[0].Status)
	}
}

func TestRun_ProtectedRelationshipKindSurvivesEraArchival(t *testing.T) {
	t.Parallel()
	d := baseDriver()
	d.Domain.RelationshipKinds[schema.RelActiveDuring] = schema.RelationshipKindDef{
		Kind: schema.RelActiveDuring, Protected: true,
	}
	d.Store.SetEntity(graph.Entity{ID: "npc_1", Kind: "npc"})
	d.Store.SetEntity(graph.Entity{ID: "era_1", Kind: schema.KindEra})
	d.Store.AddRelationship(schema.RelActiveDuring, "npc_1", "era_1")

	d.Config = Config{
		Eras: []EraConfig{
			{ID: "era_1", EpochLength: 1, SimulationTicksPerGrowth: 1, TemplateWeights: map[string]float64{"grow": 1}},
		},
	}

	if _, err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rels := d.Store.FindRelationships(graph.RelationshipCriteria{Kind: schema.RelActiveDuring, Dst: "era_1"})
	if len(rels) != 1 || rels[0].Status == graph.StatusHistorical {
		t.Fatalf("expected protected relationship to remain active, got %+v", rels)
	}
}

func TestRun_SafetyValveHaltsRunWhenEntityCountExceedsThreshold(t *testing.T) {
	t.Parallel()
	d := baseDriver()
	for i := 0; i < 50; i++ {
		d.Store.SetEntity(graph.Entity{ID: string(rune('a' + i)), Kind: "npc"})
	}
	d.Config = Config{
		Eras: []EraConfig{
			{ID: "era_1", EpochLength: 100, SimulationTicksPerGrowth: 1, TemplateWeights: map[string]float64{"grow": 1}},
		},
		TargetEntitiesPerKind: 1,
		ScaleFactor:           1,
	}

	report, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.StopReason != "safety_valve" {
		t.Fatalf("expected safety_valve stop, got %s", report.StopReason)
	}
}

func TestRun_MaxTicksTerminatesAcrossMultipleEras(t *testing.T) {
	t.Parallel()
	d := baseDriver()
	d.Config = Config{
		Eras: []EraConfig{
			{ID: "era_1", EpochLength: 10, SimulationTicksPerGrowth: 1, TemplateWeights: map[string]float64{"grow": 1}},
			{ID: "era_2", EpochLength: 10, SimulationTicksPerGrowth: 1, TemplateWeights: map[string]float64{"grow": 1}},
		},
		MaxTicks: 3,
	}

	report, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.StopReason != "max_ticks_reached" {
		t.Fatalf("expected max_ticks_reached, got %s", report.StopReason)
	}
	if report.TotalTicks != 3 {
		t.Fatalf("expected exactly 3 ticks, got %d", report.TotalTicks)
	}
}

func TestRun_CancelledContextStopsBeforeNextTick(t *testing.T) {
	t.Parallel()
	d := baseDriver()
	d.Config = Config{
		Eras: []EraConfig{
			{ID: "era_1", EpochLength: 5, SimulationTicksPerGrowth: 1, TemplateWeights: map[string]float64{"grow": 1}},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := d.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.StopReason != "cancelled" {
		t.Fatalf("expected cancelled, got %s", report.StopReason)
	}
	if report.TotalTicks != 0 {
		t.Fatalf("expected no ticks to have run, got %d", report.TotalTicks)
	}
}
