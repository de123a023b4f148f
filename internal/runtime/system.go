package runtime

import (
	"fmt"

	"github.com/mrwong99/worldforge/internal/contract"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/schema"
)

const (
	minSystemModifier = 0.2
	maxSystemModifier = 2.0
)

// SystemContext bundles one system tick's inputs (spec §4.G "System
// tick").
type SystemContext struct {
	Store  *graph.Store
	Domain *schema.Domain

	EraSystemModifiers map[string]float64 // keyed by system id
	Feedback           WeightSource
}

// SystemTickResult summarises one system's firing for the history log.
type SystemTickResult struct {
	SystemID            string
	RelationshipsAdded   int
	EntitiesModified     int
	PressureChanges      map[string]float64
	Warnings             []string
	Description          string
	Skipped              bool
	SkipReason           string
}

// RunSystemTick runs every system in order (spec §4.G "System tick" steps
// 1-3): compute each system's clamped modifier, invoke Apply, and commit
// the result respecting relationship-conflict and no-duplicate-triple
// rules.
func RunSystemTick(ctx *SystemContext, systems []SimulationSystem) ([]SystemTickResult, error) {
	view := graph.NewView(ctx.Store)
	results := make([]SystemTickResult, 0, len(systems))

	for _, sys := range systems {
		if contracted, ok := sys.(Contracted); ok {
			if gate := contract.CheckEnabledBy(view, ctx.Store.CurrentEra(), contracted.EnabledBy()); !gate.Allowed {
				results = append(results, SystemTickResult{SystemID: sys.ID(), Skipped: true, SkipReason: gate.Reason})
				continue
			}
		}

		base := ctx.EraSystemModifiers[sys.ID()]
		if base <= 0 {
			base = 1
		}
		scale := 1.0
		if ctx.Feedback != nil {
			scale = ctx.Feedback.SystemModifier(sys.ID())
		}
		modifier := clampModifier(base * scale)

		applied, err := sys.Apply(view, modifier)
		if err != nil {
			return nil, fmt.Errorf("runtime: system %q apply: %w", sys.ID(), err)
		}

		result := SystemTickResult{SystemID: sys.ID(), PressureChanges: applied.PressureChanges, Description: applied.Description}
		createdRelByKind := make(map[string]int)
		for _, r := range applied.RelationshipsAdded {
			if commitRelationship(ctx.Store, ctx.Domain, r) {
				result.RelationshipsAdded++
				createdRelByKind[r.Kind]++
			}
		}
		for id, changes := range applied.EntityModifications {
			if ctx.Store.UpdateEntity(id, changes) {
				result.EntitiesModified++
			}
		}
		for name, delta := range applied.PressureChanges {
			ctx.Store.SetPressure(name, ctx.Store.Pressure(name)+delta)
		}

		if contracted, ok := sys.(Contracted); ok {
			result.Warnings = contract.ValidateAffects(contracted.Affects(), nil, createdRelByKind, applied.PressureChanges)
		}

		ctx.Store.AppendHistory(graph.HistoryEntry{
			Kind:        graph.HistorySystemFire,
			SystemID:    sys.ID(),
			RelsAdded:   result.RelationshipsAdded,
			Description: result.Description,
		})
		for _, w := range result.Warnings {
			ctx.Store.AppendHistory(graph.HistoryEntry{Kind: graph.HistoryContractWarning, SystemID: sys.ID(), Warning: w})
		}

		results = append(results, result)
		view = graph.NewView(ctx.Store)
	}

	return results, nil
}

func clampModifier(v float64) float64 {
	if v < minSystemModifier {
		return minSystemModifier
	}
	if v > maxSystemModifier {
		return maxSystemModifier
	}
	return v
}
