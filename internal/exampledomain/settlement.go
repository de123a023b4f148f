// Package exampledomain is a minimal reference domain demonstrating the
// engine end to end: a settlement template that founds one inhabitant with
// every settlement, and a migration system that nudges an "unrest"
// pressure. cmd/worldgen-run always registers it.
package exampledomain

import (
	"fmt"

	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/runtime"
)

// FoundSettlement creates one new settlement per firing, together with a
// founding inhabitant linked to it by "lives_in".
type FoundSettlement struct{}

func (FoundSettlement) ID() string { return "found_settlement" }

func (FoundSettlement) Expand(view graph.View, _ []graph.Entity) (runtime.ExpandResult, error) {
	tick := view.Tick()
	settlementName := fmt.Sprintf("Settlement %d", tick)
	settlementID := fmt.Sprintf("settlement-%d", tick)
	npcID := fmt.Sprintf("npc-founder-%d", tick)

	settlement := graph.Entity{
		ID:         settlementID,
		Kind:       "settlement",
		Subtype:    "village",
		Name:       settlementName,
		Prominence: graph.Recognized,
	}

	npc := graph.Entity{
		ID:         npcID,
		Kind:       "npc",
		Subtype:    "founder",
		Name:       fmt.Sprintf("Founder of %s", settlementName),
		Prominence: graph.Marginal,
	}

	return runtime.ExpandResult{
		NewEntities: []graph.Entity{settlement, npc},
		NewRelationships: []graph.Relationship{
			{Kind: "lives_in", Src: npcID, Dst: settlementID, Category: graph.CategorySocial, Status: graph.StatusActive},
		},
		Description: "founded " + settlementName,
	}, nil
}

// Migration is a simulation system that relieves "unrest" slightly every
// time it fires, representing settlers dispersing pressure outward.
type Migration struct{}

func (Migration) ID() string { return "migration" }

func (Migration) Apply(view graph.View, modifier float64) (runtime.ApplyResult, error) {
	current := view.Pressure("unrest")
	relief := -0.01 * modifier
	if current <= 0 {
		relief = 0
	}
	return runtime.ApplyResult{
		PressureChanges: map[string]float64{"unrest": relief},
		Description:     "migration relieved unrest",
	}, nil
}
