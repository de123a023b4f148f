// Package driver implements the simulation driver (spec §4.H): the
// era/epoch/tick state machine that alternates system ticks and growth
// ticks, updates pressures, transitions eras, and enforces the safety
// valve and termination conditions.
package driver

import "github.com/mrwong99/worldforge/internal/graph"

// PressureRule declares how one process-wide pressure evolves each epoch:
// GrowthFunc computes the raw growth contribution from the current graph
// state, then DecayRate erodes a fraction of the pressure's current value
// (spec §4.H "update pressures (growth(graph) − decay)").
type PressureRule struct {
	Name       string
	GrowthFunc func(view graph.View) float64
	DecayRate  float64
}

// EraConfig is one era's place in the timeline and its base modifiers
// (spec §4.H, §4.F "current era's base modifiers").
type EraConfig struct {
	ID                       string
	EpochLength              int
	SimulationTicksPerGrowth int
	TemplateWeights          map[string]float64 // era weight, per template id
	SystemModifiers          map[string]float64 // per system id
}

// Config is the full driver configuration (spec §6 "Engine configuration
// input").
type Config struct {
	Eras                  []EraConfig
	MaxTicks              int
	ScaleFactor           float64
	TargetEntitiesPerKind int
	PressureRules         []PressureRule
}
