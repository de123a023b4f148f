// Package runtime implements the template and system runtime (spec §4.G):
// the growth-tick and system-tick pipelines that drive a GrowthTemplate or
// SimulationSystem against the graph each tick.
//
// GrowthTemplate and SimulationSystem only declare their required methods;
// every other capability (canApply, findTargets, contract, metadata) is an
// optional interface the pipeline probes for with a type assertion, the
// same way the standard library layers io.ReaderFrom/io.WriterTo onto
// io.Reader/io.Writer. A template or system that doesn't implement an
// optional interface is treated as "always applies" / "no declared
// contract".
package runtime

import (
	"github.com/mrwong99/worldforge/internal/contract"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/placement"
	"github.com/mrwong99/worldforge/internal/targeting"
)

// ExpandResult is what a GrowthTemplate produces for one growth tick (spec
// §4.G).
type ExpandResult struct {
	NewEntities      []graph.Entity
	NewRelationships []graph.Relationship
	Description      string
}

// GrowthTemplate is the required surface every growth template implements.
type GrowthTemplate interface {
	ID() string
	Expand(view graph.View, targets []graph.Entity) (ExpandResult, error)
}

// CanApplier is the optional "canApply(view) -> bool" capability.
type CanApplier interface {
	CanApply(view graph.View) bool
}

// TargetFinder is the optional "findTargets(view) -> Target[]" capability.
// It returns selection criteria, not resolved entities: the pipeline runs
// each criteria through the anti-hub selector (package targeting) itself,
// so every template's target resolution shares one diversity tracker and
// factory-fallback policy (a documented resolution of the spec's "findTargets
// Target[] opaque shape" open question — see DESIGN.md).
type TargetFinder interface {
	FindTargets(view graph.View) []targeting.SelectionCriteria
}

// Contracted is the optional contract-declaring capability shared by
// templates and systems.
type Contracted interface {
	EnabledBy() *contract.EnabledBy
	Affects() *contract.Affects
}

// Produces is the optional "metadata.produces" capability.
type Produces interface {
	ProducedKinds() []contract.ProducedKind
}

// PlacementDeclarer is the optional per-kind placement-scheme capability
// used when a new entity carries no coordinates (spec §4.G step 3).
type PlacementDeclarer interface {
	PlacementScheme(entityKind string) (placement.Scheme, bool)
}

// ApplyResult is what a SimulationSystem produces for one system tick (spec
// §4.G).
type ApplyResult struct {
	RelationshipsAdded  []graph.Relationship
	EntityModifications map[string]graph.EntityChanges
	PressureChanges      map[string]float64
	Description           string
}

// SimulationSystem is the required surface every system implements.
type SimulationSystem interface {
	ID() string
	Apply(view graph.View, modifier float64) (ApplyResult, error)
}
