// Package contract implements the growth-template contract enforcer (spec
// §4.D): applicability gating, saturation checks, the lineage pass, advisory
// affects validation, and tag enforcement. It has no knowledge of templates
// or systems themselves (package runtime owns those) — it only evaluates
// the declarative contract a template or system attaches to itself.
package contract

import "github.com/mrwong99/worldforge/internal/graph"

// PressureRequirement gates on a process-wide pressure meeting a threshold.
type PressureRequirement struct {
	Name      string
	Threshold float64
}

// EntityCountRequirement gates on (or validates) the population of an
// entity (kind, subtype) pair. Subtype empty means kind-scoped.
type EntityCountRequirement struct {
	Kind    string
	Subtype string
	Min     int
	Max     *int // nil means unbounded
}

// RelationshipCountRequirement is EntityCountRequirement's relationship
// analogue, used only in Affects (spec §4.D "realised created counts...
// against declared contract.affects").
type RelationshipCountRequirement struct {
	Kind string
	Min  int
	Max  *int
}

// PressureDeltaRequirement declares the expected sign of a pressure's change
// over one growth tick; Sign is +1 or -1.
type PressureDeltaRequirement struct {
	Name string
	Sign int
}

// EnabledBy is a GrowthTemplate's or SimulationSystem's applicability gate
// (spec §4.D "Applicability gating"). All declared conditions AND together;
// a nil *EnabledBy always passes.
type EnabledBy struct {
	Pressures    []PressureRequirement
	EntityCounts []EntityCountRequirement
	Eras         []string // whitelist; empty means any era
	Predicate    func(graph.View) bool
}

// GateResult is the outcome of [CheckEnabledBy].
type GateResult struct {
	Allowed bool
	Reason  string
}

// ProducedKind names one entity (kind, subtype) a template's metadata
// declares it may produce (spec §4.D "metadata.produces.entityKinds").
type ProducedKind struct {
	Kind    string
	Subtype string
}

// Affects is a template's or system's advisory self-declaration of its
// expected impact, checked after the fact by [ValidateAffects].
type Affects struct {
	Entities       []EntityCountRequirement
	Relationships  []RelationshipCountRequirement
	PressureDeltas []PressureDeltaRequirement
}
