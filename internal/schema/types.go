// Package schema is the immutable domain description loaded at startup
// (spec §4.B): entity kinds, relationship kinds, cultures, coordinate
// spaces, and the pure helpers templates/systems use to interpret them.
// A Domain is constructed once (by package config's Build) and never
// mutated afterward — the
// hot-reload watcher in package config only reloads a Config and never
// touches a Domain in place (spec §5 "Shared resources... immutable after
// construction").
package schema

import (
	"github.com/mrwong99/worldforge/internal/coordgeo"
	"github.com/mrwong99/worldforge/internal/graph"
)

// Mutability classifies whether a relationship kind's attributes can change
// after creation.
type Mutability string

const (
	Immutable Mutability = "immutable"
	Mutable   Mutability = "mutable"
)

// RequiredRelRule declares that entities of a kind must carry at least one
// relationship of RelKind in Direction once fully formed (used by
// [Domain.HasRequiredRelationships]).
type RequiredRelRule struct {
	RelKind   string
	Direction graph.Direction
}

// SnapshotConfig controls what a kind exposes to the out-of-scope
// enrichment service (spec §6 "Enrichment side-channel").
type SnapshotConfig struct {
	IncludeDescription bool
	IncludeTags        bool
	MaxLoreNoteLen      int
}

// EntityKindDef is the structural definition of one entity kind (spec
// §4.B).
type EntityKindDef struct {
	Kind                  string
	Subtypes              []string
	Statuses              []string
	DefaultStatus         string
	RequiredRelationships []RequiredRelRule
	Snapshot              SnapshotConfig
}

// RelationshipKindDef is the structural definition of one relationship kind
// (spec §4.B).
type RelationshipKindDef struct {
	Kind            string
	SrcKinds        []string
	DstKinds        []string
	Mutability      Mutability
	Protected       bool
	IsLineage       bool
	DistanceRange   [2]float64 // valid only when IsLineage
	DefaultStrength *float64
	Category        graph.Category
	ConflictsWith   []string
	AllowParallel   bool // multiple relationships of this kind between the same (src,dst)
}

// LineageConfig binds an entity-kind registry to the lineage relationship it
// produces and the ancestor-finding strategy used by the contract enforcer's
// lineage pass (spec §4.D "Lineage pass").
type LineageConfig struct {
	RelationshipKind string
	DistanceRange    [2]float64
	FindAncestor     func(view graph.View, e graph.Entity) (ancestorID string, ok bool)
}

// EntityRegistry declares a population target (and optional lineage) for an
// entity (kind, subtype) pair. Registries come from the engine
// configuration input (spec §6 "entityRegistries"), not the domain schema,
// but live here because saturation (D) and population tracking (E) both
// need the same pure lookup surface the rest of this package provides.
type EntityRegistry struct {
	Kind    string
	Subtype string // empty means kind-scoped, not subtype-scoped
	Target  int
	Lineage *LineageConfig
}

// Domain is the complete, immutable domain schema (spec §4.B, §6 "Domain
// schema input").
type Domain struct {
	ID      string
	Name    string
	Version string

	EntityKinds       map[string]EntityKindDef
	RelationshipKinds map[string]RelationshipKindDef
	Cultures          []string
	CoordinateSpaces  map[string]coordgeo.SpaceConfig

	ActionDomains      []string
	PressureDomains    []string
	OccurrenceTriggers []string
	EraTransitionHooks []string

	ManifoldConfig *coordgeo.ManifoldConfig

	TagRegistry TagRegistry
}

// Framework kinds and relationships that every domain must accommodate
// (spec §4.I).
const (
	KindEra        = "era"
	KindOccurrence = "occurrence"

	RelSupersedes   = "supersedes"
	RelPartOf       = "part_of"
	RelActiveDuring = "active_during"
)
