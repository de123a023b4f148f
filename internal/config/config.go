// Package config provides the YAML configuration schema, loader, and
// hot-reload diffing for the simulation engine's two formal configuration
// boundaries (spec §6): the domain schema input and the engine
// configuration input.
//
// Templates and systems themselves are Go code, not data — this package
// only carries the parts of §6 that are pure configuration (entity/
// relationship kind declarations, coordinate spaces, entity registries,
// pressures, eras, feedback loops, distribution targets, and the seed).
// cmd/worldgen-run binds template/system implementations to the IDs this
// config references.
package config

// Config is the root configuration structure: the domain schema input plus
// the engine configuration input (spec §6).
type Config struct {
	Domain DomainConfig `yaml:"domain"`
	Engine EngineConfig `yaml:"engine"`
}

// DomainConfig is the domain schema input (spec §6 "Domain schema input").
type DomainConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	EntityKinds       []EntityKindConfig       `yaml:"entity_kinds"`
	RelationshipKinds []RelationshipKindConfig `yaml:"relationship_kinds"`
	Cultures          []string                 `yaml:"cultures"`
	CoordinateSpaces  []CoordinateSpaceConfig  `yaml:"coordinate_spaces"`

	ActionDomains      []string `yaml:"action_domains"`
	PressureDomains    []string `yaml:"pressure_domains"`
	OccurrenceTriggers []string `yaml:"occurrence_triggers"`
	EraTransitionHooks []string `yaml:"era_transition_hooks"`
}

// EntityKindConfig declares one entity kind (spec §4.B).
type EntityKindConfig struct {
	Kind          string   `yaml:"kind"`
	Subtypes      []string `yaml:"subtypes"`
	Statuses      []string `yaml:"statuses"`
	DefaultStatus string   `yaml:"default_status"`

	SnapshotIncludeDescription bool `yaml:"snapshot_include_description"`
	SnapshotIncludeTags        bool `yaml:"snapshot_include_tags"`
	SnapshotMaxLoreNoteLen     int  `yaml:"snapshot_max_lore_note_len"`
}

// RelationshipKindConfig declares one relationship kind (spec §4.B).
type RelationshipKindConfig struct {
	Kind            string     `yaml:"kind"`
	SrcKinds        []string   `yaml:"src_kinds"`
	DstKinds        []string   `yaml:"dst_kinds"`
	Mutability      string     `yaml:"mutability"` // "immutable" | "mutable"
	Protected       bool       `yaml:"protected"`
	IsLineage       bool       `yaml:"is_lineage"`
	DistanceRange   [2]float64 `yaml:"distance_range"`
	DefaultStrength *float64   `yaml:"default_strength"`
	Category        string     `yaml:"category"`
	ConflictsWith   []string   `yaml:"conflicts_with"`
	AllowParallel   bool       `yaml:"allow_parallel"`
}

// CoordinateSpaceConfig declares one coordinate space (spec §3.3, §4.B).
type CoordinateSpaceConfig struct {
	ID                   string                    `yaml:"id"`
	Plane                AxisConfig                `yaml:"plane"`
	SectorX              AxisConfig                `yaml:"sector_x"`
	SectorY              AxisConfig                `yaml:"sector_y"`
	CellX                AxisConfig                `yaml:"cell_x"`
	CellY                AxisConfig                `yaml:"cell_y"`
	ZBand                AxisConfig                `yaml:"z_band"`
	CrossPlaneMultiplier map[string]float64        `yaml:"cross_plane_multiplier"`
	DefaultsByKind       map[string]CoordinateDefault `yaml:"defaults_by_kind"`
}

// AxisConfig declares one coordinate axis's semantics and range (spec
// §3.3 "per-axis semantics").
type AxisConfig struct {
	Semantics  string             `yaml:"semantics"` // "numeric" | "enum" | "hierarchical"
	Min        float64            `yaml:"min"`
	Max        float64            `yaml:"max"`
	EnumValues map[string]float64 `yaml:"enum_values"`
	MaxDepth   int                `yaml:"max_depth"`
	DefaultNum float64            `yaml:"default_num"`
	DefaultEnum string            `yaml:"default_enum"`
	DefaultDepth int              `yaml:"default_depth"`
	Weight     float64            `yaml:"weight"`
}

// CoordinateDefault is one entity kind's default coordinate in a space,
// expressed as raw axis values matching each axis's declared semantics.
type CoordinateDefault struct {
	Plane   string  `yaml:"plane"`
	SectorX float64 `yaml:"sector_x"`
	SectorY float64 `yaml:"sector_y"`
	CellX   float64 `yaml:"cell_x"`
	CellY   float64 `yaml:"cell_y"`
	ZBand   string  `yaml:"z_band"`
}

// EngineConfig is the engine configuration input (spec §6 "Engine
// configuration input"), minus the template/system bindings which are Go
// code wired by the caller.
type EngineConfig struct {
	EntityRegistries []EntityRegistryConfig `yaml:"entity_registries"`
	Pressures        []string               `yaml:"pressures"`
	Eras             []EraConfig            `yaml:"eras"`

	EpochLength              int     `yaml:"epoch_length"`
	SimulationTicksPerGrowth int     `yaml:"simulation_ticks_per_growth"`
	TargetEntitiesPerKind    int     `yaml:"target_entities_per_kind"`
	MaxTicks                 int     `yaml:"max_ticks"`
	ScaleFactor              float64 `yaml:"scale_factor"`
	Seed                     uint64  `yaml:"seed"`

	FeedbackLoops  []FeedbackLoopConfig `yaml:"feedback_loops"`
	FeedbackTuning FeedbackTuningConfig `yaml:"feedback_tuning"`

	DistributionTargets *DistributionTargetsConfig `yaml:"distribution_targets"`
}

// EntityRegistryConfig declares a population target for an entity (kind,
// subtype) pair (spec §6 "entityRegistries").
type EntityRegistryConfig struct {
	Kind    string              `yaml:"kind"`
	Subtype string              `yaml:"subtype"`
	Target  int                 `yaml:"target"`
	Lineage *LineageConfigYAML  `yaml:"lineage"`
}

// LineageConfigYAML declares the lineage relationship an entity registry
// produces. FindAncestor is not configurable from YAML — it is bound in Go
// by the caller after [Build].
type LineageConfigYAML struct {
	RelationshipKind string     `yaml:"relationship_kind"`
	DistanceRange    [2]float64 `yaml:"distance_range"`
}

// EraConfig is one era's place in the timeline (spec §6 "eras").
type EraConfig struct {
	ID                       string             `yaml:"id"`
	EpochLength              int                `yaml:"epoch_length"`
	SimulationTicksPerGrowth int                `yaml:"simulation_ticks_per_growth"`
	TemplateWeights          map[string]float64 `yaml:"template_weights"`
	SystemModifiers          map[string]float64 `yaml:"system_modifiers"`
}

// FeedbackLoopConfig declares one feedback loop as data (spec §4.F
// "Feedback loops declared as data, not code").
type FeedbackLoopConfig struct {
	ID       string  `yaml:"id"`
	Type     string  `yaml:"type"` // "positive" | "negative"
	Source   string  `yaml:"source"`
	Target   string  `yaml:"target"`
	Strength float64 `yaml:"strength"`
	Delay    int     `yaml:"delay"`
}

// FeedbackTuningConfig bounds the feedback controller's clamped outputs
// (spec §4.F).
type FeedbackTuningConfig struct {
	CorrectionStrength float64 `yaml:"correction_strength"`
	MinTemplateWeight  float64 `yaml:"min_template_weight"`
	MaxTemplateWeight  float64 `yaml:"max_template_weight"`
}

// DistributionTargetsConfig configures the distribution tracker's expected
// shape (spec §4.E, §6 "distributionTargets").
type DistributionTargetsConfig struct {
	ClusteringStrengthThreshold float64            `yaml:"clustering_strength_threshold"`
	ProminenceTargets           map[string]float64 `yaml:"prominence_targets"`
	TargetMaxSingleTypeRatio    float64            `yaml:"target_max_single_type_ratio"`
	MinTypesPresent             int                `yaml:"min_types_present"`
	TargetCategoryBalance        map[string]float64 `yaml:"target_category_balance"`
	TargetAvgClusterSize         float64            `yaml:"target_avg_cluster_size"`
	TargetIntraClusterDensity    float64            `yaml:"target_intra_cluster_density"`
	TargetInterClusterDensity    float64            `yaml:"target_inter_cluster_density"`
	TargetIsolatedRatio          float64            `yaml:"target_isolated_ratio"`

	CorrectionWeights struct {
		EntityKind            float64 `yaml:"entity_kind"`
		Prominence            float64 `yaml:"prominence"`
		RelationshipDiversity float64 `yaml:"relationship_diversity"`
		Connectivity          float64 `yaml:"connectivity"`
	} `yaml:"correction_weights"`
}
