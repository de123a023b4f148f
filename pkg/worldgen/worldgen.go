// Package worldgen is the public facade over the procedural
// world-generation engine, for callers that embed the simulation rather
// than running cmd/worldgen-run directly. It re-exports the internal
// engine's core types and the handful of constructor functions an embedder
// needs: load and build a configuration, register template/system
// implementations, construct a [Driver], and run it.
package worldgen

import (
	"context"

	"github.com/mrwong99/worldforge/internal/config"
	"github.com/mrwong99/worldforge/internal/driver"
	"github.com/mrwong99/worldforge/internal/enrichment"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/persistence"
	"github.com/mrwong99/worldforge/internal/runtime"
	"github.com/mrwong99/worldforge/internal/schema"
)

type (
	// Driver drives a simulation run era by era. See [driver.Driver].
	Driver = driver.Driver
	// DriverConfig is the engine configuration a Driver runs under.
	DriverConfig = driver.Config
	// Report is a run's final account. See [driver.Report].
	Report = driver.Report

	// Config is the root YAML configuration structure. See [config.Config].
	Config = config.Config
	// Built holds the engine-ready types a Config maps to. See [config.Built].
	Built = config.Built
	// Registry binds string ids to template/system implementations.
	Registry = config.Registry

	// Domain is the immutable domain schema. See [schema.Domain].
	Domain = schema.Domain
	// Entity is one graph record. See [graph.Entity].
	Entity = graph.Entity
	// Relationship is one graph edge. See [graph.Relationship].
	Relationship = graph.Relationship
	// Store is the graph's sole authority. See [graph.Store].
	Store = graph.Store

	// GrowthTemplate expands targets into new graph content each growth tick.
	GrowthTemplate = runtime.GrowthTemplate
	// SimulationSystem fires between growth ticks.
	SimulationSystem = runtime.SimulationSystem

	// EnrichmentQueue is the non-blocking boundary to the out-of-scope
	// enrichment collaborator. See [enrichment.Queue].
	EnrichmentQueue = enrichment.Queue
	// EnrichmentCollaborator implements out-of-scope enrichment.
	EnrichmentCollaborator = enrichment.Collaborator
	// EnrichmentRecord is one asynchronous enrichment result.
	EnrichmentRecord = enrichment.Record
	// EnrichmentSnapshot is what one entity exposes to the collaborator.
	EnrichmentSnapshot = enrichment.Snapshot

	// GraphSnapshot is the persisted graph output at run end.
	GraphSnapshot = persistence.GraphSnapshot
	// PersistenceSink durably stores a GraphSnapshot.
	PersistenceSink = persistence.Sink
)

// LoadConfig loads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// BuildConfig maps a loaded Config into engine-ready types.
func BuildConfig(cfg *Config) (*Built, error) { return config.Build(cfg) }

// NewRegistry constructs an empty template/system registry.
func NewRegistry() *Registry { return config.NewRegistry() }

// NewEnrichmentQueue constructs a non-blocking enrichment queue backed by
// collaborator. A nil collaborator yields a Queue whose Enqueue is a no-op.
func NewEnrichmentQueue(ctx context.Context, collaborator EnrichmentCollaborator) *EnrichmentQueue {
	return enrichment.NewQueue(ctx, collaborator)
}

// ApplyEnrichment merges a batch of enrichment records into store's
// entities, honoring the name-collision safe-merge rule.
func ApplyEnrichment(store *Store, records []EnrichmentRecord) enrichment.MergeResult {
	return enrichment.ApplyRecords(store, records)
}
