// Package persistence defines the "persisted graph output" boundary (spec
// §9 "entities, relationships, full pressure timeline, full history log,
// and the final era/tick counters... serialisation format is
// implementation-choice").
//
// The core's driver owns the graph for the lifetime of a run and never
// talks to a database directly; a [Sink] is handed the final (or
// periodic) [GraphSnapshot] by the caller, e.g. cmd/worldgen-run, after
// [driver.Driver.Run] returns.
package persistence

import (
	"context"

	"github.com/mrwong99/worldforge/internal/coordgeo"
	"github.com/mrwong99/worldforge/internal/graph"
)

// GraphSnapshot is the in-memory representation of a run's full output,
// carried verbatim into whatever a Sink chooses to do with it.
type GraphSnapshot struct {
	Entities      []graph.Entity
	Relationships []graph.Relationship
	Pressures     map[string]float64
	History       []graph.HistoryEntry

	FinalTick  int
	FinalEpoch int
	FinalEra   string

	// CoordinateSpaces lets a Sink normalize each entity's coordinates into
	// a fixed 6-D vector (coordgeo.NormalizeCoordinate) for nearest-neighbour
	// storage; keyed by coordinate space id.
	CoordinateSpaces map[string]coordgeo.SpaceConfig
}

// Sink persists one GraphSnapshot under runID. Persist should be
// idempotent per run: callers may retry on transient failure.
type Sink interface {
	Persist(ctx context.Context, runID string, snap GraphSnapshot) error
}
