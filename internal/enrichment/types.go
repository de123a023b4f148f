// Package enrichment is the non-blocking boundary to the out-of-scope LLM
// enrichment collaborator (spec §5 "the core exposes a non-blocking
// enqueue and does not await completion"; spec §6 "Enrichment
// side-channel").
//
// The core never calls the collaborator synchronously. [Queue.Enqueue]
// hands a [Snapshot] to a background goroutine and returns immediately;
// [Queue.Drain] is called once per tick by the driver and returns whatever
// finished since the last call, without waiting on anything still in
// flight. Results are applied to the graph by [ApplyRecords], which is
// restricted to name, description, and tag fields (spec §5 "may only
// mutate name, description, and tag values, never ids, kinds, or
// structural links").
package enrichment

import "context"

// Snapshot is what one entity kind exposes to the collaborator, shaped by
// its [schema.SnapshotConfig] (spec §6 "Enrichment side-channel").
type Snapshot struct {
	EntityID    string
	Kind        string
	Subtype     string
	Name        string
	Description string
	Tags        []string
	LoreNote    string
	Tick        int
}

// Record is one enrichment result returned asynchronously by the
// collaborator (spec §6 "per-entity records with
// {entityId, kind, oldName?, newName?, description?, tags?, loreNotes?, tick}").
type Record struct {
	EntityID    string
	Kind        string
	OldName     string
	NewName     string
	Description string
	Tags        map[string]string
	LoreNotes   string
	Tick        int
}

// Collaborator is the out-of-scope enrichment service boundary. Enrich may
// take arbitrarily long or fail; the [Queue] is what keeps it from ever
// blocking a tick.
type Collaborator interface {
	Enrich(ctx context.Context, snap Snapshot) (Record, error)
}

// CollaboratorFunc adapts a plain function to a Collaborator.
type CollaboratorFunc func(ctx context.Context, snap Snapshot) (Record, error)

func (f CollaboratorFunc) Enrich(ctx context.Context, snap Snapshot) (Record, error) {
	return f(ctx, snap)
}
