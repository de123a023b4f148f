// Package postgres implements [persistence.Sink] on top of PostgreSQL with
// the pgvector extension, grounded on the same pgxpool + pgvector pattern
// pkg/memory/postgres uses for its L2 semantic index: a single connection
// pool, pgvector types registered via AfterConnect, and idempotent
// CREATE-IF-NOT-EXISTS migrations run on every start.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/mrwong99/worldforge/internal/coordgeo"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/persistence"
)

// Compile-time assertion.
var _ persistence.Sink = (*Store)(nil)

// Store is a PostgreSQL-backed [persistence.Sink]. All operations are
// scoped to a run id so one database can hold the output of many runs.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore opens a connection pool to dsn, registers pgvector types on
// every connection, and runs [Migrate].
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("persistence/postgres: parse dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("persistence/postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("persistence/postgres: ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("persistence/postgres: migrate: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases all connections held by the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Persist implements [persistence.Sink]. It writes entities, relationships,
// history, pressures, and per-space normalized coordinates inside a single
// transaction keyed by runID.
func (s *Store) Persist(ctx context.Context, runID string, snap persistence.GraphSnapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("persistence/postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := persistEntities(ctx, tx, runID, snap.Entities); err != nil {
		return err
	}
	if err := persistRelationships(ctx, tx, runID, snap.Relationships); err != nil {
		return err
	}
	if err := persistHistory(ctx, tx, runID, snap.History); err != nil {
		return err
	}
	if err := persistPressures(ctx, tx, runID, snap.Pressures); err != nil {
		return err
	}
	if err := persistCoordinates(ctx, tx, runID, snap.Entities, snap.CoordinateSpaces); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("persistence/postgres: commit tx: %w", err)
	}
	return nil
}

func persistEntities(ctx context.Context, tx pgx.Tx, runID string, entities []graph.Entity) error {
	const q = `
		INSERT INTO worldgen_entities
		    (run_id, id, kind, subtype, name, description, status, prominence, culture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (run_id, id) DO UPDATE SET
		    kind = EXCLUDED.kind, subtype = EXCLUDED.subtype, name = EXCLUDED.name,
		    description = EXCLUDED.description, status = EXCLUDED.status,
		    prominence = EXCLUDED.prominence, culture = EXCLUDED.culture,
		    updated_at = EXCLUDED.updated_at`

	for _, e := range entities {
		if _, err := tx.Exec(ctx, q, runID, e.ID, e.Kind, e.Subtype, e.Name, e.Description,
			e.Status, string(e.Prominence), e.Culture, e.CreatedAt, e.UpdatedAt); err != nil {
			return fmt.Errorf("persistence/postgres: insert entity %q: %w", e.ID, err)
		}
	}
	return nil
}

func persistRelationships(ctx context.Context, tx pgx.Tx, runID string, rels []graph.Relationship) error {
	const q = `
		INSERT INTO worldgen_relationships (run_id, kind, src, dst, strength, category, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id, kind, src, dst) DO UPDATE SET
		    strength = EXCLUDED.strength, category = EXCLUDED.category,
		    status = EXCLUDED.status`

	for _, r := range rels {
		if _, err := tx.Exec(ctx, q, runID, r.Kind, r.Src, r.Dst, r.Strength,
			string(r.Category), string(r.Status), r.CreatedAt); err != nil {
			return fmt.Errorf("persistence/postgres: insert relationship %s/%s->%s: %w", r.Kind, r.Src, r.Dst, err)
		}
	}
	return nil
}

func persistHistory(ctx context.Context, tx pgx.Tx, runID string, history []graph.HistoryEntry) error {
	const q = `INSERT INTO worldgen_history (run_id, kind, tick, payload) VALUES ($1, $2, $3, $4)`
	for _, h := range history {
		payload, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("persistence/postgres: marshal history entry: %w", err)
		}
		if _, err := tx.Exec(ctx, q, runID, string(h.Kind), h.Tick, payload); err != nil {
			return fmt.Errorf("persistence/postgres: insert history entry: %w", err)
		}
	}
	return nil
}

func persistPressures(ctx context.Context, tx pgx.Tx, runID string, pressures map[string]float64) error {
	const q = `
		INSERT INTO worldgen_pressures (run_id, name, value) VALUES ($1, $2, $3)
		ON CONFLICT (run_id, name) DO UPDATE SET value = EXCLUDED.value`
	for name, value := range pressures {
		if _, err := tx.Exec(ctx, q, runID, name, value); err != nil {
			return fmt.Errorf("persistence/postgres: insert pressure %q: %w", name, err)
		}
	}
	return nil
}

func persistCoordinates(ctx context.Context, tx pgx.Tx, runID string, entities []graph.Entity, spaces map[string]coordgeo.SpaceConfig) error {
	if len(spaces) == 0 {
		return nil
	}
	const q = `
		INSERT INTO worldgen_coordinates (run_id, entity_id, space_id, vector) VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id, entity_id, space_id) DO UPDATE SET vector = EXCLUDED.vector`

	for _, e := range entities {
		for spaceID, coord := range e.Coordinates {
			space, ok := spaces[spaceID]
			if !ok {
				continue
			}
			v6 := coordgeo.NormalizeCoordinate(coord, space)
			vec := pgvector.NewVector(v6[:])
			if _, err := tx.Exec(ctx, q, runID, e.ID, spaceID, vec); err != nil {
				return fmt.Errorf("persistence/postgres: insert coordinate %s/%s: %w", e.ID, spaceID, err)
			}
		}
	}
	return nil
}

// NearestEntities returns the ids of the k entities in space spaceID whose
// normalized coordinates are closest (Euclidean distance) to query, for the
// given run.
func (s *Store) NearestEntities(ctx context.Context, runID, spaceID string, query coordgeo.Vector6, k int) ([]string, error) {
	const q = `
		SELECT entity_id FROM worldgen_coordinates
		WHERE run_id = $1 AND space_id = $2
		ORDER BY vector <-> $3
		LIMIT $4`

	rows, err := s.pool.Query(ctx, q, runID, spaceID, pgvector.NewVector(query[:]), k)
	if err != nil {
		return nil, fmt.Errorf("persistence/postgres: nearest entities: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("persistence/postgres: scan nearest entities: %w", err)
	}
	return ids, nil
}
