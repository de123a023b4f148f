package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ddlEntities stores one row per entity, keyed by its run id so the same
// database can hold more than one simulation's output.
const ddlEntities = `
CREATE TABLE IF NOT EXISTS worldgen_entities (
    run_id      TEXT         NOT NULL,
    id          TEXT         NOT NULL,
    kind        TEXT         NOT NULL,
    subtype     TEXT         NOT NULL DEFAULT '',
    name        TEXT         NOT NULL DEFAULT '',
    description TEXT         NOT NULL DEFAULT '',
    status      TEXT         NOT NULL DEFAULT '',
    prominence  TEXT         NOT NULL DEFAULT '',
    culture     TEXT         NOT NULL DEFAULT '',
    created_at  INT          NOT NULL DEFAULT 0,
    updated_at  INT          NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, id)
);

CREATE INDEX IF NOT EXISTS idx_worldgen_entities_kind ON worldgen_entities (run_id, kind);
`

const ddlRelationships = `
CREATE TABLE IF NOT EXISTS worldgen_relationships (
    run_id      TEXT         NOT NULL,
    kind        TEXT         NOT NULL,
    src         TEXT         NOT NULL,
    dst         TEXT         NOT NULL,
    strength    DOUBLE PRECISION NOT NULL DEFAULT 0.5,
    category    TEXT         NOT NULL DEFAULT '',
    status      TEXT         NOT NULL DEFAULT '',
    created_at  INT          NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, kind, src, dst)
);

CREATE INDEX IF NOT EXISTS idx_worldgen_rel_src ON worldgen_relationships (run_id, src);
CREATE INDEX IF NOT EXISTS idx_worldgen_rel_dst ON worldgen_relationships (run_id, dst);
`

const ddlHistory = `
CREATE TABLE IF NOT EXISTS worldgen_history (
    run_id      TEXT         NOT NULL,
    seq         BIGSERIAL    NOT NULL,
    kind        TEXT         NOT NULL,
    tick        INT          NOT NULL,
    payload     JSONB        NOT NULL DEFAULT '{}',
    PRIMARY KEY (run_id, seq)
);
`

const ddlPressures = `
CREATE TABLE IF NOT EXISTS worldgen_pressures (
    run_id      TEXT             NOT NULL,
    name        TEXT             NOT NULL,
    value       DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (run_id, name)
);
`

// ddlCoordinates stores every entity's position in every coordinate space
// as a normalized 6-D vector (coordgeo.Vector6), enabling nearest-neighbour
// queries per space via pgvector's HNSW index.
const ddlCoordinates = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS worldgen_coordinates (
    run_id      TEXT      NOT NULL,
    entity_id   TEXT      NOT NULL,
    space_id    TEXT      NOT NULL,
    vector      vector(6) NOT NULL,
    PRIMARY KEY (run_id, entity_id, space_id)
);

CREATE INDEX IF NOT EXISTS idx_worldgen_coordinates_hnsw
    ON worldgen_coordinates USING hnsw (vector vector_l2_ops);
`

// Migrate creates or ensures all required tables and extensions exist. It
// is idempotent and safe to call on every application start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{ddlEntities, ddlRelationships, ddlHistory, ddlPressures, ddlCoordinates}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("persistence/postgres: migrate: %w", err)
		}
	}
	return nil
}
