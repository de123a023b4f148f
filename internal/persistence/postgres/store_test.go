package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/persistence"
	"github.com/mrwong99/worldforge/internal/persistence/postgres"
)

// testDSN returns the test database DSN from the environment, or skips the
// test if WORLDFORGE_TEST_POSTGRES_DSN is not set.
func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("WORLDFORGE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("WORLDFORGE_TEST_POSTGRES_DSN not set — skipping PostgreSQL integration tests")
	}
	return dsn
}

func TestStore_PersistRoundTrip(t *testing.T) {
	t.Parallel()
	dsn := testDSN(t)
	ctx := context.Background()

	store, err := postgres.NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(store.Close)

	snap := persistence.GraphSnapshot{
		Entities: []graph.Entity{
			{ID: "e1", Kind: "npc", Name: "Smith", Prominence: graph.Recognized},
		},
		Relationships: []graph.Relationship{
			{Kind: "lives_in", Src: "e1", Dst: "settlement-1", Strength: 0.7, Status: graph.StatusActive},
		},
		History:   []graph.HistoryEntry{{Kind: graph.HistoryGrowth, Tick: 1, TemplateID: "found_settlement"}},
		Pressures: map[string]float64{"unrest": 0.2},
	}

	if err := store.Persist(ctx, "test-run", snap); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	// Persisting the same snapshot again must not fail (idempotent upserts).
	if err := store.Persist(ctx, "test-run", snap); err != nil {
		t.Fatalf("second Persist: %v", err)
	}
}
