package enrichment_test

import (
	"context"
	"testing"
	"time"

	"github.com/mrwong99/worldforge/internal/enrichment"
)

func TestQueue_EnqueueDrainRoundTrip(t *testing.T) {
	t.Parallel()
	collaborator := enrichment.CollaboratorFunc(func(_ context.Context, snap enrichment.Snapshot) (enrichment.Record, error) {
		return enrichment.Record{EntityID: snap.EntityID, NewName: "enriched-" + snap.Name}, nil
	})

	q := enrichment.NewQueue(context.Background(), collaborator)
	q.Enqueue(enrichment.Snapshot{EntityID: "e1", Name: "Alice"})

	var records []enrichment.Record
	deadline := time.Now().Add(2 * time.Second)
	for len(records) == 0 && time.Now().Before(deadline) {
		records = q.Drain()
		if len(records) == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
	if len(records) != 1 || records[0].NewName != "enriched-Alice" {
		t.Fatalf("expected one enriched record, got %+v", records)
	}
}

func TestQueue_EnqueueIsNonBlockingUnderErrors(t *testing.T) {
	t.Parallel()
	collaborator := enrichment.CollaboratorFunc(func(_ context.Context, _ enrichment.Snapshot) (enrichment.Record, error) {
		return enrichment.Record{}, errAlwaysFails
	})
	q := enrichment.NewQueue(context.Background(), collaborator)
	q.Enqueue(enrichment.Snapshot{EntityID: "e1"})

	records := q.Close()
	if len(records) != 0 {
		t.Fatalf("expected dropped job to produce no records, got %+v", records)
	}
}

func TestQueue_NilQueueIsNoop(t *testing.T) {
	t.Parallel()
	var q *enrichment.Queue
	q.Enqueue(enrichment.Snapshot{EntityID: "e1"})
	if got := q.Drain(); got != nil {
		t.Fatalf("expected nil drain from nil queue, got %v", got)
	}
	if got := q.Pending(); got != 0 {
		t.Fatalf("expected 0 pending from nil queue, got %d", got)
	}
}

var errAlwaysFails = &testError{"always fails"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
