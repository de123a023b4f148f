package enrichment

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// defaultResultBuffer is how many completed records can wait for Drain
// before finished jobs block on a full channel (Enqueue itself never
// blocks). Sized generously since
// a single growth tick rarely enqueues more than a handful of entities.
const defaultResultBuffer = 256

// Queue is the non-blocking enqueue/drain boundary between the driver's
// tick loop and the out-of-scope enrichment [Collaborator] (spec §5, §9
// "Model as a queue drained between ticks").
//
// The zero value is not usable; construct with [NewQueue]. A Queue is safe
// for concurrent use: Enqueue may be called from the tick loop while Drain
// runs between ticks on the same goroutine.
type Queue struct {
	collaborator Collaborator
	results      chan Record

	group    *errgroup.Group
	groupCtx context.Context

	mu      sync.Mutex
	pending int
}

// NewQueue constructs a Queue backed by collaborator. The returned Queue's
// background jobs are cancelled when ctx is cancelled; call [Queue.Close]
// when the driver run ends to wait for outstanding jobs to unwind.
func NewQueue(ctx context.Context, collaborator Collaborator) *Queue {
	group, groupCtx := errgroup.WithContext(ctx)
	return &Queue{
		collaborator: collaborator,
		results:      make(chan Record, defaultResultBuffer),
		group:        group,
		groupCtx:     groupCtx,
	}
}

// Enqueue submits snap for enrichment and returns immediately without
// awaiting completion (spec §5 "non-blocking enqueue"). A nil Queue is a
// valid no-op, so callers running without a collaborator configured don't
// need a nil check at every call site.
func (q *Queue) Enqueue(snap Snapshot) {
	if q == nil || q.collaborator == nil {
		return
	}

	q.mu.Lock()
	q.pending++
	q.mu.Unlock()

	q.group.Go(func() error {
		defer func() {
			q.mu.Lock()
			q.pending--
			q.mu.Unlock()
		}()

		rec, err := q.collaborator.Enrich(q.groupCtx, snap)
		if err != nil {
			// Enrichment is best-effort: a failed job is dropped, never
			// propagated as a tick failure (spec §5 "asynchronous side
			// channel").
			return nil
		}
		select {
		case q.results <- rec:
		case <-q.groupCtx.Done():
		}
		return nil
	})
}

// Drain returns every Record that has completed since the last call,
// without blocking on jobs still in flight (spec §9 "queue drained
// between ticks").
func (q *Queue) Drain() []Record {
	if q == nil {
		return nil
	}
	var out []Record
	for {
		select {
		case rec := <-q.results:
			out = append(out, rec)
		default:
			return out
		}
	}
}

// Pending reports how many enrichment jobs are currently in flight.
func (q *Queue) Pending() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// Close waits for all in-flight jobs to finish (or for ctx cancellation to
// unwind them) and drains any records they produced in the meantime.
func (q *Queue) Close() []Record {
	if q == nil {
		return nil
	}
	_ = q.group.Wait()
	return q.Drain()
}
