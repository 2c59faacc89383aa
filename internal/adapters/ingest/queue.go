// Package ingest accepts submitted test results and writes them to the raw
// result store asynchronously.
//
// Submissions pass through a bounded in-memory queue consumed by a worker
// pool. Accepted records become visible to leaderboard readers on the next
// snapshot refresh or explicit invalidation; the pipeline never touches the
// cache directly.
package ingest

import (
	"context"
	"sync"

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
	"github.com/hanawi96/testiq-sub006/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 4096
)

// Record is the payload type flowing through the queue.
type Record = model.TestResultRecord

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a record to the queue. It returns ErrQueueFull when the
	// queue is saturated and ErrQueueClosed after Close.
	Enqueue(ctx context.Context, rec Record) error

	// Dequeue returns a channel that receives records as they become
	// available. The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Record

	// Len returns the current number of queued records.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, no new records
	// can be enqueued; already queued records still reach consumers.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	records  chan Record
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...QueueOption) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	q.records = make(chan Record, q.capacity)

	// Initialize metrics
	metrics.UpdateIngestQueueCapacity(q.capacity)
	metrics.UpdateIngestQueueDepth(0)

	return q
}

// Enqueue adds a record to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, rec Record) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordResultDropped()
		metrics.RecordErrorByComponent("ingest", "queue_closed")
		return ErrQueueClosed
	}

	select {
	case q.records <- rec:
		metrics.RecordResultEnqueued()
		metrics.UpdateIngestQueueDepth(len(q.records))
		return nil
	case <-ctx.Done():
		metrics.RecordResultDropped()
		metrics.RecordErrorByComponent("ingest", "context_cancelled")
		return ctx.Err()
	default:
		metrics.RecordResultDropped()
		metrics.RecordErrorByComponent("ingest", "queue_full")
		return ErrQueueFull
	}
}

// Dequeue returns a channel that receives records as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Record {
	// Wrap the channel to track queue depth as records drain
	out := make(chan Record)
	go func() {
		defer close(out)
		for rec := range q.records {
			select {
			case out <- rec:
				metrics.UpdateIngestQueueDepth(len(q.records))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued records.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.records)
	metrics.UpdateIngestQueueDepth(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Close the records channel to signal consumers to stop once drained
	close(q.records)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
