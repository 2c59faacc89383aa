package ingest

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/hanawi96/testiq-sub006/pkg/logger"
	"github.com/hanawi96/testiq-sub006/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Inserter writes one raw result record to durable storage.
type Inserter interface {
	Insert(ctx context.Context, rec Record) (string, error)
}

// Source defines how workers receive records.
type Source interface {
	Dequeue(ctx context.Context) <-chan Record
}

// Worker drains records off the queue and writes them to the store.
type Worker struct {
	source   Source
	inserter Inserter
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewWorker creates a new worker with configuration options.
func NewWorker(source Source, inserter Inserter, opts ...WorkerOption) *Worker {
	w := &Worker{
		source:   source,
		inserter: inserter,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("ingest"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	recordChan := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case rec, ok := <-recordChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processRecord(ctx, rec); err != nil {
				w.logger.Error(ctx, "error storing result", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processRecord writes a single record to the store.
func (w *Worker) processRecord(ctx context.Context, rec Record) error {
	start := time.Now()
	id, err := w.inserter.Insert(ctx, rec)
	metrics.RecordInsertDuration(time.Since(start).Seconds())

	if err != nil {
		metrics.RecordInsertFailure()
		metrics.RecordErrorByComponent("ingest", "insert_error")
		return fmt.Errorf("failed to store result for %q: %w", rec.IdentityKey, err)
	}

	metrics.RecordResultInserted()
	w.logger.Debug(ctx, "result stored",
		logger.String("id", id),
		logger.Int("score", rec.Score),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*Worker
	source   Source
	inserter Inserter

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, source Source, inserter Inserter) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*Worker, workerCount),
		source:   source,
		inserter: inserter,
		logger:   logger.Get().Named("ingest-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(
			source,
			inserter,
			WithWorkerName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateIngestWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Shutdown gracefully shuts down the entire worker pool. The queue is closed
// first so workers drain every record already accepted before they stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateIngestWorkerCount(0)

	return nil
}
