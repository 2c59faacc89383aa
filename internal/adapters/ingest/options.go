package ingest

import (
	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

// QueueOption applies a configuration option to the InMemoryQueue.
type QueueOption func(*InMemoryQueue)

// WithQueueCapacity sets the maximum capacity of the queue.
func WithQueueCapacity(capacity int) QueueOption {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WorkerOption applies a configuration option to the Worker.
type WorkerOption func(*Worker)

// WithWorkerName sets the worker name for identification and logging.
func WithWorkerName(name string) WorkerOption {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithWorkerLogger sets a custom logger for the worker.
func WithWorkerLogger(log logger.Logger) WorkerOption {
	return func(w *Worker) {
		if log != nil {
			w.logger = log
		}
	}
}
