package resultstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
)

// MemoryOption applies a configuration option to the in-memory store.
type MemoryOption func(*Memory)

// WithRecords seeds the store with an initial record set.
func WithRecords(records []model.TestResultRecord) MemoryOption {
	return func(m *Memory) {
		m.records = append(m.records, records...)
	}
}

// Memory implements Store over a mutex-guarded slice. It backs tests,
// seeding, and single-node deployments without a database.
type Memory struct {
	mu      sync.RWMutex
	records []model.TestResultRecord
	failErr error
	closed  bool
}

// NewMemory creates an in-memory store with configuration options.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// FetchAll implements Store. Records are returned in insertion order, which
// keeps dedup tie-breaking stable across refreshes.
func (m *Memory) FetchAll(ctx context.Context) ([]model.TestResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.failErr != nil {
		return nil, m.failErr
	}

	out := make([]model.TestResultRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Insert implements Store.
func (m *Memory) Insert(ctx context.Context, rec model.TestResultRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", ErrClosed
	}
	if m.failErr != nil {
		return "", m.failErr
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.records = append(m.records, rec)
	return rec.ID, nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// FailWith makes subsequent calls fail with err until cleared with nil.
// Used to exercise degradation paths.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}
