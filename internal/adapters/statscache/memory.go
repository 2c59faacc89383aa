package statscache

import (
	"context"
	"sync"
	"time"

	"github.com/hanawi96/testiq-sub006/internal/domain/types"
)

// Memory implements Cache in process memory.
type Memory struct {
	cfg config

	mu       sync.RWMutex
	stats    types.Stats
	storedAt time.Time
	present  bool
}

// NewMemory creates an in-memory stats cache with configuration options.
func NewMemory(opts ...Option) *Memory {
	return &Memory{cfg: newConfig(opts...)}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context) (types.Stats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.present || m.cfg.expired(m.storedAt) {
		return types.Stats{}, false
	}
	return m.stats, true
}

// Put implements Cache.
func (m *Memory) Put(_ context.Context, stats types.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats = stats
	m.storedAt = m.cfg.clk.Now()
	m.present = true
}

// Clear implements Cache.
func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats = types.Stats{}
	m.present = false
}
