// Package statscache provides the stats-only secondary cache layer. It is
// consulted before a full leaderboard refresh to cut cold-start latency and
// is never a correctness dependency: reads and writes are best-effort and
// must not block or fail the primary path.
package statscache

import (
	"context"
	"time"

	"github.com/juju/clock"

	"github.com/hanawi96/testiq-sub006/internal/domain/types"
)

// Default secondary cache configuration.
const (
	defaultTTL = 15 * time.Minute
)

// Cache stores one statistics snapshot with its own time-to-live.
type Cache interface {
	// Get returns the cached stats when present and not expired.
	Get(ctx context.Context) (types.Stats, bool)

	// Put stores stats, replacing any previous value. Failures are
	// swallowed.
	Put(ctx context.Context, stats types.Stats)

	// Clear discards the cached value.
	Clear(ctx context.Context)
}

// Option applies a configuration option to a cache implementation.
type Option func(*config)

type config struct {
	ttl time.Duration
	clk clock.Clock
}

// WithTTL sets the freshness window for cached stats.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the time source. Defaults to the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clk = clk
		}
	}
}

func newConfig(opts ...Option) config {
	cfg := config{
		ttl: defaultTTL,
		clk: clock.WallClock,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func (c config) expired(storedAt time.Time) bool {
	return c.clk.Now().Sub(storedAt) >= c.ttl
}
