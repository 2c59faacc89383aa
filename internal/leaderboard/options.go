// Package leaderboard implements the cached ranking and statistics engine.
package leaderboard

import (
	"time"

	"github.com/juju/clock"

	"github.com/hanawi96/testiq-sub006/internal/adapters/statscache"
	"github.com/hanawi96/testiq-sub006/internal/domain/dedupe"
	"github.com/hanawi96/testiq-sub006/internal/domain/ranking"
	"github.com/hanawi96/testiq-sub006/internal/domain/stats"
	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithTTL sets the snapshot freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithDefaultPageSize sets the page size used when a request omits one.
func WithDefaultPageSize(size int) Option {
	return func(c *Cache) {
		if size > 0 {
			c.defaultPageSize = size
		}
	}
}

// WithMaxPageSize caps the page size a request may ask for.
func WithMaxPageSize(size int) Option {
	return func(c *Cache) {
		if size > 0 {
			c.maxPageSize = size
		}
	}
}

// WithWindowRadius sets how many neighbors each side of a participant the
// local window returns.
func WithWindowRadius(radius int) Option {
	return func(c *Cache) {
		if radius > 0 {
			c.windowRadius = radius
		}
	}
}

// WithRefreshInterval enables the background warm loop. Each tick refreshes
// the snapshot once the TTL has lapsed, so readers rarely pay for a refresh.
// Zero disables the loop.
func WithRefreshInterval(interval time.Duration) Option {
	return func(c *Cache) {
		if interval > 0 {
			c.refreshInterval = interval
		}
	}
}

// WithSecondaryCache attaches the stats-only secondary cache layer.
func WithSecondaryCache(cache statscache.Cache) Option {
	return func(c *Cache) {
		c.secondary = cache
	}
}

// WithClock injects the time source. Defaults to the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(c *Cache) {
		if clk != nil {
			c.clk = clk
		}
	}
}

// WithDeduper replaces the default max-score deduper.
func WithDeduper(d dedupe.Deduper) Option {
	return func(c *Cache) {
		if d != nil {
			c.deduper = d
		}
	}
}

// WithRanker replaces the default descending ranker.
func WithRanker(r ranking.Ranker) Option {
	return func(c *Cache) {
		if r != nil {
			c.ranker = r
		}
	}
}

// WithCalculator replaces the default statistics calculator.
func WithCalculator(calc stats.Calculator) Option {
	return func(c *Cache) {
		if calc != nil {
			c.calculator = calc
		}
	}
}

// WithLogger sets the logger for cache operations.
func WithLogger(log logger.Logger) Option {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}
