// Package leaderboard implements the cached ranking and statistics engine.
//
// One Cache instance owns the refresh pipeline raw store -> dedupe -> rank ->
// stats and publishes each result as an immutable snapshot. All reads are
// served from the published snapshot; a refresh builds a complete replacement
// before a single atomic pointer store makes it visible, so readers observe
// either the old state or the new one, never a partial update.
package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/clock"

	"github.com/hanawi96/testiq-sub006/internal/adapters/statscache"
	"github.com/hanawi96/testiq-sub006/internal/domain/dedupe"
	"github.com/hanawi96/testiq-sub006/internal/domain/model"
	"github.com/hanawi96/testiq-sub006/internal/domain/ranking"
	"github.com/hanawi96/testiq-sub006/internal/domain/stats"
	"github.com/hanawi96/testiq-sub006/internal/domain/types"
	"github.com/hanawi96/testiq-sub006/pkg/logger"
	"github.com/hanawi96/testiq-sub006/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultTTL          = 5 * time.Minute
	defaultPageSize     = 20
	defaultMaxPageSize  = 100
	defaultWindowRadius = 5
)

// RawResultStore supplies the full raw record collection on demand. No
// ordering guarantee is required; dedup tie-breaking follows whatever order
// the store delivers.
type RawResultStore interface {
	FetchAll(ctx context.Context) ([]model.TestResultRecord, error)
}

// Snapshot is one immutable refresh result. Fields are never mutated after
// publication.
type Snapshot struct {
	Entries   []types.Entry
	Stats     types.Stats
	RawCount  int
	CreatedAt time.Time

	// subject id and identity key -> index into Entries
	indexByIdentity map[string]int
}

// Page is one paginated leaderboard view.
type Page struct {
	Entries     []types.Entry `json:"entries"`
	Stats       types.Stats   `json:"stats"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	PageSize    int           `json:"pageSize"`
}

// Window is the bounded neighborhood around one participant.
type Window struct {
	SelfRank          int           `json:"selfRank"`
	SelfEntry         types.Entry   `json:"selfEntry"`
	Window            []types.Entry `json:"window"`
	TotalParticipants int           `json:"totalParticipants"`
}

// flight is one in-progress refresh shared by every caller that found the
// snapshot stale while it ran.
type flight struct {
	done chan struct{}
	snap *Snapshot
	err  error
}

// Cache holds the last computed snapshot and refreshes it from the raw store
// when stale or absent.
type Cache struct {
	store      RawResultStore
	secondary  statscache.Cache
	deduper    dedupe.Deduper
	ranker     ranking.Ranker
	calculator stats.Calculator

	ttl             time.Duration
	defaultPageSize int
	maxPageSize     int
	windowRadius    int
	refreshInterval time.Duration
	clk             clock.Clock
	log             logger.Logger

	snapshot atomic.Pointer[Snapshot]

	mu       sync.Mutex // guards inflight
	inflight *flight

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// New constructs a leaderboard cache over store with configuration options.
// The background warm loop, when enabled, runs until ctx is cancelled or
// Close is called.
func New(ctx context.Context, store RawResultStore, opts ...Option) *Cache {
	c := &Cache{
		store:           store,
		deduper:         dedupe.NewMaxScoreDeduper(),
		ranker:          ranking.NewDescendingRanker(),
		calculator:      stats.NewCalculator(),
		ttl:             defaultTTL,
		defaultPageSize: defaultPageSize,
		maxPageSize:     defaultMaxPageSize,
		windowRadius:    defaultWindowRadius,
		clk:             clock.WallClock,
		log:             logger.Get().Named("leaderboard"),
		stopChan:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.refreshInterval > 0 {
		c.startRefreshLoop(ctx)
	}

	return c
}

// Page returns one leaderboard page plus the current stats, refreshing the
// snapshot first when it is absent or expired. Out-of-range pages come back
// with empty entries and a correct TotalPages, never an error.
func (c *Cache) Page(ctx context.Context, page, size int) (Page, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return Page{}, err
	}

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = c.defaultPageSize
	}
	if size > c.maxPageSize {
		size = c.maxPageSize
	}

	total := len(snap.Entries)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	entries := []types.Entry{}
	if start < total {
		end := start + size
		if end > total {
			end = total
		}
		entries = make([]types.Entry, end-start)
		copy(entries, snap.Entries[start:end])
	}

	return Page{
		Entries:     entries,
		Stats:       snap.Stats,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    size,
	}, nil
}

// Stats returns the current statistics snapshot. A fresh primary snapshot
// wins; otherwise a non-expired secondary value is served before a full
// refresh is triggered.
func (c *Cache) Stats(ctx context.Context) (types.Stats, error) {
	if snap := c.snapshot.Load(); snap != nil && !c.expired(snap) {
		metrics.RecordCacheHit()
		return snap.Stats, nil
	}

	if c.secondary != nil {
		if cached, ok := c.secondary.Get(ctx); ok {
			metrics.RecordStatsCacheHit()
			return cached, nil
		}
		metrics.RecordStatsCacheMiss()
	}

	metrics.RecordCacheMiss()
	snap, err := c.refresh(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	return snap.Stats, nil
}

// Window returns the neighborhood of ranked entries around one participant,
// looked up by subject id or identity key. Freshness rules match Page.
func (c *Cache) Window(ctx context.Context, identity string) (Window, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return Window{}, err
	}

	idx, ok := snap.indexByIdentity[identity]
	if !ok {
		metrics.RecordIdentityMiss()
		return Window{}, ErrIdentityNotFound
	}

	lo := idx - c.windowRadius
	if lo < 0 {
		lo = 0
	}
	hi := idx + c.windowRadius + 1
	if hi > len(snap.Entries) {
		hi = len(snap.Entries)
	}

	window := make([]types.Entry, hi-lo)
	copy(window, snap.Entries[lo:hi])

	return Window{
		SelfRank:          snap.Entries[idx].Rank,
		SelfEntry:         snap.Entries[idx],
		Window:            window,
		TotalParticipants: len(snap.Entries),
	}, nil
}

// Invalidate drops the published snapshot so the next read refreshes
// unconditionally, and clears the secondary stats cache. An in-flight
// refresh that started before the invalidation will not publish its result.
func (c *Cache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.inflight = nil
	c.snapshot.Store(nil)
	c.mu.Unlock()

	if c.secondary != nil {
		c.secondary.Clear(ctx)
	}

	metrics.RecordInvalidation()
	c.log.Info(ctx, "leaderboard cache invalidated")
}

// Preload eagerly warms the cache. Failures are logged and swallowed; a
// cold start without the raw store is an optimization miss, not an error.
func (c *Cache) Preload(ctx context.Context) {
	if snap := c.snapshot.Load(); snap != nil && !c.expired(snap) {
		return
	}
	if _, err := c.refresh(ctx); err != nil {
		c.log.Warn(ctx, "leaderboard preload failed", logger.Error(err))
	}
}

// Close stops the background warm loop and waits for any in-flight refresh.
func (c *Cache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
	return nil
}

// current returns a snapshot suitable for serving reads, refreshing first
// when the published one is absent or expired.
func (c *Cache) current(ctx context.Context) (*Snapshot, error) {
	if snap := c.snapshot.Load(); snap != nil && !c.expired(snap) {
		metrics.RecordCacheHit()
		return snap, nil
	}
	metrics.RecordCacheMiss()
	return c.refresh(ctx)
}

func (c *Cache) expired(snap *Snapshot) bool {
	return c.clk.Now().Sub(snap.CreatedAt) >= c.ttl
}

// refresh runs the rebuild pipeline at most once at a time. The first caller
// to detect staleness starts the flight; concurrent callers wait on the same
// flight and share its outcome. When the flight fails and a stale snapshot
// exists, that snapshot is served and the failure stays internal.
func (c *Cache) refresh(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	// The snapshot may have been replaced while this caller was en route.
	if snap := c.snapshot.Load(); snap != nil && !c.expired(snap) {
		c.mu.Unlock()
		return snap, nil
	}
	f := c.inflight
	if f == nil {
		f = &flight{done: make(chan struct{})}
		c.inflight = f
		c.wg.Add(1)
		go c.run(f)
	} else {
		metrics.RecordRefreshShared()
	}
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
	}

	if f.err != nil {
		if snap := c.snapshot.Load(); snap != nil {
			metrics.RecordStaleServe()
			return snap, nil
		}
		return nil, f.err
	}
	return f.snap, nil
}

// run executes one refresh flight. It is not bound to any single caller's
// context: the flight's result is shared by waiters with independent
// lifetimes.
func (c *Cache) run(f *flight) {
	defer c.wg.Done()
	defer close(f.done)

	ctx := context.Background()
	start := time.Now()

	snap, err := c.build(ctx)
	metrics.RecordRefreshDuration(time.Since(start).Seconds())

	if err != nil {
		metrics.RecordRefreshFailure()
		f.err = err

		c.mu.Lock()
		if c.inflight == f {
			c.inflight = nil
		}
		c.mu.Unlock()

		if c.snapshot.Load() != nil {
			c.log.Warn(ctx, "leaderboard refresh failed, serving stale snapshot",
				logger.Error(err),
			)
		} else {
			c.log.Error(ctx, "leaderboard refresh failed with no snapshot to fall back on",
				logger.Error(err),
			)
		}
		return
	}

	f.snap = snap

	published := false
	c.mu.Lock()
	// An invalidation while the flight ran detaches it; its data predates
	// the invalidation and must not be published as fresh.
	if c.inflight == f {
		c.inflight = nil
		c.snapshot.Store(snap)
		published = true
	}
	c.mu.Unlock()

	if published {
		metrics.RecordRefresh()
		metrics.UpdateSnapshotParticipants(len(snap.Entries))
		metrics.UpdateSnapshotRawRecords(snap.RawCount)
		if c.secondary != nil {
			c.secondary.Put(ctx, snap.Stats)
		}
		c.log.Debug(ctx, "leaderboard snapshot refreshed",
			logger.Int("participants", len(snap.Entries)),
			logger.Int("rawRecords", snap.RawCount),
			logger.Duration("took", time.Since(start)),
		)
	}
}

// build fetches the raw records and computes a complete new snapshot.
func (c *Cache) build(ctx context.Context) (*Snapshot, error) {
	fetchStart := time.Now()
	raw, err := c.store.FetchAll(ctx)
	metrics.RecordStoreFetchDuration(time.Since(fetchStart).Seconds())
	if err != nil {
		metrics.RecordStoreFetchFailure()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	entries := c.deduper.Collapse(ctx, raw)
	ranked := c.ranker.Rank(ctx, entries)
	now := c.clk.Now()
	aggregates := c.calculator.Compute(ctx, stats.Input{Ranked: ranked, Raw: raw, Now: now})

	index := make(map[string]int, len(ranked)*2)
	for i, e := range ranked {
		if e.SubjectID != "" {
			index[e.SubjectID] = i
		}
		if e.IdentityKey != "" {
			if _, taken := index[e.IdentityKey]; !taken {
				index[e.IdentityKey] = i
			}
		}
	}

	return &Snapshot{
		Entries:         ranked,
		Stats:           aggregates,
		RawCount:        len(raw),
		CreatedAt:       now,
		indexByIdentity: index,
	}, nil
}

// startRefreshLoop keeps the snapshot warm in the background so readers
// rarely pay refresh latency. Each tick reuses the Preload semantics: the
// refresh only runs once the TTL has lapsed, and failures are swallowed.
func (c *Cache) startRefreshLoop(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopChan:
				return
			case <-c.clk.After(c.refreshInterval):
				c.Preload(ctx)
			}
		}
	}()
}
