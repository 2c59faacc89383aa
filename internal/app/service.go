// Package app wires the engine's components into a runnable service and
// implements the dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/juju/clock"

	"github.com/hanawi96/testiq-sub006/internal/adapters/http/api"
	"github.com/hanawi96/testiq-sub006/internal/adapters/http/site"
	"github.com/hanawi96/testiq-sub006/internal/adapters/http/swagger"
	"github.com/hanawi96/testiq-sub006/internal/adapters/ingest"
	"github.com/hanawi96/testiq-sub006/internal/adapters/resultstore"
	"github.com/hanawi96/testiq-sub006/internal/adapters/statscache"
	"github.com/hanawi96/testiq-sub006/internal/config"
	"github.com/hanawi96/testiq-sub006/internal/domain/model"
	"github.com/hanawi96/testiq-sub006/internal/domain/types"
	"github.com/hanawi96/testiq-sub006/internal/leaderboard"
	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

// Service assembles the store, caches, ingest pipeline, and HTTP servers
// for the leaderboard engine.
type Service struct {
	mu sync.Mutex

	cfg *config.Config

	// Core components
	store        resultstore.Store
	secondary    statscache.Cache
	board        *leaderboard.Cache
	queue        ingest.Queue
	pool         *ingest.Pool
	ingestCancel context.CancelFunc

	// HTTP listeners: public API and health/metrics
	apiServer    *http.Server
	healthServer *http.Server

	// State
	started bool

	clk clock.Clock
	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore injects a result store, overriding the driver selected by
// configuration. Used by tests to observe fetches and inject failures.
func WithStore(store resultstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock injects the time source used by the caches.
func WithClock(clk clock.Clock) Option {
	return func(s *Service) {
		if clk != nil {
			s.clk = clk
		}
	}
}

// New constructs a Service around cfg. A nil cfg falls back to compiled
// defaults.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{cfg: cfg}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.log == nil {
		s.log = logger.Get().Named("app")
	}

	s.log.Info(ctx, "starting leaderboard service")

	if err := s.openStore(); err != nil {
		return err
	}
	s.buildSecondaryCache()
	s.buildBoard(ctx)

	// Ingest pipeline: queue feeding the worker pool that persists records.
	// Workers get a lifecycle of their own, not the caller's: cancelling
	// the start context must not kill them before Stop drains the queue,
	// or records already acknowledged with 202 would be lost.
	s.queue = ingest.NewInMemoryQueue(
		ingest.WithQueueCapacity(s.cfg.Ingest.QueueCapacity),
	)
	s.pool = ingest.NewPool(s.cfg.Ingest.Workers, s.queue, s.store)
	ingestCtx, ingestCancel := context.WithCancel(context.Background())
	s.ingestCancel = ingestCancel
	s.pool.Start(ingestCtx)

	if s.cfg.Cache.Preload {
		s.board.Preload(ctx)
	}

	s.startHTTP(ctx)

	s.started = true
	s.log.Info(ctx, "leaderboard service started",
		logger.String("addr", s.cfg.Server.Addr),
		logger.String("healthAddr", s.cfg.Server.HealthAddr),
		logger.String("storeDriver", s.cfg.Store.Driver),
		logger.Int("workers", s.cfg.Ingest.Workers),
		logger.Int("queueCapacity", s.cfg.Ingest.QueueCapacity),
	)

	return nil
}

// Stop gracefully shuts down the service. Safe to call more than once.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.log.Info(ctx, "stopping leaderboard service")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop accepting requests before tearing down what serves them.
	if s.apiServer != nil {
		if err := s.apiServer.Shutdown(shutdownCtx); err != nil {
			s.log.Warn(shutdownCtx, "api server shutdown", logger.Error(err))
		}
	}
	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(shutdownCtx); err != nil {
			s.log.Warn(shutdownCtx, "health server shutdown", logger.Error(err))
		}
	}

	// Drain queued submissions into the store, then release the workers'
	// lifecycle context.
	if s.pool != nil {
		if err := s.pool.Shutdown(shutdownCtx); err != nil {
			s.log.Warn(shutdownCtx, "ingest shutdown", logger.Error(err))
		}
	}
	if s.ingestCancel != nil {
		s.ingestCancel()
	}

	// Stop the background refresh loop.
	if s.board != nil {
		_ = s.board.Close()
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn(shutdownCtx, "store close", logger.Error(err))
		}
	}

	s.started = false
	s.log.Info(ctx, "leaderboard service stopped")
	return nil
}

// openStore selects the store backend from configuration unless one was
// injected via WithStore.
func (s *Service) openStore() error {
	if s.store != nil {
		return nil
	}
	switch s.cfg.Store.Driver {
	case config.DriverPostgres:
		store, err := resultstore.NewPostgres(s.cfg.Store.DSN,
			resultstore.WithQueryTimeout(s.cfg.Store.QueryTimeout),
		)
		if err != nil {
			return fmt.Errorf("open result store: %w", err)
		}
		s.store = store
	default:
		s.store = resultstore.NewMemory()
	}
	return nil
}

func (s *Service) buildSecondaryCache() {
	if !s.cfg.StatsCache.Enabled {
		return
	}
	opts := []statscache.Option{statscache.WithTTL(s.cfg.StatsCache.TTL)}
	if s.clk != nil {
		opts = append(opts, statscache.WithClock(s.clk))
	}
	if s.cfg.StatsCache.Path != "" {
		s.secondary = statscache.NewFile(s.cfg.StatsCache.Path, opts...)
		return
	}
	s.secondary = statscache.NewMemory(opts...)
}

func (s *Service) buildBoard(ctx context.Context) {
	opts := []leaderboard.Option{
		leaderboard.WithTTL(s.cfg.Cache.TTL),
		leaderboard.WithDefaultPageSize(s.cfg.Cache.PageSize),
		leaderboard.WithMaxPageSize(s.cfg.Cache.MaxPageSize),
		leaderboard.WithWindowRadius(s.cfg.Cache.WindowRadius),
		leaderboard.WithRefreshInterval(s.cfg.Cache.RefreshInterval),
	}
	if s.secondary != nil {
		opts = append(opts, leaderboard.WithSecondaryCache(s.secondary))
	}
	if s.clk != nil {
		opts = append(opts, leaderboard.WithClock(s.clk))
	}
	s.board = leaderboard.New(ctx, s.store, opts...)
}

// startHTTP builds both listeners and serves them on background goroutines.
func (s *Service) startHTTP(ctx context.Context) {
	apiMux := http.NewServeMux()
	api.NewServer(s, s).Register(ctx, apiMux)
	swagger.Register(ctx, apiMux)
	site.Register(ctx, apiMux)

	s.apiServer = &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           apiMux,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	healthMux := http.NewServeMux()
	health := api.NewHealthHandler()
	healthMux.HandleFunc("/healthz", health.HandleHealth)
	if s.cfg.Metrics.Enabled && s.cfg.Metrics.Path != "" && s.cfg.Metrics.Path != "/healthz" {
		healthMux.HandleFunc(s.cfg.Metrics.Path, health.HandleHealth)
	}

	s.healthServer = &http.Server{
		Addr:              s.cfg.Server.HealthAddr,
		Handler:           healthMux,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	go s.serve(ctx, "api", s.apiServer)
	go s.serve(ctx, "health", s.healthServer)
}

func (s *Service) serve(ctx context.Context, name string, srv *http.Server) {
	s.log.Info(ctx, "http server listening",
		logger.String("server", name),
		logger.String("addr", srv.Addr),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error(ctx, "http server terminated",
			logger.String("server", name),
			logger.Error(err),
		)
	}
}

// Page returns one leaderboard page.
func (s *Service) Page(ctx context.Context, page, size int) (leaderboard.Page, error) {
	return s.board.Page(ctx, page, size)
}

// Stats returns the aggregate statistics snapshot.
func (s *Service) Stats(ctx context.Context) (types.Stats, error) {
	return s.board.Stats(ctx)
}

// Window returns the rank neighborhood around one identity.
func (s *Service) Window(ctx context.Context, identity string) (leaderboard.Window, error) {
	return s.board.Window(ctx, identity)
}

// Invalidate drops the cached snapshot and secondary stats.
func (s *Service) Invalidate(ctx context.Context) {
	s.board.Invalidate(ctx)
}

// Enqueue submits a raw result for asynchronous persistence.
func (s *Service) Enqueue(ctx context.Context, rec model.TestResultRecord) error {
	return s.queue.Enqueue(ctx, rec)
}

// QueueDepth reports the number of submissions waiting in the ingest queue.
func (s *Service) QueueDepth(ctx context.Context) int {
	return s.queue.Len(ctx)
}
