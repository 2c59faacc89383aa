package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hanawi96/testiq-sub006/internal/app"
	"github.com/hanawi96/testiq-sub006/internal/config"
	"github.com/hanawi96/testiq-sub006/pkg/logger"
	"github.com/hanawi96/testiq-sub006/pkg/metrics"
)

// Metrics updater cadence constants.
const (
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
	nanosecondsPerSecond   = 1e9
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Re-initialize with the configured output format, then apply the
	// configured level (fallback to info on invalid input)
	if err := logger.InitFormat(cfg.Log.Format); err != nil {
		logger.Get().Warn(ctx, "invalid log format; keeping text output",
			logger.String("format", cfg.Log.Format), logger.Error(err))
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.Log.Level); err != nil {
		log.Warn(ctx, "invalid log level; falling back to info",
			logger.String("level", cfg.Log.Level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the service. It owns the store, the caches, the
	// ingest pipeline, and both HTTP listeners.
	svc := app.New(cfg)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	log.Info(ctx, "leaderboard service running",
		logger.String("addr", cfg.Server.Addr),
		logger.String("healthAddr", cfg.Server.HealthAddr),
	)

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down...")

	// The signal context is already cancelled; Stop applies the configured
	// shutdown timeout itself.
	if err := svc.Stop(context.Background()); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "service stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that refreshes the
// ingest queue depth gauge.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// QueueDepth updates the gauge as a side effect.
			svc.QueueDepth(ctx)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Average pause across all collections so far
		avgPauseSeconds := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerSecond
		metrics.RecordSystemGCPause(avgPauseSeconds)
	}
}
