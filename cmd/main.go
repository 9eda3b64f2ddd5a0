package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mixtide/pulse/internal/adapters/datastore"
	"github.com/mixtide/pulse/internal/adapters/http/api"
	"github.com/mixtide/pulse/internal/adapters/weeklycache"
	service "github.com/mixtide/pulse/internal/app"
	"github.com/mixtide/pulse/internal/config"
	"github.com/mixtide/pulse/internal/domain/rights"
	"github.com/mixtide/pulse/pkg/logger"
	"github.com/mixtide/pulse/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// on the custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := buildStore(ctx, cfg, loggerInstance)
	if err != nil {
		os.Stderr.WriteString("failed to open event store: " + err.Error() + "\n")
		return
	}

	cache := buildCache(ctx, cfg, loggerInstance)

	// Create and start the service with configuration options
	svc := service.New(
		service.WithLogger(loggerInstance),
		service.WithStore(store),
		service.WithFallbackStore(datastore.NewFixtureStore()),
		service.WithWeeklyCache(cache),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.EventQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithEventWindow(time.Duration(cfg.EventWindowDays)*24*time.Hour),
		service.WithRightsPolicy(rights.ParsePolicy(cfg.RightsEmptyPoolPolicy)),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	apiOpts := make([]api.Option, 0, 1)
	if cfg.RateLimitRPS > 0 {
		limiter, err := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitCacheSize)
		if err != nil {
			os.Stderr.WriteString("failed to build rate limiter: " + err.Error() + "\n")
			return
		}
		apiOpts = append(apiOpts, api.WithRateLimiter(limiter))
	}
	apiServer := api.NewServer(svc, svc, apiOpts...)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildStore opens the event store selected by data_source. The live
// store is SQLite-backed and optionally seeded with the demo catalog so
// the ranking surfaces are not empty on first boot.
func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (datastore.Store, error) {
	if cfg.DataSource == config.SourceFixture {
		log.Info(ctx, "using in-memory fixture store")
		return datastore.NewFixtureStore(), nil
	}

	store, err := datastore.OpenSQLite(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	if cfg.SeedFixture {
		if err := store.SeedFixture(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	log.Info(ctx, "using sqlite store", logger.String("path", cfg.StorePath), logger.Bool("seeded", cfg.SeedFixture))
	return store, nil
}

// buildCache opens the weekly result cache, degrading to the no-op
// cache when disabled or unavailable. A missing cache only costs
// recomputation, never correctness.
func buildCache(ctx context.Context, cfg *config.Config, log logger.Logger) weeklycache.Cache {
	if !cfg.CacheEnabled {
		return weeklycache.NewNoop()
	}
	cache, err := weeklycache.OpenSQLite(cfg.CachePath)
	if err != nil {
		log.Warn(ctx, "weekly cache unavailable; continuing without it", logger.String("path", cfg.CachePath), logger.Error(err))
		return weeklycache.NewNoop()
	}
	log.Info(ctx, "weekly cache enabled", logger.String("path", cfg.CachePath))
	return cache
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()

	metrics.UpdateQueueSize(stats.QueueLength)
	metrics.UpdateWorkerCount(stats.WorkerCount)
}
