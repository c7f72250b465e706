// Command dashboard serves the tourism intelligence dashboard over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/tourism-intel/internal/adapter/http"
	"github.com/couchcryptid/tourism-intel/internal/adapter/memory"
	"github.com/couchcryptid/tourism-intel/internal/app"
	"github.com/couchcryptid/tourism-intel/internal/config"
	"github.com/couchcryptid/tourism-intel/internal/dashboard"
	"github.com/couchcryptid/tourism-intel/internal/domain"
	"github.com/couchcryptid/tourism-intel/internal/observability"
	"github.com/couchcryptid/tourism-intel/internal/pipeline"
	"github.com/couchcryptid/tourism-intel/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen, err := app.NewGenerator(cfg)
	if err != nil {
		logger.Error("failed to build generator", "error", err)
		os.Exit(1)
	}

	// The dashboard stays up on the built-in snapshots when Mongo is down.
	store, closeStore := app.OpenStoreOrMemory(ctx, cfg, cfg.MongoDashboardDatabase, logger)

	target := cfg.MongoDashboardDatabase + "." + string(domain.CollectionSnapshots)
	if _, ok := store.(*memory.Store); ok {
		target = "in-memory store"
	}

	clock := clockwork.NewRealClock()
	seeder := pipeline.NewSeeder(gen, store, logger, metrics,
		pipeline.Options{Seed: cfg.Seed, MonthCount: cfg.MonthCount, StartDate: cfg.StartDate},
		pipeline.WithClock(clock))
	dash := dashboard.New(seeder, store, report.NewCharts(), logger, metrics,
		dashboard.WithClock(clock),
		dashboard.WithTarget(target))

	limiter := httpadapter.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	srv := httpadapter.NewServer(cfg.HTTPAddr, dash, logger,
		httpadapter.RequestID(),
		httpadapter.Recovery(logger),
		httpadapter.Logger(logger),
		httpadapter.TrustedProxy(cfg.TrustedProxies),
		httpadapter.RateLimit(limiter, logger),
	)
	dash.Mount(srv)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Seed and load snapshots; /readyz reports 503 until this completes.
	go dash.Load(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := closeStore(shutdownCtx); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
