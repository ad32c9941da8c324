package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/disaster-dashboard/internal/adapter/eonet"
	"github.com/couchcryptid/disaster-dashboard/internal/adapter/httpadapter"
	"github.com/couchcryptid/disaster-dashboard/internal/adapter/web"
	"github.com/couchcryptid/disaster-dashboard/internal/config"
	"github.com/couchcryptid/disaster-dashboard/internal/observability"
	"github.com/couchcryptid/disaster-dashboard/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := eonet.NewClient(cfg.EONETBaseURL, cfg.EONETTimeout, metrics, logger)
	fetcher := eonet.NewCachedFetcher(client, cfg.EONETCacheTTL, nil, metrics)
	logger.Info("eonet fetcher configured",
		"base_url", cfg.EONETBaseURL,
		"lookback_days", cfg.EONETLookbackDays,
		"status", cfg.EONETStatus,
		"cache_ttl", cfg.EONETCacheTTL,
	)

	p := pipeline.New(fetcher, cfg.Query(), logger, metrics)
	router := web.NewRouter(p, metrics, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, router, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Warm the cache so the first page view does not wait on the upstream.
	go func() {
		if ds := p.Load(ctx); ds.Err != nil {
			logger.Warn("initial event load failed", "error", ds.Err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
