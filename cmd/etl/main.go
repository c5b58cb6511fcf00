package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/nasr-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/nasr-etl/internal/adapter/kafka"
	"github.com/couchcryptid/nasr-etl/internal/config"
	"github.com/couchcryptid/nasr-etl/internal/distribution"
	"github.com/couchcryptid/nasr-etl/internal/observability"
	"github.com/couchcryptid/nasr-etl/internal/pipeline"
)

// Lines between debug progress logs.
const progressEvery = 100_000

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	writer := kafkaadapter.NewWriter(cfg, logger)
	dist := distribution.NewDirectory(cfg.DistributionDir)

	p := pipeline.New(dist, writer, logger, metrics, pipeline.Options{
		Families:      cfg.Families,
		BatchSize:     cfg.BatchSize,
		MaxLineErrors: cfg.MaxLineErrors,
		Concurrency:   cfg.Concurrency,
		ProgressEvery: progressEvery,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// One pass over the distribution; the server keeps reporting the
	// summaries until shutdown.
	go func() {
		logger.Info("decoding distribution", "dir", cfg.DistributionDir)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
		for _, s := range p.Summaries() {
			logger.Info("family summary",
				"family", s.Family,
				"lines", s.Lines,
				"rows", s.Rows,
				"loaded", s.Loaded,
				"line_errors", s.LineErrors,
				"duration", s.Duration,
				"failed", s.Failed(),
			)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
