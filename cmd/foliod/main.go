// Command foliod serves the project documentation site.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"impractical.co/folio/internal/config"
	otelplatform "impractical.co/folio/internal/platform/otel"
	"impractical.co/folio/internal/server"
	"impractical.co/folio/internal/site"
	"impractical.co/folio/internal/status"
)

func main() {
	configPath := flag.String("config", "", "path to a config file; defaults and FOLIO_ env vars apply without one")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := run(*configPath, logger); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	shutdownTracing, err := otelplatform.Setup(ctx, "foliod", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("error flushing traces", "error", err)
		}
	}()

	db, err := status.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	runs := status.NewRepository(db)
	defer func() {
		if err := runs.Close(); err != nil {
			logger.Error("error closing status store", "error", err)
		}
	}()

	docs, err := site.New(site.Config{
		Name:       cfg.SiteName,
		BaseURL:    cfg.BaseURL,
		PrettyHTML: cfg.PrettyHTML,
	})
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, docs, runs, logger)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
