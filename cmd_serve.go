package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrops-br/catalog-storefront/internal/app/controller"
	"github.com/mrops-br/catalog-storefront/internal/app/session"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/http"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	bootstrap := telemetry.NewLogger(os.Stdout, slog.LevelInfo)
	cfg, err := loadConfig(bootstrap)
	if err != nil {
		return err
	}

	telem, err := telemetry.New(&cfg.OTLP)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			telem.Logger.Error("Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}()

	logger := telem.Logger
	tracer := telem.Tracer()
	meter := telem.Meter()

	logger.Info("Starting catalog storefront", slog.String("environment", cfg.App.Environment))

	svc, err := newCatalogService(cfg, tracer, meter, logger)
	if err != nil {
		return err
	}

	sessions := session.NewManager(svc, session.Options{
		Controller: controller.Options{
			Debounce:           cfg.Catalog.Debounce,
			FallbackTotalItems: cfg.Catalog.TotalItems,
		},
		IdleTimeout: cfg.Session.IdleTimeout,
	}, meter, logger)

	server := http.NewServer(
		&cfg.Server,
		handler.NewCatalogHandler(svc, cfg.Catalog.TotalItems, logger),
		handler.NewSessionHandler(sessions, logger),
		logger,
		telem,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions.Run(gctx)
		return nil
	})
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
