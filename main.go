package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/catalog-storefront/internal/app/service"
	"github.com/mrops-br/catalog-storefront/internal/domain"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/config"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/repository/remote"
)

var offline bool

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Catalog storefront: filtered, paginated product browsing",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Use the built-in demo catalog instead of CATALOG_ENDPOINT")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(queryCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies command line overrides
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		return nil, err
	}
	if offline {
		cfg.Catalog.Endpoint = ""
	}
	return cfg, nil
}

// newRepository picks the remote catalog, or the demo catalog when offline
func newRepository(cfg *config.CatalogConfig, tracer trace.Tracer, logger *slog.Logger) domain.CatalogRepository {
	if cfg.Offline() {
		logger.Info("Using in-memory demo catalog")
		return memory.NewProductRepository(tracer, logger, memory.DemoProducts()...)
	}
	logger.Info("Using remote catalog", slog.String("endpoint", cfg.Endpoint))
	return remote.NewCatalogRepository(cfg.Endpoint, tracer, logger,
		remote.WithTimeout(cfg.Timeout),
		remote.WithRateLimit(cfg.RateLimit),
	)
}

func newCatalogService(cfg *config.Config, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) (*service.CatalogService, error) {
	repo := newRepository(&cfg.Catalog, tracer, logger)
	svc, err := service.NewCatalogService(repo, cfg.Catalog.PageSize, tracer, meter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}
	return svc, nil
}
