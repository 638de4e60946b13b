package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/mrops-br/catalog-storefront/internal/app/dto"
	"github.com/mrops-br/catalog-storefront/internal/app/service"
	"github.com/mrops-br/catalog-storefront/internal/domain"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/config"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/telemetry"
)

var (
	productsSearch   string
	productsCategory string
	productsSort     string
	productsPage     int
	productImage     int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Print one catalog page as JSON",
	Args:  cobra.NoArgs,
	RunE:  runProducts,
}

var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Print a product detail view as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProduct,
}

func init() {
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "Search text")
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "Category filter")
	productsCmd.Flags().StringVar(&productsSort, "sort", "", "Price order: asc or desc")
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "Page number")

	productCmd.Flags().IntVar(&productImage, "image", 0, "Selected image index")
}

// cliService builds a catalog service whose logs go to stderr so stdout stays
// machine readable
func cliService() (*service.CatalogService, *config.Config, error) {
	logger := telemetry.NewLogger(os.Stderr, slog.LevelWarn)
	cfg, err := loadConfig(logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := newCatalogService(cfg,
		otel.Tracer(telemetry.InstrumentationName),
		otel.Meter(telemetry.InstrumentationName),
		logger,
	)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

func runProducts(cmd *cobra.Command, _ []string) error {
	order, ok := domain.ParseSortOrder(productsSort)
	if !ok {
		return fmt.Errorf("unknown sort order %q", productsSort)
	}
	filter := domain.FilterState{
		SearchQuery: productsSearch,
		Category:    productsCategory,
		Sort:        order,
		Page:        productsPage,
	}.Normalized()

	svc, cfg, err := cliService()
	if err != nil {
		return err
	}

	result := svc.LoadProducts(cmd.Context(), filter)
	pagination, err := domain.NewPaginationState(filter.Page, service.TotalItems(result, cfg.Catalog.TotalItems), svc.PageSize())
	if err != nil {
		return err
	}
	if err := printJSON(cmd.OutOrStdout(), dto.ToCatalogPageResponse(filter, result, pagination)); err != nil {
		return err
	}
	if result.IsFailure() {
		return errors.New(result.Message)
	}
	return nil
}

func runProduct(cmd *cobra.Command, args []string) error {
	svc, _, err := cliService()
	if err != nil {
		return err
	}

	result, found := svc.LoadProduct(cmd.Context(), args[0])
	switch {
	case !found:
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, args[0])
	case result.IsFailure():
		return errors.New(result.Message)
	}

	product := result.Value
	if !dto.ValidImageIndex(&product, productImage) {
		return fmt.Errorf("%w: %d", domain.ErrImageOutOfRange, productImage)
	}
	return printJSON(cmd.OutOrStdout(), dto.ToProductDetailResponse(&product, productImage))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
