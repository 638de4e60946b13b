package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrops-br/catalog-storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultPageSize is the number of products requested per catalog page
const DefaultPageSize = 20

// CatalogService turns filter state into catalog requests and executes them
type CatalogService struct {
	repo       domain.CatalogRepository
	pageSize   int
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
}

// NewCatalogService creates a catalog service with the given page size
func NewCatalogService(
	repo domain.CatalogRepository,
	pageSize int,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) (*CatalogService, error) {
	if pageSize <= 0 {
		return nil, domain.ErrInvalidPageSize
	}

	operations, err := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Total number of catalog operations"),
	)
	if err != nil {
		return nil, err
	}

	return &CatalogService{
		repo:       repo,
		pageSize:   pageSize,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
	}, nil
}

func (s *CatalogService) PageSize() int {
	return s.pageSize
}

// BuildProductQuery maps a filter onto the catalog request descriptor
func (s *CatalogService) BuildProductQuery(filter domain.FilterState) domain.ProductQuery {
	return filter.ProductQuery(s.pageSize)
}

// ListProducts fetches the page of products selected by filter
func (s *CatalogService) ListProducts(ctx context.Context, filter domain.FilterState) (*domain.ProductPage, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	filter = filter.Normalized()
	span.SetAttributes(
		attribute.String("filter.search", filter.SearchQuery),
		attribute.String("filter.category", filter.Category),
		attribute.String("filter.sort", string(filter.Sort)),
		attribute.Int("filter.page", filter.Page),
	)

	page, err := s.repo.ListProducts(ctx, s.BuildProductQuery(filter))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list products")
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
			slog.Int("page", filter.Page),
		)
		s.record(ctx, "list", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(page.Products)))
	s.record(ctx, "list", "success")
	s.logger.InfoContext(ctx, "Products listed",
		slog.Int("count", len(page.Products)),
		slog.Int("page", filter.Page),
	)
	span.SetStatus(codes.Ok, "Products listed")
	return page, nil
}

// GetProduct fetches a single product
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		result := "failure"
		if errors.Is(err, domain.ErrProductNotFound) {
			result = "not_found"
			s.logger.WarnContext(ctx, "Product not found", slog.String("product_id", id))
		} else {
			s.logger.ErrorContext(ctx, "Failed to get product",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
		span.SetStatus(codes.Error, result)
		s.record(ctx, "read", result)
		return nil, err
	}

	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved")
	return product, nil
}

// ListCategories returns the category names offered by the filter form. A
// failure is logged and yields an empty list.
func (s *CatalogService) ListCategories(ctx context.Context) []string {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list categories")
		s.logger.ErrorContext(ctx, "Failed to fetch categories", slog.String("error", err.Error()))
		s.record(ctx, "categories", "failure")
		return []string{}
	}

	s.record(ctx, "categories", "success")
	span.SetStatus(codes.Ok, "Categories listed")
	return categories
}

func (s *CatalogService) record(ctx context.Context, operation, result string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
