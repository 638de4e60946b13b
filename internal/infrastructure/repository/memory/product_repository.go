package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/mrops-br/catalog-storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.CatalogRepository.
// It applies the same search, category, sort and window semantics as the
// remote catalog.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[domain.ProductID]int
	tracer   trace.Tracer
	logger   *slog.Logger
}

var _ domain.CatalogRepository = (*ProductRepository)(nil)

// NewProductRepository creates a repository holding products in insertion order
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger, products ...domain.Product) *ProductRepository {
	r := &ProductRepository{
		byID:   make(map[domain.ProductID]int, len(products)),
		tracer: tracer,
		logger: logger,
	}
	for _, p := range products {
		r.put(p)
	}
	return r
}

// Put inserts or replaces a product
func (r *ProductRepository) Put(product domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(product)
}

func (r *ProductRepository) put(p domain.Product) {
	p.Normalize()
	if i, ok := r.byID[p.ID]; ok {
		r.products[i] = p
		return
	}
	r.byID[p.ID] = len(r.products)
	r.products = append(r.products, p)
}

// ListProducts filters, orders and windows the stored products
func (r *ProductRepository) ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.ListProducts")
	defer span.End()

	span.SetAttributes(
		attribute.Int("query.skip", q.Skip),
		attribute.Int("query.limit", q.Limit),
		attribute.String("query.category", q.Category),
	)

	r.mu.RLock()
	matched := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(p, q) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	if q.SortBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			if q.Order == domain.SortDesc {
				return matched[i].Price > matched[j].Price
			}
			return matched[i].Price < matched[j].Price
		})
	}

	total := len(matched)
	start := min(max(q.Skip, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}

	page := &domain.ProductPage{
		Products:      matched[start:end],
		Total:         total,
		TotalReported: true,
	}

	span.SetAttributes(attribute.Int("product.count", len(page.Products)))
	r.logger.DebugContext(ctx, "Products listed from memory",
		slog.Int("count", len(page.Products)),
		slog.Int("total", total),
	)
	span.SetStatus(codes.Ok, "Products listed")
	return page, nil
}

func matches(p domain.Product, q domain.ProductQuery) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	if strings.Contains(strings.ToLower(p.Title), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.byID[domain.ProductID(id)]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found", slog.String("product_id", id))
		return nil, domain.ErrProductNotFound
	}

	product := r.products[i]
	span.SetStatus(codes.Ok, "Product found")
	return &product, nil
}

// ListCategories returns the distinct categories in sorted order
func (r *ProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.ListCategories")
	defer span.End()

	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, p := range r.products {
		if p.Category != "" {
			seen[p.Category] = struct{}{}
		}
	}
	r.mu.RUnlock()

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	span.SetStatus(codes.Ok, "Categories listed")
	return categories, nil
}
