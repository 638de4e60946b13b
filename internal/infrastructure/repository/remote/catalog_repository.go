// Package remote reads the product catalog from the remote catalog HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrops-br/catalog-storefront/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 8 * time.Second
	maxBodyBytes   = 8 << 20
)

// CatalogRepository implements domain.CatalogRepository over HTTP
type CatalogRepository struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
	tracer  trace.Tracer
	logger  *slog.Logger
}

var _ domain.CatalogRepository = (*CatalogRepository)(nil)

// Option customizes a CatalogRepository
type Option func(*CatalogRepository)

// WithHTTPClient replaces the default instrumented client
func WithHTTPClient(c *http.Client) Option {
	return func(r *CatalogRepository) { r.http = c }
}

// WithTimeout sets the per-request timeout of the default client
func WithTimeout(d time.Duration) Option {
	return func(r *CatalogRepository) {
		if d > 0 {
			r.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limiter.
func WithRateLimit(perSecond float64) Option {
	return func(r *CatalogRepository) {
		if perSecond > 0 {
			burst := max(int(perSecond), 1)
			r.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewCatalogRepository creates a client for the catalog API rooted at baseURL
func NewCatalogRepository(baseURL string, tracer trace.Tracer, logger *slog.Logger, opts ...Option) *CatalogRepository {
	r := &CatalogRepository{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: tracer,
		logger: logger.With(slog.String("component", "catalog_client")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type listPayload struct {
	Products *[]domain.Product `json:"products"`
	Total    *int              `json:"total"`
}

// ListProducts issues GET /products with the query's parameters
func (r *CatalogRepository) ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.ListProducts")
	defer span.End()

	values := q.Values()
	span.SetAttributes(attribute.String("catalog.query", values.Encode()))

	body, err := r.get(ctx, values, "products")
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	page, err := decodeList(body)
	if err != nil {
		recordError(span, err)
		r.logger.WarnContext(ctx, "Malformed product list payload", slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(page.Products)))
	span.SetStatus(codes.Ok, "Products listed")
	return page, nil
}

// decodeList accepts either {"products": [...], "total": n} or a bare array
func decodeList(body []byte) (*domain.ProductPage, error) {
	trimmed := bytes.TrimSpace(body)
	var products []domain.Product
	page := &domain.ProductPage{}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
	} else {
		var payload listPayload
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
		if payload.Products == nil {
			return nil, fmt.Errorf("%w: missing products field", domain.ErrMalformedPayload)
		}
		products = *payload.Products
		if payload.Total != nil && *payload.Total >= 0 {
			page.Total = *payload.Total
			page.TotalReported = true
		}
	}

	for i := range products {
		products[i].Normalize()
	}
	page.Products = products
	return page, nil
}

// FindByID issues GET /products/{id}
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	body, err := r.get(ctx, nil, "products", url.PathEscape(id))
	if err != nil {
		if status, ok := asStatus(err); ok && status == http.StatusNotFound {
			err = fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		recordError(span, err)
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal(body, &product); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		recordError(span, err)
		return nil, err
	}
	product.Normalize()

	span.SetStatus(codes.Ok, "Product found")
	return &product, nil
}

// ListCategories issues GET /categories. Concurrent callers share one request.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.ListCategories")
	defer span.End()

	v, err, shared := r.group.Do("categories", func() (any, error) {
		body, err := r.get(ctx, nil, "categories")
		if err != nil {
			return nil, err
		}
		var categories []string
		if err := json.Unmarshal(body, &categories); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
		return categories, nil
	})
	span.SetAttributes(attribute.Bool("singleflight.shared", shared))
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	categories := v.([]string)
	out := make([]string, len(categories))
	copy(out, categories)
	span.SetStatus(codes.Ok, "Categories listed")
	return out, nil
}

func (r *CatalogRepository) get(ctx context.Context, query url.Values, segments ...string) ([]byte, error) {
	endpoint, err := url.JoinPath(r.baseURL, segments...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.http.Do(req)
	if err != nil {
		r.logger.WarnContext(ctx, "Catalog request failed",
			slog.String("url", endpoint),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	r.logger.DebugContext(ctx, "Catalog request completed",
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &domain.RemoteStatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	return body, nil
}

func asStatus(err error) (int, bool) {
	var statusErr *domain.RemoteStatusError
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.StatusCode, true
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
