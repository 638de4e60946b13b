package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mrops-br/catalog-storefront/internal/domain"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type (
	ProductsResult = domain.FetchResult[domain.ProductPage]
	ProductResult  = domain.FetchResult[domain.Product]
)

// Listener receives every result a Fetcher publishes, together with the filter
// it was fetched for. It runs while the Fetcher holds its lock and must not
// call back into the Fetcher.
type Listener func(filter domain.FilterState, result ProductsResult)

// Fetcher runs catalog list requests and publishes only the outcome of the
// most recently issued one. Each Fetch takes the next sequence number; a
// response whose number is no longer the latest is discarded on arrival.
type Fetcher struct {
	svc       *CatalogService
	logger    *slog.Logger
	discarded metric.Int64Counter

	seq      atomic.Uint64
	mu       sync.Mutex
	current  ProductsResult
	filter   domain.FilterState
	listener Listener
}

func NewFetcher(svc *CatalogService, meter metric.Meter, logger *slog.Logger) *Fetcher {
	discarded, err := meter.Int64Counter(
		"catalog.fetch.discarded",
		metric.WithDescription("Catalog responses dropped because a newer request was issued"),
	)
	if err != nil {
		logger.Warn("Discarded-response counter unavailable", slog.String("error", err.Error()))
		discarded = noop.Int64Counter{}
	}
	return &Fetcher{
		svc:       svc,
		logger:    logger,
		discarded: discarded,
		current:   domain.Loading[domain.ProductPage](),
		filter:    domain.DefaultFilter(),
	}
}

// OnResult registers the listener. Call it before the first Fetch.
func (f *Fetcher) OnResult(l Listener) {
	f.mu.Lock()
	f.listener = l
	f.mu.Unlock()
}

// Current returns the latest published result and the filter it belongs to
func (f *Fetcher) Current() (domain.FilterState, ProductsResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter, f.current
}

// Fetch publishes Loading, runs the request and publishes its outcome unless a
// newer Fetch was issued meanwhile. It reports whether the outcome was
// published.
func (f *Fetcher) Fetch(ctx context.Context, filter domain.FilterState) (ProductsResult, bool) {
	filter = filter.Normalized()
	seq := f.seq.Add(1)
	f.publish(seq, filter, domain.Loading[domain.ProductPage]())

	page, err := f.svc.ListProducts(ctx, filter)
	result := ReduceProducts(page, err)

	if !f.publish(seq, filter, result) {
		f.discarded.Add(ctx, 1)
		f.logger.DebugContext(ctx, "Discarded stale catalog response",
			slog.Uint64("seq", seq),
			slog.Uint64("latest", f.seq.Load()),
		)
		return result, false
	}
	return result, true
}

func (f *Fetcher) publish(seq uint64, filter domain.FilterState, result ProductsResult) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq.Load() {
		return false
	}
	f.current = result
	f.filter = filter
	if f.listener != nil {
		f.listener(filter, result)
	}
	return true
}

// ReduceProducts folds a list outcome into a FetchResult. Every error becomes
// the same visitor-facing message.
func ReduceProducts(page *domain.ProductPage, err error) ProductsResult {
	if err != nil || page == nil {
		return domain.Failure[domain.ProductPage](domain.MsgProductsFailed)
	}
	return domain.Success(*page)
}

// TotalItems is the item count pagination is sized with: the reported total
// when the catalog sent one, fallback for other successes and zero after a
// failure
func TotalItems(result ProductsResult, fallback int) int {
	switch {
	case !result.IsSuccess():
		return 0
	case result.Value.TotalReported:
		return result.Value.Total
	default:
		return fallback
	}
}

// LoadProducts runs a single unguarded list request
func (s *CatalogService) LoadProducts(ctx context.Context, filter domain.FilterState) ProductsResult {
	return ReduceProducts(s.ListProducts(ctx, filter))
}

// LoadProduct fetches a product for the detail view. found is false only when
// the catalog reported the product as missing.
func (s *CatalogService) LoadProduct(ctx context.Context, id string) (result ProductResult, found bool) {
	product, err := s.GetProduct(ctx, id)
	switch {
	case err == nil:
		return domain.Success(*product), true
	case errors.Is(err, domain.ErrProductNotFound):
		return domain.Failure[domain.Product](domain.MsgProductDetailFailed), false
	default:
		return domain.Failure[domain.Product](domain.MsgProductDetailFailed), true
	}
}
