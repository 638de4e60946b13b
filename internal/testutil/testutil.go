// Package testutil holds helpers shared by package tests.
package testutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/catalog-storefront/internal/domain"
)

// Logger is verbose under `go test -v` and silent otherwise
func Logger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Tracer() trace.Tracer {
	return tracenoop.NewTracerProvider().Tracer("test")
}

func Meter() metric.Meter {
	return metricnoop.NewMeterProvider().Meter("test")
}

// FailingMeter is a meter whose counters cannot be created
func FailingMeter() metric.Meter {
	return failingMeter{}
}

type failingMeter struct {
	metricnoop.Meter
}

var errNoInstruments = errors.New("instrument creation disabled")

func (failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errNoInstruments
}

func (failingMeter) Int64UpDownCounter(string, ...metric.Int64UpDownCounterOption) (metric.Int64UpDownCounter, error) {
	return nil, errNoInstruments
}

// Products builds n deterministic products spread over three categories with
// prices 1..n
func Products(n int) []domain.Product {
	categories := []string{"books", "shoes", "kitchen"}
	products := make([]domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, domain.Product{
			ID:       domain.ProductID(fmt.Sprintf("%03d", i)),
			Title:    fmt.Sprintf("Product %d", i),
			Price:    float64(i),
			Category: categories[(i-1)%len(categories)],
			Images:   []string{fmt.Sprintf("https://img.test/%d-a.jpg", i), fmt.Sprintf("https://img.test/%d-b.jpg", i)},
			Stock:    i % 4,
			Rating:   domain.Rating{Rate: 4.5, Count: i},
			Tags:     []string{"tag"},
		})
	}
	return products
}
