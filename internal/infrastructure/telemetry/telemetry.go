package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mrops-br/catalog-storefront/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer and meter used across the service
const InstrumentationName = "catalog-storefront"

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Logger         *slog.Logger
}

// New initializes telemetry. OTLP export is only wired when enabled in cfg;
// the Prometheus reader is always attached so /metrics stays populated.
func New(cfg *config.OTLPConfig) (*Telemetry, error) {
	if !cfg.ExportEnabled {
		return NewNoOpTelemetry(cfg), nil
	}

	logger := initLogger(cfg)
	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("service_name", cfg.ServiceName),
	)

	tp, err := initTracerProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}
	otel.SetTracerProvider(tp)

	reg := newRegistry()
	mp, err := initMeterProvider(cfg, reg, true)
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	otel.SetMeterProvider(mp)
	logger.Info("Telemetry initialized (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       reg,
		Logger:         logger,
	}, nil
}

// NewNoOpTelemetry creates a telemetry instance whose spans are not exported.
// Metrics remain visible through the Prometheus reader when it can be created.
func NewNoOpTelemetry(cfg *config.OTLPConfig) *Telemetry {
	logger := initLogger(cfg)

	tp := sdktrace.NewTracerProvider()
	reg := newRegistry()
	mp, err := initMeterProvider(cfg, reg, false)
	if err != nil {
		logger.Warn("Prometheus reader unavailable, metrics disabled", slog.String("error", err.Error()))
		mp = sdkmetric.NewMeterProvider()
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized in no-op mode (export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       reg,
		Logger:         logger,
	}
}

func (t *Telemetry) Tracer() trace.Tracer {
	return t.TracerProvider.Tracer(InstrumentationName)
}

func (t *Telemetry) Meter() metric.Meter {
	return t.MeterProvider.Meter(InstrumentationName)
}

// MetricsHandler serves the Prometheus scrape endpoint
func (t *Telemetry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops both providers. Callers log the returned error.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	return errors.Join(
		t.TracerProvider.Shutdown(ctx),
		t.MeterProvider.Shutdown(ctx),
	)
}
