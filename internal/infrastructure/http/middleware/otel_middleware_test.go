package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/mrops-br/catalog-storefront/internal/infrastructure/telemetry"
)

func TestHTTPRouteContext_InsideGroup(t *testing.T) {
	var route string
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(HTTPRouteContext())
		r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
			route = telemetry.HTTPRouteFromContext(r.Context())
		})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42", nil))
	assert.Equal(t, "/products/{id}", route)
}

func TestStructuredLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusBadGateway, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			r := chi.NewRouter()
			r.Use(StructuredLogger(logger))
			r.Get("/catalog", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/catalog?page=2", nil))

			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, "/catalog", record["http.route"])
			assert.Equal(t, "page=2", record["url.query"])
			assert.EqualValues(t, tt.status, record["http.response.status_code"])
		})
	}
}

func TestMetricsMiddleware_RecordsPerRoute(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(ActiveRequestsMiddleware(meter), DurationMillisecondsMiddleware(meter))
		r.Get("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	active, ok := byName["http.server.active_requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, active.DataPoints, 1)
	assert.Equal(t, int64(0), active.DataPoints[0].Value)
	route, _ := active.DataPoints[0].Attributes.Value("http.route")
	assert.Equal(t, "/sessions/{id}", route.AsString())

	duration, ok := byName["http.server.request.duration.ms"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(1), duration.DataPoints[0].Count)
	status, _ := duration.DataPoints[0].Attributes.Value("http.response.status_code")
	assert.Equal(t, int64(http.StatusNoContent), status.AsInt64())
}
