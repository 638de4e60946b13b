package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/catalog-storefront/internal/infrastructure/config"
)

func TestNew_ExportDisabledIsNoOp(t *testing.T) {
	telem, err := New(&config.OTLPConfig{ServiceName: "test", Environment: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = telem.Shutdown(context.Background()) })

	require.NotNil(t, telem.Registry)
	assert.NotNil(t, telem.Tracer())
	assert.NotNil(t, telem.Meter())
}

func TestMetricsHandler_ServesOwnRegistry(t *testing.T) {
	// Two instances must not collide on a shared registry
	first := NewNoOpTelemetry(&config.OTLPConfig{ServiceName: "first"})
	second := NewNoOpTelemetry(&config.OTLPConfig{ServiceName: "second"})
	t.Cleanup(func() {
		_ = first.Shutdown(context.Background())
		_ = second.Shutdown(context.Background())
	})

	counter, err := second.Meter().Int64Counter("catalog.operations")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	scrape := func(telem *Telemetry) string {
		rec := httptest.NewRecorder()
		telem.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		return string(body)
	}

	assert.Regexp(t, `catalog_operations_total\{[^}]*\} 3`, scrape(second))
	assert.NotContains(t, scrape(first), "catalog_operations")
}
