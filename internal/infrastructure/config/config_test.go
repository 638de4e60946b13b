package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadConfig(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, DefaultCatalogEndpoint, cfg.Catalog.Endpoint)
	assert.Equal(t, 20, cfg.Catalog.PageSize)
	assert.Equal(t, 125, cfg.Catalog.TotalItems)
	assert.Equal(t, 300*time.Millisecond, cfg.Catalog.Debounce)
	assert.Equal(t, 8*time.Second, cfg.Catalog.Timeout)
	assert.False(t, cfg.OTLP.ExportEnabled)
	assert.False(t, cfg.Catalog.Offline())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("CATALOG_ENDPOINT", "http://catalog.internal:9000/")
	t.Setenv("CATALOG_PAGE_SIZE", "12")
	t.Setenv("CATALOG_DEBOUNCE", "50ms")
	t.Setenv("CATALOG_RATE_LIMIT", "2.5")
	t.Setenv("OTEL_EXPORT_ENABLED", "true")

	cfg, err := LoadConfig(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.Equal(t, "http://catalog.internal:9000", cfg.Catalog.Endpoint)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Equal(t, 50*time.Millisecond, cfg.Catalog.Debounce)
	assert.InDelta(t, 2.5, cfg.Catalog.RateLimit, 1e-9)
	assert.True(t, cfg.OTLP.ExportEnabled)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero_page_size", key: "CATALOG_PAGE_SIZE", value: "0"},
		{name: "negative_page_size", key: "CATALOG_PAGE_SIZE", value: "-5"},
		{name: "non_http_endpoint", key: "CATALOG_ENDPOINT", value: "ftp://catalog"},
		{name: "negative_rate_limit", key: "CATALOG_RATE_LIMIT", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "test")
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig(slog.New(slog.NewTextHandler(io.Discard, nil)))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_EmptyEndpointIsOffline(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("CATALOG_ENDPOINT", " ")

	cfg, err := LoadConfig(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.True(t, cfg.Catalog.Offline())
}
