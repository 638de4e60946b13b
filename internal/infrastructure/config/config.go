package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Server  ServerConfig
	OTLP    OTLPConfig
	Catalog CatalogConfig
	Session SessionConfig
}

type AppConfig struct {
	Environment string
}

type ServerConfig struct {
	Port            string
	Host            string
	ShutdownTimeout time.Duration
}

type OTLPConfig struct {
	Endpoint      string
	ServiceName   string
	Environment   string
	ExportEnabled bool
}

// CatalogConfig configures access to the remote catalog API. An empty
// Endpoint selects the built-in in-memory catalog.
type CatalogConfig struct {
	Endpoint   string
	PageSize   int
	Timeout    time.Duration
	TotalItems int
	Debounce   time.Duration
	RateLimit  float64
}

type SessionConfig struct {
	IdleTimeout time.Duration
}

const DefaultCatalogEndpoint = "https://next-ecommerce-api.vercel.app"

var defaults = map[string]any{
	"APP_ENV":                     "development",
	"SERVER_HOST":                 "0.0.0.0",
	"SERVER_PORT":                 "8080",
	"SERVER_SHUTDOWN_TIMEOUT":     10 * time.Second,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4317",
	"OTEL_SERVICE_NAME":           "catalog-storefront",
	"OTEL_ENVIRONMENT":            "development",
	"OTEL_EXPORT_ENABLED":         false,
	"CATALOG_ENDPOINT":            DefaultCatalogEndpoint,
	"CATALOG_PAGE_SIZE":           20,
	"CATALOG_TIMEOUT":             8 * time.Second,
	"CATALOG_TOTAL_ITEMS":         125,
	"CATALOG_DEBOUNCE":            300 * time.Millisecond,
	"CATALOG_RATE_LIMIT":          0.0,
	"SESSION_IDLE_TIMEOUT":        30 * time.Minute,
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first in development
func LoadConfig(logger *slog.Logger) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	env := v.GetString("APP_ENV")
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded")
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment: v.GetString("APP_ENV"),
		},
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		OTLP: OTLPConfig{
			Endpoint:      v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:   v.GetString("OTEL_SERVICE_NAME"),
			Environment:   v.GetString("OTEL_ENVIRONMENT"),
			ExportEnabled: v.GetBool("OTEL_EXPORT_ENABLED"),
		},
		Catalog: CatalogConfig{
			Endpoint:   strings.TrimRight(strings.TrimSpace(v.GetString("CATALOG_ENDPOINT")), "/"),
			PageSize:   v.GetInt("CATALOG_PAGE_SIZE"),
			Timeout:    v.GetDuration("CATALOG_TIMEOUT"),
			TotalItems: v.GetInt("CATALOG_TOTAL_ITEMS"),
			Debounce:   v.GetDuration("CATALOG_DEBOUNCE"),
			RateLimit:  v.GetFloat64("CATALOG_RATE_LIMIT"),
		},
		Session: SessionConfig{
			IdleTimeout: v.GetDuration("SESSION_IDLE_TIMEOUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Catalog.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("catalog page size must be positive, got %d", c.Catalog.PageSize))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog timeout must be positive"))
	}
	if c.Catalog.TotalItems < 0 {
		errs = append(errs, errors.New("catalog total items must not be negative"))
	}
	if c.Catalog.Debounce < 0 {
		errs = append(errs, errors.New("catalog debounce must not be negative"))
	}
	if c.Catalog.RateLimit < 0 {
		errs = append(errs, errors.New("catalog rate limit must not be negative"))
	}
	if c.Catalog.Endpoint != "" {
		u, err := url.Parse(c.Catalog.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("catalog endpoint %q is not an http(s) URL", c.Catalog.Endpoint))
		}
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, errors.New("session idle timeout must be positive"))
	}
	return errors.Join(errs...)
}

// Address returns the host:port the HTTP server listens on
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Offline reports whether the in-memory catalog replaces the remote API
func (c *CatalogConfig) Offline() bool {
	return c.Endpoint == ""
}
