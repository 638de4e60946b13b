package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/config"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/http/middleware"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	catalog   *handler.CatalogHandler
	sessions  *handler.SessionHandler
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	server    *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	catalog *handler.CatalogHandler,
	sessions *handler.SessionHandler,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		catalog:   catalog,
		sessions:  sessions,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// setupMiddleware configures the middleware that runs before routing
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
}

// setupRoutes configures the API routes. Route-aware middleware sits in the
// group so chi has resolved the pattern by the time it runs.
func (s *Server) setupRoutes() {
	meter := s.telemetry.Meter()

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.HTTPRouteContext())
		r.Use(middleware.ActiveRequestsMiddleware(meter))
		r.Use(middleware.DurationMillisecondsMiddleware(meter))

		r.Get("/catalog", s.catalog.ListCatalog)
		r.Get("/categories", s.catalog.ListCategories)
		r.Get("/products/{id}", s.catalog.GetProduct)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.sessions.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.sessions.GetSession)
				r.Delete("/", s.sessions.DeleteSession)
				r.Patch("/filter", s.sessions.EditFilter)
				r.Post("/page", s.sessions.GoToPage)
				r.Post("/navigate", s.sessions.Navigate)
				r.Post("/restore", s.sessions.Restore)
			})
		})
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint backed by the OpenTelemetry exporter
	s.router.Handle("/metrics", s.telemetry.MetricsHandler())
}

// Handler returns the router wrapped with otelhttp for server spans and the
// standard http.server.* metrics
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", slog.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
