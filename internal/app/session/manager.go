// Package session keeps one Filter Controller per visitor.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/catalog-storefront/internal/app/controller"
	"github.com/mrops-br/catalog-storefront/internal/app/service"
	"github.com/mrops-br/catalog-storefront/internal/domain"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Session is a visitor's controller plus the navigation it produced
type Session struct {
	ID         string
	Controller *controller.Controller
	History    *controller.History
	lastSeen   time.Time
}

// Location is where the visitor currently is, whether they got there by
// editing the filter or by navigating
func (s *Session) Location() string {
	return s.Controller.View().Location
}

type Options struct {
	Controller  controller.Options
	IdleTimeout time.Duration
}

// Manager creates, finds and evicts sessions
type Manager struct {
	svc    *service.CatalogService
	opts   Options
	meter  metric.Meter
	logger *slog.Logger
	active metric.Int64UpDownCounter
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(svc *service.CatalogService, opts Options, meter metric.Meter, logger *slog.Logger) *Manager {
	active, err := meter.Int64UpDownCounter(
		"storefront.sessions.active",
		metric.WithDescription("Number of live visitor sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		logger.Warn("Session gauge unavailable", slog.String("error", err.Error()))
		active = noop.Int64UpDownCounter{}
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	return &Manager{
		svc:      svc,
		opts:     opts,
		meter:    meter,
		logger:   logger.With(slog.String("component", "sessions")),
		active:   active,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session whose initial filter is decoded from rawQuery
func (m *Manager) Create(ctx context.Context, rawQuery string) *Session {
	history := &controller.History{}
	fetcher := service.NewFetcher(m.svc, m.meter, m.logger)
	ctrl := controller.New(fetcher, m.svc.PageSize(), history, m.logger, m.opts.Controller)

	s := &Session{
		ID:         uuid.NewString(),
		Controller: ctrl,
		History:    history,
	}

	m.mu.Lock()
	s.lastSeen = m.now()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.active.Add(ctx, 1)
	ctrl.Start(rawQuery)
	m.logger.InfoContext(ctx, "Session created", slog.String("session_id", s.ID))
	return s
}

// Get returns a live session and marks it as used
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.lastSeen = m.now()
	return s, nil
}

// Delete closes and forgets a session
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Controller.Close()
	m.active.Add(ctx, -1)
	m.logger.InfoContext(ctx, "Session closed", slog.String("session_id", id))
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout and returns how
// many were evicted
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.opts.IdleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Controller.Close()
		m.active.Add(ctx, -1)
	}
	if len(idle) > 0 {
		m.logger.InfoContext(ctx, "Evicted idle sessions", slog.Int("count", len(idle)))
	}
	return len(idle)
}

// Run sweeps periodically until ctx is done, then closes every session
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(max(m.opts.IdleTimeout/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Close()
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Close closes every session
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Controller.Close()
		m.active.Add(context.Background(), -1)
	}
}
