package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-storefront/internal/app/dto"
	"github.com/mrops-br/catalog-storefront/internal/app/session"
	"github.com/mrops-br/catalog-storefront/internal/domain"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/http/response"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/telemetry"
)

// SessionHandler exposes per-visitor filter controllers
type SessionHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func NewSessionHandler(sessions *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := response.Decode(r, &req, true); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	s := h.sessions.Create(r.Context(), req.Query)
	w.Header().Set("Location", "/sessions/"+s.ID)
	h.render(w, http.StatusCreated, s)
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, s)
}

// EditFilter handles PATCH /sessions/{id}/filter
func (h *SessionHandler) EditFilter(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req dto.FilterEditRequest
	if err := response.Decode(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	switch req.Field {
	case "search":
		s.Controller.SetSearch(req.Value)
	case "category":
		s.Controller.SetCategory(req.Value)
	case "sort":
		order, valid := domain.ParseSortOrder(req.Value)
		if !valid {
			response.Error(w, http.StatusBadRequest, fmt.Errorf("unknown sort order %q", req.Value))
			return
		}
		s.Controller.SetSort(order)
	default:
		response.Error(w, http.StatusBadRequest, fmt.Errorf("unknown filter field %q", req.Field))
		return
	}

	h.logger.DebugContext(r.Context(), "Filter edited",
		slog.String("field", req.Field),
		slog.String("location", s.Location()),
	)
	h.render(w, http.StatusOK, s)
}

// GoToPage handles POST /sessions/{id}/page
func (h *SessionHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req dto.PageRequest
	if err := response.Decode(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if !s.Controller.GoToPage(req.Page) {
		response.Error(w, http.StatusConflict, domain.ErrPageOutOfRange)
		return
	}
	h.render(w, http.StatusOK, s)
}

// Navigate handles POST /sessions/{id}/navigate
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req dto.NavigateRequest
	if err := response.Decode(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	s.Controller.HandleNavigation(req.Query)
	h.render(w, http.StatusOK, s)
}

// Restore handles POST /sessions/{id}/restore
func (h *SessionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	s, _, ok := h.lookup(w, r)
	if !ok {
		return
	}
	s.Controller.Restore()
	h.render(w, http.StatusOK, s)
}

// DeleteSession handles DELETE /sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := telemetry.WithSessionID(r.Context(), id)

	if err := h.sessions.Delete(ctx, id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves the session named by the route and tags the request
// context with its id
func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, *http.Request, bool) {
	id := chi.URLParam(r, "id")
	s, err := h.sessions.Get(id)
	if err != nil {
		h.fail(w, err)
		return nil, r, false
	}
	return s, r.WithContext(telemetry.WithSessionID(r.Context(), id)), true
}

func (h *SessionHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		response.Error(w, http.StatusNotFound, err)
		return
	}
	response.Error(w, http.StatusInternalServerError, err)
}

func (h *SessionHandler) render(w http.ResponseWriter, status int, s *session.Session) {
	response.JSON(w, status, dto.ToSessionResponse(s.ID, s.Location(), s.Controller.View()))
}
