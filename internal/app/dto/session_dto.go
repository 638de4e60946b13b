package dto

import (
	"github.com/mrops-br/catalog-storefront/internal/app/controller"
)

// CreateSessionRequest carries the query the visitor landed with
type CreateSessionRequest struct {
	Query string `json:"query"`
}

// FilterEditRequest edits one filter field: search, category or sort
type FilterEditRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type PageRequest struct {
	Page int `json:"page"`
}

// NavigateRequest is an external navigation such as back or forward
type NavigateRequest struct {
	Query string `json:"query"`
}

// SessionResponse is a session's current view. Stale is set while the
// products shown were fetched for an earlier filter.
type SessionResponse struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Stale    bool   `json:"stale"`
	CatalogPageResponse
}

func ToSessionResponse(id, location string, view controller.View) SessionResponse {
	return SessionResponse{
		ID:                  id,
		Location:            location,
		Stale:               view.Stale(),
		CatalogPageResponse: ToCatalogPageResponse(view.Filter, view.Result, view.Pagination),
	}
}
