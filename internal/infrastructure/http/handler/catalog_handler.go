package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-storefront/internal/app/dto"
	"github.com/mrops-br/catalog-storefront/internal/app/querystate"
	"github.com/mrops-br/catalog-storefront/internal/app/service"
	"github.com/mrops-br/catalog-storefront/internal/domain"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/http/response"
)

// CatalogHandler serves stateless catalog reads
type CatalogHandler struct {
	service            *service.CatalogService
	fallbackTotalItems int
	logger             *slog.Logger
}

// NewCatalogHandler creates a catalog handler. fallbackTotalItems sizes
// pagination when the catalog does not report a total.
func NewCatalogHandler(service *service.CatalogService, fallbackTotalItems int, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:            service,
		fallbackTotalItems: fallbackTotalItems,
		logger:             logger,
	}
}

// CategoriesResponse lists the category names for the filter form
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ListCatalog handles GET /catalog
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	filter := querystate.Decode(r.URL.RawQuery)
	result := h.service.LoadProducts(r.Context(), filter)

	total := service.TotalItems(result, h.fallbackTotalItems)
	pagination, err := domain.NewPaginationState(filter.Page, total, h.service.PageSize())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if result.IsFailure() {
		status = http.StatusBadGateway
	}
	response.JSON(w, status, dto.ToCatalogPageResponse(filter, result, pagination))
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	image := 0
	if raw := r.URL.Query().Get("image"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, fmt.Errorf("image must be an integer: %q", raw))
			return
		}
		image = n
	}

	result, found := h.service.LoadProduct(r.Context(), id)
	switch {
	case !found:
		response.Error(w, http.StatusNotFound, domain.ErrProductNotFound)
		return
	case result.IsFailure():
		response.JSON(w, http.StatusBadGateway, response.ErrorResponse{
			Error:   "bad_gateway",
			Message: result.Message,
		})
		return
	}

	product := result.Value
	if !dto.ValidImageIndex(&product, image) {
		h.logger.WarnContext(r.Context(), "Rejected image index",
			slog.String("product_id", id),
			slog.Int("image", image),
		)
		response.Error(w, http.StatusBadRequest, domain.ErrImageOutOfRange)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToProductDetailResponse(&product, image))
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, CategoriesResponse{
		Categories: h.service.ListCategories(r.Context()),
	})
}
