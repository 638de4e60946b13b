package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/catalog-storefront/internal/app/controller"
	"github.com/mrops-br/catalog-storefront/internal/app/dto"
	"github.com/mrops-br/catalog-storefront/internal/app/service"
	"github.com/mrops-br/catalog-storefront/internal/app/session"
	"github.com/mrops-br/catalog-storefront/internal/domain"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-storefront/internal/testutil"
)

type failingRepository struct{}

func (failingRepository) ListProducts(context.Context, domain.ProductQuery) (*domain.ProductPage, error) {
	return nil, domain.ErrNetworkFailure
}

func (failingRepository) FindByID(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrNetworkFailure
}

func (failingRepository) ListCategories(context.Context) ([]string, error) {
	return nil, errors.New("down")
}

func newRouter(t *testing.T, repo domain.CatalogRepository) http.Handler {
	t.Helper()
	svc, err := service.NewCatalogService(repo, 20, testutil.Tracer(), testutil.Meter(), testutil.Logger())
	require.NoError(t, err)

	sessions := session.NewManager(svc, session.Options{
		Controller:  controller.Options{FallbackTotalItems: 125},
		IdleTimeout: time.Minute,
	}, testutil.Meter(), testutil.Logger())
	t.Cleanup(sessions.Close)

	catalog := handler.NewCatalogHandler(svc, 125, testutil.Logger())
	sess := handler.NewSessionHandler(sessions, testutil.Logger())

	r := chi.NewRouter()
	r.Get("/catalog", catalog.ListCatalog)
	r.Get("/products/{id}", catalog.GetProduct)
	r.Get("/categories", catalog.ListCategories)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sess.CreateSession)
		r.Get("/{id}", sess.GetSession)
		r.Delete("/{id}", sess.DeleteSession)
		r.Patch("/{id}/filter", sess.EditFilter)
		r.Post("/{id}/page", sess.GoToPage)
		r.Post("/{id}/navigate", sess.Navigate)
		r.Post("/{id}/restore", sess.Restore)
	})
	return r
}

func memoryRouter(t *testing.T) http.Handler {
	return newRouter(t, memory.NewProductRepository(testutil.Tracer(), testutil.Logger(), testutil.Products(45)...))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestListCatalog(t *testing.T) {
	h := memoryRouter(t)

	rec := do(t, h, http.MethodGet, "/catalog?category=books&sort=desc&page=1&utm=x", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[dto.CatalogPageResponse](t, rec)
	assert.Equal(t, domain.StatusSuccess, page.Status)
	assert.Equal(t, "category=books&sort=desc", page.Query)
	require.Len(t, page.Products, 15)
	assert.Equal(t, "043", page.Products[0].ID)
	assert.Equal(t, 15, page.Pagination.TotalItems)
	assert.Equal(t, 1, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)
}

func TestListCatalog_InvalidParamsFallBack(t *testing.T) {
	h := memoryRouter(t)

	rec := do(t, h, http.MethodGet, "/catalog?page=abc&sort=sideways", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[dto.CatalogPageResponse](t, rec)
	assert.Equal(t, dto.FilterResponse{Page: 1}, page.Filter)
	assert.Len(t, page.Products, 20)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestListCatalog_Failure(t *testing.T) {
	h := newRouter(t, failingRepository{})

	rec := do(t, h, http.MethodGet, "/catalog?search=lamp", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	page := decode[dto.CatalogPageResponse](t, rec)
	assert.Equal(t, domain.StatusFailure, page.Status)
	assert.Equal(t, domain.MsgProductsFailed, page.Message)
	assert.Empty(t, page.Products)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasPrevious)
	assert.False(t, page.Pagination.HasNext)
}

func TestGetProduct(t *testing.T) {
	h := memoryRouter(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "found", target: "/products/005", status: http.StatusOK},
		{name: "image_selected", target: "/products/005?image=1", status: http.StatusOK},
		{name: "image_out_of_range", target: "/products/005?image=2", status: http.StatusBadRequest},
		{name: "image_not_a_number", target: "/products/005?image=x", status: http.StatusBadRequest},
		{name: "not_found", target: "/products/999", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	detail := decode[dto.ProductDetailResponse](t, do(t, h, http.MethodGet, "/products/005?image=1", ""))
	assert.Equal(t, "In Stock: 1", detail.Stock)
	require.NotNil(t, detail.Carousel)
	assert.Equal(t, 1, detail.Carousel.Index)
}

func TestGetProduct_RemoteFailure(t *testing.T) {
	h := newRouter(t, failingRepository{})

	rec := do(t, h, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.MsgProductDetailFailed)
}

func TestListCategories(t *testing.T) {
	rec := do(t, memoryRouter(t), http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"books", "kitchen", "shoes"}, decode[handler.CategoriesResponse](t, rec).Categories)

	rec = do(t, newRouter(t, failingRepository{}), http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":[]}`, rec.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	h := memoryRouter(t)

	rec := do(t, h, http.MethodPost, "/sessions", `{"query":"category=books&ref=mail"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[dto.SessionResponse](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "/sessions/"+created.ID, rec.Header().Get("Location"))
	assert.Equal(t, "/?category=books&ref=mail", created.Location)

	base := "/sessions/" + created.ID

	rec = do(t, h, http.MethodPatch, base+"/filter", `{"field":"sort","value":"asc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decode[dto.SessionResponse](t, rec)
	assert.Equal(t, "asc", edited.Filter.Sort)
	assert.Equal(t, "/?category=books&ref=mail&sort=asc", edited.Location)

	rec = do(t, h, http.MethodPost, base+"/navigate", `{"query":"?category=shoes&page=2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	navigated := decode[dto.SessionResponse](t, rec)
	assert.Equal(t, dto.FilterResponse{Category: "shoes", Page: 2}, navigated.Filter)

	rec = do(t, h, http.MethodPost, base+"/restore", "")
	require.Equal(t, http.StatusOK, rec.Code)
	restored := decode[dto.SessionResponse](t, rec)
	assert.Equal(t, "/", restored.Location)
	assert.Equal(t, dto.FilterResponse{Page: 1}, restored.Filter)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, base, "").Code)
}

func TestSessionPaging(t *testing.T) {
	h := memoryRouter(t)

	created := decode[dto.SessionResponse](t, do(t, h, http.MethodPost, "/sessions", ""))
	base := "/sessions/" + created.ID

	require.Eventually(t, func() bool {
		view := decode[dto.SessionResponse](t, do(t, h, http.MethodGet, base, ""))
		return view.Status == domain.StatusSuccess
	}, time.Second, 5*time.Millisecond)

	rec := do(t, h, http.MethodPost, base+"/page", `{"page":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/?page=2", decode[dto.SessionResponse](t, rec).Location)

	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, base+"/page", `{"page":0}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, base+"/page", `{"page":9}`).Code)
}

func TestEditFilter_Rejections(t *testing.T) {
	h := memoryRouter(t)
	created := decode[dto.SessionResponse](t, do(t, h, http.MethodPost, "/sessions", ""))
	base := "/sessions/" + created.ID

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{name: "unknown_field", target: base + "/filter", body: `{"field":"color","value":"red"}`, status: http.StatusBadRequest},
		{name: "unknown_sort", target: base + "/filter", body: `{"field":"sort","value":"up"}`, status: http.StatusBadRequest},
		{name: "malformed_body", target: base + "/filter", body: `{`, status: http.StatusBadRequest},
		{name: "missing_session", target: "/sessions/nope/filter", body: `{"field":"search","value":"x"}`, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, do(t, h, http.MethodPatch, tt.target, tt.body).Code)
		})
	}
}
