package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/catalog-storefront/internal/domain"
	"github.com/mrops-br/catalog-storefront/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-storefront/internal/testutil"
)

func newRepo(products ...domain.Product) *memory.ProductRepository {
	return memory.NewProductRepository(testutil.Tracer(), testutil.Logger(), products...)
}

func TestProductRepository_ListProducts(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(testutil.Products(45)...)

	tests := []struct {
		name      string
		query     domain.ProductQuery
		wantIDs   []domain.ProductID
		wantCount int
		wantTotal int
	}{
		{
			name:      "first_window",
			query:     domain.ProductQuery{Skip: 0, Limit: 20},
			wantCount: 20,
			wantTotal: 45,
		},
		{
			name:      "last_partial_window",
			query:     domain.ProductQuery{Skip: 40, Limit: 20},
			wantCount: 5,
			wantTotal: 45,
		},
		{
			name:      "skip_past_end_is_empty",
			query:     domain.ProductQuery{Skip: 100, Limit: 20},
			wantCount: 0,
			wantTotal: 45,
		},
		{
			name:      "category_filter",
			query:     domain.ProductQuery{Limit: 100, Category: "books"},
			wantCount: 15,
			wantTotal: 15,
		},
		{
			name:      "search_is_case_insensitive",
			query:     domain.ProductQuery{Limit: 100, Search: "PRODUCT 4"},
			wantIDs:   []domain.ProductID{"004", "040", "041", "042", "043", "044", "045"},
			wantCount: 7,
			wantTotal: 7,
		},
		{
			name:      "sorted_desc_by_price",
			query:     domain.ProductQuery{Limit: 3, SortBy: "price", Order: domain.SortDesc},
			wantIDs:   []domain.ProductID{"045", "044", "043"},
			wantCount: 3,
			wantTotal: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.ListProducts(ctx, tt.query)
			require.NoError(t, err)

			assert.Len(t, page.Products, tt.wantCount)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.True(t, page.TotalReported)
			if tt.wantIDs != nil {
				ids := make([]domain.ProductID, 0, len(page.Products))
				for _, p := range page.Products {
					ids = append(ids, p.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			}
		})
	}
}

func TestProductRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(memory.DemoProducts()...)

	p, err := repo.FindByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", p.Title)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductRepository_ListCategories(t *testing.T) {
	repo := newRepo(memory.DemoProducts()...)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"books", "kitchen", "shoes"}, categories)
}

func TestProductRepository_PutReplaces(t *testing.T) {
	repo := newRepo(testutil.Products(2)...)
	repo.Put(domain.Product{ID: "001", Title: "Replaced", Category: "misc"})

	p, err := repo.FindByID(context.Background(), "001")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", p.Title)

	page, err := repo.ListProducts(context.Background(), domain.ProductQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}
