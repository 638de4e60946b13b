package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/catalog-storefront/internal/app/dto"
	"github.com/mrops-br/catalog-storefront/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		offline = false
		productsSearch, productsCategory, productsSort, productsPage = "", "", "", 1
		encodeSearch, encodeCategory, encodeSort, encodePage = "", "", "", 1
		productImage = 0
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestQueryEncode(t *testing.T) {
	out, err := execute(t, "query", "encode", "--search", "red shoes", "--sort", "desc", "--page", "1")
	require.NoError(t, err)
	assert.Equal(t, "/?search=red+shoes&sort=desc\n", out)
}

func TestQueryEncode_RejectsSort(t *testing.T) {
	_, err := execute(t, "query", "encode", "--sort", "up")
	assert.Error(t, err)
}

func TestQueryDecode(t *testing.T) {
	out, err := execute(t, "query", "decode", "?category=books&page=3&sort=bogus")
	require.NoError(t, err)

	var f domain.FilterState
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, domain.FilterState{Category: "books", Page: 3}, f)
}

func TestProducts_Offline(t *testing.T) {
	out, err := execute(t, "--offline", "products", "--category", "shoes", "--sort", "asc")
	require.NoError(t, err)

	var page dto.CatalogPageResponse
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, domain.StatusSuccess, page.Status)
	require.NotEmpty(t, page.Products)
	for _, p := range page.Products {
		assert.Equal(t, "shoes", p.Category)
	}
}

func TestProduct_Offline(t *testing.T) {
	out, err := execute(t, "--offline", "product", "1")
	require.NoError(t, err)

	var detail dto.ProductDetailResponse
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, "1", detail.ID)

	_, err = execute(t, "--offline", "product", "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
