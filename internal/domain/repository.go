package domain

import "context"

// CatalogRepository defines the contract for reading the product catalog
type CatalogRepository interface {
	ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}
