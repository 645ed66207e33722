package service

import (
	"context"

	"github.com/showcase/backend/internal/view"
)

// CatalogService composes repository reads into the public catalog views.
// Every method is read-only. Lookups by id return repository.ErrNotFound on
// a miss; collections are empty, never nil, when nothing matches.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]view.CategorySummary, error)
	GetCategory(ctx context.Context, id int64) (view.CategorySummary, error)
	GetCategoryProducts(ctx context.Context, categoryID int64) ([]view.ProductListItem, error)
	ListProducts(ctx context.Context) ([]view.ProductListItem, error)
	GetProduct(ctx context.Context, id int64) (view.ProductDetail, error)
	ListFeaturedProducts(ctx context.Context) ([]view.ProductListItem, error)
	// ListCategoriesWithProducts nests every product under its category using
	// one fetch for categories and one for products, never a query per category.
	ListCategoriesWithProducts(ctx context.Context) ([]view.CategoryWithProducts, error)
}
