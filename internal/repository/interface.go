package repository

import (
	"context"

	"github.com/showcase/backend/internal/model"
)

// DB checks that the underlying store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// CatalogRepository is the read side of the catalog.
// List methods return an empty slice when nothing matches; only Get* report
// ErrNotFound. Products always carry CategoryName from their owning category.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListFeaturedProducts(ctx context.Context) ([]*model.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]*model.Product, error)
	CountProductsInCategory(ctx context.Context, categoryID int64) (int, error)
	// CountProductsByCategory returns product counts keyed by category id in a
	// single query. Categories without products are absent from the map.
	CountProductsByCategory(ctx context.Context) (map[int64]int, error)
}

// ContactRepository persists contact form submissions.
type ContactRepository interface {
	// Create inserts msg and fills in ID, CreatedAt and IsRead from the store.
	Create(ctx context.Context, msg *model.Contact) error
}

// AdminRepository covers the administrative writes that are not exposed over
// the public API.
type AdminRepository interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	// DeleteCategory removes the category together with all of its products.
	DeleteCategory(ctx context.Context, id int64) error
	CreateProduct(ctx context.Context, p *model.Product) error
	SetProductFeatured(ctx context.Context, id int64, featured bool) error
	SetProductPrice(ctx context.Context, id int64, price model.Price) error
	ListContacts(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error)
	MarkContactRead(ctx context.Context, id int64) error
}
