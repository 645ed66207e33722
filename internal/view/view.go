// Package view maps catalog entities onto the JSON shapes the API returns.
// Each shape names its exact field set; which shape is used depends on the
// operation (list item, detail, nested in a category, creation echo).
package view

import (
	"time"

	"github.com/showcase/backend/internal/model"
	"github.com/showcase/backend/internal/storage"
)

// CategorySummary is the category shape used in every category response.
type CategorySummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ProductCount int    `json:"product_count"`
}

// CategoryWithProducts is a summary with its products nested, produced only
// by the grouped product listing.
type CategoryWithProducts struct {
	CategorySummary
	Products []ProductListItem `json:"products"`
}

// ProductListItem is the compact product shape used in collections. It has no
// updated_at and no raw category id.
type ProductListItem struct {
	ID           int64       `json:"id"`
	Description  string      `json:"description"`
	CategoryName string      `json:"category_name"`
	ProductImage string      `json:"product_image"`
	Price        model.Price `json:"price"`
	Featured     bool        `json:"featured"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ProductDetail is the full product shape for single-product retrieval.
type ProductDetail struct {
	ID           int64       `json:"id"`
	Description  string      `json:"description"`
	Category     int64       `json:"category"`
	CategoryName string      `json:"category_name"`
	ProductImage string      `json:"product_image"`
	Price        model.Price `json:"price"`
	Featured     bool        `json:"featured"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ContactEcho is returned after a contact message has been stored.
type ContactEcho struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

// Builder renders entities into views. Image keys are resolved to URLs
// through the configured resolver; with a nil resolver the key is passed
// through unchanged.
type Builder struct {
	images storage.Resolver
}

// NewBuilder creates a Builder.
func NewBuilder(images storage.Resolver) *Builder {
	return &Builder{images: images}
}

func (b *Builder) imageURL(key string) string {
	if b.images == nil {
		return key
	}
	return b.images.URL(key)
}

func (b *Builder) CategorySummary(c *model.Category, productCount int) CategorySummary {
	return CategorySummary{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: productCount,
	}
}

// CategorySummaries keeps the order of categories. counts maps category id to
// product count; a missing entry means zero.
func (b *Builder) CategorySummaries(categories []*model.Category, counts map[int64]int) []CategorySummary {
	out := make([]CategorySummary, 0, len(categories))
	for _, c := range categories {
		out = append(out, b.CategorySummary(c, counts[c.ID]))
	}
	return out
}

func (b *Builder) ProductListItem(p *model.Product) ProductListItem {
	return ProductListItem{
		ID:           p.ID,
		Description:  p.Description,
		CategoryName: p.CategoryName,
		ProductImage: b.imageURL(p.ProductImage),
		Price:        p.Price,
		Featured:     p.Featured,
		CreatedAt:    p.CreatedAt,
	}
}

// ProductListItems never returns nil, so empty collections encode as [].
func (b *Builder) ProductListItems(products []*model.Product) []ProductListItem {
	out := make([]ProductListItem, 0, len(products))
	for _, p := range products {
		out = append(out, b.ProductListItem(p))
	}
	return out
}

func (b *Builder) ProductDetail(p *model.Product) ProductDetail {
	return ProductDetail{
		ID:           p.ID,
		Description:  p.Description,
		Category:     p.CategoryID,
		CategoryName: p.CategoryName,
		ProductImage: b.imageURL(p.ProductImage),
		Price:        p.Price,
		Featured:     p.Featured,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (b *Builder) ContactEcho(c *model.Contact) ContactEcho {
	return ContactEcho{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		IsRead:    c.IsRead,
	}
}

// GroupByCategory nests products under their categories in memory. Category
// order is preserved, and so is the relative order of products, which is
// expected to be newest first. Products whose category is not in categories
// are dropped.
func (b *Builder) GroupByCategory(categories []*model.Category, products []*model.Product) []CategoryWithProducts {
	grouped := make(map[int64][]ProductListItem, len(categories))
	for _, p := range products {
		grouped[p.CategoryID] = append(grouped[p.CategoryID], b.ProductListItem(p))
	}

	out := make([]CategoryWithProducts, 0, len(categories))
	for _, c := range categories {
		items := grouped[c.ID]
		if items == nil {
			items = []ProductListItem{}
		}
		out = append(out, CategoryWithProducts{
			CategorySummary: b.CategorySummary(c, len(items)),
			Products:        items,
		})
	}
	return out
}
