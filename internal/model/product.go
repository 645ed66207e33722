package model

import "time"

// Product belongs to exactly one Category.
// CategoryName is denormalized from the owning category at read time and is
// never persisted on the product row.
type Product struct {
	ID           int64     `json:"id"`
	CategoryID   int64     `json:"category"`
	CategoryName string    `json:"category_name"`
	Description  string    `json:"description"`
	ProductImage string    `json:"product_image"` // storage key, resolved to a URL by the view layer
	Price        Price     `json:"price"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
