package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/showcase/backend/internal/model"
	"gorm.io/gorm"
)

// productJoinRow is a product row with its category name joined in.
type productJoinRow struct {
	ID           int64
	CategoryID   int64
	CategoryName string
	Description  string
	ProductImage string
	Price        decimal.Decimal
	Featured     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r productJoinRow) toModel() *model.Product {
	return &model.Product{
		ID:           r.ID,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		Description:  r.Description,
		ProductImage: r.ProductImage,
		Price:        model.PriceFromStore(r.Price),
		Featured:     r.Featured,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r categoryRow) toModel() *model.Category {
	return &model.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// GormCatalogRepository is the gorm implementation of CatalogRepository.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a GormCatalogRepository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

var _ CatalogRepository = (*GormCatalogRepository)(nil)

func (r *GormCatalogRepository) products(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products AS p").
		Select("p.id, p.category_id, c.name AS category_name, p.description, p.product_image, p.price, p.featured, p.created_at, p.updated_at").
		Joins("INNER JOIN categories c ON c.id = p.category_id")
}

func (r *GormCatalogRepository) findProducts(q *gorm.DB) ([]*model.Product, error) {
	var rows []productJoinRow
	if err := q.Order("p.created_at DESC, p.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]*model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

func (r *GormCatalogRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var rows []categoryRow
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]*model.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.toModel())
	}
	return categories, nil
}

func (r *GormCatalogRepository) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var row categoryRow
	err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *GormCatalogRepository) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return r.findProducts(r.products(ctx))
}

func (r *GormCatalogRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var row productJoinRow
	err := r.products(ctx).Where("p.id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *GormCatalogRepository) ListFeaturedProducts(ctx context.Context) ([]*model.Product, error) {
	return r.findProducts(r.products(ctx).Where("p.featured = ?", true))
}

func (r *GormCatalogRepository) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*model.Product, error) {
	return r.findProducts(r.products(ctx).Where("p.category_id = ?", categoryID))
}

func (r *GormCatalogRepository) CountProductsInCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&productRow{}).Where("category_id = ?", categoryID).Count(&n).Error
	return int(n), err
}

func (r *GormCatalogRepository) CountProductsByCategory(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		CategoryID int64
		N          int
	}
	err := r.db.WithContext(ctx).
		Model(&productRow{}).
		Select("category_id, COUNT(*) AS n").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.N
	}
	return counts, nil
}
