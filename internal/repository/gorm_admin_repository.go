package repository

import (
	"context"
	"errors"

	"github.com/showcase/backend/internal/model"
	"gorm.io/gorm"
)

// GormAdminRepository is the gorm implementation of AdminRepository.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a GormAdminRepository.
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

var _ AdminRepository = (*GormAdminRepository)(nil)

func translateGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrNotFound
	}
	return err
}

func (r *GormAdminRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	row := categoryRow{Name: c.Name, Description: c.Description}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateGormError(err)
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	return nil
}

// DeleteCategory deletes the products explicitly in the same transaction, so
// the cascade holds even on a connection without foreign key enforcement.
func (r *GormAdminRepository) DeleteCategory(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&productRow{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&categoryRow{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateProduct returns ErrNotFound when the referenced category does not exist.
func (r *GormAdminRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat categoryRow
		if err := tx.Take(&cat, "id = ?", p.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		row := productRow{
			CategoryID:   p.CategoryID,
			Description:  p.Description,
			ProductImage: p.ProductImage,
			Price:        p.Price.Decimal(),
			Featured:     p.Featured,
		}
		if err := tx.Create(&row).Error; err != nil {
			return translateGormError(err)
		}
		p.ID = row.ID
		p.CategoryName = cat.Name
		p.CreatedAt = row.CreatedAt
		p.UpdatedAt = row.UpdatedAt
		return nil
	})
}

func (r *GormAdminRepository) SetProductFeatured(ctx context.Context, id int64, featured bool) error {
	return r.updateProduct(ctx, id, "featured", featured)
}

func (r *GormAdminRepository) SetProductPrice(ctx context.Context, id int64, price model.Price) error {
	return r.updateProduct(ctx, id, "price", price.Decimal())
}

// updateProduct goes through Model so gorm refreshes updated_at.
func (r *GormAdminRepository) updateProduct(ctx context.Context, id int64, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&productRow{ID: id}).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormAdminRepository) ListContacts(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Offset(opts.Offset)
	if opts.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var rows []contactRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]*model.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, row.toModel())
	}
	return contacts, nil
}

func (r *GormAdminRepository) MarkContactRead(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&contactRow{ID: id}).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
