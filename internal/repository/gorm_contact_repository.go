package repository

import (
	"context"

	"github.com/showcase/backend/internal/model"
	"gorm.io/gorm"
)

// GormContactRepository is the gorm implementation of ContactRepository.
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a GormContactRepository.
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

var _ ContactRepository = (*GormContactRepository)(nil)

// Create inserts msg; id and created_at come from the store and is_read is
// forced to false regardless of what the caller set.
func (r *GormContactRepository) Create(ctx context.Context, msg *model.Contact) error {
	row := contactRow{
		Name:    msg.Name,
		Email:   msg.Email,
		Message: msg.Message,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	msg.ID = row.ID
	msg.CreatedAt = row.CreatedAt
	msg.IsRead = false
	return nil
}

func (r contactRow) toModel() *model.Contact {
	return &model.Contact{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
		IsRead:    r.IsRead,
	}
}
