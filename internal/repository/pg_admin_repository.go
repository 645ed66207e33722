package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/showcase/backend/internal/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PgAdminRepository is the PostgreSQL implementation of AdminRepository.
type PgAdminRepository struct {
	pool *pgxpool.Pool
}

// NewPgAdminRepository creates a PgAdminRepository backed by the given pool.
func NewPgAdminRepository(pool *pgxpool.Pool) *PgAdminRepository {
	return &PgAdminRepository{pool: pool}
}

var _ AdminRepository = (*PgAdminRepository)(nil)

// translatePgError maps constraint violations onto repository errors.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}

func (r *PgAdminRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2)
		 RETURNING id, created_at`,
		c.Name, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
	return translatePgError(err)
}

// DeleteCategory relies on ON DELETE CASCADE to remove the products.
func (r *PgAdminRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateProduct returns ErrNotFound when the referenced category does not exist.
func (r *PgAdminRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	err := r.pool.QueryRow(ctx,
		`WITH inserted AS (
			INSERT INTO products (category_id, description, product_image, price, featured)
			VALUES ($1, $2, $3, $4::numeric, $5)
			RETURNING id, category_id, created_at, updated_at
		 )
		 SELECT i.id, c.name, i.created_at, i.updated_at
		 FROM inserted i INNER JOIN categories c ON c.id = i.category_id`,
		p.CategoryID, p.Description, p.ProductImage, p.Price.String(), p.Featured,
	).Scan(&p.ID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt)
	return translatePgError(err)
}

func (r *PgAdminRepository) SetProductFeatured(ctx context.Context, id int64, featured bool) error {
	return r.updateProduct(ctx, `UPDATE products SET featured = $1, updated_at = NOW() WHERE id = $2`, featured, id)
}

func (r *PgAdminRepository) SetProductPrice(ctx context.Context, id int64, price model.Price) error {
	return r.updateProduct(ctx, `UPDATE products SET price = $1::numeric, updated_at = NOW() WHERE id = $2`, price.String(), id)
}

func (r *PgAdminRepository) updateProduct(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListContacts returns contacts newest first.
func (r *PgAdminRepository) ListContacts(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, message, created_at, is_read
		 FROM contacts
		 WHERE ($1 = FALSE OR is_read = FALSE)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		opts.UnreadOnly, limit, opts.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.CreatedAt, &c.IsRead); err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

func (r *PgAdminRepository) MarkContactRead(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE contacts SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
