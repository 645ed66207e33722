package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/showcase/backend/internal/model"
)

// productColumns selects a product joined with its category name. price is
// read as text so NUMERIC never passes through float64.
const productColumns = `SELECT p.id, p.category_id, c.name, p.description, p.product_image,
	p.price::text, p.featured, p.created_at, p.updated_at
	FROM products p
	INNER JOIN categories c ON c.id = p.category_id`

const productOrder = ` ORDER BY p.created_at DESC, p.id DESC`

// PgCatalogRepository is the PostgreSQL implementation of CatalogRepository.
type PgCatalogRepository struct {
	pool *pgxpool.Pool
}

// NewPgCatalogRepository creates a PgCatalogRepository backed by the given pool.
func NewPgCatalogRepository(pool *pgxpool.Pool) *PgCatalogRepository {
	return &PgCatalogRepository{pool: pool}
}

var _ CatalogRepository = (*PgCatalogRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	var price string
	if err := row.Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.Description, &p.ProductImage,
		&price, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = model.PriceFromStore(d)
	return &p, nil
}

func (r *PgCatalogRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListCategories returns all categories ordered by name.
func (r *PgCatalogRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// GetCategory returns ErrNotFound when no category has the given id.
func (r *PgCatalogRepository) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgCatalogRepository) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return r.queryProducts(ctx, productColumns+productOrder)
}

// GetProduct returns ErrNotFound when no product has the given id.
func (r *PgCatalogRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, productColumns+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PgCatalogRepository) ListFeaturedProducts(ctx context.Context) ([]*model.Product, error) {
	return r.queryProducts(ctx, productColumns+` WHERE p.featured = TRUE`+productOrder)
}

func (r *PgCatalogRepository) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*model.Product, error) {
	return r.queryProducts(ctx, productColumns+` WHERE p.category_id = $1`+productOrder, categoryID)
}

func (r *PgCatalogRepository) CountProductsInCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`,
		categoryID,
	).Scan(&n)
	return n, err
}

func (r *PgCatalogRepository) CountProductsByCategory(ctx context.Context) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category_id, COUNT(*) FROM products GROUP BY category_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
