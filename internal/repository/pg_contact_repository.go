package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/showcase/backend/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

// Create inserts a new contacts row and populates msg.ID, CreatedAt and IsRead
// from the database RETURNING clause. is_read always starts out false.
func (r *PgContactRepository) Create(ctx context.Context, msg *model.Contact) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, message, is_read)
		 VALUES ($1, $2, $3, FALSE)
		 RETURNING id, created_at, is_read`,
		msg.Name, msg.Email, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt, &msg.IsRead)
}
