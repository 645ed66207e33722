package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("repository: unknown driver")

// StoreConfig selects and locates the backing database.
type StoreConfig struct {
	Driver      string // "postgres" or "sqlite"
	DatabaseURL string // postgres connection string
	SQLitePath  string // sqlite file or "file:" URI
}

// Store bundles the repositories of one backing database.
type Store struct {
	Catalog  CatalogRepository
	Contacts ContactRepository
	Admin    AdminRepository
	DB       DB

	close func() error
}

// Open connects to the configured database, creates the tables if they are
// missing and returns its repositories.
func Open(ctx context.Context, cfg StoreConfig) (*Store, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: connect: %w", err)
		}
		if err := EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Catalog:  NewPgCatalogRepository(pool),
			Contacts: NewPgContactRepository(pool),
			Admin:    NewPgAdminRepository(pool),
			DB:       pool,
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil
	case "sqlite":
		gs, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Catalog:  NewGormCatalogRepository(gs.DB()),
			Contacts: NewGormContactRepository(gs.DB()),
			Admin:    NewGormAdminRepository(gs.DB()),
			DB:       gs,
			close:    gs.Close,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
