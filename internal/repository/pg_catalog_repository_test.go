package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/showcase/backend/internal/model"
)

// newTestPool connects to TEST_DATABASE_URL; the pg tests are integration
// tests and are skipped in -short mode or when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_URL to run PostgreSQL integration tests")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return pool
}

func TestPgRepositories_CategoryLifecycle(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	admin := NewPgAdminRepository(pool)
	catalog := NewPgCatalogRepository(pool)

	unique := fmt.Sprintf("%d", time.Now().UnixNano())
	cat := &model.Category{Name: "pg-test-" + unique}
	if err := admin.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if err := admin.CreateCategory(ctx, &model.Category{Name: cat.Name}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate name, got %v", err)
	}

	p := &model.Product{
		CategoryID:  cat.ID,
		Description: "integration product",
		Price:       model.MustPrice("19.5"),
		Featured:    true,
	}
	if err := admin.CreateProduct(ctx, p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	got, err := catalog.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Price.String() != "19.50" {
		t.Errorf("expected price 19.50, got %s", got.Price)
	}
	if got.CategoryID != cat.ID || got.CategoryName != cat.Name {
		t.Errorf("unexpected category %d/%q", got.CategoryID, got.CategoryName)
	}

	n, err := catalog.CountProductsInCategory(ctx, cat.ID)
	if err != nil || n != 1 {
		t.Errorf("expected count 1, got %d (err=%v)", n, err)
	}

	if err := admin.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := catalog.GetProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after cascade, got %v", err)
	}
}

func TestPgContactRepository_Create(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPgContactRepository(pool)

	msg := &model.Contact{Name: "Pg", Email: "pg@example.com", Message: "hi", IsRead: true}
	if err := repo.Create(context.Background(), msg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if msg.ID == 0 {
		t.Error("expected ID to be set after Create")
	}
	if msg.IsRead {
		t.Error("expected is_read=false")
	}
}
