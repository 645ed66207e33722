package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/showcase/backend/internal/model"
)

// newTestStore opens a private in-memory sqlite database for one test.
func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedCategory(t *testing.T, store *GormStore, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name, Description: name + " description"}
	if err := NewGormAdminRepository(store.DB()).CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("seed category %q: %v", name, err)
	}
	return c
}

// seedProduct inserts a product with an explicit creation time so ordering
// assertions do not depend on clock resolution.
func seedProduct(t *testing.T, store *GormStore, categoryID int64, desc string, price string, featured bool, createdOffset time.Duration) int64 {
	t.Helper()
	row := productRow{
		CategoryID:   categoryID,
		Description:  desc,
		ProductImage: "products/" + desc + ".jpg",
		Price:        model.MustPrice(price).Decimal(),
		Featured:     featured,
		CreatedAt:    baseTime.Add(createdOffset),
		UpdatedAt:    baseTime.Add(createdOffset),
	}
	if err := store.DB().Create(&row).Error; err != nil {
		t.Fatalf("seed product %q: %v", desc, err)
	}
	return row.ID
}
