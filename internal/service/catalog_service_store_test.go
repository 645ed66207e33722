package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/showcase/backend/internal/model"
	"github.com/showcase/backend/internal/repository"
	"github.com/showcase/backend/internal/view"
)

// These tests run the catalog service against a real in-memory sqlite store.

func newStoreBackedCatalog(t *testing.T) (CatalogService, repository.AdminRepository) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := repository.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := NewCatalogService(repository.NewGormCatalogRepository(store.DB()), view.NewBuilder(nil))
	return svc, repository.NewGormAdminRepository(store.DB())
}

func TestCatalogService_Store_GroupedMatchesFlatListing(t *testing.T) {
	svc, admin := newStoreBackedCatalog(t)
	ctx := context.Background()

	cats := map[string]*model.Category{}
	for _, name := range []string{"Lamps", "Chairs", "Rugs", "Desks"} {
		c := &model.Category{Name: name}
		if err := admin.CreateCategory(ctx, c); err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		cats[name] = c
	}
	for i, name := range []string{"Lamps", "Chairs", "Lamps", "Desks", "Chairs", "Lamps"} {
		p := &model.Product{
			CategoryID:  cats[name].ID,
			Description: fmt.Sprintf("%s-%d", name, i),
			Price:       model.MustPrice(fmt.Sprintf("%d.25", i)),
			Featured:    i%2 == 0,
		}
		if err := admin.CreateProduct(ctx, p); err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}
	}

	flat, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	grouped, err := svc.ListCategoriesWithProducts(ctx)
	if err != nil {
		t.Fatalf("ListCategoriesWithProducts: %v", err)
	}

	// expected: flat listing grouped by category, keeping its order
	want := map[string][]int64{}
	for _, p := range flat {
		want[p.CategoryName] = append(want[p.CategoryName], p.ID)
	}

	seen := 0
	var prevName string
	for _, g := range grouped {
		if g.Name < prevName {
			t.Errorf("categories not name-ascending: %q after %q", g.Name, prevName)
		}
		prevName = g.Name
		if g.ProductCount != len(g.Products) {
			t.Errorf("%s: product_count %d != nested %d", g.Name, g.ProductCount, len(g.Products))
		}
		if len(g.Products) != len(want[g.Name]) {
			t.Fatalf("%s: expected %d products, got %d", g.Name, len(want[g.Name]), len(g.Products))
		}
		for i, p := range g.Products {
			if p.ID != want[g.Name][i] {
				t.Errorf("%s[%d]: expected product %d, got %d", g.Name, i, want[g.Name][i], p.ID)
			}
			if i > 0 && p.CreatedAt.After(g.Products[i-1].CreatedAt) {
				t.Errorf("%s: products not newest first", g.Name)
			}
		}
		seen += len(g.Products)
	}
	if seen != len(flat) {
		t.Errorf("grouped listing has %d products, flat listing %d", seen, len(flat))
	}

	summaries, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	for _, s := range summaries {
		if s.ProductCount != len(want[s.Name]) {
			t.Errorf("%s: summary product_count %d, expected %d", s.Name, s.ProductCount, len(want[s.Name]))
		}
	}
}

func TestCatalogService_Store_DeleteCategoryCascades(t *testing.T) {
	svc, admin := newStoreBackedCatalog(t)
	ctx := context.Background()

	c := &model.Category{Name: "Chairs"}
	if err := admin.CreateCategory(ctx, c); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	p := &model.Product{CategoryID: c.ID, Description: "oak", Price: model.MustPrice("19.5")}
	if err := admin.CreateProduct(ctx, p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	detail, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if detail.Category != c.ID || detail.Price.String() != "19.50" {
		t.Errorf("unexpected detail %+v", detail)
	}

	if err := admin.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := svc.GetProduct(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after cascade, got %v", err)
	}
	all, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no products after cascade, got %d", len(all))
	}
}
