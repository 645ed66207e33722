package service

import (
	"context"

	"github.com/showcase/backend/internal/model"
	"github.com/showcase/backend/internal/repository"
	"github.com/showcase/backend/internal/view"
	"golang.org/x/sync/errgroup"
)

// catalogServiceImpl is the production implementation of CatalogService.
type catalogServiceImpl struct {
	repo  repository.CatalogRepository
	views *view.Builder
}

// NewCatalogService creates a CatalogService backed by the given repository.
func NewCatalogService(repo repository.CatalogRepository, views *view.Builder) CatalogService {
	return &catalogServiceImpl{repo: repo, views: views}
}

// ListCategories fetches categories and the grouped product counts
// concurrently; counts are computed per request and not cached.
func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]view.CategorySummary, error) {
	var (
		categories []*model.Category
		counts     map[int64]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.repo.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.CountProductsByCategory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.views.CategorySummaries(categories, counts), nil
}

func (s *catalogServiceImpl) GetCategory(ctx context.Context, id int64) (view.CategorySummary, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return view.CategorySummary{}, err
	}
	n, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return view.CategorySummary{}, err
	}
	return s.views.CategorySummary(c, n), nil
}

func (s *catalogServiceImpl) GetCategoryProducts(ctx context.Context, categoryID int64) ([]view.ProductListItem, error) {
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	products, err := s.repo.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.views.ProductListItems(products), nil
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]view.ProductListItem, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return s.views.ProductListItems(products), nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id int64) (view.ProductDetail, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return view.ProductDetail{}, err
	}
	return s.views.ProductDetail(p), nil
}

func (s *catalogServiceImpl) ListFeaturedProducts(ctx context.Context) ([]view.ProductListItem, error) {
	products, err := s.repo.ListFeaturedProducts(ctx)
	if err != nil {
		return nil, err
	}
	return s.views.ProductListItems(products), nil
}

func (s *catalogServiceImpl) ListCategoriesWithProducts(ctx context.Context) ([]view.CategoryWithProducts, error) {
	var (
		categories []*model.Category
		products   []*model.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.repo.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.repo.ListProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.views.GroupByCategory(categories, products), nil
}
