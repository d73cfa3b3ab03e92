package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
)

const categoriesCacheKey = "categories:all"

var _ CatalogService = (*CatalogServiceImpl)(nil)

// CatalogService serves the storefront browse data.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]Category, error)
}

// CatalogServiceImpl caches the category list in-process; the data changes
// rarely and the grid is hit on every storefront visit.
type CatalogServiceImpl struct {
	logger *slog.Logger
	repo   CategoryRepo
	cache  *cache.Cache
}

func NewCatalogService(repo CategoryRepo, logger *slog.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *CatalogServiceImpl) ListCategories(ctx context.Context) ([]Category, error) {
	if cached, found := s.cache.Get(categoriesCacheKey); found {
		return cached.([]Category), nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(categoriesCacheKey, categories, cache.DefaultExpiration)
	return categories, nil
}
