package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/storehub/catalog-service/internal/cache"
	"github.com/storehub/catalog-service/internal/config"
	apperrors "github.com/storehub/catalog-service/internal/errors"
	"github.com/storehub/catalog-service/internal/metrics"
	"github.com/storehub/catalog-service/internal/models"
	"github.com/storehub/catalog-service/internal/query"
	repository "github.com/storehub/catalog-service/internal/repositories"
	"github.com/storehub/catalog-service/pkg/cloudinary"
	"golang.org/x/sync/singleflight"
)

type CatalogService interface {
	Latest(ctx context.Context) ([]*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	AdminListing(ctx context.Context) ([]*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Search(ctx context.Context, params query.Params) (*models.SearchResult, error)
	Create(ctx context.Context, req *models.CreateProductRequest, photoPath string) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest, photoPath string) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo        repository.ProductRepository
	store       cache.Store
	invalidator *cache.Invalidator
	assets      cloudinary.Client
	pageSize    int
	latestLimit int
	group       singleflight.Group
}

func NewCatalogService(repo repository.ProductRepository, store cache.Store, invalidator *cache.Invalidator, assets cloudinary.Client, cfg config.Catalog) CatalogService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = query.DefaultPageSize
	}

	if cfg.LatestLimit <= 0 {
		cfg.LatestLimit = 5
	}

	return &catalogService{
		repo:        repo,
		store:       store,
		invalidator: invalidator,
		assets:      assets,
		pageSize:    cfg.PageSize,
		latestLimit: cfg.LatestLimit,
	}
}

// metricKey collapses the per-product keys into one label value so detail
// lookups cannot blow up metric cardinality.
func metricKey(key string) string {
	if strings.HasPrefix(key, cache.ProductKeyPrefix) {
		return cache.ProductKeyPrefix + "*"
	}

	return key
}

// readThrough serves key from the cache, falling back to load on a miss and
// populating the store with the result. Concurrent misses on the same key are
// coalesced into a single storage query. A corrupted entry is dropped and
// treated as a miss; the request is still served. Load failures are returned
// as-is and never cached, so a transient not-found cannot poison later reads.
func readThrough[T any](ctx context.Context, s *catalogService, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T

	err := s.store.Get(key, &cached)
	if err == nil {
		metrics.CacheHits.WithLabelValues(metricKey(key)).Inc()

		return cached, nil
	}

	if !errors.Is(err, cache.ErrKeyNotFound) {
		slog.Warn("dropping corrupted cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		s.store.Delete(key)
	}

	metrics.CacheMisses.WithLabelValues(metricKey(key)).Inc()

	result, err, _ := s.group.Do(key, func() (any, error) {
		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}

		if setErr := s.store.Set(key, fresh); setErr != nil {
			slog.Warn("failed to populate cache",
				slog.String("key", key),
				slog.String("error", setErr.Error()))
		}

		return fresh, nil
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return result.(T), nil
}

func (s *catalogService) Latest(ctx context.Context) ([]*models.Product, error) {
	return readThrough(ctx, s, cache.KeyLatestProducts, func(ctx context.Context) ([]*models.Product, error) {
		products, err := s.repo.Latest(ctx, s.latestLimit)
		if err != nil {
			return nil, apperrors.DatabaseError("Failed to fetch latest products").WithError(err)
		}

		return products, nil
	})
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	return readThrough(ctx, s, cache.KeyCategories, func(ctx context.Context) ([]string, error) {
		categories, err := s.repo.Categories(ctx)
		if err != nil {
			return nil, apperrors.DatabaseError("Failed to fetch categories").WithError(err)
		}

		return categories, nil
	})
}

func (s *catalogService) AdminListing(ctx context.Context) ([]*models.Product, error) {
	return readThrough(ctx, s, cache.KeyAllProducts, func(ctx context.Context) ([]*models.Product, error) {
		products, err := s.repo.All(ctx)
		if err != nil {
			return nil, apperrors.DatabaseError("Failed to fetch products").WithError(err)
		}

		return products, nil
	})
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return readThrough(ctx, s, cache.ProductKey(id.String()), func(ctx context.Context) (*models.Product, error) {
		product, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.NotFoundError("Product not found").WithError(err)
			}

			return nil, apperrors.DatabaseError("Failed to fetch product").WithError(err)
		}

		return product, nil
	})
}

// Search bypasses the cache entirely: its key space (term x category x price
// x sort x page) is unbounded and the store has no eviction, so these results
// are recomputed per request.
func (s *catalogService) Search(ctx context.Context, params query.Params) (*models.SearchResult, error) {
	desc, err := query.Build(params, s.pageSize)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.Find(ctx, desc)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to search products").WithError(err)
	}

	total, err := s.repo.Count(ctx, desc.CountOnly())
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to count products").WithError(err)
	}

	return &models.SearchResult{
		Products:  products,
		TotalPage: query.TotalPages(total, s.pageSize),
	}, nil
}

func (s *catalogService) Create(ctx context.Context, req *models.CreateProductRequest, photoPath string) (*models.Product, error) {
	if photoPath == "" {
		return nil, apperrors.ValidationError("Please add photo")
	}

	photo, err := s.assets.Upload(ctx, photoPath)
	if err != nil {
		return nil, apperrors.AssetError("Failed to upload product photo").WithError(err)
	}

	product := &models.Product{
		Name:  req.Name,
		Price: *req.Price,
		Stock: *req.Stock,
		// the one place category case is normalized; every read path
		// relies on it
		Category: strings.ToLower(req.Category),
		Photo:    photo,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if destroyErr := s.assets.Destroy(ctx, photo.AssetID); destroyErr != nil {
			slog.Warn("failed to release orphaned photo after create failure",
				slog.String("assetId", photo.AssetID),
				slog.String("error", destroyErr.Error()))
		}

		return nil, apperrors.DatabaseError("Failed to create product").WithError(err)
	}

	s.invalidator.Invalidate(cache.Invalidation{Product: true, Admin: true})

	return product, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest, photoPath string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	// replace the photo before touching the fields: an asset failure must
	// abort the whole update, not leave a half-applied record
	if photoPath != "" {
		if product.Photo != nil {
			if err := s.assets.Destroy(ctx, product.Photo.AssetID); err != nil {
				return nil, apperrors.AssetError("Failed to replace product photo").WithError(err)
			}
		}

		photo, err := s.assets.Upload(ctx, photoPath)
		if err != nil {
			return nil, apperrors.AssetError("Failed to replace product photo").WithError(err)
		}

		product.Photo = photo
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if req.Category != nil {
		product.Category = strings.ToLower(*req.Category)
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, apperrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidator.Invalidate(cache.Invalidation{Product: true, Admin: true, ProductIDs: []string{id.String()}})

	return product, nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFoundError("Product not found").WithError(err)
		}

		return apperrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	// asset release is best-effort: a stranded asset is cheaper than a
	// product record that cannot be deleted
	if product.Photo != nil {
		if err := s.assets.Destroy(ctx, product.Photo.AssetID); err != nil {
			slog.Warn("failed to release product photo on delete",
				slog.String("productId", id.String()),
				slog.String("assetId", product.Photo.AssetID),
				slog.String("error", err.Error()))
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFoundError("Product not found").WithError(err)
		}

		return apperrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidator.Invalidate(cache.Invalidation{Product: true, Admin: true, ProductIDs: []string{id.String()}})

	return nil
}
