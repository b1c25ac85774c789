package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/chargematch/backend/internal/domain"
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	SnapshotTTL time.Duration
}

// CatalogService hands out point-in-time catalog snapshots to the match and
// audit paths. Snapshots are read-only and reused for SnapshotTTL.
type CatalogService struct {
	cache       domain.CacheRepository
	repo        domain.CatalogRepository
	snapshotTTL time.Duration

	mu   sync.Mutex
	keys map[string]struct{}
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	repo domain.CatalogRepository,
	config CatalogServiceConfig,
) *CatalogService {
	return &CatalogService{
		cache:       cache,
		repo:        repo,
		snapshotTTL: config.SnapshotTTL,
		keys:        make(map[string]struct{}),
	}
}

// Snapshot returns the products of a category (all products when category is
// empty), ordered by slug. Flow: check cache -> load from store -> cache -> return
func (s *CatalogService) Snapshot(ctx context.Context, category string) ([]domain.ProductRecord, error) {
	category = strings.TrimSpace(category)
	key := snapshotCacheKey(category)

	if s.cache != nil && s.snapshotTTL > 0 {
		if products, err := s.getFromCache(ctx, key); err == nil {
			return products, nil
		}
	}

	products, err := s.repo.ListProducts(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if products == nil {
		products = []domain.ProductRecord{}
	}

	if s.cache != nil && s.snapshotTTL > 0 {
		if err := s.cache.Set(ctx, key, products, s.snapshotTTL); err != nil {
			log.Printf("[CATALOG] Failed to cache snapshot %q: %v", key, err)
		} else {
			s.mu.Lock()
			s.keys[key] = struct{}{}
			s.mu.Unlock()
		}
	}

	log.Printf("[CATALOG] Loaded snapshot %q: %d products", key, len(products))
	return products, nil
}

// Invalidate drops every cached snapshot so the next request reloads the store
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	keys := s.keys
	s.keys = make(map[string]struct{})
	s.mu.Unlock()

	for key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Printf("[CATALOG] Failed to drop snapshot %q: %v", key, err)
		}
	}
}

// getFromCache retrieves a snapshot from cache
func (s *CatalogService) getFromCache(ctx context.Context, key string) ([]domain.ProductRecord, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	products, ok := value.([]domain.ProductRecord)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return products, nil
}

// snapshotCacheKey creates a normalized cache key. Format: "catalog:{category}"
func snapshotCacheKey(category string) string {
	return "catalog:" + strings.ToLower(strings.TrimSpace(category))
}

// CatalogSyncService loads products into the catalog store from a seed list
// or the upstream storefront, then drops stale snapshots.
type CatalogSyncService struct {
	writer     domain.CatalogWriter
	storefront domain.StorefrontClient
	catalog    *CatalogService
}

// NewCatalogSyncService creates a sync service. storefront and catalog may be nil.
func NewCatalogSyncService(
	writer domain.CatalogWriter,
	storefront domain.StorefrontClient,
	catalog *CatalogService,
) *CatalogSyncService {
	return &CatalogSyncService{
		writer:     writer,
		storefront: storefront,
		catalog:    catalog,
	}
}

// Import upserts the given products
func (s *CatalogSyncService) Import(ctx context.Context, products []domain.ProductRecord) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	if err := s.writer.UpsertProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("upsert products: %w", err)
	}
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
	log.Printf("[CATALOG] Imported %d products", len(products))
	return len(products), nil
}

// Sync pulls the full storefront listing and upserts it
func (s *CatalogSyncService) Sync(ctx context.Context) (int, error) {
	if s.storefront == nil {
		return 0, errors.New("storefront client not configured")
	}

	products, err := s.storefront.FetchAllProducts(ctx)
	if err != nil {
		return 0, err
	}
	return s.Import(ctx, products)
}
