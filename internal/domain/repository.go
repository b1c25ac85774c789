package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository is the read side of the product catalog store.
// ListProducts returns products ordered by slug, then id; an empty category
// means the whole catalog.
type CatalogRepository interface {
	ListProducts(ctx context.Context, category string) ([]ProductRecord, error)
}

// CatalogWriter persists product records, used by import and sync
type CatalogWriter interface {
	UpsertProducts(ctx context.Context, products []ProductRecord) error
}

// StorefrontClient fetches the product listing from the upstream storefront
type StorefrontClient interface {
	FetchAllProducts(ctx context.Context) ([]ProductRecord, error)
}
