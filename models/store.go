package models

import (
	"context"
	"time"

	"github.com/takabooks/shops_backend/config"
	"gorm.io/gorm"
)

// EntityStore is the injected data-store dependency shared by every
// repository operation: one GORM handle plus an optional redis cache.
// Construct it in main after config.ConnectDatabaseWithRetry and tear it
// down with config.CloseDatabase / RedisCache.Close.
type EntityStore struct {
	db    *gorm.DB
	cache *config.RedisCache
}

func NewEntityStore(db *gorm.DB, cache *config.RedisCache) *EntityStore {
	return &EntityStore{db: db, cache: cache}
}

func (s *EntityStore) DB() *gorm.DB {
	return s.db
}

// lockKey serializes stock mutations for one product across writers.
const productLockTTL = 30 * time.Second

func (s *EntityStore) lockProduct(ctx context.Context, productId string) (release func(), err error) {
	return s.cache.ObtainLock(ctx, "productLock:"+productId, productLockTTL)
}

// Cache helpers are best-effort: a failing or absent cache never fails the
// surrounding operation, it only costs a DB round trip.

func (s *EntityStore) setListCache(ctx context.Context, key string, list any) {
	_ = s.cache.SetObject(ctx, key, list, cacheLifespan())
}

func (s *EntityStore) removeCacheKeys(ctx context.Context, keys ...string) {
	_ = s.cache.RemoveKey(ctx, keys...)
}

func getListCache[T any](ctx context.Context, s *EntityStore, key string) []*T {
	var cached []*T
	exists, err := s.cache.GetObject(ctx, key, &cached)
	if err != nil || !exists {
		return nil
	}
	return cached
}
