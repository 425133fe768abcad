package models

import (
	"context"
	"errors"
	"time"

	"github.com/takabooks/shops_backend/utils"
	"gorm.io/gorm"
)

func cacheLifespan() time.Duration {
	return utils.GetCacheLifespan()
}

// Generic document operations over the named collections (tables). Go has no
// generic methods, so these are free functions taking the store explicitly.

// CreateEntity persists a new document; the id is generated in BeforeCreate.
func CreateEntity[T any](ctx context.Context, s *EntityStore, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return utils.StoreError("create "+utils.GetTypeName[T](), err)
	}
	return nil
}

// GetEntity is a point lookup: cache first, then DB. A missing id returns
// nil, nil — absence is not an error for reads.
func GetEntity[T any](ctx context.Context, s *EntityStore, id string) (*T, error) {
	if err := utils.RequireField("id", id); err != nil {
		return nil, err
	}

	var cached *T
	if exists, err := s.cache.GetObject(ctx, utils.CacheKey[T](id), &cached); err == nil && exists && cached != nil {
		return cached, nil
	}

	var result T
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.StoreError("get "+utils.GetTypeName[T](), err)
	}
	_ = s.cache.SetObject(ctx, utils.CacheKey[T](id), &result, cacheLifespan())
	return &result, nil
}

// QueryEntities lists documents matching an equality/range condition with
// optional ordering, e.g. QueryEntities[Sale](ctx, s, "shop_id = ?",
// []any{shopId}, "created_at DESC").
func QueryEntities[T any](ctx context.Context, s *EntityStore, cond string, args []any, orders ...string) ([]*T, error) {
	var model T
	dbCtx := s.db.WithContext(ctx).Model(&model)
	if cond != "" {
		dbCtx = dbCtx.Where(cond, args...)
	}
	for _, order := range orders {
		dbCtx = dbCtx.Order(order)
	}
	var results []*T
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, utils.StoreError("query "+utils.GetTypeName[T](), err)
	}
	return results, nil
}

// UpdateEntity patches named columns of one document.
// Unlike reads, updating a missing id is an ErrRecordNotFound failure.
func UpdateEntity[T any](ctx context.Context, s *EntityStore, id string, patch map[string]any) error {
	return updateEntityTx[T](ctx, s, s.db, id, patch)
}

func updateEntityTx[T any](ctx context.Context, s *EntityStore, tx *gorm.DB, id string, patch map[string]any) error {
	var model T
	res := tx.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return utils.StoreError("update "+utils.GetTypeName[T](), res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NotFoundError(utils.GetTypeName[T](), id)
	}
	_ = s.cache.RemoveKey(ctx, utils.CacheKey[T](id))
	return nil
}

// DeleteEntity removes one document; deleting a missing id is ErrRecordNotFound.
func DeleteEntity[T any](ctx context.Context, s *EntityStore, id string) error {
	return deleteEntityTx[T](ctx, s, s.db, id)
}

func deleteEntityTx[T any](ctx context.Context, s *EntityStore, tx *gorm.DB, id string) error {
	var model T
	res := tx.WithContext(ctx).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return utils.StoreError("delete "+utils.GetTypeName[T](), res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NotFoundError(utils.GetTypeName[T](), id)
	}
	_ = s.cache.RemoveKey(ctx, utils.CacheKey[T](id))
	return nil
}
