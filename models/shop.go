package models

import (
	"context"
	"fmt"
	"time"

	"github.com/takabooks/shops_backend/utils"
)

type Shop struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserId      string    `gorm:"index;size:128;not null" json:"user_id" binding:"required"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Location    string    `gorm:"size:255" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewShop struct {
	UserId      string `json:"user_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// AddShop persists a new shop for its owner and records a "new" activity.
func (r *Repository) AddShop(ctx context.Context, input *NewShop) (*Shop, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := authorize(ctx, input.UserId, "shop", ""); err != nil {
		return nil, err
	}

	shop := Shop{
		UserId:      input.UserId,
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
	}
	if err := CreateEntity(ctx, r.store, &shop); err != nil {
		return nil, err
	}
	r.store.removeCacheKeys(ctx, utils.CacheListKey[Shop](shop.UserId))

	r.LogActivity(ctx, &NewActivity{
		Type:   ActivityTypeNew,
		Text:   fmt.Sprintf("Shop %q created.", shop.Name),
		ShopId: &shop.ID,
	})
	return &shop, nil
}

// GetUserShops lists the shops of one owner, newest first.
func (r *Repository) GetUserShops(ctx context.Context, userId string) ([]*Shop, error) {
	if err := utils.RequireField("user id", userId); err != nil {
		return nil, err
	}
	listKey := utils.CacheListKey[Shop](userId)
	if cached := getListCache[Shop](ctx, r.store, listKey); cached != nil {
		return cached, nil
	}
	shops, err := QueryEntities[Shop](ctx, r.store, "user_id = ?", []any{userId}, "created_at DESC")
	if err != nil {
		return nil, err
	}
	r.store.setListCache(ctx, listKey, shops)
	return shops, nil
}

// GetShop returns nil when the shop does not exist.
func (r *Repository) GetShop(ctx context.Context, id string) (*Shop, error) {
	return GetEntity[Shop](ctx, r.store, id)
}
