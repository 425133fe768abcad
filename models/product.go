package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takabooks/shops_backend/utils"
)

type Product struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	ShopId      string          `gorm:"index;size:36;not null" json:"shop_id" binding:"required"`
	UserId      string          `gorm:"index;size:128;not null" json:"user_id" binding:"required"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Stock       *int            `json:"stock"` // nil = stock untracked
	Category    string          `gorm:"size:100" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TracksStock reports whether the product keeps a stock count.
func (p *Product) TracksStock() bool {
	return p != nil && p.Stock != nil
}

type NewProduct struct {
	ShopId      string          `json:"shop_id" validate:"required"`
	UserId      string          `json:"user_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock" validate:"omitempty,gte=0"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// ProductPatch carries the updatable fields; nil means "leave unchanged".
// Explicit named optional fields, not an unchecked map merge.
type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
}

// AddProduct persists a product under its parent shop and records a "new"
// activity. Both foreign keys are required, the parent shop must exist and
// belong to the caller.
func (r *Repository) AddProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, utils.ValidationError("price must not be negative")
	}

	shop, err := GetEntity[Shop](ctx, r.store, input.ShopId)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, utils.NotFoundError("shop", input.ShopId)
	}
	if err := authorize(ctx, shop.UserId, "shop", shop.ID); err != nil {
		return nil, err
	}
	if input.UserId != shop.UserId {
		return nil, utils.ValidationError("product owner must match shop owner")
	}

	product := Product{
		ShopId:      input.ShopId,
		UserId:      input.UserId,
		Name:        input.Name,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		Description: input.Description,
	}
	if err := CreateEntity(ctx, r.store, &product); err != nil {
		return nil, err
	}
	r.invalidateProductCaches(ctx, product.ID, product.ShopId)

	r.LogActivity(ctx, &NewActivity{
		Type:      ActivityTypeNew,
		Text:      fmt.Sprintf("Product %q added to shop %q.", product.Name, shop.Name),
		ShopId:    &product.ShopId,
		ProductId: &product.ID,
	})
	return &product, nil
}

// GetShopProducts lists a shop's products, newest first.
func (r *Repository) GetShopProducts(ctx context.Context, shopId string) ([]*Product, error) {
	if err := utils.RequireField("shop id", shopId); err != nil {
		return nil, err
	}
	listKey := utils.CacheListKey[Product](shopId)
	if cached := getListCache[Product](ctx, r.store, listKey); cached != nil {
		return cached, nil
	}
	products, err := QueryEntities[Product](ctx, r.store, "shop_id = ?", []any{shopId}, "created_at DESC")
	if err != nil {
		return nil, err
	}
	r.store.setListCache(ctx, listKey, products)
	return products, nil
}

// GetProduct returns nil when the product does not exist.
func (r *Repository) GetProduct(ctx context.Context, id string) (*Product, error) {
	return GetEntity[Product](ctx, r.store, id)
}

// UpdateProduct patches a product's descriptive fields and records an
// "update" activity. Existing sales keep their snapshot unitPrice: a price
// change here never rewrites recorded revenue.
func (r *Repository) UpdateProduct(ctx context.Context, id string, patch *ProductPatch) (*Product, error) {
	if err := utils.ValidateStruct(patch); err != nil {
		return nil, err
	}
	product, err := GetEntity[Product](ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, utils.NotFoundError("product", id)
	}
	if err := authorize(ctx, product.UserId, "product", id); err != nil {
		return nil, err
	}

	columns := map[string]any{}
	if patch.Name != nil {
		columns["name"] = *patch.Name
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, utils.ValidationError("price must not be negative")
		}
		columns["price"] = *patch.Price
	}
	if patch.Category != nil {
		columns["category"] = *patch.Category
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if len(columns) == 0 {
		return product, nil
	}
	if err := UpdateEntity[Product](ctx, r.store, id, columns); err != nil {
		return nil, err
	}
	r.invalidateProductCaches(ctx, id, product.ShopId)

	r.LogActivity(ctx, &NewActivity{
		Type:      ActivityTypeUpdate,
		Text:      fmt.Sprintf("Product %q updated.", product.Name),
		ShopId:    &product.ShopId,
		ProductId: &product.ID,
	})
	return GetEntity[Product](ctx, r.store, id)
}

// RestockProduct raises the tracked stock of a product by qty and records a
// "restock" activity. The write runs under the product's stock lock so it
// serializes with concurrent sale recording.
func (r *Repository) RestockProduct(ctx context.Context, id string, qty int) (*Product, error) {
	if qty <= 0 {
		return nil, utils.ValidationError("restock quantity must be positive")
	}
	product, err := GetEntity[Product](ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, utils.NotFoundError("product", id)
	}
	if err := authorize(ctx, product.UserId, "product", id); err != nil {
		return nil, err
	}
	if !product.TracksStock() {
		return nil, utils.ValidationError("product %q does not track stock", product.Name)
	}

	release, err := r.store.lockProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	// re-read under the lock so the increment applies to current stock.
	current, err := GetEntity[Product](ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, utils.NotFoundError("product", id)
	}
	newStock := utils.DereferencePtr(current.Stock) + qty
	if err := UpdateEntity[Product](ctx, r.store, id, map[string]any{"stock": newStock}); err != nil {
		return nil, err
	}
	r.invalidateProductCaches(ctx, id, current.ShopId)

	r.LogActivity(ctx, &NewActivity{
		Type:      ActivityTypeRestock,
		Text:      fmt.Sprintf("Product %q restocked by %d.", current.Name, qty),
		ShopId:    &current.ShopId,
		ProductId: &current.ID,
	})
	current.Stock = &newStock
	return current, nil
}

func (r *Repository) invalidateProductCaches(ctx context.Context, productId string, shopId string) {
	r.store.removeCacheKeys(ctx,
		utils.CacheKey[Product](productId),
		utils.CacheListKey[Product](shopId),
	)
}
