package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takabooks/shops_backend/utils"
	"gorm.io/gorm"
)

// Sale records one transaction. ProductName and UnitPrice are snapshots
// copied from the product at sale time; later product edits never touch them.
type Sale struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	ProductId   string          `gorm:"index;size:36;not null" json:"product_id" binding:"required"`
	ShopId      string          `gorm:"index;size:36;not null" json:"shop_id" binding:"required"`
	UserId      string          `gorm:"index;size:128;not null" json:"user_id" binding:"required"`
	ProductName string          `gorm:"size:100" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Amount is the sale's revenue, always computed as quantity × unitPrice.
func (s *Sale) Amount() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

type NewSale struct {
	ProductId string `json:"product_id" validate:"required"`
	ShopId    string `json:"shop_id"`
	UserId    string `json:"user_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// AddSale records a sale against a product, snapshotting the product's name
// and price, and applies the stock decrement inside the same transaction.
// The per-product lock serializes concurrent stock writers.
func (r *Repository) AddSale(ctx context.Context, input *NewSale) (*Sale, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	product, err := GetEntity[Product](ctx, r.store, input.ProductId)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, utils.NotFoundError("product", input.ProductId)
	}
	if err := authorize(ctx, product.UserId, "product", product.ID); err != nil {
		return nil, err
	}
	if input.UserId != product.UserId {
		return nil, utils.ValidationError("sale owner must match product owner")
	}
	if input.ShopId != "" && input.ShopId != product.ShopId {
		return nil, utils.ValidationError("sale shop id does not match the product's shop")
	}

	release, err := r.store.lockProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	var sale Sale
	err = r.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// re-read inside the transaction so the decrement is based on
		// current stock, not the possibly cached read above.
		var current Product
		if err := tx.Where("id = ?", input.ProductId).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError("product", input.ProductId)
			}
			return utils.StoreError("get product", err)
		}

		sale = Sale{
			ProductId:   current.ID,
			ShopId:      current.ShopId,
			UserId:      input.UserId,
			ProductName: current.Name,
			UnitPrice:   current.Price,
			Quantity:    input.Quantity,
		}
		if err := ApplySaleStock(tx, &current, input.Quantity); err != nil {
			return err
		}
		if err := tx.Create(&sale).Error; err != nil {
			return utils.StoreError("create sale", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.invalidateProductCaches(ctx, product.ID, product.ShopId)

	amount := sale.Amount()
	r.LogActivity(ctx, &NewActivity{
		Type:      ActivityTypeSale,
		Text:      fmt.Sprintf("Sold %d × %q.", sale.Quantity, sale.ProductName),
		ShopId:    &sale.ShopId,
		ProductId: &sale.ProductId,
		SaleId:    &sale.ID,
		Amount:    &amount,
	})
	return &sale, nil
}

// GetShopSales lists a shop's sales, newest first.
func (r *Repository) GetShopSales(ctx context.Context, shopId string) ([]*Sale, error) {
	if err := utils.RequireField("shop id", shopId); err != nil {
		return nil, err
	}
	return QueryEntities[Sale](ctx, r.store, "shop_id = ?", []any{shopId}, "created_at DESC")
}

// GetProductSales lists the sales of one product, newest first.
func (r *Repository) GetProductSales(ctx context.Context, productId string) ([]*Sale, error) {
	if err := utils.RequireField("product id", productId); err != nil {
		return nil, err
	}
	return QueryEntities[Sale](ctx, r.store, "product_id = ?", []any{productId}, "created_at DESC")
}

// GetSale returns nil when the sale does not exist.
func (r *Repository) GetSale(ctx context.Context, id string) (*Sale, error) {
	return GetEntity[Sale](ctx, r.store, id)
}
