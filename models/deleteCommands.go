package models

import (
	"context"
	"fmt"

	"github.com/takabooks/shops_backend/utils"
	"gorm.io/gorm"
)

// Cascading deletes. Order is always children before parent; each cascade
// runs inside one DB transaction so a failing step rolls the whole cascade
// back instead of leaving dangling references. cmd/orphan-sweep additionally
// self-heals orphans left by historical non-transactional writers.

// DeleteSale removes one sale and restores its quantity to the product's
// stock (when the product still exists and tracks stock).
func (r *Repository) DeleteSale(ctx context.Context, saleId string) error {
	sale, err := GetEntity[Sale](ctx, r.store, saleId)
	if err != nil {
		return err
	}
	if sale == nil {
		return utils.NotFoundError("sale", saleId)
	}
	if err := authorize(ctx, sale.UserId, "sale", saleId); err != nil {
		return err
	}

	release, err := r.store.lockProduct(ctx, sale.ProductId)
	if err != nil {
		return err
	}
	defer release()

	err = r.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ReverseSaleStock(tx, sale); err != nil {
			return err
		}
		return deleteEntityTx[Sale](ctx, r.store, tx, saleId)
	})
	if err != nil {
		return err
	}
	r.invalidateProductCaches(ctx, sale.ProductId, sale.ShopId)

	r.LogActivity(ctx, &NewActivity{
		Type:      ActivityTypeDelete,
		Text:      fmt.Sprintf("Sale of %d × %q deleted.", sale.Quantity, sale.ProductName),
		ShopId:    &sale.ShopId,
		ProductId: &sale.ProductId,
		SaleId:    &sale.ID,
	})
	return nil
}

// DeleteProduct removes a product and all of its sales. Stock is not
// restored: the product is going away with its ledger.
func (r *Repository) DeleteProduct(ctx context.Context, productId string) error {
	product, err := GetEntity[Product](ctx, r.store, productId)
	if err != nil {
		return err
	}
	if product == nil {
		return utils.NotFoundError("product", productId)
	}
	if err := authorize(ctx, product.UserId, "product", productId); err != nil {
		return err
	}

	err = r.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProductCascade(ctx, r.store, tx, productId)
	})
	if err != nil {
		return err
	}
	r.invalidateProductCaches(ctx, productId, product.ShopId)

	r.LogActivity(ctx, &NewActivity{
		Type:      ActivityTypeDelete,
		Text:      fmt.Sprintf("Product %q and its sales deleted.", product.Name),
		ShopId:    &product.ShopId,
		ProductId: &product.ID,
	})
	return nil
}

// DeleteShop removes a shop, all of its products, and all of those products'
// sales — three levels, children first at every level.
func (r *Repository) DeleteShop(ctx context.Context, shopId string) error {
	shop, err := GetEntity[Shop](ctx, r.store, shopId)
	if err != nil {
		return err
	}
	if shop == nil {
		return utils.NotFoundError("shop", shopId)
	}
	if err := authorize(ctx, shop.UserId, "shop", shopId); err != nil {
		return err
	}

	var productIds []string
	err = r.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products []*Product
		if err := tx.Where("shop_id = ?", shopId).Find(&products).Error; err != nil {
			return utils.StoreError("query products", err)
		}
		for _, product := range products {
			productIds = append(productIds, product.ID)
			if err := deleteProductCascade(ctx, r.store, tx, product.ID); err != nil {
				return err
			}
		}
		return deleteEntityTx[Shop](ctx, r.store, tx, shopId)
	})
	if err != nil {
		return err
	}
	// per-product cache keys were dropped by deleteEntityTx inside the tx
	r.store.removeCacheKeys(ctx, utils.CacheListKey[Shop](shop.UserId), utils.CacheListKey[Product](shopId))

	r.LogActivity(ctx, &NewActivity{
		Type:   ActivityTypeDelete,
		Text:   fmt.Sprintf("Shop %q deleted with %d products.", shop.Name, len(productIds)),
		ShopId: &shop.ID,
	})
	return nil
}

// deleteProductCascade deletes one product's sales then the product itself,
// inside the caller's transaction.
func deleteProductCascade(ctx context.Context, s *EntityStore, tx *gorm.DB, productId string) error {
	if err := tx.Where("product_id = ?", productId).Delete(&Sale{}).Error; err != nil {
		return utils.StoreError("delete sales", err)
	}
	return deleteEntityTx[Product](ctx, s, tx, productId)
}
