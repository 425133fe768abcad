package models

import (
	"errors"

	"github.com/takabooks/shops_backend/utils"
	"gorm.io/gorm"
)

// Explicit command-style stock transitions for sale create/delete, intended
// to run inside the caller's DB transaction.

// NextStockOnSale returns the stock level after selling qty units. Oversell
// clamps to zero instead of failing: the sale is still recorded with its
// full requested quantity even when qty exceeds the available stock.
func NextStockOnSale(stock int, qty int) int {
	next := stock - qty
	if next < 0 {
		return 0
	}
	return next
}

// ApplySaleStock persists the clamped decrement for a stock-tracked product.
// Untracked products are left alone. The product's Stock field is updated in
// place so callers see the post-sale level.
func ApplySaleStock(tx *gorm.DB, product *Product, qty int) error {
	if tx == nil {
		return errors.New("tx is nil")
	}
	if product == nil {
		return errors.New("product is nil")
	}
	if !product.TracksStock() {
		return nil
	}

	newStock := NextStockOnSale(*product.Stock, qty)
	if err := tx.Model(&Product{}).Where("id = ?", product.ID).
		UpdateColumn("stock", newStock).Error; err != nil {
		return utils.StoreError("update product stock", err)
	}
	product.Stock = &newStock
	return nil
}

// ReverseSaleStock restores a deleted sale's quantity to its product.
// The restore is unconditional (no clamp); a product that no longer exists
// or never tracked stock is a no-op.
func ReverseSaleStock(tx *gorm.DB, sale *Sale) error {
	if tx == nil {
		return errors.New("tx is nil")
	}
	if sale == nil {
		return errors.New("sale is nil")
	}

	var product Product
	err := tx.Where("id = ?", sale.ProductId).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return utils.StoreError("get product", err)
	}
	if !product.TracksStock() {
		return nil
	}

	restored := *product.Stock + sale.Quantity
	if err := tx.Model(&Product{}).Where("id = ?", product.ID).
		UpdateColumn("stock", restored).Error; err != nil {
		return utils.StoreError("restore product stock", err)
	}
	return nil
}
