// orphan-sweep deletes dangling children: sales whose product is gone and
// products whose shop is gone. Cascading deletes run transactionally, so in
// normal operation this finds nothing; it exists to self-heal data written
// by older non-transactional clients. Safe to re-run (idempotent).
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/orphan-sweep [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/takabooks/shops_backend/config"
	"github.com/takabooks/shops_backend/models"
	"gorm.io/gorm"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report orphan counts without deleting")
	flag.Parse()

	ctx := context.Background()
	db, err := config.ConnectDatabaseWithRetry(5)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	defer config.CloseDatabase(db)

	orphanSales := db.WithContext(ctx).
		Where("product_id NOT IN (?)", db.Model(&models.Product{}).Select("id"))
	orphanProducts := db.WithContext(ctx).
		Where("shop_id NOT IN (?)", db.Model(&models.Shop{}).Select("id"))

	if *dryRun {
		var saleCount, productCount int64
		if err := orphanSales.Model(&models.Sale{}).Count(&saleCount).Error; err != nil {
			fmt.Fprintf(os.Stderr, "count orphan sales: %v\n", err)
			os.Exit(1)
		}
		if err := orphanProducts.Model(&models.Product{}).Count(&productCount).Error; err != nil {
			fmt.Fprintf(os.Stderr, "count orphan products: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("dry run: %d orphan sales, %d orphan products\n", saleCount, productCount)
		return
	}

	// Children first, so products removed below don't orphan further sales.
	var swept struct{ sales, products int64 }
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("product_id NOT IN (?)", tx.Model(&models.Product{}).Select("id")).
			Delete(&models.Sale{})
		if res.Error != nil {
			return res.Error
		}
		swept.sales = res.RowsAffected

		res = tx.Where("shop_id NOT IN (?)", tx.Model(&models.Shop{}).Select("id")).
			Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		swept.products = res.RowsAffected

		// products deleted above may leave a second wave of orphan sales
		res = tx.Where("product_id NOT IN (?)", tx.Model(&models.Product{}).Select("id")).
			Delete(&models.Sale{})
		if res.Error != nil {
			return res.Error
		}
		swept.sales += res.RowsAffected
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sweep: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("swept %d orphan sales, %d orphan products\n", swept.sales, swept.products)
}
