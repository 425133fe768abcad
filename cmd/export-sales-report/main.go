// export-sales-report writes a shop's per-date sales summary to an xlsx file.
//
// Usage:
//
//	go run ./cmd/export-sales-report -shop <shopId> [-out sales.xlsx]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/takabooks/shops_backend/config"
	"github.com/takabooks/shops_backend/models"
	"github.com/takabooks/shops_backend/models/reports"
)

func main() {
	shopId := flag.String("shop", "", "shop id to export")
	out := flag.String("out", "sales.xlsx", "output file path")
	flag.Parse()

	if *shopId == "" {
		fmt.Fprintln(os.Stderr, "missing -shop")
		os.Exit(2)
	}

	ctx := context.Background()
	db, err := config.ConnectDatabaseWithRetry(5)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	defer config.CloseDatabase(db)

	repo := models.NewRepository(models.NewEntityStore(db, nil))
	sales, err := repo.GetShopSales(ctx, *shopId)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load sales: %v\n", err)
		os.Exit(1)
	}

	f, err := reports.ExportSalesSummaryExcel(reports.SalesByDate(sales))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build workbook: %v\n", err)
		os.Exit(1)
	}
	if err := f.SaveAs(*out); err != nil {
		fmt.Fprintf(os.Stderr, "save: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%d sales, revenue %s)\n", *out, len(sales), reports.RevenueOf(sales))
}
