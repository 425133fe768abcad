// seed-dev populates a development database with a demo user, shop,
// products and sales so the dashboard has something to show.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/takabooks/shops_backend/config"
	"github.com/takabooks/shops_backend/models"
	"github.com/takabooks/shops_backend/utils"
)

const (
	seedUid   = "seed-dev-user"
	seedEmail = "owner@seed.local"
	seedName  = "Seed Owner"
)

func main() {
	ctx := context.Background()

	db, err := config.ConnectDatabaseWithRetry(5)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	defer config.CloseDatabase(db)

	if err := models.MigrateTable(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	// Cache is optional for seeding; run without redis.
	repo := models.NewRepository(models.NewEntityStore(db, nil))

	ctx = utils.SetUserIdInContext(ctx, seedUid)
	ctx = utils.SetUserNameInContext(ctx, seedName)
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())

	if _, err := repo.UpsertUser(ctx, &models.NewUser{
		Uid:         seedUid,
		Email:       seedEmail,
		DisplayName: seedName,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "upsert user: %v\n", err)
		os.Exit(1)
	}

	shop, err := repo.AddShop(ctx, &models.NewShop{
		UserId:   seedUid,
		Name:     "Alpha Mart",
		Location: "Dhanmondi, Dhaka",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "add shop: %v\n", err)
		os.Exit(1)
	}

	widget, err := repo.AddProduct(ctx, &models.NewProduct{
		ShopId:   shop.ID,
		UserId:   seedUid,
		Name:     "Widget",
		Price:    decimal.NewFromInt(10),
		Stock:    utils.NewInt(5),
		Category: "Hardware",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "add product: %v\n", err)
		os.Exit(1)
	}

	notebook, err := repo.AddProduct(ctx, &models.NewProduct{
		ShopId:   shop.ID,
		UserId:   seedUid,
		Name:     "Notebook",
		Price:    decimal.NewFromInt(4),
		Category: "Books",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "add product: %v\n", err)
		os.Exit(1)
	}

	for _, seed := range []struct {
		productId string
		qty       int
	}{
		{widget.ID, 3},
		{notebook.ID, 2},
	} {
		if _, err := repo.AddSale(ctx, &models.NewSale{
			ProductId: seed.productId,
			UserId:    seedUid,
			Quantity:  seed.qty,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "add sale: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("seeded shop %s (%s) with products %s, %s\n", shop.Name, shop.ID, widget.ID, notebook.ID)
}
