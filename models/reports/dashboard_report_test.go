package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takabooks/shops_backend/models"
	"github.com/takabooks/shops_backend/models/reports"
)

func sale(productId string, name string, unitPrice int64, qty int, createdAt time.Time) *models.Sale {
	return &models.Sale{
		ID:          productId + "-" + createdAt.Format("150405"),
		ProductId:   productId,
		ShopId:      "shop-1",
		UserId:      "user-1",
		ProductName: name,
		UnitPrice:   decimal.NewFromInt(unitPrice),
		Quantity:    qty,
		CreatedAt:   createdAt,
	}
}

func TestRevenueOf_SumsSnapshotAmounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sales := []*models.Sale{
		sale("p1", "Widget", 10, 3, now),
		sale("p2", "Notebook", 4, 2, now),
	}

	got := reports.RevenueOf(sales)
	if !got.Equal(decimal.NewFromInt(38)) {
		t.Fatalf("revenue = %s, want 38", got)
	}
}

func TestRevenueOf_OrderInvariant(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := sale("p1", "Widget", 10, 3, now)
	b := sale("p2", "Notebook", 4, 2, now)
	c := sale("p3", "Mug", 7, 1, now)

	forward := reports.RevenueOf([]*models.Sale{a, b, c})
	reversed := reports.RevenueOf([]*models.Sale{c, b, a})
	if !forward.Equal(reversed) {
		t.Fatalf("revenue depends on order: %s vs %s", forward, reversed)
	}
}

func TestRevenueOf_Empty(t *testing.T) {
	if got := reports.RevenueOf(nil); !got.IsZero() {
		t.Fatalf("revenue of no sales = %s, want 0", got)
	}
}

func TestSalesByDate_GroupsByCalendarDate(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 23, 30, 0, 0, time.UTC)
	sales := []*models.Sale{
		sale("p1", "Widget", 10, 1, day1),
		sale("p1", "Widget", 10, 2, day1.Add(4*time.Hour)),
		sale("p2", "Notebook", 4, 5, day2),
	}

	entries := reports.SalesByDate(sales)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Date != "2026-03-10" || entries[1].Date != "2026-03-12" {
		t.Fatalf("dates not ascending: %s, %s", entries[0].Date, entries[1].Date)
	}
	if entries[0].TotalSales != 2 || !entries[0].TotalRevenue.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("day1 = %d sales / %s revenue, want 2 / 30", entries[0].TotalSales, entries[0].TotalRevenue)
	}
	if entries[1].TotalSales != 1 || !entries[1].TotalRevenue.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("day2 = %d sales / %s revenue, want 1 / 20", entries[1].TotalSales, entries[1].TotalRevenue)
	}
}

func TestBackfillDailySales_InsertsZeroDays(t *testing.T) {
	day := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	entries := reports.SalesByDate([]*models.Sale{sale("p1", "Widget", 10, 1, day)})

	from := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	filled := reports.BackfillDailySales(entries, from, to)

	if len(filled) != 7 {
		t.Fatalf("got %d entries, want trailing 7", len(filled))
	}
	if filled[0].Date != "2026-03-06" || filled[6].Date != "2026-03-12" {
		t.Fatalf("window bounds wrong: %s .. %s", filled[0].Date, filled[6].Date)
	}
	for _, entry := range filled {
		if entry.Date == "2026-03-10" {
			if entry.TotalSales != 1 {
				t.Fatalf("sale day lost its entry: %+v", entry)
			}
			continue
		}
		if entry.TotalSales != 0 || !entry.TotalRevenue.IsZero() {
			t.Fatalf("backfilled day %s not zero: %+v", entry.Date, entry)
		}
	}
}

func TestTopProducts_SortsByRevenueDescending(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sales := []*models.Sale{
		sale("p1", "Widget", 10, 1, now),  // 10
		sale("p2", "Notebook", 4, 10, now), // 40
		sale("p1", "Widget", 10, 2, now),  // p1 total 30
		sale("p3", "Mug", 7, 1, now),      // 7
	}

	top := reports.TopProducts(sales, 2)
	if len(top) != 2 {
		t.Fatalf("got %d entries, want 2", len(top))
	}
	if top[0].ProductId != "p2" || top[1].ProductId != "p1" {
		t.Fatalf("order = %s, %s; want p2, p1", top[0].ProductId, top[1].ProductId)
	}
	if top[0].TotalQuantity != 10 || !top[0].TotalRevenue.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("p2 totals wrong: %+v", top[0])
	}
}

func TestTopProducts_StableOnRevenueTies(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sales := []*models.Sale{
		sale("p1", "Widget", 10, 2, now),
		sale("p2", "Notebook", 20, 1, now), // same revenue, later encounter
	}

	top := reports.TopProducts(sales, 5)
	if len(top) != 2 {
		t.Fatalf("got %d entries, want 2", len(top))
	}
	if top[0].ProductId != "p1" {
		t.Fatalf("tie broke encounter order: got %s first", top[0].ProductId)
	}
}

func TestTopProducts_DefaultsToFive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var sales []*models.Sale
	for i := 0; i < 8; i++ {
		sales = append(sales, sale(string(rune('a'+i)), "P", int64(i+1), 1, now))
	}

	if got := len(reports.TopProducts(sales, 0)); got != 5 {
		t.Fatalf("default n: got %d entries, want 5", got)
	}
}

func TestCategoryDistribution_DefaultsToOther(t *testing.T) {
	products := []*models.Product{
		{ID: "p1", Category: "Books"},
		{ID: "p2", Category: "Books"},
		{ID: "p3"},
	}

	dist := reports.CategoryDistribution(products)
	if dist["Books"] != 2 || dist["Other"] != 1 {
		t.Fatalf("distribution = %v, want Books:2 Other:1", dist)
	}
	if len(dist) != 2 {
		t.Fatalf("unexpected categories: %v", dist)
	}
}
