package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takabooks/shops_backend/models"
)

// Read-side aggregations over already-loaded sale/product sets. Everything
// here is a pure function recomputed on each call — there is no materialized
// view to drift from the ledger. Safe to call concurrently with writers; the
// input slices are whatever snapshot the caller fetched.

const dateLayout = "2006-01-02"

// RevenueOf sums quantity × unitPrice over the sales. Order-independent.
func RevenueOf(sales []*models.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Amount())
	}
	return total
}

type DailySalesEntry struct {
	Date         string          `json:"date"` // YYYY-MM-DD, UTC
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// SalesByDate groups sales by the calendar date (UTC) of their createdAt and
// sums count and revenue per date, ascending. Dates with zero sales are
// absent; use BackfillDailySales for a fixed zero-filled window.
func SalesByDate(sales []*models.Sale) []*DailySalesEntry {
	byDate := make(map[string]*DailySalesEntry)
	for _, sale := range sales {
		date := sale.CreatedAt.UTC().Format(dateLayout)
		entry, ok := byDate[date]
		if !ok {
			entry = &DailySalesEntry{Date: date, TotalRevenue: decimal.Zero}
			byDate[date] = entry
		}
		entry.TotalSales++
		entry.TotalRevenue = entry.TotalRevenue.Add(sale.Amount())
	}

	entries := make([]*DailySalesEntry, 0, len(byDate))
	for _, entry := range byDate {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries
}

// BackfillDailySales returns one entry per day in [from, to], inserting
// zero-valued entries for days without sales. Entries outside the window are
// dropped. Useful for trailing-7-day series.
func BackfillDailySales(entries []*DailySalesEntry, from time.Time, to time.Time) []*DailySalesEntry {
	byDate := make(map[string]*DailySalesEntry, len(entries))
	for _, entry := range entries {
		byDate[entry.Date] = entry
	}

	var filled []*DailySalesEntry
	day := from.UTC().Truncate(24 * time.Hour)
	end := to.UTC().Truncate(24 * time.Hour)
	for !day.After(end) {
		date := day.Format(dateLayout)
		if entry, ok := byDate[date]; ok {
			filled = append(filled, entry)
		} else {
			filled = append(filled, &DailySalesEntry{Date: date, TotalRevenue: decimal.Zero})
		}
		day = day.AddDate(0, 0, 1)
	}
	return filled
}

type TopProductEntry struct {
	ProductId     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// TopProducts groups sales by product, sums quantity and revenue, and
// returns the first n by revenue descending. The sort is stable: revenue
// ties keep the order products were first encountered in. n <= 0 means the
// default of 5.
func TopProducts(sales []*models.Sale, n int) []*TopProductEntry {
	if n <= 0 {
		n = 5
	}

	byProduct := make(map[string]*TopProductEntry)
	var order []*TopProductEntry
	for _, sale := range sales {
		entry, ok := byProduct[sale.ProductId]
		if !ok {
			name := sale.ProductName
			if name == "" {
				name = "Unknown Product"
			}
			entry = &TopProductEntry{
				ProductId:    sale.ProductId,
				ProductName:  name,
				TotalRevenue: decimal.Zero,
			}
			byProduct[sale.ProductId] = entry
			order = append(order, entry)
		}
		entry.TotalQuantity += sale.Quantity
		entry.TotalRevenue = entry.TotalRevenue.Add(sale.Amount())
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].TotalRevenue.GreaterThan(order[j].TotalRevenue)
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// CategoryDistribution counts products per category. Products without a
// category fall into "Other".
func CategoryDistribution(products []*models.Product) map[string]int {
	distribution := make(map[string]int)
	for _, product := range products {
		category := product.Category
		if category == "" {
			category = "Other"
		}
		distribution[category]++
	}
	return distribution
}
