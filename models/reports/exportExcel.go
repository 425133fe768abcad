package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportSalesSummaryExcel writes the per-date sales summary to a new xlsx
// workbook. The caller saves or streams the file.
func ExportSalesSummaryExcel(entries []*DailySalesEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	// Add headers
	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Sales")
	f.SetCellValue(sheet, "C1", "Revenue")

	// Add data
	for i, entry := range entries {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, entry.Date)
		f.SetCellValue(sheet, "B"+row, entry.TotalSales)
		f.SetCellValue(sheet, "C"+row, entry.TotalRevenue.InexactFloat64())
	}
	return f, nil
}
