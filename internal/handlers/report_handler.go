package handlers

import (
	"fmt"
	"net/http"
	"time"

	"bistro-pos/internal/database"
	"bistro-pos/internal/inventory"
	"bistro-pos/internal/models"
	"bistro-pos/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook streams an xlsx file as a download and closes it.
func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	defer f.Close()
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write report"})
	}
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// --- GET: /api/reports/inventory ---
// Full inventory snapshot with display units and stock/expiry status.
func ExportInventoryReport(c *gin.Context) {
	var items []models.InventoryItem
	if err := database.DB.Order("name asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Item")
	f.SetCellValue("Sheet1", "B1", "Quantity")
	f.SetCellValue("Sheet1", "C1", "Unit")
	f.SetCellValue("Sheet1", "D1", "Status")
	f.SetCellValue("Sheet1", "E1", "Last Restock")
	f.SetCellValue("Sheet1", "F1", "Expiration")
	f.SetCellValue("Sheet1", "G1", "Expiry Status")

	now := time.Now()
	for i, item := range items {
		row := fmt.Sprint(i + 2)
		display := units.FromBase(item.QuantityBase, item.BaseUnit, item.PiecesPerBox)
		f.SetCellValue("Sheet1", "A"+row, item.Name)
		f.SetCellValue("Sheet1", "B"+row, display.Value)
		f.SetCellValue("Sheet1", "C"+row, display.Unit)
		f.SetCellValue("Sheet1", "D"+row, string(inventory.Classify(item.QuantityBase, item.BaseUnit)))
		f.SetCellValue("Sheet1", "E"+row, formatDatePtr(item.LastRestockDate))
		f.SetCellValue("Sheet1", "F"+row, formatDatePtr(item.ExpirationDate))
		f.SetCellValue("Sheet1", "G"+row, string(inventory.ClassifyExpiration(item.ExpirationDate, now)))
	}

	writeWorkbook(c, f, "inventory_report.xlsx")
}

// --- GET: /api/reports/restock-needed ---
// Only the items the kitchen has to worry about: empty or below threshold.
func ExportRestockReport(c *gin.Context) {
	var items []models.InventoryItem
	if err := database.DB.Order("name asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Item")
	f.SetCellValue("Sheet1", "B1", "Quantity")
	f.SetCellValue("Sheet1", "C1", "Unit")
	f.SetCellValue("Sheet1", "D1", "Status")
	f.SetCellValue("Sheet1", "E1", "Last Restock Amount")
	f.SetCellValue("Sheet1", "F1", "Last Restock Date")

	rowNo := 2
	for _, item := range items {
		status := inventory.Classify(item.QuantityBase, item.BaseUnit)
		if status == inventory.StatusSteady {
			continue
		}
		row := fmt.Sprint(rowNo)
		display := units.FromBase(item.QuantityBase, item.BaseUnit, item.PiecesPerBox)
		lastRestock := units.FromBase(item.LastRestockQuantity, item.BaseUnit, item.PiecesPerBox)
		f.SetCellValue("Sheet1", "A"+row, item.Name)
		f.SetCellValue("Sheet1", "B"+row, display.Value)
		f.SetCellValue("Sheet1", "C"+row, display.Unit)
		f.SetCellValue("Sheet1", "D"+row, string(status))
		f.SetCellValue("Sheet1", "E"+row, fmt.Sprintf("%g %s", lastRestock.Value, lastRestock.Unit))
		f.SetCellValue("Sheet1", "F"+row, formatDatePtr(item.LastRestockDate))
		rowNo++
	}

	writeWorkbook(c, f, "restock_report.xlsx")
}

// --- GET: /api/reports/ingredient-usage ---
// Sums kitchen deductions per item over the requested window.
func ExportUsageReport(c *gin.Context) {
	now := time.Now()
	start := now.AddDate(0, 0, -6)
	if from, ok := parseDate(c.Query("from")); ok {
		start = from
	}
	end := now
	if to, ok := parseDate(c.Query("to")); ok {
		end = to.Add(24*time.Hour - time.Nanosecond)
	}

	type usageRow struct {
		InventoryItemID uint
		Used            float64
	}
	var rows []usageRow
	err := database.DB.Model(&models.RestockEntry{}).
		Select("inventory_item_id, COALESCE(SUM(-delta), 0) as used").
		Where("source = ? AND delta < 0 AND created_at BETWEEN ? AND ?", "order", start, end).
		Group("inventory_item_id").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate usage"})
		return
	}

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Ingredient")
	f.SetCellValue("Sheet1", "B1", "Used")
	f.SetCellValue("Sheet1", "C1", "Unit")
	f.SetCellValue("Sheet1", "D1", "Remaining")

	for i, r := range rows {
		var item models.InventoryItem
		if err := database.DB.First(&item, r.InventoryItemID).Error; err != nil {
			continue
		}
		row := fmt.Sprint(i + 2)
		used := units.FromBase(r.Used, item.BaseUnit, item.PiecesPerBox)
		remaining := units.FromBase(item.QuantityBase, item.BaseUnit, item.PiecesPerBox)
		f.SetCellValue("Sheet1", "A"+row, item.Name)
		f.SetCellValue("Sheet1", "B"+row, used.Value)
		f.SetCellValue("Sheet1", "C"+row, used.Unit)
		f.SetCellValue("Sheet1", "D"+row, fmt.Sprintf("%g %s", remaining.Value, remaining.Unit))
	}

	writeWorkbook(c, f, "ingredient_usage.xlsx")
}

// --- GET: /api/reports/daily-sales ---
// One row per non-cancelled order in the window, with a totals row.
func ExportDailySalesReport(c *gin.Context) {
	now := time.Now()
	start := now.Truncate(24 * time.Hour)
	if from, ok := parseDate(c.Query("from")); ok {
		start = from
	}
	end := now
	if to, ok := parseDate(c.Query("to")); ok {
		end = to.Add(24*time.Hour - time.Nanosecond)
	}

	var orderList []models.Order
	err := database.DB.
		Where("created_at BETWEEN ? AND ? AND status <> ?", start, end, "Cancelled").
		Order("created_at asc").
		Find(&orderList).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Order #")
	f.SetCellValue("Sheet1", "B1", "Time")
	f.SetCellValue("Sheet1", "C1", "Type")
	f.SetCellValue("Sheet1", "D1", "Status")
	f.SetCellValue("Sheet1", "E1", "Subtotal")
	f.SetCellValue("Sheet1", "F1", "Tax")
	f.SetCellValue("Sheet1", "G1", "Discount")
	f.SetCellValue("Sheet1", "H1", "Total")
	f.SetCellValue("Sheet1", "I1", "Payment")

	var grandTotal float64
	for i, o := range orderList {
		row := fmt.Sprint(i + 2)
		f.SetCellValue("Sheet1", "A"+row, o.OrderNumber)
		f.SetCellValue("Sheet1", "B"+row, o.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue("Sheet1", "C"+row, o.OrderType)
		f.SetCellValue("Sheet1", "D"+row, o.Status)
		f.SetCellValue("Sheet1", "E"+row, o.Subtotal)
		f.SetCellValue("Sheet1", "F"+row, o.Tax)
		f.SetCellValue("Sheet1", "G"+row, o.Discount)
		f.SetCellValue("Sheet1", "H"+row, o.Total)
		f.SetCellValue("Sheet1", "I"+row, o.PaymentMethod)
		grandTotal += o.Total
	}

	totalRow := fmt.Sprint(len(orderList) + 2)
	f.SetCellValue("Sheet1", "G"+totalRow, "Grand Total")
	f.SetCellValue("Sheet1", "H"+totalRow, grandTotal)

	writeWorkbook(c, f, "daily_sales.xlsx")
}
