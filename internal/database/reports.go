package database

import (
	"time"

	"bistro-pos/internal/models"
)

// SalesReportResult holds the headline figures for a date range
type SalesReportResult struct {
	TotalRevenue float64
	TotalCount   int64
}

// GetSalesReport calculates sales within a specific date range.
// Cancelled orders never count.
func GetSalesReport(start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Where("status <> ?", "Cancelled").
		Select("COALESCE(SUM(total), 0)").
		Scan(&result.TotalRevenue).Error

	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Where("status <> ?", "Cancelled").
		Count(&result.TotalCount).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}
