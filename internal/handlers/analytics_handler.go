package handlers

import (
	"net/http"
	"time"

	"bistro-pos/internal/analytics"
	"bistro-pos/internal/database"
	"bistro-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// loadOrdersForRange resolves the range/from/to query params into a time
// window and loads every order inside it. Explicit from/to dates win over
// the named range.
func loadOrdersForRange(c *gin.Context) ([]models.Order, time.Time, time.Time, bool) {
	now := time.Now()
	start, end := analytics.DateRange(c.DefaultQuery("range", "week"), now)

	if from := c.Query("from"); from != "" {
		t, ok := parseDate(from)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date"})
			return nil, start, end, false
		}
		start = t
	}
	if to := c.Query("to"); to != "" {
		t, ok := parseDate(to)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date"})
			return nil, start, end, false
		}
		// inclusive: a 'to' date means the whole day
		end = t.Add(24*time.Hour - time.Nanosecond)
	}

	var orderList []models.Order
	if err := database.DB.Preload("Items").
		Where("created_at BETWEEN ? AND ?", start, end).
		Find(&orderList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return nil, start, end, false
	}

	orderList = analytics.FilterByTimeOfDay(orderList, c.Query("time_range"))
	return orderList, start, end, true
}

// --- GET: Dashboard summary ---
// Query params: range (today|yesterday|week|month|year), from, to,
// time_range (morning|afternoon|evening|all).
func GetSalesSummary(c *gin.Context) {
	orderList, start, end, ok := loadOrdersForRange(c)
	if !ok {
		return
	}

	summary := analytics.Summarize(orderList)
	c.JSON(http.StatusOK, gin.H{
		"start":   start,
		"end":     end,
		"summary": summary,
	})
}

// --- GET: Chart series for the dashboard ---
// series=daily gives one point per day in the window; series=weekday and
// series=hourly bucket revenue by day-of-week and 2-hour slot.
func GetSalesSeries(c *gin.Context) {
	orderList, start, end, ok := loadOrdersForRange(c)
	if !ok {
		return
	}

	switch c.DefaultQuery("series", "daily") {
	case "daily":
		c.JSON(http.StatusOK, gin.H{"series": analytics.DailySeries(orderList, start, end)})
	case "weekday":
		c.JSON(http.StatusOK, gin.H{"series": analytics.WeekdaySeries(orderList)})
	case "hourly":
		c.JSON(http.StatusOK, gin.H{"series": analytics.HourlySeries(orderList)})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown series type"})
	}
}
