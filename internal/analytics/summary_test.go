package analytics

import (
	"testing"
	"time"

	"bistro-pos/internal/models"
	"bistro-pos/internal/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedOrder(total float64, method string) models.Order {
	return models.Order{
		Status:        orders.StatusCompleted,
		Total:         total,
		PaymentMethod: method,
	}
}

func TestSummarizePaymentSplit(t *testing.T) {
	summary := Summarize([]models.Order{
		completedOrder(100, "GCash"),
		completedOrder(50, "Cash"),
	})

	assert.Equal(t, 150.0, summary.GrossSales)
	assert.Equal(t, 100.0, summary.PaymentMethods["GCash"])
	assert.Equal(t, 50.0, summary.PaymentMethods["Cash"])
	assert.Equal(t, 0.0, summary.PaymentMethods["Card"])
	assert.Equal(t, 150.0, summary.TotalCollection)
}

func TestSummarizeExcludesCancelledAndUnknown(t *testing.T) {
	summary := Summarize([]models.Order{
		completedOrder(100, "Cash"),
		{Status: "cancelled", Total: 400, PaymentMethod: "Cash",
			Items: []models.OrderItem{{Name: "Adobo", Quantity: 2, UnitPrice: 200}}},
		{Status: "foobar", Total: 900, PaymentMethod: "Cash",
			Items: []models.OrderItem{{Name: "Sinigang", Quantity: 1, UnitPrice: 900}}},
	})

	assert.Equal(t, 1, summary.OrderCount)
	assert.Equal(t, 100.0, summary.GrossSales)
	assert.Equal(t, 0, summary.DishCount)
	assert.Empty(t, summary.TopProducts)
}

func TestSummarizeFallsBackToLineItems(t *testing.T) {
	summary := Summarize([]models.Order{
		{
			Status: orders.StatusCompleted,
			Total:  0, // missing persisted total
			Items: []models.OrderItem{
				{Name: "Lumpia", Quantity: 3, UnitPrice: 50},
				{Name: "Halo-Halo", Quantity: 1, UnitPrice: 120, LineTotal: 120},
			},
		},
	})

	assert.Equal(t, 270.0, summary.GrossSales)
	assert.Equal(t, 4, summary.DishCount)
}

func TestSummarizeNetFormula(t *testing.T) {
	summary := Summarize([]models.Order{
		{Status: orders.StatusCompleted, Total: 1000, Discount: 200, Tax: 5, PaymentMethod: "Cash"},
	})

	assert.Equal(t, 1000.0, summary.GrossSales)
	assert.Equal(t, 200.0, summary.TotalDiscount)
	assert.Equal(t, 5.0, summary.TotalTax)
	assert.Equal(t, 795.0, summary.NetSales) // gross - discount - tax
}

func TestSummarizeEmptyInput(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.OrderCount)
	assert.Equal(t, 0.0, summary.GrossSales)
	assert.Equal(t, 0.0, summary.PaymentMethods["Cash"])
	assert.Empty(t, summary.TopProducts)
}

func TestTopProductsRankingAndTieBreak(t *testing.T) {
	order := models.Order{
		Status: orders.StatusCompleted,
		Total:  1,
		Items: []models.OrderItem{
			{Name: "Adobo", Quantity: 5, UnitPrice: 100},
			{Name: "Sisig", Quantity: 5, UnitPrice: 150}, // same qty, more revenue
			{Name: "Lumpia", Quantity: 8, UnitPrice: 30},
			{Name: "Kare-Kare", Quantity: 1, UnitPrice: 300},
			{Name: "Sinigang", Quantity: 2, UnitPrice: 220},
			{Name: "Halo-Halo", Quantity: 3, UnitPrice: 90},
		},
	}
	summary := Summarize([]models.Order{order})

	require.Len(t, summary.TopProducts, 5)
	assert.Equal(t, "Lumpia", summary.TopProducts[0].Name)
	// Tie on quantity: higher revenue wins
	assert.Equal(t, "Sisig", summary.TopProducts[1].Name)
	assert.Equal(t, "Adobo", summary.TopProducts[2].Name)
	// Lowest quantity dropped from the top 5
	for _, p := range summary.TopProducts {
		assert.NotEqual(t, "Kare-Kare", p.Name)
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	assert.Equal(t, "GCash", NormalizePaymentMethod("GCASH"))
	assert.Equal(t, "GCash", NormalizePaymentMethod("paid via gcash app"))
	assert.Equal(t, "Cash", NormalizePaymentMethod("Cash"))
	assert.Equal(t, "Card", NormalizePaymentMethod("Visa"))
	assert.Equal(t, "Card", NormalizePaymentMethod("mastercard"))
	assert.Equal(t, "Card", NormalizePaymentMethod("credit"))
	// Masked number looks like a card
	assert.Equal(t, "Card", NormalizePaymentMethod("**** 1234"))
	// Ambiguous strings default to cash
	assert.Equal(t, "Cash", NormalizePaymentMethod("on the house"))
}

func TestSummarizeUsesPaymentTotalWhenPresent(t *testing.T) {
	summary := Summarize([]models.Order{
		{Status: orders.StatusCompleted, Total: 100, PaymentTotal: 120, PaymentMethod: "Cash"},
	})
	assert.Equal(t, 120.0, summary.PaymentMethods["Cash"])
	// Gross still comes from the order total, not the tendered amount
	assert.Equal(t, 100.0, summary.GrossSales)
}

func TestDateRangeNames(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	start, end := DateRange("today", now)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)

	start, end = DateRange("yesterday", now)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 14, end.Day())
	assert.Equal(t, 23, end.Hour())

	start, _ = DateRange("week", now)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), start)

	start, _ = DateRange("month", now)
	assert.Equal(t, time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC), start)

	start, _ = DateRange("year", now)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), start)

	// Unknown names default to the last 7 days
	start, _ = DateRange("fortnight", now)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), start)
}

func TestFilterByTimeOfDay(t *testing.T) {
	at := func(hour int) models.Order {
		return models.Order{CreatedAt: time.Date(2025, 6, 15, hour, 0, 0, 0, time.UTC)}
	}
	orderList := []models.Order{at(7), at(13), at(20), at(2)}

	assert.Len(t, FilterByTimeOfDay(orderList, "morning"), 1)
	assert.Len(t, FilterByTimeOfDay(orderList, "afternoon"), 1)
	// Evening wraps past midnight: 20:00 and 02:00
	assert.Len(t, FilterByTimeOfDay(orderList, "evening"), 2)
	assert.Len(t, FilterByTimeOfDay(orderList, "all"), 4)
}

func TestDailySeriesBucketsAndZeroFills(t *testing.T) {
	start := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	orderList := []models.Order{
		{CreatedAt: start.Add(10 * time.Hour), Total: 100},
		{CreatedAt: start.Add(14 * time.Hour), Total: 50},
		{CreatedAt: start.AddDate(0, 0, 2).Add(9 * time.Hour), Total: 75},
	}

	series := DailySeries(orderList, start, end)
	require.Len(t, series, 3)
	assert.Equal(t, 150.0, series[0].Total)
	assert.Equal(t, 0.0, series[1].Total)
	assert.Equal(t, 75.0, series[2].Total)
	assert.Equal(t, "2025-06-09", series[0].Date)
}

func TestWeekdayAndHourlySeries(t *testing.T) {
	sunday := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC) // a Sunday, 9am
	monday := sunday.AddDate(0, 0, 1)

	orderList := []models.Order{
		{CreatedAt: sunday, Total: 100},
		{CreatedAt: monday.Add(13 * time.Hour), Total: 40}, // Monday 22:00
	}

	weekdays := WeekdaySeries(orderList)
	assert.Equal(t, 100.0, weekdays[0]) // Sunday
	assert.Equal(t, 40.0, weekdays[1])  // Monday

	hours := HourlySeries(orderList)
	assert.Equal(t, 100.0, hours[4]) // 8-10am bucket
	assert.Equal(t, 40.0, hours[11]) // 10pm-midnight bucket
}
