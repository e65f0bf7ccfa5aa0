package analytics

import (
	"time"

	"bistro-pos/internal/models"
)

// DateRange resolves a named range into a start/end pair relative to now.
// Unknown names fall back to the last 7 days, matching the dashboard's
// default selection.
func DateRange(name string, now time.Time) (time.Time, time.Time) {
	end := now
	var start time.Time

	switch name {
	case "today":
		start = startOfDay(now)
	case "yesterday":
		y := now.AddDate(0, 0, -1)
		start = startOfDay(y)
		end = endOfDay(y)
	case "week", "last7days":
		start = startOfDay(now.AddDate(0, 0, -6))
	case "month", "last30days":
		start = startOfDay(now.AddDate(0, 0, -29))
	case "year", "lastYear":
		start = startOfDay(now.AddDate(-1, 0, 0))
	default:
		start = startOfDay(now.AddDate(0, 0, -6))
	}
	return start, end
}

// FilterByRange keeps orders whose timestamp falls inside [start, end].
func FilterByRange(orderList []models.Order, start, end time.Time) []models.Order {
	filtered := make([]models.Order, 0, len(orderList))
	for _, o := range orderList {
		ts := o.CreatedAt
		if (ts.Equal(start) || ts.After(start)) && (ts.Equal(end) || ts.Before(end)) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// FilterByTimeOfDay keeps orders inside an hour-of-day band:
// morning 6-12, afternoon 12-18, evening 18-6 (wrapping past midnight).
// Anything else ('all', empty) keeps every order.
func FilterByTimeOfDay(orderList []models.Order, band string) []models.Order {
	if band == "" || band == "all" {
		return orderList
	}
	filtered := make([]models.Order, 0, len(orderList))
	for _, o := range orderList {
		hour := o.CreatedAt.Hour()
		keep := false
		switch band {
		case "morning":
			keep = hour >= 6 && hour < 12
		case "afternoon":
			keep = hour >= 12 && hour < 18
		case "evening":
			keep = hour >= 18 || hour < 6
		default:
			keep = true
		}
		if keep {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// DayPoint is one day on the sales trend line.
type DayPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

// DailySeries buckets orders into calendar days over [start, end], summing
// the paid amount per day. Days without sales are present with zero so the
// trend line has no gaps.
func DailySeries(orderList []models.Order, start, end time.Time) []DayPoint {
	start = startOfDay(start)
	days := int(endOfDay(end).Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}

	points := make([]DayPoint, days)
	for i := range points {
		points[i].Date = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	for _, o := range orderList {
		idx := int(o.CreatedAt.Sub(start).Hours() / 24)
		if idx >= 0 && idx < days {
			points[idx].Total += paidAmount(o)
		}
	}
	return points
}

// WeekdaySeries sums the paid amount per weekday, Sunday first.
func WeekdaySeries(orderList []models.Order) [7]float64 {
	var totals [7]float64
	for _, o := range orderList {
		totals[int(o.CreatedAt.Weekday())] += paidAmount(o)
	}
	return totals
}

// HourlySeries sums the paid amount into 2-hour buckets 0,2,4...22.
func HourlySeries(orderList []models.Order) [12]float64 {
	var totals [12]float64
	for _, o := range orderList {
		totals[o.CreatedAt.Hour()/2] += paidAmount(o)
	}
	return totals
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
