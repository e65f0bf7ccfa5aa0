package inventory

import (
	"time"

	"bistro-pos/internal/units"
)

// Status is the stock level classification shown next to every item.
type Status string

const (
	StatusEmpty          Status = "Empty"
	StatusNeedRestocking Status = "Need Restocking"
	StatusSteady         Status = "Steady"
)

// Restock thresholds per base unit, in base units. Anything at zero is
// Empty, anything below the threshold needs restocking.
var restockThresholds = map[string]float64{
	units.Grams:       500,
	units.Milliliters: 500,
	units.Pieces:      10,
}

// Classify is a pure function of (quantity in base units, base unit).
func Classify(quantityBase float64, baseUnit string) Status {
	if quantityBase <= 0 {
		return StatusEmpty
	}
	threshold, ok := restockThresholds[baseUnit]
	if !ok {
		threshold = restockThresholds[units.Pieces]
	}
	if quantityBase < threshold {
		return StatusNeedRestocking
	}
	return StatusSteady
}

// Priority orders stock statuses for list sorting: Empty first.
func Priority(s Status) int {
	switch s {
	case StatusEmpty:
		return 0
	case StatusNeedRestocking:
		return 1
	default:
		return 2
	}
}

// ExpirationStatus is derived from the expiration date, never persisted.
type ExpirationStatus string

const (
	ExpirationExpired  ExpirationStatus = "expired"
	ExpirationSoon     ExpirationStatus = "expiring-soon"
	ExpirationGood     ExpirationStatus = "good"
	expiringSoonWindow                  = 7 * 24 * time.Hour
)

// ClassifyExpiration computes the derived expiration status from "now".
// Items without an expiration date are always good.
func ClassifyExpiration(expirationDate *time.Time, now time.Time) ExpirationStatus {
	if expirationDate == nil {
		return ExpirationGood
	}
	if expirationDate.Before(now) {
		return ExpirationExpired
	}
	if expirationDate.Sub(now) <= expiringSoonWindow {
		return ExpirationSoon
	}
	return ExpirationGood
}

// ExpirationPriority orders expiration statuses for list sorting. Expiration
// is the primary sort key, above stock status.
func ExpirationPriority(s ExpirationStatus) int {
	switch s {
	case ExpirationExpired:
		return 0
	case ExpirationSoon:
		return 1
	default:
		return 2
	}
}
