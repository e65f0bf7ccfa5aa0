package orders

import "strings"

// Canonical order statuses.
const (
	StatusPendingPayment = "Pending Payment"
	StatusInTheKitchen   = "In the Kitchen"
	StatusCompleted      = "Completed"
	StatusCancelled      = "Cancelled"
)

// NormalizeStatus maps raw/legacy status strings onto the canonical set.
// The second return is false for cancelled, unknown and empty statuses:
// those orders must never appear in lists or aggregates.
func NormalizeStatus(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "processing", "payment approved", "in the kitchen":
		return StatusInTheKitchen, true
	case "ready", "completed":
		return StatusCompleted, true
	case "pending payment":
		return StatusPendingPayment, true
	default:
		// 'cancelled' and anything unrecognized
		return "", false
	}
}

// IsTerminal reports whether a canonical status ends the order lifecycle.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
