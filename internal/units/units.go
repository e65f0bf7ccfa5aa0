package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Base units. Every stored quantity is in exactly one of these.
const (
	Grams       = "g"
	Milliliters = "ml"
	Pieces      = "pcs"
)

// ErrPiecesPerBoxRequired is returned when converting the 'box' unit
// without knowing how many pieces one box holds.
var ErrPiecesPerBoxRequired = errors.New("piecesPerBox required for box conversion")

// UnsupportedUnitError means the caller passed a unit string we don't know.
// We never silently fall back to a default unit.
type UnsupportedUnitError struct {
	Unit string
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("unsupported unit: %q", e.Unit)
}

// Display is a quantity re-expressed in a user-friendly unit.
type Display struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ToBase converts a user-facing quantity to its base unit.
// kg -> g (x1000), L -> ml (x1000), box -> pcs (x piecesPerBox).
func ToBase(value float64, unit string, piecesPerBox int) (float64, error) {
	switch normalize(unit) {
	case "kg":
		return value * 1000, nil
	case "g":
		return value, nil
	case "l", "liter", "liters":
		return value * 1000, nil
	case "ml":
		return value, nil
	case "pcs", "piece", "pieces":
		return value, nil
	case "box":
		if piecesPerBox <= 0 {
			return 0, ErrPiecesPerBoxRequired
		}
		return value * float64(piecesPerBox), nil
	default:
		return 0, &UnsupportedUnitError{Unit: unit}
	}
}

// BaseUnitOf tells which base unit a display unit belongs to.
func BaseUnitOf(unit string) (string, error) {
	switch normalize(unit) {
	case "kg", "g":
		return Grams, nil
	case "l", "liter", "liters", "ml":
		return Milliliters, nil
	case "pcs", "piece", "pieces", "box":
		return Pieces, nil
	default:
		return "", &UnsupportedUnitError{Unit: unit}
	}
}

// FromBase re-expresses a base-unit quantity for display.
// 1000g and up become kg, 1000ml and up become L (2 decimal places),
// and pcs become boxes once there are enough pieces for a full box.
func FromBase(value float64, baseUnit string, piecesPerBox int) Display {
	switch baseUnit {
	case Grams:
		if value >= 1000 {
			return Display{Value: round2(value / 1000), Unit: "kg"}
		}
		return Display{Value: value, Unit: "g"}
	case Milliliters:
		if value >= 1000 {
			return Display{Value: round2(value / 1000), Unit: "L"}
		}
		return Display{Value: value, Unit: "ml"}
	case Pieces:
		if piecesPerBox > 0 && value >= float64(piecesPerBox) {
			return Display{Value: round2(value / float64(piecesPerBox)), Unit: "box"}
		}
		return Display{Value: value, Unit: "pcs"}
	}
	return Display{Value: value, Unit: baseUnit}
}

func normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
