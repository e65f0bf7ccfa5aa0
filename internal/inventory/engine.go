package inventory

import (
	"log"
	"time"

	"bistro-pos/internal/models"
	"bistro-pos/internal/units"

	"gorm.io/gorm"
)

// DeductionResult reports what a deduction actually did. NewBase never goes
// below zero; whatever could not be deducted is surfaced as Shortfall so
// callers can warn staff instead of silently under-reporting.
type DeductionResult struct {
	NewBase   float64       `json:"new_base"`
	Shortfall float64       `json:"shortfall"`
	Display   units.Display `json:"display"`
}

// Deduct converts an order/recipe quantity to base units and subtracts it
// from the current stock, clamping at zero.
func Deduct(currentBase float64, qty float64, unit string, baseUnit string, piecesPerBox int) (DeductionResult, error) {
	deductBase, err := units.ToBase(qty, unit, piecesPerBox)
	if err != nil {
		return DeductionResult{}, err
	}

	newBase := currentBase - deductBase
	var shortfall float64
	if newBase < 0 {
		shortfall = -newBase
		newBase = 0
	}

	return DeductionResult{
		NewBase:   newBase,
		Shortfall: shortfall,
		Display:   units.FromBase(newBase, baseUnit, piecesPerBox),
	}, nil
}

// Restock converts a restock quantity to base units and adds it to the
// current stock.
func Restock(currentBase float64, qty float64, unit string, piecesPerBox int) (float64, error) {
	addBase, err := units.ToBase(qty, unit, piecesPerBox)
	if err != nil {
		return 0, err
	}
	return currentBase + addBase, nil
}

// ApplyDeduction subtracts a quantity from a locked inventory row, records
// an audit entry and fires any status-transition notification. Must run
// inside the caller's transaction, with the row already locked FOR UPDATE.
func ApplyDeduction(tx *gorm.DB, item *models.InventoryItem, qty float64, unit string, source string) (DeductionResult, error) {
	result, err := Deduct(item.QuantityBase, qty, unit, item.BaseUnit, item.PiecesPerBox)
	if err != nil {
		return DeductionResult{}, err
	}

	if result.Shortfall > 0 {
		// The deficit is lost in storage (clamped to zero) but must not be
		// lost in observability.
		log.Printf("⚠️ Inventory shortfall: %s short by %.2f%s", item.Name, result.Shortfall, item.BaseUnit)
	}

	previous := item.QuantityBase
	item.QuantityBase = result.NewBase

	if err := tx.Model(item).Updates(map[string]interface{}{
		"quantity_base": item.QuantityBase,
	}).Error; err != nil {
		return DeductionResult{}, err
	}

	entry := models.RestockEntry{
		InventoryItemID:  item.ID,
		Delta:            item.QuantityBase - previous,
		PreviousQuantity: previous,
		NewQuantity:      item.QuantityBase,
		Source:           source,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return DeductionResult{}, err
	}

	if err := UpdateStatusAndNotify(tx, item); err != nil {
		return DeductionResult{}, err
	}

	return result, nil
}

// ApplyRestock adds a quantity to a locked inventory row, refreshes the
// last-restock snapshot, records an audit entry and clears/fires
// notification state. Must run inside the caller's transaction.
func ApplyRestock(tx *gorm.DB, item *models.InventoryItem, qty float64, unit string, expirationDate *time.Time, source string) error {
	newBase, err := Restock(item.QuantityBase, qty, unit, item.PiecesPerBox)
	if err != nil {
		return err
	}

	previous := item.QuantityBase
	now := time.Now()

	item.QuantityBase = newBase
	item.LastRestockQuantity = newBase
	item.LastRestockDate = &now
	if expirationDate != nil {
		item.ExpirationDate = expirationDate
	}

	updates := map[string]interface{}{
		"quantity_base":         item.QuantityBase,
		"last_restock_quantity": item.LastRestockQuantity,
		"last_restock_date":     item.LastRestockDate,
	}
	if expirationDate != nil {
		updates["expiration_date"] = item.ExpirationDate
	}
	if err := tx.Model(item).Updates(updates).Error; err != nil {
		return err
	}

	entry := models.RestockEntry{
		InventoryItemID:  item.ID,
		Delta:            item.QuantityBase - previous,
		PreviousQuantity: previous,
		NewQuantity:      item.QuantityBase,
		Source:           source,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	return UpdateStatusAndNotify(tx, item)
}
