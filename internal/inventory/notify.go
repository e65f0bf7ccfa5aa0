package inventory

import (
	"fmt"

	"bistro-pos/internal/models"

	"gorm.io/gorm"
)

// Notification types stored with each alert.
const (
	NotifyEmpty   = "empty"
	NotifyRestock = "restock"
)

// NotificationFor decides whether a status change warrants an alert.
// It returns the alert to emit (if any) and the new suppression marker to
// store on the item. The rules:
//   - Steady clears the marker, so a later drop notifies again.
//   - Empty / Need Restocking notify exactly once per transition;
//     repeated refreshes at the same status stay silent.
func NotificationFor(lastNotified string, status Status, itemName string) (notifType string, message string, notify bool, newMarker string) {
	switch status {
	case StatusSteady:
		return "", "", false, ""
	case StatusEmpty:
		notifType = NotifyEmpty
		message = fmt.Sprintf("%s is out of stock!", itemName)
	case StatusNeedRestocking:
		notifType = NotifyRestock
		message = fmt.Sprintf("Low stock: %s", itemName)
	}
	if lastNotified == notifType {
		return "", "", false, lastNotified
	}
	return notifType, message, true, notifType
}

// UpdateStatusAndNotify recomputes the item's stock status and persists at
// most one notification per genuine transition. Runs in the caller's
// transaction so the alert and the stock change commit together.
func UpdateStatusAndNotify(tx *gorm.DB, item *models.InventoryItem) error {
	status := Classify(item.QuantityBase, item.BaseUnit)

	notifType, message, notify, marker := NotificationFor(item.LastNotifiedStatus, status, item.Name)
	if marker != item.LastNotifiedStatus {
		item.LastNotifiedStatus = marker
		if err := tx.Model(item).Update("last_notified_status", marker).Error; err != nil {
			return err
		}
	}
	if !notify {
		return nil
	}

	notification := models.Notification{
		Type:    notifType,
		Message: message,
		Item:    item.Name,
	}
	return tx.Create(&notification).Error
}
