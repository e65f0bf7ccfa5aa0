package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"bistro-pos/internal/database"
	"bistro-pos/internal/inventory"
	"bistro-pos/internal/models"
	"bistro-pos/internal/units"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryItemView is an inventory row with its display unit and derived
// statuses, the shape the dashboard table renders.
type InventoryItemView struct {
	ID               uint                       `json:"id"`
	Name             string                     `json:"name"`
	QuantityBase     float64                    `json:"quantity_base"`
	BaseUnit         string                     `json:"base_unit"`
	Display          units.Display              `json:"display"`
	Status           inventory.Status           `json:"status"`
	ExpirationStatus inventory.ExpirationStatus `json:"expiration_status"`
	ExpirationDate   *time.Time                 `json:"expiration_date"`
	LastRestockDate  *time.Time                 `json:"last_restock_date"`
}

// --- GET: List all inventory items ---
// Sorted by expiration status first, then stock status (Empty before
// Need Restocking before Steady), then name.
func GetInventory(c *gin.Context) {
	var items []models.InventoryItem
	if err := database.DB.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	now := time.Now()
	views := make([]InventoryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, InventoryItemView{
			ID:               item.ID,
			Name:             item.Name,
			QuantityBase:     item.QuantityBase,
			BaseUnit:         item.BaseUnit,
			Display:          units.FromBase(item.QuantityBase, item.BaseUnit, item.PiecesPerBox),
			Status:           inventory.Classify(item.QuantityBase, item.BaseUnit),
			ExpirationStatus: inventory.ClassifyExpiration(item.ExpirationDate, now),
			ExpirationDate:   item.ExpirationDate,
			LastRestockDate:  item.LastRestockDate,
		})
	}

	sort.Slice(views, func(i, j int) bool {
		ei, ej := inventory.ExpirationPriority(views[i].ExpirationStatus), inventory.ExpirationPriority(views[j].ExpirationStatus)
		if ei != ej {
			return ei < ej
		}
		si, sj := inventory.Priority(views[i].Status), inventory.Priority(views[j].Status)
		if si != sj {
			return si < sj
		}
		return views[i].Name < views[j].Name
	})

	c.JSON(http.StatusOK, views)
}

type InventoryItemRequest struct {
	Name           string  `json:"name" binding:"required"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit" binding:"required"`
	PiecesPerBox   int     `json:"pieces_per_box"`
	ExpirationDate string  `json:"expiration_date"` // YYYY-MM-DD, optional
}

// --- POST: Add a new inventory item ---
// The incoming quantity can be in any supported display unit; it is stored
// in the base unit of that unit's family.
func AddInventoryItem(c *gin.Context) {
	var req InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	baseUnit, err := units.BaseUnitOf(req.Unit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantityBase, err := units.ToBase(req.Quantity, req.Unit, req.PiecesPerBox)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.InventoryItem{
		Name:         req.Name,
		QuantityBase: quantityBase,
		BaseUnit:     baseUnit,
		PiecesPerBox: req.PiecesPerBox,
	}
	if exp, ok := parseDate(req.ExpirationDate); ok {
		item.ExpirationDate = &exp
	}

	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// --- PUT: Update item metadata (name, box factor, expiration) ---
// Quantity changes go through the restock/deduction endpoints so the audit
// trail and notifications stay consistent.
func UpdateInventoryItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.InventoryItem
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	var req struct {
		Name           string `json:"name"`
		PiecesPerBox   *int   `json:"pieces_per_box"`
		ExpirationDate string `json:"expiration_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.PiecesPerBox != nil {
		updates["pieces_per_box"] = *req.PiecesPerBox
	}
	if exp, ok := parseDate(req.ExpirationDate); ok {
		updates["expiration_date"] = exp
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&item).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inventory item"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item updated", "item": item})
}

// --- DELETE: Remove an inventory item ---
func DeleteInventoryItem(c *gin.Context) {
	id := c.Param("id")
	if err := database.DB.Delete(&models.InventoryItem{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete inventory item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}

type RestockRequest struct {
	Quantity       float64 `json:"quantity" binding:"required"`
	Unit           string  `json:"unit" binding:"required"`
	ExpirationDate string  `json:"expiration_date"`
}

// --- POST: Manual restock of one item ---
func RestockItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		return
	}

	var expiration *time.Time
	if exp, ok := parseDate(req.ExpirationDate); ok {
		expiration = &exp
	}

	var item models.InventoryItem
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the row to prevent race conditions
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			return err
		}
		return inventory.ApplyRestock(tx, &item, req.Quantity, req.Unit, expiration, "restock")
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Restock successful",
		"item":    item,
		"display": units.FromBase(item.QuantityBase, item.BaseUnit, item.PiecesPerBox),
	})
}

// --- GET: Restock history for one item ---
func GetRestockHistory(c *gin.Context) {
	id := c.Param("id")
	var entries []models.RestockEntry
	if err := database.DB.Where("inventory_item_id = ?", id).
		Order("created_at desc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restock history"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// --- GET: Unseen notifications ---
func GetNotifications(c *gin.Context) {
	var notifications []models.Notification
	if err := database.DB.Order("created_at desc").Limit(50).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// --- POST: Mark all notifications seen ---
func MarkNotificationsSeen(c *gin.Context) {
	if err := database.DB.Model(&models.Notification{}).
		Where("seen = ?", false).Update("seen", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as seen"})
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
