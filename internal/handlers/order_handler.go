package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"bistro-pos/internal/database"
	"bistro-pos/internal/inventory"
	"bistro-pos/internal/models"
	"bistro-pos/internal/orders"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Flat tax applied to every order.
const orderTax = 5.00

type OrderItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderRequest struct {
	OrderType       string             `json:"order_type" binding:"required"` // 'Dine in' | 'Take out'
	TableNumber     int                `json:"table_number"`
	PaxNumber       int                `json:"pax_number"`
	Items           []OrderItemRequest `json:"items" binding:"required"`
	DiscountType    string             `json:"discount_type"`
	DiscountPercent float64            `json:"discount_percent"` // only read for Special Discount
	PaymentMethod   string             `json:"payment_method"`
	PaymentTotal    float64            `json:"payment_total"`
}

// discountPercentFor resolves the discount percentage from the type.
// PWD and Senior Citizen are fixed by law at 20%; Special Discount is
// whatever the cashier entered, capped to 0-100.
func discountPercentFor(discountType string, requested float64) (string, float64, error) {
	switch discountType {
	case "", "None":
		return "None", 0, nil
	case "PWD":
		return "PWD", 20, nil
	case "Senior Citizen":
		return "Senior Citizen", 20, nil
	case "Special Discount":
		if requested < 0 || requested > 100 {
			return "", 0, fmt.Errorf("special discount percent must be between 0 and 100")
		}
		return "Special Discount", requested, nil
	default:
		return "", 0, fmt.Errorf("unknown discount type %q", discountType)
	}
}

func buildOrderTotals(req *OrderRequest, order *models.Order) error {
	discountType, percent, err := discountPercentFor(req.DiscountType, req.DiscountPercent)
	if err != nil {
		return err
	}

	var subtotal float64
	var items []models.OrderItem
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("item %q has non-positive quantity", it.Name)
		}
		lineTotal := it.UnitPrice * float64(it.Quantity)
		subtotal += lineTotal
		items = append(items, models.OrderItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: lineTotal,
		})
	}

	discount := subtotal * percent / 100

	order.OrderType = req.OrderType
	order.TableNumber = req.TableNumber
	order.PaxNumber = req.PaxNumber
	order.Items = items
	order.Subtotal = subtotal
	order.Tax = orderTax
	order.DiscountType = discountType
	order.DiscountPercent = percent
	order.Discount = discount
	order.Total = subtotal + orderTax - discount
	order.PaymentMethod = req.PaymentMethod
	order.PaymentTotal = req.PaymentTotal
	return nil
}

// --- POST: Create a new order from the POS ---
// Allocates a fresh order number and persists as Pending Payment.
func CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.OrderType == "Dine in" && (req.TableNumber <= 0 || req.PaxNumber <= 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dine in orders require a table number and pax count"})
		return
	}

	order := models.Order{Status: orders.StatusPendingPayment}
	if err := buildOrderTotals(&req, &order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order.OrderNumber = orders.NewAllocator(database.DB).Allocate()

	if err := database.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// --- PUT: Edit a still-pending order ---
// Edits reuse the same order number and document; the creation timestamp
// is never touched.
func UpdateOrder(c *gin.Context) {
	number := c.Param("number")

	var order models.Order
	if err := database.DB.Preload("Items").Where("order_number = ?", number).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.Status != orders.StatusPendingPayment {
		c.JSON(http.StatusConflict, gin.H{"error": "Only orders pending payment can be edited"})
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Replace the line items wholesale
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		updated := models.Order{}
		if err := buildOrderTotals(&req, &updated); err != nil {
			return err
		}
		for i := range updated.Items {
			updated.Items[i].OrderID = order.ID
		}
		if err := tx.Create(&updated.Items).Error; err != nil {
			return err
		}

		return tx.Model(&order).Updates(map[string]interface{}{
			"order_type":       updated.OrderType,
			"table_number":     updated.TableNumber,
			"pax_number":       updated.PaxNumber,
			"subtotal":         updated.Subtotal,
			"tax":              updated.Tax,
			"discount":         updated.Discount,
			"discount_type":    updated.DiscountType,
			"discount_percent": updated.DiscountPercent,
			"total":            updated.Total,
			"payment_method":   updated.PaymentMethod,
			"payment_total":    updated.PaymentTotal,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	database.DB.Preload("Items").First(&order, order.ID)
	c.JSON(http.StatusOK, order)
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- PATCH: Move an order through its lifecycle ---
// Pending Payment -> In the Kitchen deducts recipe ingredients exactly
// once, inside one transaction with the status flip.
func UpdateOrderStatus(c *gin.Context) {
	number := c.Param("number")

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	// Cancellation is a valid transition even though cancelled orders
	// are filtered out of every listing.
	target, ok := orders.NormalizeStatus(req.Status)
	if !ok {
		if !strings.EqualFold(strings.TrimSpace(req.Status), "cancelled") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
			return
		}
		target = orders.StatusCancelled
	}

	var order models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").Where("order_number = ?", number).First(&order).Error; err != nil {
			return err
		}
		if orders.IsTerminal(order.Status) {
			return fmt.Errorf("order %s is already %s", number, order.Status)
		}

		updates := map[string]interface{}{"status": target}
		now := time.Now()

		// The kitchen transition consumes ingredients, and only from
		// Pending Payment so re-sending can never double-deduct.
		if target == orders.StatusInTheKitchen {
			if order.Status != orders.StatusPendingPayment {
				return fmt.Errorf("order %s is already in the kitchen", number)
			}
			if err := deductOrderIngredients(tx, &order); err != nil {
				return err
			}
			updates["sent_to_kitchen_at"] = now
		}
		if orders.IsTerminal(target) {
			updates["completed_at"] = now
		}

		return tx.Model(&order).Updates(updates).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order_number": number, "status": target})
}

// deductOrderIngredients walks every dish on the order, finds its recipe
// and deducts each ingredient from inventory. Rows are locked FOR UPDATE so
// two terminals sending orders to the kitchen cannot race each other.
// Ingredients missing from inventory or the menu are logged shortfalls,
// not hard failures: the kitchen still needs the ticket.
func deductOrderIngredients(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		var dish models.MenuItem
		if err := tx.Preload("Ingredients").Where("name = ?", item.Name).First(&dish).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue // not every order line has a recipe (e.g. bottled drinks)
			}
			return err
		}

		for _, ingredient := range dish.Ingredients {
			var stock models.InventoryItem
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("name = ?", ingredient.Name).First(&stock).Error
			if err == gorm.ErrRecordNotFound {
				continue
			}
			if err != nil {
				return err
			}

			needed := ingredient.Quantity * float64(item.Quantity)
			if _, err := inventory.ApplyDeduction(tx, &stock, needed, ingredient.Unit, "order"); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- GET: List orders for the order screen ---
// Cancelled and unrecognized statuses never show up.
func GetOrders(c *gin.Context) {
	var all []models.Order
	if err := database.DB.Preload("Items").Order("created_at desc").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	visible := make([]models.Order, 0, len(all))
	for _, o := range all {
		status, ok := orders.NormalizeStatus(o.Status)
		if !ok {
			continue
		}
		o.Status = status
		visible = append(visible, o)
	}

	c.JSON(http.StatusOK, visible)
}

// --- GET: One order by number ---
func GetOrder(c *gin.Context) {
	number := c.Param("number")
	var order models.Order
	if err := database.DB.Preload("Items").Where("order_number = ?", number).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- GET: Order number pool diagnostics ---
func GetOrderIDStats(c *gin.Context) {
	stats, err := orders.NewAllocator(database.DB).Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read order ID stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
