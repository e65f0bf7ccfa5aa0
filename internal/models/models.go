package models

import (
	"time"
)

// User - The person interacting with the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	Email        string    `gorm:"index;size:120" json:"email"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'cashier'
	CreatedAt    time.Time `json:"created_at"`
}

// InventoryItem - A raw ingredient tracked in stock
// QuantityBase is ALWAYS stored in the item's base unit (g, ml or pcs).
// Display conversion (kg, L, box) happens at the edges, never in storage.
type InventoryItem struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Name                string     `gorm:"uniqueIndex;size:120" json:"name"`
	QuantityBase        float64    `json:"quantity_base"`
	BaseUnit            string     `gorm:"size:10" json:"base_unit"` // 'g', 'ml', 'pcs'
	PiecesPerBox        int        `json:"pieces_per_box"`           // 0 = box unit not usable
	LastRestockQuantity float64    `json:"last_restock_quantity"`    // post-restock total, base units
	LastRestockDate     *time.Time `json:"last_restock_date"`
	ExpirationDate      *time.Time `json:"expiration_date"`
	// Last stock status we notified about ('empty' / 'restock').
	// Cleared when the item returns to Steady so a later drop notifies again.
	LastNotifiedStatus string    `gorm:"size:20" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// RestockEntry - Audit trail of every quantity change (restock or deduction)
type RestockEntry struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	InventoryItemID  uint      `gorm:"index" json:"inventory_item_id"`
	Delta            float64   `json:"delta"` // base units, negative for deductions
	PreviousQuantity float64   `json:"previous_quantity"`
	NewQuantity      float64   `json:"new_quantity"`
	Source           string    `gorm:"size:40" json:"source"` // 'restock', 'bulk-upload', 'order'
	CreatedAt        time.Time `json:"created_at"`
}

// MenuItem - A sellable dish with its recipe
type MenuItem struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Name        string             `gorm:"uniqueIndex;size:120" json:"name"`
	Price       float64            `json:"price"`
	Category    string             `json:"category"`
	ImageURL    string             `json:"image_url"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:MenuItemID" json:"ingredients"`
}

// RecipeIngredient - How much of an inventory item one unit of a dish consumes
type RecipeIngredient struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	MenuItemID uint    `gorm:"index" json:"menu_item_id"`
	Name       string  `gorm:"size:120" json:"name"` // matched against InventoryItem.Name
	Quantity   float64 `json:"quantity"`             // per single dish, in Unit
	Unit       string  `gorm:"size:10" json:"unit"`
}

// Order - The Transaction Header
// OrderNumber is the customer-facing identifier from the allocator and is
// what edits and status transitions are keyed on. CreatedAt is write-once.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"uniqueIndex;size:20" json:"order_number"`
	Status          string      `gorm:"size:30" json:"status"`     // 'Pending Payment', 'In the Kitchen', 'Completed', 'Cancelled'
	OrderType       string      `gorm:"size:10" json:"order_type"` // 'Dine in', 'Take out'
	TableNumber     int         `json:"table_number"`
	PaxNumber       int         `json:"pax_number"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	Discount        float64     `json:"discount"`
	DiscountType    string      `gorm:"size:20" json:"discount_type"` // 'None', 'PWD', 'Senior Citizen', 'Special Discount'
	DiscountPercent float64     `json:"discount_percent"`
	Total           float64     `json:"total"` // subtotal + tax - discount
	PaymentMethod   string      `gorm:"size:40" json:"payment_method"`
	PaymentTotal    float64     `json:"payment_total"` // amount actually tendered
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	SentToKitchenAt *time.Time  `json:"sent_to_kitchen_at"`
	CompletedAt     *time.Time  `json:"completed_at"`
}

// OrderItem - One line in an order
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	Name      string  `gorm:"size:120" json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// IssuedOrderID - Every order number ever handed out, shared by all terminals.
// The unique index is what makes allocation collision-safe across clients.
type IssuedOrderID struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Value     string    `gorm:"uniqueIndex;size:20" json:"value"`
	Digits    int       `gorm:"index" json:"digits"` // 4, 5 or 0 for timestamp fallback
	CreatedAt time.Time `json:"created_at"`
}

// Notification - Stock alert shown on the dashboard bell
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:20" json:"type"` // 'empty', 'restock'
	Message   string    `json:"message"`
	Item      string    `gorm:"size:120" json:"item"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}
