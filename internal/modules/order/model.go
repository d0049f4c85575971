package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/serdarakin/shoply-backend/internal/modules/user"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// ParseStatus validates a raw status string against the closed enumeration.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled, StatusRefunded:
		return Status(s), true
	}
	return "", false
}

// Item is a single line item within an order. Title and SKU are snapshots
// captured at creation time; they never re-sync to the live product.
type Item struct {
	ProductID     uuid.UUID `json:"product_id"`
	TitleSnapshot string    `json:"title_snapshot"`
	SKUSnapshot   string    `json:"sku_snapshot"`
	UnitPrice     float64   `json:"unit_price"`
	Quantity      int       `json:"quantity"`
}

// Order is a customer order. Total always satisfies
// total = max(0, subtotal + shipping - discount); status changes never
// alter the totals.
type Order struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Items      []Item    `json:"items"`
	Currency   string    `json:"currency"`
	Subtotal   float64   `json:"subtotal"`
	Shipping   float64   `json:"shipping"`
	Discount   float64   `json:"discount"`
	Total      float64   `json:"total"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CustomerRef is the joined customer display fields on order reads.
type CustomerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  user.Role `json:"role,omitempty"`
}

// ProductDisplay is the live product joined onto an order item for
// presentation. Nil when the product has since been deleted; the item's
// snapshots are unaffected.
type ProductDisplay struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	SKU      string    `json:"sku"`
	Category string    `json:"category"`
	Stock    int       `json:"stock"`
	Status   string    `json:"status"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
}

// DetailItem is an order item joined with its live product, if any.
type DetailItem struct {
	Item
	Product *ProductDisplay `json:"product,omitempty"`
}

// Detail is a full order joined with customer and product display fields.
type Detail struct {
	Order
	Customer CustomerRef  `json:"customer"`
	Items    []DetailItem `json:"items"`
}

// Summary is the compact row returned by order listings.
type Summary struct {
	ID        uuid.UUID   `json:"id"`
	Customer  CustomerRef `json:"customer"`
	Total     float64     `json:"total"`
	Currency  string      `json:"currency"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreateOrderRequest is the payload for creating an order. Item price is
// optional; when omitted the product's live price is snapshotted.
type CreateOrderRequest struct {
	Customer string             `json:"customer"`
	Items    []CreateOrderItem  `json:"items"`
	Currency string             `json:"currency"`
	Shipping float64            `json:"shipping"`
	Discount float64            `json:"discount"`
	Status   string             `json:"status"`
}

// CreateOrderItem describes one requested line item.
type CreateOrderItem struct {
	Product string   `json:"product"`
	Price   *float64 `json:"price,omitempty"`
	Qty     int      `json:"qty"`
}

// UpdateStatusRequest is the payload for transitioning an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListQuery holds pagination and filter parameters for listing orders.
type ListQuery struct {
	Page   int
	Limit  int
	Offset int
	Status string
}

// ListResult is a page of order summaries plus pagination metadata.
type ListResult struct {
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
	Items      []*Summary `json:"items"`
}

// StatusChangedEvent is emitted after a committed status transition.
type StatusChangedEvent struct {
	OrderID        uuid.UUID `json:"orderId"`
	PreviousStatus Status    `json:"previousStatus"`
	NewStatus      Status    `json:"newStatus"`
	Total          float64   `json:"total"`
	Currency       string    `json:"currency"`
	OccurredAt     time.Time `json:"occurredAt"`
}
