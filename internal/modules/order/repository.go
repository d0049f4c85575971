package order

import (
	"context"

	"github.com/google/uuid"
)

// ProductStock is the slice of a product the status engine reads and writes
// inside a transition: identity, display title and the stock counter.
type ProductStock struct {
	ID    uuid.UUID
	Title string
	Stock int
}

// ProductSnapshot carries the catalog fields captured into an order item at
// creation time.
type ProductSnapshot struct {
	ID    uuid.UUID
	Title string
	SKU   string
	Price float64
}

// Tx is the transactional view used by the status engine. Every read locks
// the row it returns, so concurrent transitions on the same order, and
// concurrent completions touching the same product, serialize instead of
// racing a stale stock check.
type Tx interface {
	// GetOrderForUpdate loads and locks the order. Returns ErrNotFound when
	// the id is unknown.
	GetOrderForUpdate(ctx context.Context, id string) (*Order, error)

	// GetProductForUpdate loads and locks a product's stock row. Returns
	// ErrProductNotFound when the product no longer exists.
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (*ProductStock, error)

	// AdjustStock applies a delta to the locked product's stock.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	// SetOrderStatus writes the new status and bumps updated_at.
	SetOrderStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderDetail retrieves an order joined with customer and live
	// product display fields. Returns ErrNotFound when missing.
	GetOrderDetail(ctx context.Context, id string) (*Detail, error)

	// ListOrders returns a page of order summaries plus the total count.
	ListOrders(ctx context.Context, q ListQuery) ([]*Summary, int, error)

	// RecentOrders returns the newest orders, joined with customer fields.
	RecentOrders(ctx context.Context, limit int) ([]*Summary, error)

	// GetProductSnapshots fetches the snapshot source fields for the given
	// product ids. Missing ids are simply absent from the result.
	GetProductSnapshots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductSnapshot, error)

	// Transition runs fn inside a single transaction. Any error from fn
	// rolls back every write made through the Tx; nil commits them.
	Transition(ctx context.Context, fn func(tx Tx) error) error
}
