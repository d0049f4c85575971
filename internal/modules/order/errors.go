package order

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no order matches the given id.
	ErrNotFound = errors.New("order not found")

	// ErrInvalidStatus is returned when the requested status is not one of
	// the five enumerated values. Nothing is touched.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrCompletedReverted is returned when a completed order is asked to go
	// back to pending or processing.
	ErrCompletedReverted = errors.New("completed order cannot be reverted")

	// ErrProductNotFound is returned when an order item references a product
	// that no longer exists at completion time.
	ErrProductNotFound = errors.New("product not found for order item")
)

// InsufficientStockError aborts a completion when a product cannot cover an
// item's quantity. The whole transition rolls back.
type InsufficientStockError struct {
	ProductID    string
	ProductTitle string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductTitle)
}
