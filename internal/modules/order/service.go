package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// EventPublisher receives committed status transitions. Publishing is
// best-effort: failures are logged and never fail the request.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, e StatusChangedEvent) error
}

// Service defines the order management business logic.
type Service interface {
	// CreateOrder validates the request, snapshots product fields into the
	// items, computes totals and persists the order. Creation never adjusts
	// stock; only the status engine does.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)

	// GetOrder retrieves a full order joined with customer and live product
	// display fields.
	GetOrder(ctx context.Context, id string) (*Detail, error)

	// ListOrders returns a page of order summaries, newest first.
	ListOrders(ctx context.Context, q ListQuery) (*ListResult, error)

	// RecentOrders returns the newest orders, limit clamped to [1,10].
	RecentOrders(ctx context.Context, limit int) ([]*Summary, error)

	// UpdateStatus applies a status transition, synchronizing product stock
	// with completed semantics in one atomic operation.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Detail, error)
}

type service struct {
	repo   Repository
	events EventPublisher // nil disables eventing
}

// NewService creates a new order service. events may be nil.
func NewService(repo Repository, events EventPublisher) Service {
	return &service{repo: repo, events: events}
}

func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.Customer == "" {
		return nil, fmt.Errorf("customer is required")
	}
	customerID, err := uuid.Parse(req.Customer)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id: %w", err)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("items is required")
	}

	currency := req.Currency
	if currency == "" {
		currency = "TRY"
	}
	if currency != "TRY" && currency != "USD" && currency != "EUR" {
		return nil, fmt.Errorf("invalid currency %q", req.Currency)
	}

	status := StatusPending
	if req.Status != "" {
		parsed, ok := ParseStatus(req.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}

	if req.Shipping < 0 || req.Discount < 0 {
		return nil, fmt.Errorf("shipping and discount must be non-negative")
	}

	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.Product)
		if err != nil {
			return nil, fmt.Errorf("invalid product in items")
		}
		productIDs = append(productIDs, pid)
	}

	snapshots, err := s.repo.GetProductSnapshots(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	var subtotal float64
	items := make([]Item, 0, len(req.Items))
	for i, it := range req.Items {
		snap, ok := snapshots[productIDs[i]]
		if !ok {
			return nil, fmt.Errorf("invalid product in items")
		}
		qty := it.Qty
		if qty == 0 {
			qty = 1
		}
		if qty < 1 {
			return nil, fmt.Errorf("invalid qty")
		}
		price := snap.Price
		if it.Price != nil {
			if *it.Price < 0 {
				return nil, fmt.Errorf("invalid price")
			}
			price = *it.Price
		}
		subtotal += price * float64(qty)
		items = append(items, Item{
			ProductID:     snap.ID,
			TitleSnapshot: snap.Title,
			SKUSnapshot:   snap.SKU,
			UnitPrice:     price,
			Quantity:      qty,
		})
	}

	total := subtotal + req.Shipping - req.Discount
	if total < 0 {
		total = 0
	}

	o := &Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Items:      items,
		Currency:   currency,
		Subtotal:   subtotal,
		Shipping:   req.Shipping,
		Discount:   req.Discount,
		Total:      total,
		Status:     status,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Detail, error) {
	return s.repo.GetOrderDetail(ctx, id)
}

func (s *service) ListOrders(ctx context.Context, q ListQuery) (*ListResult, error) {
	items, total, err := s.repo.ListOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Summary{}
	}
	return &ListResult{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
		Items:      items,
	}, nil
}

func (s *service) RecentOrders(ctx context.Context, limit int) ([]*Summary, error) {
	if limit < 1 {
		limit = 5
	}
	if limit > 10 {
		limit = 10
	}
	return s.repo.RecentOrders(ctx, limit)
}

// UpdateStatus is the status engine. The whole transition (order read,
// every stock read/write, the status write) happens inside one
// transaction; any failure leaves all state unchanged.
func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Detail, error) {
	newStatus, ok := ParseStatus(req.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	var prev Status
	var changed bool
	err := s.repo.Transition(ctx, func(tx Tx) error {
		o, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		prev = o.Status

		// Same-status request is a successful no-op: no writes at all, so
		// updated_at stays put.
		if o.Status == newStatus {
			return nil
		}

		if o.Status == StatusCompleted &&
			(newStatus == StatusPending || newStatus == StatusProcessing) {
			return ErrCompletedReverted
		}

		toCompleted := o.Status != StatusCompleted && newStatus == StatusCompleted
		fromCompleted := o.Status == StatusCompleted &&
			(newStatus == StatusCancelled || newStatus == StatusRefunded)

		if toCompleted || fromCompleted {
			for _, item := range o.Items {
				if item.Quantity == 0 {
					continue
				}
				p, err := tx.GetProductForUpdate(ctx, item.ProductID)
				if err != nil {
					return err
				}
				if toCompleted {
					if p.Stock < item.Quantity {
						return &InsufficientStockError{
							ProductID:    p.ID.String(),
							ProductTitle: p.Title,
						}
					}
					if err := tx.AdjustStock(ctx, p.ID, -item.Quantity); err != nil {
						return err
					}
				} else {
					if err := tx.AdjustStock(ctx, p.ID, item.Quantity); err != nil {
						return err
					}
				}
			}
		}

		changed = true
		return tx.SetOrderStatus(ctx, o.ID, newStatus)
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.GetOrderDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if changed && s.events != nil {
		event := StatusChangedEvent{
			OrderID:        detail.Order.ID,
			PreviousStatus: prev,
			NewStatus:      newStatus,
			Total:          detail.Order.Total,
			Currency:       detail.Order.Currency,
			OccurredAt:     time.Now(),
		}
		if err := s.events.PublishStatusChanged(ctx, event); err != nil {
			log.Printf("order %s: publish status change: %v", detail.Order.ID, err)
		}
	}
	return detail, nil
}
