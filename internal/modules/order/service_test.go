package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeProduct is the in-memory product record backing the fake store.
type fakeProduct struct {
	ID    uuid.UUID
	Title string
	SKU   string
	Price float64
	Stock int
}

// fakeStore implements Repository over maps. Transition works on staged
// copies that are only promoted when the callback returns nil, mirroring
// the all-or-nothing contract of the real store.
type fakeStore struct {
	orders   map[uuid.UUID]*Order
	products map[uuid.UUID]*fakeProduct
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[uuid.UUID]*Order),
		products: make(map[uuid.UUID]*fakeProduct),
	}
}

func (s *fakeStore) CreateOrder(ctx context.Context, o *Order) error {
	cp := *o
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeStore) GetOrderDetail(ctx context.Context, id string) (*Detail, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	o, ok := s.orders[uid]
	if !ok {
		return nil, ErrNotFound
	}
	d := &Detail{Order: *o}
	for _, item := range o.Items {
		di := DetailItem{Item: item}
		if p, ok := s.products[item.ProductID]; ok {
			di.Product = &ProductDisplay{ID: p.ID, Title: p.Title, SKU: p.SKU, Stock: p.Stock, Price: p.Price}
		}
		d.Items = append(d.Items, di)
	}
	return d, nil
}

func (s *fakeStore) ListOrders(ctx context.Context, q ListQuery) ([]*Summary, int, error) {
	var all []*Summary
	for _, o := range s.orders {
		if q.Status != "" && string(o.Status) != q.Status {
			continue
		}
		all = append(all, &Summary{ID: o.ID, Total: o.Total, Currency: o.Currency, Status: o.Status})
	}
	return all, len(all), nil
}

func (s *fakeStore) RecentOrders(ctx context.Context, limit int) ([]*Summary, error) {
	out, _, _ := s.ListOrders(ctx, ListQuery{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) GetProductSnapshots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductSnapshot, error) {
	snaps := make(map[uuid.UUID]ProductSnapshot)
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			snaps[id] = ProductSnapshot{ID: p.ID, Title: p.Title, SKU: p.SKU, Price: p.Price}
		}
	}
	return snaps, nil
}

func (s *fakeStore) Transition(ctx context.Context, fn func(tx Tx) error) error {
	staged := &fakeTx{
		orders:   make(map[uuid.UUID]*Order, len(s.orders)),
		products: make(map[uuid.UUID]*fakeProduct, len(s.products)),
	}
	for id, o := range s.orders {
		cp := *o
		cp.Items = append([]Item(nil), o.Items...)
		staged.orders[id] = &cp
	}
	for id, p := range s.products {
		cp := *p
		staged.products[id] = &cp
	}

	if err := fn(staged); err != nil {
		return err
	}
	s.orders = staged.orders
	s.products = staged.products
	return nil
}

type fakeTx struct {
	orders   map[uuid.UUID]*Order
	products map[uuid.UUID]*fakeProduct
}

func (t *fakeTx) GetOrderForUpdate(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	o, ok := t.orders[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (t *fakeTx) GetProductForUpdate(ctx context.Context, id uuid.UUID) (*ProductStock, error) {
	p, ok := t.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &ProductStock{ID: p.ID, Title: p.Title, Stock: p.Stock}, nil
}

func (t *fakeTx) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	t.products[id].Stock += delta
	return nil
}

func (t *fakeTx) SetOrderStatus(ctx context.Context, id uuid.UUID, status Status) error {
	t.orders[id].Status = status
	t.orders[id].UpdatedAt = time.Now()
	return nil
}

type capturedEvents struct {
	events []StatusChangedEvent
}

func (c *capturedEvents) PublishStatusChanged(ctx context.Context, e StatusChangedEvent) error {
	c.events = append(c.events, e)
	return nil
}

// seedOrder builds the worked example: two products (A qty 2 at 100, B qty
// 1 at 50), shipping 20, discount 10.
func seedOrder(store *fakeStore, status Status, stockA, stockB int) (orderID string, productA, productB uuid.UUID) {
	a := &fakeProduct{ID: uuid.New(), Title: "Walnut Desk", SKU: "DESK-1", Price: 100, Stock: stockA}
	b := &fakeProduct{ID: uuid.New(), Title: "Brass Lamp", SKU: "LAMP-1", Price: 50, Stock: stockB}
	store.products[a.ID] = a
	store.products[b.ID] = b

	o := &Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Items: []Item{
			{ProductID: a.ID, TitleSnapshot: a.Title, SKUSnapshot: a.SKU, UnitPrice: 100, Quantity: 2},
			{ProductID: b.ID, TitleSnapshot: b.Title, SKUSnapshot: b.SKU, UnitPrice: 50, Quantity: 1},
		},
		Currency:  "TRY",
		Subtotal:  250,
		Shipping:  20,
		Discount:  10,
		Total:     260,
		Status:    status,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	store.orders[o.ID] = o
	return o.ID.String(), a.ID, b.ID
}

func TestUpdateStatusCompleteDecrementsStock(t *testing.T) {
	store := newFakeStore()
	id, a, b := seedOrder(store, StatusPending, 5, 3)
	events := &capturedEvents{}
	svc := NewService(store, events)

	detail, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: "completed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Order.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", detail.Order.Status)
	}
	if got := store.products[a].Stock; got != 3 {
		t.Errorf("product A stock = %d, want 3", got)
	}
	if got := store.products[b].Stock; got != 2 {
		t.Errorf("product B stock = %d, want 2", got)
	}
	if detail.Order.Total != 260 || detail.Order.Subtotal != 250 {
		t.Errorf("totals changed: subtotal=%v total=%v", detail.Order.Subtotal, detail.Order.Total)
	}
	if len(events.events) != 1 {
		t.Fatalf("published %d events, want 1", len(events.events))
	}
	if e := events.events[0]; e.PreviousStatus != StatusPending || e.NewStatus != StatusCompleted {
		t.Errorf("event %s -> %s, want pending -> completed", e.PreviousStatus, e.NewStatus)
	}
}

func TestUpdateStatusInsufficientStockIsAtomic(t *testing.T) {
	store := newFakeStore()
	id, a, b := seedOrder(store, StatusPending, 5, 0)
	svc := NewService(store, nil)

	_, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: "completed"})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if stockErr.ProductTitle != "Brass Lamp" {
		t.Errorf("error names %q, want the offending product", stockErr.ProductTitle)
	}
	// No partial decrement: product A was processed first but must be intact.
	if got := store.products[a].Stock; got != 5 {
		t.Errorf("product A stock = %d, want 5", got)
	}
	if got := store.products[b].Stock; got != 0 {
		t.Errorf("product B stock = %d, want 0", got)
	}
	for _, o := range store.orders {
		if o.Status != StatusPending {
			t.Errorf("order status = %s, want pending", o.Status)
		}
	}
}

func TestUpdateStatusNoOpLeavesEverythingUnchanged(t *testing.T) {
	store := newFakeStore()
	id, a, b := seedOrder(store, StatusCompleted, 3, 2)
	events := &capturedEvents{}
	svc := NewService(store, events)

	var before time.Time
	for _, o := range store.orders {
		before = o.UpdatedAt
	}

	detail, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: "completed"})
	if err != nil {
		t.Fatalf("no-op transition must succeed, got %v", err)
	}
	if detail.Order.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", detail.Order.Status)
	}
	if store.products[a].Stock != 3 || store.products[b].Stock != 2 {
		t.Errorf("stock adjusted on no-op")
	}
	for _, o := range store.orders {
		if !o.UpdatedAt.Equal(before) {
			t.Errorf("updated_at bumped on no-op")
		}
	}
	if len(events.events) != 0 {
		t.Errorf("no-op published %d events", len(events.events))
	}
}

func TestUpdateStatusCompletedCannotBeReverted(t *testing.T) {
	for _, target := range []string{"pending", "processing"} {
		store := newFakeStore()
		id, a, b := seedOrder(store, StatusCompleted, 3, 2)
		svc := NewService(store, nil)

		_, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: target})
		if !errors.Is(err, ErrCompletedReverted) {
			t.Fatalf("completed -> %s: err = %v, want ErrCompletedReverted", target, err)
		}
		if store.products[a].Stock != 3 || store.products[b].Stock != 2 {
			t.Errorf("completed -> %s touched stock", target)
		}
		for _, o := range store.orders {
			if o.Status != StatusCompleted {
				t.Errorf("completed -> %s changed status to %s", target, o.Status)
			}
		}
	}
}

func TestUpdateStatusCompleteThenCancelRestoresStock(t *testing.T) {
	store := newFakeStore()
	id, a, b := seedOrder(store, StatusPending, 5, 3)
	svc := NewService(store, nil)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, id, UpdateStatusRequest{Status: "completed"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, id, UpdateStatusRequest{Status: "cancelled"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Net zero after complete -> cancel.
	if got := store.products[a].Stock; got != 5 {
		t.Errorf("product A stock = %d, want 5", got)
	}
	if got := store.products[b].Stock; got != 3 {
		t.Errorf("product B stock = %d, want 3", got)
	}
}

func TestUpdateStatusRefundRestoresStock(t *testing.T) {
	store := newFakeStore()
	id, a, _ := seedOrder(store, StatusCompleted, 3, 2)
	svc := NewService(store, nil)

	if _, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: "refunded"}); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if got := store.products[a].Stock; got != 5 {
		t.Errorf("product A stock = %d, want 5", got)
	}
}

func TestUpdateStatusPlainTransitionSkipsStock(t *testing.T) {
	store := newFakeStore()
	id, a, b := seedOrder(store, StatusPending, 5, 3)
	svc := NewService(store, nil)

	detail, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: "processing"})
	if err != nil {
		t.Fatalf("pending -> processing: %v", err)
	}
	if detail.Order.Status != StatusProcessing {
		t.Errorf("status = %s, want processing", detail.Order.Status)
	}
	if store.products[a].Stock != 5 || store.products[b].Stock != 3 {
		t.Errorf("plain transition touched stock")
	}
}

func TestUpdateStatusInvalidStatus(t *testing.T) {
	store := newFakeStore()
	id, a, _ := seedOrder(store, StatusPending, 5, 3)
	svc := NewService(store, nil)

	_, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: "shipped"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if store.products[a].Stock != 5 {
		t.Errorf("invalid status touched stock")
	}
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	_, err := svc.UpdateStatus(context.Background(), uuid.New().String(), UpdateStatusRequest{Status: "completed"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusMissingProductAborts(t *testing.T) {
	store := newFakeStore()
	id, a, b := seedOrder(store, StatusPending, 5, 3)
	delete(store.products, b)
	svc := NewService(store, nil)

	_, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: "completed"})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	if got := store.products[a].Stock; got != 5 {
		t.Errorf("product A stock = %d, want 5", got)
	}
}

func TestCreateOrderSnapshotsAndTotals(t *testing.T) {
	store := newFakeStore()
	a := &fakeProduct{ID: uuid.New(), Title: "Walnut Desk", SKU: "DESK-1", Price: 100, Stock: 5}
	b := &fakeProduct{ID: uuid.New(), Title: "Brass Lamp", SKU: "LAMP-1", Price: 75, Stock: 3}
	store.products[a.ID] = a
	store.products[b.ID] = b
	svc := NewService(store, nil)

	override := 50.0
	o, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Customer: uuid.New().String(),
		Items: []CreateOrderItem{
			{Product: a.ID.String(), Qty: 2},
			{Product: b.ID.String(), Qty: 1, Price: &override},
		},
		Shipping: 20,
		Discount: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.Subtotal != 250 {
		t.Errorf("subtotal = %v, want 250", o.Subtotal)
	}
	if o.Total != 260 {
		t.Errorf("total = %v, want 260", o.Total)
	}
	if o.Status != StatusPending {
		t.Errorf("status = %s, want pending", o.Status)
	}
	if o.Currency != "TRY" {
		t.Errorf("currency = %s, want TRY", o.Currency)
	}
	if o.Items[0].TitleSnapshot != "Walnut Desk" || o.Items[0].SKUSnapshot != "DESK-1" {
		t.Errorf("item 0 snapshot = %q/%q", o.Items[0].TitleSnapshot, o.Items[0].SKUSnapshot)
	}
	if o.Items[1].UnitPrice != 50 {
		t.Errorf("item 1 price = %v, want the request override 50", o.Items[1].UnitPrice)
	}
	// Creation never adjusts stock.
	if a.Stock != 5 || b.Stock != 3 {
		t.Errorf("creation adjusted stock")
	}
}

func TestCreateOrderDiscountClampsTotalAtZero(t *testing.T) {
	store := newFakeStore()
	a := &fakeProduct{ID: uuid.New(), Title: "Sticker", SKU: "STK-1", Price: 5, Stock: 100}
	store.products[a.ID] = a
	svc := NewService(store, nil)

	o, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Customer: uuid.New().String(),
		Items:    []CreateOrderItem{{Product: a.ID.String(), Qty: 1}},
		Discount: 500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Total != 0 {
		t.Errorf("total = %v, want 0", o.Total)
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Customer: uuid.New().String(),
		Items:    []CreateOrderItem{{Product: uuid.New().String(), Qty: 1}},
	})
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
}

func TestRecentOrdersClampsLimit(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 20; i++ {
		seedOrder(store, StatusPending, 1, 1)
	}
	svc := NewService(store, nil)

	out, err := svc.RecentOrders(context.Background(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 10 {
		t.Errorf("len = %d, want clamp to 10", len(out))
	}
}
