package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, customer_id, currency, subtotal, shipping, discount, total, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.CustomerID, o.Currency, o.Subtotal, o.Shipping, o.Discount, o.Total, o.Status)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (order_id, position, product_id, title_snapshot, sku_snapshot, unit_price, quantity)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			o.ID, i, item.ProductID, item.TitleSnapshot, item.SKUSnapshot,
			item.UnitPrice, item.Quantity)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderDetail(ctx context.Context, id string) (*Detail, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	d := &Detail{}
	err = r.db.QueryRowContext(ctx, `
		SELECT o.id, o.customer_id, o.currency, o.subtotal, o.shipping, o.discount,
		       o.total, o.status, o.created_at, o.updated_at,
		       u.id, u.name, u.email, u.role
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		WHERE o.id = $1`, uid).Scan(
		&d.Order.ID, &d.Order.CustomerID, &d.Order.Currency, &d.Order.Subtotal,
		&d.Order.Shipping, &d.Order.Discount, &d.Order.Total, &d.Order.Status,
		&d.Order.CreatedAt, &d.Order.UpdatedAt,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Email, &d.Customer.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT i.product_id, i.title_snapshot, i.sku_snapshot, i.unit_price, i.quantity,
		       p.id, p.title, p.sku, p.category, p.stock, p.status, p.price, p.currency
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.position ASC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var di DetailItem
		var pid sql.NullString
		var title, sku, category, status, currency sql.NullString
		var stock sql.NullInt64
		var price sql.NullFloat64
		if err := rows.Scan(&di.ProductID, &di.TitleSnapshot, &di.SKUSnapshot,
			&di.UnitPrice, &di.Quantity,
			&pid, &title, &sku, &category, &stock, &status, &price, &currency); err != nil {
			return nil, err
		}
		if pid.Valid {
			productID, _ := uuid.Parse(pid.String)
			di.Product = &ProductDisplay{
				ID:       productID,
				Title:    title.String,
				SKU:      sku.String,
				Category: category.String,
				Stock:    int(stock.Int64),
				Status:   status.String,
				Price:    price.Float64,
				Currency: currency.String,
			}
		}
		d.Items = append(d.Items, di)
		d.Order.Items = append(d.Order.Items, di.Item)
	}
	return d, rows.Err()
}

func (r *postgresRepo) ListOrders(ctx context.Context, q ListQuery) ([]*Summary, int, error) {
	where := ``
	args := []interface{}{}
	if q.Status != "" {
		args = append(args, q.Status)
		where = ` WHERE o.status = $1`
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders o`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT o.id, o.total, o.currency, o.status, o.created_at, u.id, u.name, u.email
		FROM orders o
		JOIN users u ON u.id = o.customer_id` + where +
		fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	summaries, err := r.querySummaries(ctx, query, args...)
	return summaries, total, err
}

func (r *postgresRepo) RecentOrders(ctx context.Context, limit int) ([]*Summary, error) {
	return r.querySummaries(ctx, `
		SELECT o.id, o.total, o.currency, o.status, o.created_at, u.id, u.name, u.email
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		ORDER BY o.created_at DESC LIMIT $1`, limit)
}

func (r *postgresRepo) GetProductSnapshots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductSnapshot, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, sku, price FROM products WHERE id = ANY($1)`, pq.Array(raw))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make(map[uuid.UUID]ProductSnapshot)
	for rows.Next() {
		var s ProductSnapshot
		if err := rows.Scan(&s.ID, &s.Title, &s.SKU, &s.Price); err != nil {
			return nil, err
		}
		snapshots[s.ID] = s
	}
	return snapshots, rows.Err()
}

// Transition runs fn in one transaction. The row locks taken by the Tx
// methods serialize concurrent transitions touching the same order or
// products.
func (r *postgresRepo) Transition(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type postgresTx struct{ tx *sql.Tx }

func (t *postgresTx) GetOrderForUpdate(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	o := &Order{}
	err = t.tx.QueryRowContext(ctx, `
		SELECT id, customer_id, currency, subtotal, shipping, discount, total, status, created_at, updated_at
		FROM orders WHERE id = $1 FOR UPDATE`, uid).Scan(
		&o.ID, &o.CustomerID, &o.Currency, &o.Subtotal, &o.Shipping,
		&o.Discount, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.QueryContext(ctx, `
		SELECT product_id, title_snapshot, sku_snapshot, unit_price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY position ASC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ProductID, &item.TitleSnapshot,
			&item.SKUSnapshot, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}

func (t *postgresTx) GetProductForUpdate(ctx context.Context, id uuid.UUID) (*ProductStock, error) {
	p := &ProductStock{}
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, title, stock FROM products WHERE id = $1 FOR UPDATE`, id).
		Scan(&p.ID, &p.Title, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (t *postgresTx) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = $2 WHERE id = $3`,
		delta, time.Now(), id)
	return err
}

func (t *postgresTx) SetOrderStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	return err
}

func (r *postgresRepo) querySummaries(ctx context.Context, query string, args ...interface{}) ([]*Summary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*Summary
	for rows.Next() {
		s := &Summary{}
		if err := rows.Scan(&s.ID, &s.Total, &s.Currency, &s.Status, &s.CreatedAt,
			&s.Customer.ID, &s.Customer.Name, &s.Customer.Email); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
