package analytics

import (
	"context"
	"database/sql"
	"strconv"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL analytics repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ProductsByCategory(ctx context.Context, limit int) ([]FacetEntry, error) {
	return r.queryFacet(ctx, `
		SELECT category, COUNT(*) FROM products
		GROUP BY category ORDER BY COUNT(*) DESC LIMIT $1`, limit)
}

func (r *postgresRepo) ProductsByStatus(ctx context.Context) ([]FacetEntry, error) {
	return r.queryFacet(ctx, `
		SELECT status, COUNT(*) FROM products
		GROUP BY status ORDER BY COUNT(*) DESC`)
}

// priceBucketOverflow is the lower bound of the open-ended bucket.
const priceBucketOverflow = 1000000000

// ProductPriceBuckets histograms prices into the fixed boundaries
// {0, 10000, 25000, 50000, 100000, 250000} with a "250k+" overflow bucket.
// Empty buckets are omitted, matching the dashboard's expectations.
func (r *postgresRepo) ProductPriceBuckets(ctx context.Context) ([]FacetEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT lower, COUNT(*) FROM (
			SELECT CASE
				WHEN price < 10000 THEN 0
				WHEN price < 25000 THEN 10000
				WHEN price < 50000 THEN 25000
				WHEN price < 100000 THEN 50000
				WHEN price < 250000 THEN 100000
				WHEN price < 1000000000 THEN 250000
				ELSE 1000000000
			END AS lower
			FROM products
		) b
		GROUP BY lower ORDER BY lower ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []FacetEntry
	for rows.Next() {
		var lower, value int
		if err := rows.Scan(&lower, &value); err != nil {
			return nil, err
		}
		label := strconv.Itoa(lower)
		if lower == priceBucketOverflow {
			label = "250k+"
		}
		buckets = append(buckets, FacetEntry{Label: label, Value: value})
	}
	return buckets, rows.Err()
}

func (r *postgresRepo) ProductTotals(ctx context.Context) (ProductTotals, error) {
	var t ProductTotals
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active'),
		       COUNT(*) FILTER (WHERE status = 'draft'),
		       COUNT(*) FILTER (WHERE status = 'archived'),
		       COALESCE(SUM(stock), 0)
		FROM products`).Scan(&t.TotalProducts, &t.ActiveProducts,
		&t.DraftProducts, &t.ArchivedProducts, &t.TotalStock)
	return t, err
}

func (r *postgresRepo) LowStockProducts(ctx context.Context, threshold, limit int) ([]LowStockProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, sku, stock, status, category, updated_at
		FROM products
		WHERE stock <= $1 AND status <> 'archived'
		ORDER BY stock ASC, updated_at DESC
		LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []LowStockProduct
	for rows.Next() {
		var p LowStockProduct
		if err := rows.Scan(&p.ID, &p.Title, &p.SKU, &p.Stock,
			&p.Status, &p.Category, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) TopCategories(ctx context.Context, limit int) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM products
		GROUP BY category ORDER BY COUNT(*) DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) OrderKPI(ctx context.Context, from time.Time) (KPI, error) {
	var k KPI
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
		FROM orders WHERE created_at >= $1`, from).
		Scan(&k.Orders, &k.Revenue, &k.AvgOrder)
	return k, err
}

// RevenueByDay buckets by the server's local calendar day. The day-key
// format is YYYY-MM-DD; which orders land in which bucket near midnight
// depends on the session time zone, not UTC.
func (r *postgresRepo) RevenueByDay(ctx context.Context, from time.Time) ([]DayRevenue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day, SUM(total), COUNT(*)
		FROM orders WHERE created_at >= $1
		GROUP BY day ORDER BY day ASC`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DayRevenue
	for rows.Next() {
		var d DayRevenue
		if err := rows.Scan(&d.Day, &d.Revenue, &d.Orders); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *postgresRepo) TopCustomers(ctx context.Context, from time.Time, limit int) ([]TopCustomer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.customer_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
		       COUNT(*), SUM(o.total)
		FROM orders o
		LEFT JOIN users u ON u.id = o.customer_id
		WHERE o.created_at >= $1
		GROUP BY o.customer_id, u.name, u.email
		ORDER BY SUM(o.total) DESC
		LIMIT $2`, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []TopCustomer
	for rows.Next() {
		var c TopCustomer
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.Email, &c.Orders, &c.Spent); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *postgresRepo) TopProducts(ctx context.Context, from time.Time, limit int) ([]TopProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.product_id,
		       (ARRAY_AGG(i.title_snapshot ORDER BY o.created_at DESC))[1],
		       SUM(i.quantity),
		       SUM(i.quantity * i.unit_price)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.created_at >= $1
		GROUP BY i.product_id
		ORDER BY SUM(i.quantity * i.unit_price) DESC
		LIMIT $2`, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.Title, &p.Qty, &p.Revenue); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) CompletedDailyStats(ctx context.Context, start, end time.Time) ([]DailyStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day,
		       SUM(total), COUNT(*), COUNT(DISTINCT customer_id)
		FROM orders
		WHERE status = 'completed' AND created_at BETWEEN $1 AND $2
		GROUP BY day ORDER BY day ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DailyStat
	for rows.Next() {
		var s DailyStat
		if err := rows.Scan(&s.Date, &s.Revenue, &s.Orders, &s.Customers); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *postgresRepo) CompletedTotals(ctx context.Context, start, end time.Time) (Totals, error) {
	var t Totals
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*), COUNT(DISTINCT customer_id)
		FROM orders
		WHERE status = 'completed' AND created_at BETWEEN $1 AND $2`,
		start, end).Scan(&t.Revenue, &t.Orders, &t.Customers)
	return t, err
}

func (r *postgresRepo) queryFacet(ctx context.Context, query string, args ...interface{}) ([]FacetEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []FacetEntry
	for rows.Next() {
		var e FacetEntry
		if err := rows.Scan(&e.Label, &e.Value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
