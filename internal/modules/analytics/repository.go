package analytics

import (
	"context"
	"time"
)

// DailyStat is one store-side group of completed orders for a calendar day.
type DailyStat struct {
	Date      string
	Revenue   float64
	Orders    int
	Customers int
}

// Totals is the single-row aggregate over a window of completed orders.
type Totals struct {
	Revenue   float64
	Orders    int
	Customers int
}

// Repository defines the aggregation queries behind the reports. Grouping,
// sorting and limiting happen at the store layer; order volumes are too
// large to pull into memory.
type Repository interface {
	// Product facets (no time filter).
	ProductsByCategory(ctx context.Context, limit int) ([]FacetEntry, error)
	ProductsByStatus(ctx context.Context) ([]FacetEntry, error)
	ProductPriceBuckets(ctx context.Context) ([]FacetEntry, error)

	// Product overview.
	ProductTotals(ctx context.Context) (ProductTotals, error)
	LowStockProducts(ctx context.Context, threshold, limit int) ([]LowStockProduct, error)
	TopCategories(ctx context.Context, limit int) ([]CategoryCount, error)

	// Advanced report: every order with created_at >= from, any status.
	OrderKPI(ctx context.Context, from time.Time) (KPI, error)
	RevenueByDay(ctx context.Context, from time.Time) ([]DayRevenue, error)
	TopCustomers(ctx context.Context, from time.Time, limit int) ([]TopCustomer, error)
	TopProducts(ctx context.Context, from time.Time, limit int) ([]TopProduct, error)

	// Overview report: completed orders within [start, end].
	CompletedDailyStats(ctx context.Context, start, end time.Time) ([]DailyStat, error)
	CompletedTotals(ctx context.Context, start, end time.Time) (Totals, error)
}
