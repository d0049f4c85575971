package analytics

import "time"

// RangeToDays maps a coarse range selector onto a day-count window.
// Unrecognized values fall back to 7 days rather than erroring.
func RangeToDays(r string) int {
	switch r {
	case "30d":
		return 30
	case "90d":
		return 90
	case "1y":
		return 365
	default:
		return 7
	}
}

// FacetEntry is one labeled count within a facet.
type FacetEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ProductFacets groups the full product set three independent ways.
type ProductFacets struct {
	ByCategory   []FacetEntry `json:"byCategory"`
	ByStatus     []FacetEntry `json:"byStatus"`
	PriceBuckets []FacetEntry `json:"priceBuckets"`
}

// ProductTotals are the catalog-wide counters on the overview card.
type ProductTotals struct {
	TotalProducts    int `json:"totalProducts"`
	ActiveProducts   int `json:"activeProducts"`
	DraftProducts    int `json:"draftProducts"`
	ArchivedProducts int `json:"archivedProducts"`
	TotalStock       int `json:"totalStock"`
}

// LowStockProduct is one row of the low-stock warning list.
type LowStockProduct struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SKU       string    `json:"sku"`
	Stock     int       `json:"stock"`
	Status    string    `json:"status"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryCount pairs a category with its product count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ProductOverview is the product-centric dashboard card.
type ProductOverview struct {
	LowStockThreshold int               `json:"lowStockThreshold"`
	Totals            ProductTotals     `json:"totals"`
	LowStock          []LowStockProduct `json:"lowStock"`
	ByCategory        []CategoryCount   `json:"byCategory"`
}

// KPI is the headline numbers of the advanced report.
type KPI struct {
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
	AvgOrder float64 `json:"avgOrder"`
}

// DayRevenue is one revenue-by-day chart point. Days without orders are not
// present; this report does not gap-fill.
type DayRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// TopCustomer is one row of the top-spenders breakdown.
type TopCustomer struct {
	CustomerID string  `json:"customerId"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Orders     int     `json:"orders"`
	Spent      float64 `json:"spent"`
}

// TopProduct is one row of the top-products-by-revenue breakdown. Title is
// the last-seen snapshot, not the live catalog title.
type TopProduct struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Qty       int     `json:"qty"`
	Revenue   float64 `json:"revenue"`
}

// AdvancedReport covers all orders in the window regardless of status.
type AdvancedReport struct {
	Range        string        `json:"range"`
	From         time.Time     `json:"from"`
	KPI          KPI           `json:"kpi"`
	RevenueByDay []DayRevenue  `json:"revenueByDay"`
	TopCustomers []TopCustomer `json:"topCustomers"`
	TopProducts  []TopProduct  `json:"topProducts"`
}

// SeriesPoint is one gap-filled day in the overview series.
type SeriesPoint struct {
	Date      string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
	Customers int     `json:"customers"`
}

// OverviewKPIs are the range-wide totals of the overview report.
type OverviewKPIs struct {
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
	Customers int     `json:"customers"`
	AOV       float64 `json:"aov"`
}

// OverviewReport covers completed orders only, with a series entry for
// every day in the range.
type OverviewReport struct {
	Range  string        `json:"range"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	KPIs   OverviewKPIs  `json:"kpis"`
	Series []SeriesPoint `json:"series"`
}
