package analytics

import (
	"context"
	"testing"
	"time"
)

// fakeRepo returns canned aggregation results and records the windows it
// was asked for.
type fakeRepo struct {
	byCategory   []FacetEntry
	byStatus     []FacetEntry
	priceBuckets []FacetEntry

	totals     ProductTotals
	lowStock   []LowStockProduct
	categories []CategoryCount

	kpi          KPI
	revenueByDay []DayRevenue
	topCustomers []TopCustomer
	topProducts  []TopProduct

	dailyStats      []DailyStat
	completedTotals Totals

	lastFrom  time.Time
	lastStart time.Time
	lastEnd   time.Time
}

func (f *fakeRepo) ProductsByCategory(ctx context.Context, limit int) ([]FacetEntry, error) {
	return f.byCategory, nil
}
func (f *fakeRepo) ProductsByStatus(ctx context.Context) ([]FacetEntry, error) {
	return f.byStatus, nil
}
func (f *fakeRepo) ProductPriceBuckets(ctx context.Context) ([]FacetEntry, error) {
	return f.priceBuckets, nil
}
func (f *fakeRepo) ProductTotals(ctx context.Context) (ProductTotals, error) {
	return f.totals, nil
}
func (f *fakeRepo) LowStockProducts(ctx context.Context, threshold, limit int) ([]LowStockProduct, error) {
	return f.lowStock, nil
}
func (f *fakeRepo) TopCategories(ctx context.Context, limit int) ([]CategoryCount, error) {
	return f.categories, nil
}
func (f *fakeRepo) OrderKPI(ctx context.Context, from time.Time) (KPI, error) {
	f.lastFrom = from
	return f.kpi, nil
}
func (f *fakeRepo) RevenueByDay(ctx context.Context, from time.Time) ([]DayRevenue, error) {
	return f.revenueByDay, nil
}
func (f *fakeRepo) TopCustomers(ctx context.Context, from time.Time, limit int) ([]TopCustomer, error) {
	return f.topCustomers, nil
}
func (f *fakeRepo) TopProducts(ctx context.Context, from time.Time, limit int) ([]TopProduct, error) {
	return f.topProducts, nil
}
func (f *fakeRepo) CompletedDailyStats(ctx context.Context, start, end time.Time) ([]DailyStat, error) {
	f.lastStart, f.lastEnd = start, end
	return f.dailyStats, nil
}
func (f *fakeRepo) CompletedTotals(ctx context.Context, start, end time.Time) (Totals, error) {
	return f.completedTotals, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRangeToDays(t *testing.T) {
	cases := map[string]int{
		"7d": 7, "30d": 30, "90d": 90, "1y": 365,
		"": 7, "14d": 7, "banana": 7,
	}
	for in, want := range cases {
		if got := RangeToDays(in); got != want {
			t.Errorf("RangeToDays(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestOverviewGapFillsEmptyStore(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.Local)
	svc := &service{repo: &fakeRepo{}, now: fixedClock(now)}

	report, err := svc.Overview(context.Background(), "7d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Series) != 7 {
		t.Fatalf("series length = %d, want 7", len(report.Series))
	}
	for i, point := range report.Series {
		if point.Revenue != 0 || point.Orders != 0 || point.Customers != 0 {
			t.Errorf("series[%d] = %+v, want zeros", i, point)
		}
	}
	if report.Series[0].Date != "2025-03-09" {
		t.Errorf("series starts %s, want 2025-03-09", report.Series[0].Date)
	}
	if report.Series[6].Date != "2025-03-15" {
		t.Errorf("series ends %s, want 2025-03-15", report.Series[6].Date)
	}
	if report.KPIs.AOV != 0 {
		t.Errorf("aov = %v, want 0", report.KPIs.AOV)
	}
}

func TestOverviewStartsAtLocalMidnight(t *testing.T) {
	now := time.Date(2025, 3, 15, 23, 59, 0, 0, time.Local)
	repo := &fakeRepo{}
	svc := &service{repo: repo, now: fixedClock(now)}

	if _, err := svc.Overview(context.Background(), "30d"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 2, 14, 0, 0, 0, 0, time.Local)
	if !repo.lastStart.Equal(want) {
		t.Errorf("start = %v, want %v", repo.lastStart, want)
	}
	if !repo.lastEnd.Equal(now) {
		t.Errorf("end = %v, want now", repo.lastEnd)
	}
}

func TestOverviewMergesStatsIntoSeries(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	repo := &fakeRepo{
		dailyStats: []DailyStat{
			{Date: "2025-03-10", Revenue: 500, Orders: 2, Customers: 2},
			{Date: "2025-03-14", Revenue: 250, Orders: 1, Customers: 1},
		},
		completedTotals: Totals{Revenue: 750, Orders: 3, Customers: 2},
	}
	svc := &service{repo: repo, now: fixedClock(now)}

	report, err := svc.Overview(context.Background(), "7d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Series[1].Revenue != 500 || report.Series[1].Orders != 2 {
		t.Errorf("series[1] = %+v, want the 03-10 stats", report.Series[1])
	}
	if report.Series[2].Revenue != 0 {
		t.Errorf("series[2] = %+v, want a zero gap day", report.Series[2])
	}
	if report.KPIs.Revenue != 750 || report.KPIs.Orders != 3 || report.KPIs.Customers != 2 {
		t.Errorf("kpis = %+v", report.KPIs)
	}
	if want := 250.0; report.KPIs.AOV != want {
		t.Errorf("aov = %v, want %v", report.KPIs.AOV, want)
	}
}

func TestOverviewUnknownRangeBehavesLikeSevenDays(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	repo := &fakeRepo{}
	svc := &service{repo: repo, now: fixedClock(now)}

	known, err := svc.Overview(context.Background(), "7d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unknown, err := svc.Overview(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(known.Series) != len(unknown.Series) {
		t.Fatalf("series lengths differ: %d vs %d", len(known.Series), len(unknown.Series))
	}
	for i := range known.Series {
		if known.Series[i] != unknown.Series[i] {
			t.Errorf("series[%d] differs: %+v vs %+v", i, known.Series[i], unknown.Series[i])
		}
	}
}

func TestAdvancedWindowAndPassthrough(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	repo := &fakeRepo{
		kpi: KPI{Orders: 4, Revenue: 1000, AvgOrder: 250},
		revenueByDay: []DayRevenue{
			{Day: "2025-03-10", Revenue: 500, Orders: 2},
			{Day: "2025-03-14", Revenue: 500, Orders: 2},
		},
		topCustomers: []TopCustomer{{CustomerID: "c1", Name: "Ada", Spent: 700, Orders: 3}},
		topProducts:  []TopProduct{{ProductID: "p1", Title: "Walnut Desk", Qty: 5, Revenue: 500}},
	}
	svc := &service{repo: repo, now: fixedClock(now)}

	report, err := svc.Advanced(context.Background(), "30d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(-30 * 24 * time.Hour); !repo.lastFrom.Equal(want) {
		t.Errorf("from = %v, want %v", repo.lastFrom, want)
	}
	// The advanced series is not gap-filled: only days with orders appear.
	if len(report.RevenueByDay) != 2 {
		t.Errorf("revenueByDay length = %d, want 2 (no gap-fill)", len(report.RevenueByDay))
	}
	if report.KPI != repo.kpi {
		t.Errorf("kpi = %+v", report.KPI)
	}
	if report.Range != "30d" {
		t.Errorf("range = %q, want 30d", report.Range)
	}
}

func TestAdvancedEmptyStoreHasEmptySlices(t *testing.T) {
	svc := &service{repo: &fakeRepo{}, now: time.Now}
	report, err := svc.Advanced(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Range != "7d" {
		t.Errorf("range = %q, want 7d default", report.Range)
	}
	if report.RevenueByDay == nil || report.TopCustomers == nil || report.TopProducts == nil {
		t.Error("empty report must serialize as [] not null")
	}
}

func TestProductFacets(t *testing.T) {
	repo := &fakeRepo{
		byCategory:   []FacetEntry{{Label: "chairs", Value: 12}},
		byStatus:     []FacetEntry{{Label: "active", Value: 30}},
		priceBuckets: []FacetEntry{{Label: "0", Value: 3}, {Label: "250k+", Value: 1}},
	}
	svc := NewService(repo)

	facets, err := svc.ProductFacets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(facets.ByCategory) != 1 || facets.ByCategory[0].Label != "chairs" {
		t.Errorf("byCategory = %+v", facets.ByCategory)
	}
	if facets.PriceBuckets[1].Label != "250k+" {
		t.Errorf("overflow bucket label = %q", facets.PriceBuckets[1].Label)
	}
}
