package analytics

import (
	"context"
	"time"
)

// Service defines the analytics read operations. All of them are pure,
// side-effect-free reads; given the same store contents and range they
// return the same results.
type Service interface {
	ProductFacets(ctx context.Context) (*ProductFacets, error)
	ProductOverview(ctx context.Context, lowStockThreshold int) (*ProductOverview, error)
	Advanced(ctx context.Context, rangeSelector string) (*AdvancedReport, error)
	Overview(ctx context.Context, rangeSelector string) (*OverviewReport, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new analytics service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) ProductFacets(ctx context.Context) (*ProductFacets, error) {
	byCategory, err := s.repo.ProductsByCategory(ctx, 12)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.ProductsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	priceBuckets, err := s.repo.ProductPriceBuckets(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductFacets{
		ByCategory:   emptyIfNil(byCategory),
		ByStatus:     emptyIfNil(byStatus),
		PriceBuckets: emptyIfNil(priceBuckets),
	}, nil
}

func (s *service) ProductOverview(ctx context.Context, lowStockThreshold int) (*ProductOverview, error) {
	totals, err := s.repo.ProductTotals(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.LowStockProducts(ctx, lowStockThreshold, 10)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.repo.TopCategories(ctx, 8)
	if err != nil {
		return nil, err
	}
	if lowStock == nil {
		lowStock = []LowStockProduct{}
	}
	if byCategory == nil {
		byCategory = []CategoryCount{}
	}
	return &ProductOverview{
		LowStockThreshold: lowStockThreshold,
		Totals:            totals,
		LowStock:          lowStock,
		ByCategory:        byCategory,
	}, nil
}

// Advanced reports over every order in the window, any status. Its
// revenue-by-day series intentionally skips days with no orders; the
// overview report below is the gap-filled one. The two differ on purpose.
func (s *service) Advanced(ctx context.Context, rangeSelector string) (*AdvancedReport, error) {
	days := RangeToDays(rangeSelector)
	from := s.now().Add(-time.Duration(days) * 24 * time.Hour)

	kpi, err := s.repo.OrderKPI(ctx, from)
	if err != nil {
		return nil, err
	}
	revenueByDay, err := s.repo.RevenueByDay(ctx, from)
	if err != nil {
		return nil, err
	}
	topCustomers, err := s.repo.TopCustomers(ctx, from, 5)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.repo.TopProducts(ctx, from, 5)
	if err != nil {
		return nil, err
	}

	if rangeSelector == "" {
		rangeSelector = "7d"
	}
	report := &AdvancedReport{
		Range:        rangeSelector,
		From:         from,
		KPI:          kpi,
		RevenueByDay: revenueByDay,
		TopCustomers: topCustomers,
		TopProducts:  topProducts,
	}
	if report.RevenueByDay == nil {
		report.RevenueByDay = []DayRevenue{}
	}
	if report.TopCustomers == nil {
		report.TopCustomers = []TopCustomer{}
	}
	if report.TopProducts == nil {
		report.TopProducts = []TopProduct{}
	}
	return report, nil
}

// Overview reports over completed orders only, with one series entry per
// calendar day from local midnight (days-1 days ago) through now. Days
// without orders appear as zeros.
func (s *service) Overview(ctx context.Context, rangeSelector string) (*OverviewReport, error) {
	days := RangeToDays(rangeSelector)

	end := s.now()
	y, m, d := end.AddDate(0, 0, -(days - 1)).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, end.Location())

	stats, err := s.repo.CompletedDailyStats(ctx, start, end)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.CompletedTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]DailyStat, len(stats))
	for _, s := range stats {
		byDate[s.Date] = s
	}

	series := make([]SeriesPoint, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		if stat, ok := byDate[key]; ok {
			series = append(series, SeriesPoint{
				Date:      key,
				Revenue:   stat.Revenue,
				Orders:    stat.Orders,
				Customers: stat.Customers,
			})
		} else {
			series = append(series, SeriesPoint{Date: key})
		}
	}

	aov := 0.0
	if totals.Orders > 0 {
		aov = totals.Revenue / float64(totals.Orders)
	}

	if rangeSelector == "" {
		rangeSelector = "7d"
	}
	return &OverviewReport{
		Range: rangeSelector,
		Start: start,
		End:   end,
		KPIs: OverviewKPIs{
			Revenue:   totals.Revenue,
			Orders:    totals.Orders,
			Customers: totals.Customers,
			AOV:       aov,
		},
		Series: series,
	}, nil
}

func emptyIfNil(entries []FacetEntry) []FacetEntry {
	if entries == nil {
		return []FacetEntry{}
	}
	return entries
}
