package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
)

// Service answers the dashboard aggregation queries. Everything is computed
// fresh per call from the sales ledger; nothing is cached or materialized.
type Service interface {
	LifetimeSummary(ctx context.Context, ownerID uuid.UUID) (*LifetimeSummaryDTO, error)
	MonthSummary(ctx context.Context, ownerID uuid.UUID, periodsAgo int) (*MonthSummaryDTO, error)
	CategoricalRatios(ctx context.Context, ownerID uuid.UUID) (*CategoricalRatiosDTO, error)
	RevenueSeries(ctx context.Context, ownerID uuid.UUID, dateRange enums.DateRange) (*RevenueSeriesDTO, error)
}

type statsReader interface {
	LifetimeTotals(ctx context.Context, ownerID uuid.UUID) (LifetimeTotals, error)
	WindowSaleMetrics(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (SaleWindowMetrics, error)
	CountProductsCreated(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (int64, error)
	GenderCounts(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error)
	PaymentCounts(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error)
	RevenueRows(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]RevenueRow, error)
}

type service struct {
	repo statsReader
	now  func() time.Time
}

// NewService constructs a stats service. The clock defaults to time.Now and
// is injectable so period math is testable.
func NewService(repo statsReader, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

// LifetimeSummary returns the owner's unscoped totals.
func (s *service) LifetimeSummary(ctx context.Context, ownerID uuid.UUID) (*LifetimeSummaryDTO, error) {
	totals, err := s.repo.LifetimeTotals(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lifetime totals")
	}
	return &LifetimeSummaryDTO{
		TotalSales:        totals.TotalSales,
		TotalTransactions: totals.TotalTransactions,
		TotalRevenue:      totals.TotalRevenue,
	}, nil
}

// MonthSummary compares the calendar month periodsAgo months back against the
// month immediately before it.
func (s *service) MonthSummary(ctx context.Context, ownerID uuid.UUID, periodsAgo int) (*MonthSummaryDTO, error) {
	now := s.now()
	curStart, curEnd := monthWindow(now, periodsAgo)
	prevStart, prevEnd := monthWindow(now, periodsAgo+1)

	cur, err := s.monthMetrics(ctx, ownerID, curStart, curEnd)
	if err != nil {
		return nil, err
	}
	prev, err := s.monthMetrics(ctx, ownerID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	return &MonthSummaryDTO{
		Products: MetricDelta{
			Total:      decimal.NewFromInt(cur.products),
			Percentage: calcPercentage(decimal.NewFromInt(cur.products), decimal.NewFromInt(prev.products)),
		},
		Sales: MetricDelta{
			Total:      decimal.NewFromInt(cur.sales.LineItems),
			Percentage: calcPercentage(decimal.NewFromInt(cur.sales.LineItems), decimal.NewFromInt(prev.sales.LineItems)),
		},
		Revenue: MetricDelta{
			Total:      cur.sales.Revenue,
			Percentage: calcPercentage(cur.sales.Revenue, prev.sales.Revenue),
		},
		Transactions: MetricDelta{
			Total:      decimal.NewFromInt(cur.sales.Transactions),
			Percentage: calcPercentage(decimal.NewFromInt(cur.sales.Transactions), decimal.NewFromInt(prev.sales.Transactions)),
		},
	}, nil
}

type monthMetrics struct {
	products int64
	sales    SaleWindowMetrics
}

func (s *service) monthMetrics(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (monthMetrics, error) {
	products, err := s.repo.CountProductsCreated(ctx, ownerID, start, end)
	if err != nil {
		return monthMetrics{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	sales, err := s.repo.WindowSaleMetrics(ctx, ownerID, start, end)
	if err != nil {
		return monthMetrics{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: window sale metrics")
	}
	return monthMetrics{products: products, sales: sales}, nil
}

// CategoricalRatios returns flat gender and payment method counts. Sales with
// gender "other" are left out of the gender map; the payment map always
// carries all three methods, zero-filled.
func (s *service) CategoricalRatios(ctx context.Context, ownerID uuid.UUID) (*CategoricalRatiosDTO, error) {
	genderCounts, err := s.repo.GenderCounts(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: gender counts")
	}
	paymentCounts, err := s.repo.PaymentCounts(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: payment counts")
	}

	gender := map[string]int64{
		string(enums.CustomerGenderMale):   genderCounts[string(enums.CustomerGenderMale)],
		string(enums.CustomerGenderFemale): genderCounts[string(enums.CustomerGenderFemale)],
	}
	payments := make(map[string]int64, 3)
	for _, method := range enums.PaymentMethods() {
		payments[string(method)] = paymentCounts[string(method)]
	}

	return &CategoricalRatiosDTO{
		Gender:         gender,
		PaymentMethods: payments,
	}, nil
}

// RevenueSeries buckets the window's sales into a fixed-label series. The
// window filters on sale_date; bucketing keys off each sale's creation
// timestamp.
func (s *service) RevenueSeries(ctx context.Context, ownerID uuid.UUID, dateRange enums.DateRange) (*RevenueSeriesDTO, error) {
	start, end, err := rangeWindow(s.now(), dateRange)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.RevenueRows(ctx, ownerID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: revenue rows")
	}

	labels := monthLabels
	if dateRange.IsWeekly() {
		labels = weekdayLabels
	}

	data := make([]decimal.Decimal, len(labels))
	for _, row := range rows {
		var idx int
		if dateRange.IsWeekly() {
			idx = int(row.CreatedAt.Weekday())
		} else {
			idx = int(row.CreatedAt.Month()) - 1
		}
		data[idx] = data[idx].Add(row.TotalAmount)
	}

	out := make([]string, len(labels))
	copy(out, labels)
	return &RevenueSeriesDTO{Labels: out, Data: data}, nil
}

// calcPercentage reports the relative change from previous to current. A zero
// previous value collapses to 100 (growth from nothing) or 0 (still nothing).
func calcPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	f, _ := change.Round(2).Float64()
	return f
}
