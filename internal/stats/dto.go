package stats

import (
	"github.com/shopspring/decimal"
)

// LifetimeSummaryDTO carries the unscoped dashboard totals.
type LifetimeSummaryDTO struct {
	TotalSales        int64           `json:"totalSales"`
	TotalTransactions int64           `json:"totalTransactions"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
}

// MetricDelta pairs a period total with its change versus the prior period.
type MetricDelta struct {
	Total      decimal.Decimal `json:"total"`
	Percentage float64         `json:"percentage"`
}

// MonthSummaryDTO compares one calendar month against the month before it,
// keyed by metric name.
type MonthSummaryDTO struct {
	Products     MetricDelta `json:"products"`
	Sales        MetricDelta `json:"sales"`
	Revenue      MetricDelta `json:"revenue"`
	Transactions MetricDelta `json:"transactions"`
}

// CategoricalRatiosDTO carries flat count maps for the pie charts.
type CategoricalRatiosDTO struct {
	Gender         map[string]int64 `json:"gender"`
	PaymentMethods map[string]int64 `json:"payment_methods"`
}

// RevenueSeriesDTO is a zero-filled, fixed-label revenue series.
type RevenueSeriesDTO struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}
