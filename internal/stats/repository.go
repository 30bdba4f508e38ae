package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/internal/repo"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
)

// LifetimeTotals aggregates an owner's entire sales history.
type LifetimeTotals struct {
	TotalSales        int64
	TotalTransactions int64
	TotalRevenue      decimal.Decimal
}

// SaleWindowMetrics aggregates the sales dated inside one window.
type SaleWindowMetrics struct {
	LineItems    int64
	Transactions int64
	Revenue      decimal.Decimal
}

// RevenueRow is the minimal sale projection the series bucketing needs.
type RevenueRow struct {
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
}

// Repository answers read-only aggregate queries over sales and products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LifetimeTotals sums the owner's full ledger without a date filter.
func (r *Repository) LifetimeTotals(ctx context.Context, ownerID uuid.UUID) (LifetimeTotals, error) {
	var totals LifetimeTotals

	err := r.db.WithContext(ctx).
		Model(&models.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.owner_id = ?", ownerID).
		Count(&totals.TotalSales).
		Error
	if err != nil {
		return LifetimeTotals{}, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(repo.OwnedBy(ownerID)).
		Count(&totals.TotalTransactions).
		Error
	if err != nil {
		return LifetimeTotals{}, err
	}

	var revenue decimal.NullDecimal
	err = r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(repo.OwnedBy(ownerID)).
		Select("SUM(total_amount)").
		Scan(&revenue).
		Error
	if err != nil {
		return LifetimeTotals{}, err
	}
	if revenue.Valid {
		totals.TotalRevenue = revenue.Decimal
	}
	return totals, nil
}

// WindowSaleMetrics aggregates sales whose sale_date falls inside the window.
func (r *Repository) WindowSaleMetrics(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (SaleWindowMetrics, error) {
	var metrics SaleWindowMetrics

	err := r.db.WithContext(ctx).
		Model(&models.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.owner_id = ?", ownerID).
		Where("sales.sale_date BETWEEN ? AND ?", start, end).
		Count(&metrics.LineItems).
		Error
	if err != nil {
		return SaleWindowMetrics{}, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(repo.OwnedBy(ownerID)).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Count(&metrics.Transactions).
		Error
	if err != nil {
		return SaleWindowMetrics{}, err
	}

	var revenue decimal.NullDecimal
	err = r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(repo.OwnedBy(ownerID)).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Select("SUM(total_amount)").
		Scan(&revenue).
		Error
	if err != nil {
		return SaleWindowMetrics{}, err
	}
	if revenue.Valid {
		metrics.Revenue = revenue.Decimal
	}
	return metrics, nil
}

// CountProductsCreated counts the owner's products created inside the window.
func (r *Repository) CountProductsCreated(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(repo.OwnedBy(ownerID)).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&count).
		Error
	return count, err
}

type labelCount struct {
	Label string
	Count int64
}

// GenderCounts groups the owner's sales by customer gender.
func (r *Repository) GenderCounts(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error) {
	return r.countsBy(ctx, ownerID, "customer_gender")
}

// PaymentCounts groups the owner's sales by payment method.
func (r *Repository) PaymentCounts(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error) {
	return r.countsBy(ctx, ownerID, "payment_method")
}

func (r *Repository) countsBy(ctx context.Context, ownerID uuid.UUID, column string) (map[string]int64, error) {
	var rows []labelCount
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(repo.OwnedBy(ownerID)).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Count
	}
	return counts, nil
}

// RevenueRows loads the owner's sales dated inside the window, projected down
// to what the series bucketing needs.
func (r *Repository) RevenueRows(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(repo.OwnedBy(ownerID)).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Select("created_at, total_amount").
		Scan(&rows).
		Error
	return rows, err
}
