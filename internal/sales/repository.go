package sales

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/internal/repo"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

// Repository exposes owner-scoped sale persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a sale together with its line items.
func (r *Repository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// FindByID loads the owner's sale with its items.
func (r *Repository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Preload("Items").
		First(&sale, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Update persists the mutated sale row (items handled separately).
func (r *Repository) Update(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Save(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// ReplaceItems swaps all line items of the sale for the provided set.
func (r *Repository) ReplaceItems(ctx context.Context, saleID uuid.UUID, items []models.SaleItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("sale_id = ?", saleID).Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// Delete removes the owner's sale; line items go away via FK cascade.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Sale{}).
		Error
}

// List returns one keyset page of the owner's sales, newest first, filtered
// by sale date window and customer name/phone search.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Sale, string, error) {
	cursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Preload("Items")
	if search := strings.TrimSpace(filters.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(customer_name) LIKE ? OR LOWER(customer_phone) LIKE ?", needle, needle)
	}
	if filters.DateFrom != nil {
		query = query.Where("sale_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("sale_date <= ?", *filters.DateTo)
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Sale
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, "", err
	}

	rows, hasMore := pagination.TrimPage(rows, params.Limit)
	nextCursor := ""
	if hasMore {
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}
