package units

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/internal/repo"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

// Repository exposes owner-scoped unit persistence.
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

// Create inserts a unit for the owner.
func (r *Repository) Create(ctx context.Context, unit *models.Unit) (*models.Unit, error) {
	if err := r.db.WithContext(ctx).Create(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

// FindByID loads the owner's unit by id.
func (r *Repository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		First(&unit, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// Update persists the mutated unit row.
func (r *Repository) Update(ctx context.Context, unit *models.Unit) (*models.Unit, error) {
	if err := r.db.WithContext(ctx).Save(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

// Delete removes the owner's unit by id.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Unit{}).
		Error
}

// DeleteDependentProducts removes every product of the owner quoted in the
// unit and reports how many rows went away.
func (r *Repository) DeleteDependentProducts(ctx context.Context, ownerID, unitID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Where("unit_id = ?", unitID).
		Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

// List returns one keyset page of the owner's units, newest first. A
// non-empty search narrows rows by case-insensitive name match.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) ([]models.Unit, string, error) {
	cursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID))
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Unit
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
