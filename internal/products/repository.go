package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/internal/repo"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

// Repository exposes owner-scoped product persistence.
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

// Create inserts a product for the owner.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the owner's product by id.
func (r *Repository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the owner's products for the given ids.
func (r *Repository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Where("id IN ?", ids).
		Find(&rows).
		Error
	return rows, err
}

// Update persists the mutated product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the owner's product by id.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Product{}).
		Error
}

// List returns one keyset page of the owner's products, newest first. A
// non-empty search narrows rows by case-insensitive name match.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) ([]models.Product, string, error) {
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

	var rows []models.Product
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
