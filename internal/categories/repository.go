package categories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/internal/repo"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

// Repository exposes owner-scoped category persistence.
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

// Create inserts a category for the owner.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID loads the owner's category by id.
func (r *Repository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		First(&category, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update persists the mutated category row.
func (r *Repository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the owner's category by id.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Category{}).
		Error
}

// List returns one keyset page of the owner's categories, newest first. A
// non-empty search narrows rows by case-insensitive name match.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) ([]models.Category, string, error) {
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

	var rows []models.Category
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

// CountProducts reports how many of the owner's products reference the category.
func (r *Repository) CountProducts(ctx context.Context, ownerID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(repo.OwnedBy(ownerID)).
		Where("category_id = ?", categoryID).
		Count(&count).
		Error
	return count, err
}
