package categories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

func setupCategoriesDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  purchase_price NUMERIC NOT NULL,
  sale_price NUMERIC NOT NULL,
  stock_status TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	db := setupCategoriesDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo, db
}

func seedCategory(t *testing.T, repo *Repository, ownerID uuid.UUID, name string, createdAt time.Time) *models.Category {
	t.Helper()
	category, err := repo.Create(context.Background(), &models.Category{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return category
}

func TestServiceCreateRejectsBlankName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateCategoryInput{Name: "   "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCreateTrimsName(t *testing.T) {
	svc, _, _ := newTestService(t)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateCategoryInput{Name: "  Drinks "})
	require.NoError(t, err)
	assert.Equal(t, "Drinks", dto.Name)
}

func TestServiceGetScopedToOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	category := seedCategory(t, repo, owner, "Snacks", time.Now().UTC())

	dto, err := svc.Get(context.Background(), owner, category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, dto.ID)

	_, err = svc.Get(context.Background(), uuid.New(), category.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceUpdateRenames(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	category := seedCategory(t, repo, owner, "Snaks", time.Now().UTC())

	name := "Snacks"
	dto, err := svc.Update(context.Background(), owner, category.ID, UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Snacks", dto.Name)

	reloaded, err := repo.FindByID(context.Background(), owner, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Snacks", reloaded.Name)
}

func TestServiceDeleteBlockedWhileProductsRemain(t *testing.T) {
	svc, repo, db := newTestService(t)
	owner := uuid.New()
	category := seedCategory(t, repo, owner, "Dairy", time.Now().UTC())

	require.NoError(t, db.Create(&models.Product{
		ID:          uuid.New(),
		Name:        "Milk",
		StockStatus: enums.StockStatusInStock,
		Quantity:    1,
		UnitID:      uuid.New(),
		CategoryID:  category.ID,
		OwnerID:     owner,
	}).Error)

	err := svc.Delete(context.Background(), owner, category.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceDeleteRemovesUnusedCategory(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	category := seedCategory(t, repo, owner, "Seasonal", time.Now().UTC())

	require.NoError(t, svc.Delete(context.Background(), owner, category.ID))

	_, err := repo.FindByID(context.Background(), owner, category.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryListPaginatesNewestFirst(t *testing.T) {
	_, repo, _ := newTestService(t)
	owner := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	oldest := seedCategory(t, repo, owner, "Oldest", base.Add(-2*time.Minute))
	middle := seedCategory(t, repo, owner, "Middle", base.Add(-time.Minute))
	newest := seedCategory(t, repo, owner, "Newest", base)
	seedCategory(t, repo, uuid.New(), "Foreign", base)

	rows, cursor, err := repo.List(context.Background(), owner, "", pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)

	rows, cursor, err = repo.List(context.Background(), owner, "", pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, cursor)
	assert.Equal(t, oldest.ID, rows[0].ID)
}

func TestRepositoryListSearchMatchesCaseInsensitive(t *testing.T) {
	_, repo, _ := newTestService(t)
	owner := uuid.New()
	now := time.Now().UTC()

	seedCategory(t, repo, owner, "Drinks", now.Add(-time.Minute))
	seedCategory(t, repo, owner, "Snacks", now)

	rows, _, err := repo.List(context.Background(), owner, "DRI", pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Drinks", rows[0].Name)
}
