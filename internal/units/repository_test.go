package units

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
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

func setupUnitsDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	units := `
CREATE TABLE IF NOT EXISTS units (
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
	require.NoError(t, db.Exec(units).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedUnit(t *testing.T, repo *Repository, ownerID uuid.UUID, name string, createdAt time.Time) *models.Unit {
	t.Helper()
	unit, err := repo.Create(context.Background(), &models.Unit{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return unit
}

func seedProductForUnit(t *testing.T, db *gorm.DB, ownerID, unitID uuid.UUID, name string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{
		ID:          uuid.New(),
		Name:        name,
		StockStatus: enums.StockStatusInStock,
		Quantity:    1,
		UnitID:      unitID,
		CategoryID:  uuid.New(),
		OwnerID:     ownerID,
	}).Error)
}

func TestRepositoryFindByIDScopedToOwner(t *testing.T) {
	db := setupUnitsDB(t)
	repo := NewRepository(db)
	owner := uuid.New()
	unit := seedUnit(t, repo, owner, "kg", time.Now().UTC())

	found, err := repo.FindByID(context.Background(), owner, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, unit.ID, found.ID)

	_, err = repo.FindByID(context.Background(), uuid.New(), unit.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryDeleteDependentProducts(t *testing.T) {
	db := setupUnitsDB(t)
	repo := NewRepository(db)
	owner := uuid.New()
	unit := seedUnit(t, repo, owner, "box", time.Now().UTC())

	seedProductForUnit(t, db, owner, unit.ID, "Cereal")
	seedProductForUnit(t, db, owner, unit.ID, "Tea")
	seedProductForUnit(t, db, owner, uuid.New(), "Unrelated")
	seedProductForUnit(t, db, uuid.New(), unit.ID, "Foreign owner")

	deleted, err := repo.DeleteDependentProducts(context.Background(), owner, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.Product{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestRepositoryListPaginatesNewestFirst(t *testing.T) {
	db := setupUnitsDB(t)
	repo := NewRepository(db)
	owner := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	oldest := seedUnit(t, repo, owner, "g", base.Add(-2*time.Minute))
	middle := seedUnit(t, repo, owner, "kg", base.Add(-time.Minute))
	newest := seedUnit(t, repo, owner, "litre", base)

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

func TestRepositoryListSearch(t *testing.T) {
	db := setupUnitsDB(t)
	repo := NewRepository(db)
	owner := uuid.New()
	now := time.Now().UTC()

	seedUnit(t, repo, owner, "kilogram", now.Add(-time.Minute))
	seedUnit(t, repo, owner, "litre", now)

	rows, _, err := repo.List(context.Background(), owner, "KILO", pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kilogram", rows[0].Name)
}
