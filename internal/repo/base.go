package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the GORM handle shared by the domain repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds the connection to ctx so cancellation reaches the driver.
// A nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx != nil {
		return b.db.WithContext(ctx)
	}
	return b.db
}

// OwnedBy scopes a query to rows belonging to the given owner. Every tenant
// repository must apply it before any read or mutation so cross-tenant rows
// are never reachable, even by primary key.
func OwnedBy(ownerID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner_id = ?", ownerID)
	}
}
