package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
)

// Product represents one catalog entry owned by a single user.
type Product struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string            `gorm:"column:name;not null"`
	PurchasePrice decimal.Decimal   `gorm:"column:purchase_price;type:numeric(12,2);not null"`
	SalePrice     decimal.Decimal   `gorm:"column:sale_price;type:numeric(12,2);not null"`
	StockStatus   enums.StockStatus `gorm:"column:stock_status;not null"`
	Quantity      int               `gorm:"column:quantity;not null;default:1"`
	UnitID        uuid.UUID         `gorm:"column:unit_id;type:uuid;not null;index"`
	CategoryID    uuid.UUID         `gorm:"column:category_id;type:uuid;not null;index"`
	OwnerID       uuid.UUID         `gorm:"column:owner_id;type:uuid;not null;index"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
