package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
)

// Sale is one recorded transaction with its line items.
type Sale struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName   string               `gorm:"column:customer_name;not null"`
	CustomerPhone  string               `gorm:"column:customer_phone;not null"`
	CustomerGender enums.CustomerGender `gorm:"column:customer_gender;not null"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;not null;default:CASH"`
	TotalAmount    decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	SaleDate       time.Time            `gorm:"column:sale_date;not null;index"`
	OwnerID        uuid.UUID            `gorm:"column:owner_id;type:uuid;not null;index"`
	Items          []SaleItem           `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// SaleItem is one product entry within a sale, priced at sale time.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID    uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitID    uuid.UUID       `gorm:"column:unit_id;type:uuid;not null"`
	SalePrice decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
