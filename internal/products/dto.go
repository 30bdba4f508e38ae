package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
)

// ProductDTO is the catalog entry payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	StockStatus   string          `json:"stock_status"`
	Quantity      int             `json:"quantity"`
	UnitID        uuid.UUID       `json:"unit_id"`
	CategoryID    uuid.UUID       `json:"category_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	StockStatus   enums.StockStatus
	Quantity      int
	UnitID        uuid.UUID
	CategoryID    uuid.UUID
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	StockStatus   *enums.StockStatus
	Quantity      *int
	UnitID        *uuid.UUID
	CategoryID    *uuid.UUID
}

// ListResult carries one page of products plus the cursor for the next.
type ListResult struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel builds a DTO from the persisted model.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		StockStatus:   string(p.StockStatus),
		Quantity:      p.Quantity,
		UnitID:        p.UnitID,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
