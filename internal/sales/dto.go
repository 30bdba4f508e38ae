package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
)

// SaleDTO is the transaction payload returned to clients.
type SaleDTO struct {
	ID             uuid.UUID       `json:"id"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	CustomerGender string          `json:"customer_gender"`
	PaymentMethod  string          `json:"payment_method"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SaleDate       time.Time       `json:"sale_date"`
	Items          []SaleItemDTO   `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SaleItemDTO is one line item priced at sale time.
type SaleItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitID    uuid.UUID       `json:"unit_id"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// SaleItemInput is the validated line item payload.
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitID    uuid.UUID
	SalePrice decimal.Decimal
}

// CreateSaleInput holds the validated payload to record a sale.
type CreateSaleInput struct {
	CustomerName   string
	CustomerPhone  string
	CustomerGender enums.CustomerGender
	PaymentMethod  enums.PaymentMethod
	TotalAmount    decimal.Decimal
	SaleDate       time.Time
	Items          []SaleItemInput
}

// UpdateSaleInput holds optional mutation values for a sale. A non-nil Items
// slice replaces the line items wholesale.
type UpdateSaleInput struct {
	CustomerName   *string
	CustomerPhone  *string
	CustomerGender *enums.CustomerGender
	PaymentMethod  *enums.PaymentMethod
	TotalAmount    *decimal.Decimal
	SaleDate       *time.Time
	Items          *[]SaleItemInput
}

// ListFilters narrows the sales listing.
type ListFilters struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// ListResult carries one page of sales plus the cursor for the next.
type ListResult struct {
	Items      []SaleDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// FromModel builds a DTO from the persisted model.
func FromModel(s *models.Sale) *SaleDTO {
	if s == nil {
		return nil
	}
	items := make([]SaleItemDTO, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitID:    item.UnitID,
			SalePrice: item.SalePrice,
		})
	}
	return &SaleDTO{
		ID:             s.ID,
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
		CustomerGender: string(s.CustomerGender),
		PaymentMethod:  string(s.PaymentMethod),
		TotalAmount:    s.TotalAmount,
		SaleDate:       s.SaleDate,
		Items:          items,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
