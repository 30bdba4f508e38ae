package units

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
)

// UnitDTO is the measurement unit payload returned to clients.
type UnitDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUnitInput holds the validated payload to create a unit.
type CreateUnitInput struct {
	Name string
}

// UpdateUnitInput holds optional mutation values for a unit.
type UpdateUnitInput struct {
	Name *string
}

// ListResult carries one page of units plus the cursor for the next.
type ListResult struct {
	Items      []UnitDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// DeleteResult reports what a cascading unit delete removed.
type DeleteResult struct {
	DeletedProducts int64 `json:"deleted_products"`
}

// FromModel builds a DTO from the persisted model.
func FromModel(u *models.Unit) *UnitDTO {
	if u == nil {
		return nil
	}
	return &UnitDTO{
		ID:        u.ID,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
