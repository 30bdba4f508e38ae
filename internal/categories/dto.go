package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name string
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name *string
}

// ListResult carries one page of categories plus the cursor for the next.
type ListResult struct {
	Items      []CategoryDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// FromModel builds a DTO from the persisted model.
func FromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
