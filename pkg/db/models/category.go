package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products inside one owner's catalog.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
