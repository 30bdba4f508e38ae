package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
)

// User represents the canonical identity entity and tenancy boundary.
type User struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string         `gorm:"column:name;not null"`
	Email               string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash        string         `gorm:"column:password_hash;not null"`
	Role                enums.UserRole `gorm:"column:role;not null;default:user"`
	IsVerified          bool           `gorm:"column:is_verified;not null;default:false"`
	VerifyCode          *string        `gorm:"column:verify_code"`
	VerifyCodeExpiresAt *time.Time     `gorm:"column:verify_code_expires_at"`
	LastLoginAt         *time.Time     `gorm:"column:last_login_at"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
