package models

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a back-office user.
type Operator struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_operators_uuid" json:"uuid"`
	Username     string    `gorm:"size:255;not null;uniqueIndex:uk_operators_username" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DisplayName  string    `gorm:"size:255" json:"display_name"`
	RoleID       uint      `gorm:"not null;index:idx_operators_role_id" json:"role_id"`
	Role         *Role     `gorm:"foreignKey:RoleID;references:ID" json:"role,omitempty"`

	IsActive    *bool      `gorm:"default:true;index:idx_operators_is_active" json:"is_active"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_operators_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_operators_last_login_at" json:"last_login_at,omitempty"`
}

func (Operator) TableName() string {
	return "operators"
}

// OperatorFilter represents filter criteria for operator queries
type OperatorFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Username      *string
	RoleID        *uint
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
