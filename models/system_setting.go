package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/valvedesk/quoting-backoffice/utils"
)

// SystemSetting is a small key-value configuration entry editable at runtime.
type SystemSetting struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string    `gorm:"column:key;size:100;not null;uniqueIndex:uk_system_settings_key" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	UpdatedBy   *string   `gorm:"size:100" json:"updated_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SystemSetting) TableName() string { return "system_settings" }

// BeforeCreate ensures timestamps are set.
func (s *SystemSetting) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = utils.UTCNow()
	}
	return nil
}
