package models

import (
	"time"
)

// Reference list codes used by the quoting screens.
const (
	ReferenceListValveType      = "VALVE_TYPE"
	ReferenceListMaterial       = "MATERIAL"
	ReferenceListDN             = "DN"
	ReferenceListPN             = "PN"
	ReferenceListConnectionType = "CONNECTION_TYPE"
	ReferenceListDriveMode      = "DRIVE_MODE"
	ReferenceListAttachmentType = "ATTACHMENT_TYPE"
)

// ReferenceItem is one entry of a dictionary list.
type ReferenceItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListCode  string    `gorm:"size:50;not null;uniqueIndex:uk_reference_items_list_code,priority:1;index:idx_reference_items_list" json:"list_code"`
	Code      string    `gorm:"size:50;not null;uniqueIndex:uk_reference_items_list_code,priority:2" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Sort      int       `gorm:"not null;default:0" json:"sort"`
	IsActive  *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ReferenceItem) TableName() string {
	return "reference_items"
}

// ReferenceItemFilter represents filter criteria for reference item queries
type ReferenceItemFilter struct {
	ID       *uint
	ListCode *string
	Code     *string
	Keyword  *string
	IsActive *bool
}
