package models

import (
	"time"
)

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:50;not null;uniqueIndex:uk_suppliers_code" json:"code"`
	Name      string    `gorm:"size:255;not null;index:idx_suppliers_name" json:"name"`
	Contact   *string   `gorm:"size:100" json:"contact,omitempty"`
	Phone     *string   `gorm:"size:50" json:"phone,omitempty"`
	Email     *string   `gorm:"size:255" json:"email,omitempty"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	Remark    *string   `gorm:"type:text" json:"remark,omitempty"`
	IsActive  *bool     `gorm:"default:true;index:idx_suppliers_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierFilter represents filter criteria for supplier queries
type SupplierFilter struct {
	ID       *uint
	Code     *string
	Codes    []string
	Keyword  *string
	IsActive *bool
}
