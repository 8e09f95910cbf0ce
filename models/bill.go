package models

import (
	"time"
)

// Bill is a quote request raised for a project or pre-production run.
type Bill struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	BillNo          string       `gorm:"size:50;not null;uniqueIndex:uk_bills_bill_no" json:"bill_no"`
	Title           string       `gorm:"size:255;not null" json:"title"`
	Requester       *string      `gorm:"size:100" json:"requester,omitempty"`
	PreProductionNo *string      `gorm:"size:100;index:idx_bills_pre_production_no" json:"pre_production_no,omitempty"`
	CreatedBy       *string      `gorm:"size:100" json:"created_by,omitempty"`
	CreatedAt       time.Time    `gorm:"default:CURRENT_TIMESTAMP;index:idx_bills_created_at" json:"created_at"`
	Details         []BillDetail `gorm:"foreignKey:BillID;references:ID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

func (Bill) TableName() string {
	return "bills"
}

// BillDetail is one requested line of a bill. Only the columns relevant to its
// category are filled.
type BillDetail struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	BillID         uint         `gorm:"not null;index:idx_bill_details_bill_id" json:"bill_id"`
	Category       PartCategory `gorm:"type:varchar(20);not null" json:"category"`
	ItemType       string       `gorm:"size:100;not null" json:"item_type"`
	Version        string       `gorm:"size:100" json:"version"`
	DN             string       `gorm:"column:dn;size:20" json:"dn"`
	PN             string       `gorm:"column:pn;size:20" json:"pn"`
	Material       string       `gorm:"size:100" json:"material"`
	ConnectionType string       `gorm:"size:100" json:"connection_type"`
	DriveMode      string       `gorm:"size:100" json:"drive_mode"`
	Model          string       `gorm:"size:100" json:"model"`
	Brand          string       `gorm:"size:100" json:"brand"`
	Specification  string       `gorm:"size:255" json:"specification"`
	Quantity       int          `gorm:"not null;default:1" json:"quantity"`
	CreatedAt      time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (BillDetail) TableName() string {
	return "bill_details"
}

// ValveBodySpec projects a valve body request line onto the price payload.
func (d BillDetail) ValveBodySpec() *ValveBodySpec {
	return &ValveBodySpec{
		ValveType:      d.ItemType,
		Version:        d.Version,
		DN:             d.DN,
		PN:             d.PN,
		BodyMaterial:   d.Material,
		ConnectionType: d.ConnectionType,
		DriveMode:      d.DriveMode,
		Quantity:       d.Quantity,
	}
}

// AttachmentSpec projects an attachment request line onto the price payload.
func (d BillDetail) AttachmentSpec() *AttachmentSpec {
	return &AttachmentSpec{
		AttachmentType: d.ItemType,
		Model:          d.Model,
		Brand:          d.Brand,
		Specification:  d.Specification,
		Quantity:       d.Quantity,
	}
}

// BillFilter represents filter criteria for bill queries
type BillFilter struct {
	ID              *uint
	BillNo          *string
	PreProductionNo *string
	Keyword         *string
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
}
