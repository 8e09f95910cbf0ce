package models

import (
	"time"
)

// PriceRecordColumns are the lifecycle and linkage columns shared by every price table.
type PriceRecordColumns struct {
	BillDetailID *uint      `gorm:"index" json:"bill_detail_id,omitempty"`
	SupplierID   *uint      `gorm:"index" json:"supplier_id,omitempty"`
	AskDate      *time.Time `gorm:"type:date;index" json:"ask_date,omitempty"`
	Timeout      int        `gorm:"not null;index" json:"timeout"`
	IsPreProBind int        `gorm:"not null" json:"is_pre_pro_bind"`
	DoUser       *string    `gorm:"size:100" json:"do_user,omitempty"`
	DoDate       *time.Time `json:"do_date,omitempty"`
	Remark       *string    `gorm:"type:text" json:"remark,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ValveBodyColumns are the descriptive columns of the valve body tables.
type ValveBodyColumns struct {
	ValveType      string `gorm:"column:valve_type;size:100;index" json:"valve_type"`
	Version        string `gorm:"column:version;size:100" json:"version"`
	DN             string `gorm:"column:dn;size:20" json:"dn"`
	PN             string `gorm:"column:pn;size:20" json:"pn"`
	BodyMaterial   string `gorm:"column:body_material;size:100" json:"body_material"`
	ConnectionType string `gorm:"column:connection_type;size:100" json:"connection_type"`
	DriveMode      string `gorm:"column:drive_mode;size:100" json:"drive_mode"`
	Quantity       int    `gorm:"column:quantity;not null;default:0" json:"quantity"`
}

// AttachmentColumns are the descriptive columns of the attachment tables.
type AttachmentColumns struct {
	AttachmentType string `gorm:"column:attachment_type;size:100;index" json:"attachment_type"`
	Model          string `gorm:"column:model;size:100" json:"model"`
	Brand          string `gorm:"column:brand;size:100" json:"brand"`
	Specification  string `gorm:"column:specification;size:255" json:"specification"`
	Quantity       int    `gorm:"column:quantity;not null;default:0" json:"quantity"`
}

// ValveBodyPrice is a valid valve body quote. Money columns are double precision.
type ValveBodyPrice struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Price       *float64 `gorm:"type:double precision" json:"price,omitempty"`
	BasicsPrice *float64 `gorm:"type:double precision" json:"basics_price,omitempty"`
	AddPrice    *float64 `gorm:"type:double precision" json:"add_price,omitempty"`

	PriceRecordColumns `gorm:"embedded"`
	ValveBodyColumns   `gorm:"embedded"`
}

func (ValveBodyPrice) TableName() string {
	return "valve_body_prices"
}

// ValveBodyPriceOut is an expired valve body quote. Money columns are single precision.
type ValveBodyPriceOut struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Price       *float32 `gorm:"type:real" json:"price,omitempty"`
	BasicsPrice *float32 `gorm:"type:real" json:"basics_price,omitempty"`
	AddPrice    *float32 `gorm:"type:real" json:"add_price,omitempty"`

	PriceRecordColumns `gorm:"embedded"`
	ValveBodyColumns   `gorm:"embedded"`
}

func (ValveBodyPriceOut) TableName() string {
	return "valve_body_prices_out"
}

// AttachmentPrice is a valid attachment quote.
type AttachmentPrice struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Price       *float64 `gorm:"type:double precision" json:"price,omitempty"`
	BasicsPrice *float64 `gorm:"type:double precision" json:"basics_price,omitempty"`
	AddPrice    *float64 `gorm:"type:double precision" json:"add_price,omitempty"`

	PriceRecordColumns `gorm:"embedded"`
	AttachmentColumns  `gorm:"embedded"`
}

func (AttachmentPrice) TableName() string {
	return "attachment_prices"
}

// AttachmentPriceOut is an expired attachment quote.
type AttachmentPriceOut struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Price       *float32 `gorm:"type:real" json:"price,omitempty"`
	BasicsPrice *float32 `gorm:"type:real" json:"basics_price,omitempty"`
	AddPrice    *float32 `gorm:"type:real" json:"add_price,omitempty"`

	PriceRecordColumns `gorm:"embedded"`
	AttachmentColumns  `gorm:"embedded"`
}

func (AttachmentPriceOut) TableName() string {
	return "attachment_prices_out"
}
