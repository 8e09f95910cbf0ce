package dto

import "time"

// SetPriceStatusRequest moves or extends a batch of price records.
// Action is one of SETVALID, SETEXPIRED, EXTENDVALID; EntityType is ValveBody or Attachment.
type SetPriceStatusRequest struct {
	IDs        []uint `json:"ids" example:"1"`
	Action     string `json:"action" example:"SETEXPIRED"`
	ExtendDays *int   `json:"extend_days,omitempty" example:"30"`
	EntityType string `json:"entity_type" example:"ValveBody"`
}

// SetPriceStatusResponse is the uniform result of a status change; it never carries an error
type SetPriceStatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type ValveBodySpecDTO struct {
	ValveType      string `json:"valve_type" example:"Gate"`
	Version        string `json:"version"`
	DN             string `json:"dn" example:"DN50"`
	PN             string `json:"pn" example:"PN16"`
	BodyMaterial   string `json:"body_material" example:"WCB"`
	ConnectionType string `json:"connection_type"`
	DriveMode      string `json:"drive_mode"`
	Quantity       int    `json:"quantity"`
}

type AttachmentSpecDTO struct {
	AttachmentType string `json:"attachment_type" example:"Actuator"`
	Model          string `json:"model"`
	Brand          string `json:"brand"`
	Specification  string `json:"specification"`
	Quantity       int    `json:"quantity"`
}

// PriceRecordDTO is a price record decorated with its derived status labels
type PriceRecordDTO struct {
	ID           uint               `json:"id"`
	Category     string             `json:"category"`
	Set          string             `json:"set"`
	BillDetailID *uint              `json:"bill_detail_id,omitempty"`
	SupplierID   *uint              `json:"supplier_id,omitempty"`
	AskDate      string             `json:"ask_date,omitempty"`
	Price        *float64           `json:"price,omitempty"`
	BasicsPrice  *float64           `json:"basics_price,omitempty"`
	AddPrice     *float64           `json:"add_price,omitempty"`
	Timeout      int                `json:"timeout"`
	IsPreProBind int                `json:"is_pre_pro_bind"`
	DoUser       *string            `json:"do_user,omitempty"`
	DoDate       string             `json:"do_date,omitempty"`
	Remark       *string            `json:"remark,omitempty"`
	CreatedAt    string             `json:"created_at"`
	ValveBody    *ValveBodySpecDTO  `json:"valve_body,omitempty"`
	Attachment   *AttachmentSpecDTO `json:"attachment,omitempty"`

	PriceStatusText  string   `json:"price_status_text" example:"valid"`
	AvailableActions []string `json:"available_actions"`
	BindingText      string   `json:"binding_text" example:"not bound"`
}

// ListPricesRequest filters one price set of one category
type ListPricesRequest struct {
	Category     string     `json:"category"`
	Set          string     `json:"set"`
	SupplierID   *uint      `json:"supplier_id,omitempty"`
	BillDetailID *uint      `json:"bill_detail_id,omitempty"`
	IsPreProBind *int       `json:"is_pre_pro_bind,omitempty"`
	AskDateFrom  *time.Time `json:"ask_date_from,omitempty"`
	AskDateTo    *time.Time `json:"ask_date_to,omitempty"`
	Keyword      *string    `json:"keyword,omitempty"`
	Page         int        `json:"page"`
	PageSize     int        `json:"page_size"`
}

type ListPricesResponse struct {
	Items      []PriceRecordDTO `json:"items"`
	Pagination PaginationInfo   `json:"pagination"`
}

// SubmitQuoteRequest records a supplier's price for a bill line
type SubmitQuoteRequest struct {
	BillDetailID uint     `json:"bill_detail_id" validate:"required,gt=0"`
	SupplierID   uint     `json:"supplier_id" validate:"required,gt=0"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	BasicsPrice  *float64 `json:"basics_price,omitempty" validate:"omitempty,gte=0"`
	AddPrice     *float64 `json:"add_price,omitempty" validate:"omitempty,gte=0"`
	ValidityDays *int     `json:"validity_days,omitempty" validate:"omitempty,min=1,max=3650"`
	IsPreProBind bool     `json:"is_pre_pro_bind"`
	Remark       *string  `json:"remark,omitempty" validate:"omitempty,max=1000"`
}

type UpdatePriceRemarkRequest struct {
	Remark *string `json:"remark" validate:"omitempty,max=1000"`
}

// PriceExport is a rendered workbook ready to be downloaded
type PriceExport struct {
	FileName string
	Content  []byte
	Rows     int
}
