package dto

type BillDetailDTO struct {
	ID             uint   `json:"id"`
	BillID         uint   `json:"bill_id"`
	Category       string `json:"category"`
	ItemType       string `json:"item_type"`
	Version        string `json:"version,omitempty"`
	DN             string `json:"dn,omitempty"`
	PN             string `json:"pn,omitempty"`
	Material       string `json:"material,omitempty"`
	ConnectionType string `json:"connection_type,omitempty"`
	DriveMode      string `json:"drive_mode,omitempty"`
	Model          string `json:"model,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Specification  string `json:"specification,omitempty"`
	Quantity       int    `json:"quantity"`
}

type BillDTO struct {
	ID              uint            `json:"id"`
	BillNo          string          `json:"bill_no"`
	Title           string          `json:"title"`
	Requester       *string         `json:"requester,omitempty"`
	PreProductionNo *string         `json:"pre_production_no,omitempty"`
	CreatedBy       *string         `json:"created_by,omitempty"`
	CreatedAt       string          `json:"created_at"`
	Details         []BillDetailDTO `json:"details,omitempty"`
}

type CreateBillDetailRequest struct {
	Category       string `json:"category" validate:"required,oneof=ValveBody Attachment"`
	ItemType       string `json:"item_type" validate:"required,max=100"`
	Version        string `json:"version" validate:"max=100"`
	DN             string `json:"dn" validate:"max=20"`
	PN             string `json:"pn" validate:"max=20"`
	Material       string `json:"material" validate:"max=100"`
	ConnectionType string `json:"connection_type" validate:"max=100"`
	DriveMode      string `json:"drive_mode" validate:"max=100"`
	Model          string `json:"model" validate:"max=100"`
	Brand          string `json:"brand" validate:"max=100"`
	Specification  string `json:"specification" validate:"max=255"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
}

type CreateBillRequest struct {
	BillNo          string                    `json:"bill_no" validate:"required,max=50"`
	Title           string                    `json:"title" validate:"required,max=255"`
	Requester       *string                   `json:"requester,omitempty" validate:"omitempty,max=100"`
	PreProductionNo *string                   `json:"pre_production_no,omitempty" validate:"omitempty,max=100"`
	Details         []CreateBillDetailRequest `json:"details" validate:"required,min=1,dive"`
}

type ListBillsRequest struct {
	Keyword         *string `json:"keyword,omitempty"`
	PreProductionNo *string `json:"pre_production_no,omitempty"`
	Page            int     `json:"page"`
	PageSize        int     `json:"page_size"`
}

type ListBillsResponse struct {
	Items      []BillDTO      `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
