package dto

type SupplierDTO struct {
	ID        uint    `json:"id"`
	Code      string  `json:"code" example:"SUP001"`
	Name      string  `json:"name" example:"Acme Valve Works"`
	Contact   *string `json:"contact,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Address   *string `json:"address,omitempty"`
	Remark    *string `json:"remark,omitempty"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type CreateSupplierRequest struct {
	Code    string  `json:"code" validate:"required,min=1,max=50"`
	Name    string  `json:"name" validate:"required,min=1,max=255"`
	Contact *string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=1000"`
	Remark  *string `json:"remark,omitempty" validate:"omitempty,max=1000"`
}

type UpdateSupplierRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Contact  *string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=1000"`
	Remark   *string `json:"remark,omitempty" validate:"omitempty,max=1000"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ListSuppliersRequest struct {
	Keyword  *string `json:"keyword,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type ListSuppliersResponse struct {
	Items      []SupplierDTO  `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// SupplierImportResult summarises an Excel supplier import
type SupplierImportResult struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
