package dto

type ReferenceItemDTO struct {
	ID       uint   `json:"id"`
	ListCode string `json:"list_code" example:"VALVE_TYPE"`
	Code     string `json:"code" example:"GATE"`
	Name     string `json:"name" example:"Gate valve"`
	Sort     int    `json:"sort"`
	IsActive bool   `json:"is_active"`
}

type CreateReferenceItemRequest struct {
	ListCode string `json:"list_code" validate:"required,max=50"`
	Code     string `json:"code" validate:"required,max=50"`
	Name     string `json:"name" validate:"required,max=255"`
	Sort     int    `json:"sort" validate:"gte=0"`
}

type UpdateReferenceItemRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Sort     *int    `json:"sort,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ListReferenceItemsRequest struct {
	ListCode *string `json:"list_code,omitempty"`
	Keyword  *string `json:"keyword,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type ListReferenceItemsResponse struct {
	Items      []ReferenceItemDTO `json:"items"`
	Pagination PaginationInfo     `json:"pagination"`
}
