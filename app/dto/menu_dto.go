package dto

type MenuDTO struct {
	ID        uint    `json:"id"`
	ParentID  *uint   `json:"parent_id,omitempty"`
	Code      string  `json:"code" example:"quote:price"`
	Title     string  `json:"title" example:"Prices"`
	Path      *string `json:"path,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	Sort      int     `json:"sort"`
	IsVisible bool    `json:"is_visible"`
}

// MenuNode is a menu with its children in display order
type MenuNode struct {
	MenuDTO
	Children []*MenuNode `json:"children,omitempty"`
}

type CreateMenuRequest struct {
	ParentID  *uint   `json:"parent_id,omitempty"`
	Code      string  `json:"code" validate:"required,max=100"`
	Title     string  `json:"title" validate:"required,max=255"`
	Path      *string `json:"path,omitempty" validate:"omitempty,max=255"`
	Icon      *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	Sort      int     `json:"sort" validate:"gte=0"`
	IsVisible *bool   `json:"is_visible,omitempty"`
}

type UpdateMenuRequest struct {
	ParentID  *uint   `json:"parent_id,omitempty"`
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Path      *string `json:"path,omitempty" validate:"omitempty,max=255"`
	Icon      *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	Sort      *int    `json:"sort,omitempty" validate:"omitempty,gte=0"`
	IsVisible *bool   `json:"is_visible,omitempty"`
}

type RoleDTO struct {
	ID      uint   `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	MenuIDs []uint `json:"menu_ids"`
}

type CreateRoleRequest struct {
	Code string `json:"code" validate:"required,max=50"`
	Name string `json:"name" validate:"required,max=255"`
}

type UpdateRoleMenusRequest struct {
	MenuIDs []uint `json:"menu_ids" validate:"dive,gt=0"`
}
