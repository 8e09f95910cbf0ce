package models

import (
	"time"
)

// AdminRoleCode is the role that is granted every permission implicitly.
const AdminRoleCode = "admin"

type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:50;not null;uniqueIndex:uk_roles_code" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// IsAdmin reports whether the role bypasses permission checks.
func (r Role) IsAdmin() bool {
	return r.Code == AdminRoleCode
}

// Menu is a navigation node; its Code doubles as the permission code that guards
// the matching API routes.
type Menu struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ParentID  *uint     `gorm:"index:idx_menus_parent_id" json:"parent_id,omitempty"`
	Code      string    `gorm:"size:100;not null;uniqueIndex:uk_menus_code" json:"code"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Path      *string   `gorm:"size:255" json:"path,omitempty"`
	Icon      *string   `gorm:"size:100" json:"icon,omitempty"`
	Sort      int       `gorm:"not null;default:0" json:"sort"`
	IsVisible *bool     `gorm:"default:true" json:"is_visible"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Menu) TableName() string {
	return "menus"
}

// MenuFilter represents filter criteria for menu queries
type MenuFilter struct {
	ID       *uint
	IDs      []uint
	ParentID *uint
	Code     *string
}

// RoleMenu grants a menu (and its permission code) to a role.
type RoleMenu struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoleID    uint      `gorm:"not null;uniqueIndex:uk_role_menus_role_menu,priority:1" json:"role_id"`
	MenuID    uint      `gorm:"not null;uniqueIndex:uk_role_menus_role_menu,priority:2;index:idx_role_menus_menu_id" json:"menu_id"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (RoleMenu) TableName() string {
	return "role_menus"
}
