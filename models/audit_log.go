package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OperatorID   *uint           `gorm:"index:idx_audit_operator_id" json:"operator_id,omitempty"`
	Action       string          `gorm:"size:100;not null;index:idx_audit_action" json:"action"`
	EntityType   *string         `gorm:"size:50;index:idx_audit_entity,priority:1" json:"entity_type,omitempty"`
	EntityID     *uint           `gorm:"index:idx_audit_entity,priority:2" json:"entity_id,omitempty"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionLoginSuccess        = "login_success"
	AuditActionLoginFailed         = "login_failed"
	AuditActionPriceRemarkUpdated  = "price_remark_updated"
	AuditActionQuoteSubmitted      = "quote_submitted"
	AuditActionSupplierImported    = "supplier_imported"
	AuditActionRoleMenusUpdated    = "role_menus_updated"
	AuditActionSystemSettingUpdate = "system_setting_updated"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	OperatorID    *uint
	Action        *string
	EntityType    *string
	EntityID      *uint
	Success       *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
