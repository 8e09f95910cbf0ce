package models

// AllModels lists every persisted entity in dependency order for schema migration.
func AllModels() []any {
	return []any{
		&Role{},
		&Menu{},
		&RoleMenu{},
		&Operator{},
		&Supplier{},
		&ReferenceItem{},
		&Bill{},
		&BillDetail{},
		&ValveBodyPrice{},
		&ValveBodyPriceOut{},
		&AttachmentPrice{},
		&AttachmentPriceOut{},
		&SystemSetting{},
		&AuditLog{},
	}
}
