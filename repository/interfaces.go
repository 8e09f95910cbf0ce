package repository

import (
	"context"
	"time"

	"github.com/valvedesk/quoting-backoffice/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// PriceSetRepository reads and writes the active and expired price tables of one
// part category through the storage-neutral PricedPart view.
type PriceSetRepository interface {
	Category() models.PartCategory
	// ByIDs returns the matching rows of set ordered by id ascending. forUpdate
	// locks them until the surrounding transaction ends.
	ByIDs(ctx context.Context, set models.PriceSet, ids []uint, forUpdate bool) ([]models.PricedPart, error)
	ByID(ctx context.Context, set models.PriceSet, id uint) (*models.PricedPart, error)
	// SaveBatch inserts parts into set and writes the generated ids back.
	SaveBatch(ctx context.Context, set models.PriceSet, parts []*models.PricedPart) error
	DeleteByIDs(ctx context.Context, set models.PriceSet, ids []uint) (int64, error)
	// UpdateValidity rewrites the validity window of active rows in place.
	UpdateValidity(ctx context.Context, ids []uint, timeout, isPreProBind int, doUser *string, doDate time.Time) (int64, error)
	UpdateRemark(ctx context.Context, id uint, remark *string) error
	ByFilter(ctx context.Context, set models.PriceSet, filter models.PricedPartFilter, orderBy string, limit, offset int) ([]models.PricedPart, error)
	Count(ctx context.Context, set models.PriceSet, filter models.PricedPartFilter) (int64, error)
}

// SupplierRepository defines operations for suppliers
type SupplierRepository interface {
	Repository[models.Supplier, models.SupplierFilter]
	Update(ctx context.Context, supplier *models.Supplier) error
	ByCode(ctx context.Context, code string) (*models.Supplier, error)
	ByCodes(ctx context.Context, codes []string) ([]*models.Supplier, error)
}

// ReferenceItemRepository defines operations for dictionary entries
type ReferenceItemRepository interface {
	Repository[models.ReferenceItem, models.ReferenceItemFilter]
	Update(ctx context.Context, item *models.ReferenceItem) error
	Delete(ctx context.Context, id uint) error
}

// BillRepository defines operations for quote request bills and their lines
type BillRepository interface {
	Repository[models.Bill, models.BillFilter]
	ByIDWithDetails(ctx context.Context, id uint) (*models.Bill, error)
	DetailByID(ctx context.Context, id uint) (*models.BillDetail, error)
}

// OperatorRepository defines operations for back-office users
type OperatorRepository interface {
	Repository[models.Operator, models.OperatorFilter]
	ByUsername(ctx context.Context, username string) (*models.Operator, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// RoleRepository defines operations for roles and their menu grants
type RoleRepository interface {
	ByID(ctx context.Context, id uint) (*models.Role, error)
	ByCode(ctx context.Context, code string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
	Save(ctx context.Context, role *models.Role) error
	MenuIDs(ctx context.Context, roleID uint) ([]uint, error)
	ReplaceMenus(ctx context.Context, roleID uint, menuIDs []uint) error
}

// MenuRepository defines operations for the menu tree
type MenuRepository interface {
	Repository[models.Menu, models.MenuFilter]
	Update(ctx context.Context, menu *models.Menu) error
	Delete(ctx context.Context, id uint) error
	ByCode(ctx context.Context, code string) (*models.Menu, error)
}

// SystemSettingRepository defines operations for runtime settings
type SystemSettingRepository interface {
	ByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	List(ctx context.Context) ([]*models.SystemSetting, error)
	Upsert(ctx context.Context, setting *models.SystemSetting) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
}
