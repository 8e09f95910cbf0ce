package businessflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// menuSeed is one entry of the default navigation
type menuSeed struct {
	parent string
	code   string
	title  string
	path   string
	sort   int
}

var defaultMenus = []menuSeed{
	{"", "system", "System", "", 90},
	{"system", PermissionMenu, "Menus", "/system/menus", 1},
	{"system", PermissionRole, "Roles", "/system/roles", 2},
	{"system", PermissionOperator, "Operators", "/system/operators", 3},
	{"system", PermissionSetting, "Settings", "/system/settings", 4},
	{"", "base", "Master data", "", 10},
	{"base", PermissionSupplier, "Suppliers", "/base/suppliers", 1},
	{"base", PermissionReference, "Reference lists", "/base/reference-items", 2},
	{"", "quote", "Quoting", "", 20},
	{"quote", PermissionBill, "Quote requests", "/quote/bills", 1},
	{"quote", PermissionPrice, "Prices", "/quote/prices", 2},
}

// SeedFlow creates the admin role, the default menu tree and the bootstrap
// operator. Running it again only adds what is missing.
type SeedFlow interface {
	SeedAdmin(ctx context.Context, username, password, displayName string) error
}

type SeedFlowImpl struct {
	operatorRepo repository.OperatorRepository
	roleRepo     repository.RoleRepository
	menuRepo     repository.MenuRepository
	settingRepo  repository.SystemSettingRepository
	txManager    repository.TxManager
	defaultDays  int
	logger       *zap.Logger
}

func NewSeedFlow(
	operatorRepo repository.OperatorRepository,
	roleRepo repository.RoleRepository,
	menuRepo repository.MenuRepository,
	settingRepo repository.SystemSettingRepository,
	txManager repository.TxManager,
	defaultDays int,
	logger *zap.Logger,
) SeedFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedFlowImpl{
		operatorRepo: operatorRepo,
		roleRepo:     roleRepo,
		menuRepo:     menuRepo,
		settingRepo:  settingRepo,
		txManager:    txManager,
		defaultDays:  defaultDays,
		logger:       logger,
	}
}

func (f *SeedFlowImpl) SeedAdmin(ctx context.Context, username, password, displayName string) error {
	if username == "" || len(password) < 8 {
		return fmt.Errorf("admin username and a password of at least 8 characters are required")
	}

	return f.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		role, err := f.roleRepo.ByCode(txCtx, models.AdminRoleCode)
		if err != nil {
			return err
		}
		if role == nil {
			role = &models.Role{Code: models.AdminRoleCode, Name: "Administrator"}
			if err := f.roleRepo.Save(txCtx, role); err != nil {
				return err
			}
			f.logger.Info("admin role created", zap.Uint("role_id", role.ID))
		}

		ids := map[string]uint{}
		for _, seed := range defaultMenus {
			menu, err := f.menuRepo.ByCode(txCtx, seed.code)
			if err != nil {
				return err
			}
			if menu == nil {
				menu = &models.Menu{
					Code:      seed.code,
					Title:     seed.title,
					Path:      utils.NilIfEmpty(seed.path),
					Sort:      seed.sort,
					IsVisible: utils.ToPtr(true),
				}
				if parentID, ok := ids[seed.parent]; ok {
					menu.ParentID = &parentID
				}
				if err := f.menuRepo.Save(txCtx, menu); err != nil {
					return err
				}
			}
			ids[seed.code] = menu.ID
		}

		setting, err := f.settingRepo.ByKey(txCtx, utils.PriceValidityDaysSettingKey)
		if err != nil {
			return err
		}
		if setting == nil {
			err = f.settingRepo.Upsert(txCtx, &models.SystemSetting{
				Key:         utils.PriceValidityDaysSettingKey,
				Value:       fmt.Sprint(f.defaultDays),
				Description: utils.ToPtr("Validity window in days given to newly submitted quotes"),
				UpdatedAt:   utils.UTCNow(),
			})
			if err != nil {
				return err
			}
		}

		operator, err := f.operatorRepo.ByUsername(txCtx, username)
		if err != nil {
			return err
		}
		if operator != nil {
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		operator = &models.Operator{
			UUID:         uuid.New(),
			Username:     username,
			PasswordHash: string(hash),
			DisplayName:  displayName,
			RoleID:       role.ID,
			IsActive:     utils.ToPtr(true),
		}
		if err := f.operatorRepo.Save(txCtx, operator); err != nil {
			return err
		}
		f.logger.Info("admin operator created", zap.String("username", username))
		return nil
	})
}
