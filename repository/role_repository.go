package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/valvedesk/quoting-backoffice/models"
)

// RoleRepositoryImpl implements RoleRepository interface
type RoleRepositoryImpl struct {
	*BaseRepository[models.Role, struct{}]
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &RoleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Role, struct{}](db),
	}
}

// ByCode retrieves a role by code
func (r *RoleRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Role, error) {
	db := r.getDB(ctx)

	var role models.Role
	if err := db.Where("code = ?", code).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find role %q: %w", code, err)
	}
	return &role, nil
}

// List returns every role ordered by id
func (r *RoleRepositoryImpl) List(ctx context.Context) ([]*models.Role, error) {
	db := r.getDB(ctx)

	var roles []*models.Role
	if err := db.Order("id ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// MenuIDs returns the menus granted to a role
func (r *RoleRepositoryImpl) MenuIDs(ctx context.Context, roleID uint) ([]uint, error) {
	db := r.getDB(ctx)

	var ids []uint
	err := db.Model(&models.RoleMenu{}).
		Where("role_id = ?", roleID).
		Order("menu_id ASC").
		Pluck("menu_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role menus: %w", err)
	}
	return ids, nil
}

// ReplaceMenus swaps the grants of a role for menuIDs
func (r *RoleRepositoryImpl) ReplaceMenus(ctx context.Context, roleID uint, menuIDs []uint) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finishWrite(db, shouldCommit, err) }()

	if err = db.Where("role_id = ?", roleID).Delete(&models.RoleMenu{}).Error; err != nil {
		return fmt.Errorf("failed to clear role menus: %w", err)
	}

	grants := lo.Map(lo.Uniq(menuIDs), func(menuID uint, _ int) *models.RoleMenu {
		return &models.RoleMenu{RoleID: roleID, MenuID: menuID}
	})
	if len(grants) == 0 {
		return nil
	}
	if err = db.Create(&grants).Error; err != nil {
		return fmt.Errorf("failed to grant role menus: %w", err)
	}
	return nil
}
