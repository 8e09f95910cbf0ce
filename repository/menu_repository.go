package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/valvedesk/quoting-backoffice/models"
)

// MenuRepositoryImpl implements MenuRepository interface
type MenuRepositoryImpl struct {
	*BaseRepository[models.Menu, models.MenuFilter]
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &MenuRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Menu, models.MenuFilter](db),
	}
}

// ByCode retrieves a menu by its permission code
func (r *MenuRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Menu, error) {
	menus, err := r.ByFilter(ctx, models.MenuFilter{Code: &code}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(menus) == 0 {
		return nil, nil
	}
	return menus[0], nil
}

// Delete removes a menu and its role grants
func (r *MenuRepositoryImpl) Delete(ctx context.Context, id uint) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finishWrite(db, shouldCommit, err) }()

	if err = db.Where("menu_id = ?", id).Delete(&models.RoleMenu{}).Error; err != nil {
		return fmt.Errorf("failed to delete menu grants: %w", err)
	}
	res := db.Delete(&models.Menu{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete menu: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MenuRepositoryImpl) applyFilter(query *gorm.DB, filter models.MenuFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}
	return query
}

// ByFilter retrieves menus based on filter criteria, by default in display order
func (r *MenuRepositoryImpl) ByFilter(ctx context.Context, filter models.MenuFilter, orderBy string, limit, offset int) ([]*models.Menu, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Menu{}), filter)

	if orderBy == "" {
		orderBy = "sort ASC, id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var menus []*models.Menu
	if err := query.Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}

	return menus, nil
}

// Count returns the number of menus matching the filter
func (r *MenuRepositoryImpl) Count(ctx context.Context, filter models.MenuFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.Menu{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count menus: %w", err)
	}

	return count, nil
}

// Exists checks if any menu matching the filter exists
func (r *MenuRepositoryImpl) Exists(ctx context.Context, filter models.MenuFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
