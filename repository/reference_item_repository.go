package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/valvedesk/quoting-backoffice/models"
)

// ReferenceItemRepositoryImpl implements ReferenceItemRepository interface
type ReferenceItemRepositoryImpl struct {
	*BaseRepository[models.ReferenceItem, models.ReferenceItemFilter]
}

// NewReferenceItemRepository creates a new reference item repository
func NewReferenceItemRepository(db *gorm.DB) ReferenceItemRepository {
	return &ReferenceItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ReferenceItem, models.ReferenceItemFilter](db),
	}
}

// Delete removes a reference item
func (r *ReferenceItemRepositoryImpl) Delete(ctx context.Context, id uint) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finishWrite(db, shouldCommit, err) }()

	res := db.Delete(&models.ReferenceItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete reference item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReferenceItemRepositoryImpl) applyFilter(query *gorm.DB, filter models.ReferenceItemFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ListCode != nil {
		query = query.Where("list_code = ?", *filter.ListCode)
	}
	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Keyword != nil && strings.TrimSpace(*filter.Keyword) != "" {
		like := "%" + strings.TrimSpace(*filter.Keyword) + "%"
		query = query.Where("(code ILIKE ? OR name ILIKE ?)", like, like)
	}
	return query
}

// ByFilter retrieves reference items based on filter criteria
func (r *ReferenceItemRepositoryImpl) ByFilter(ctx context.Context, filter models.ReferenceItemFilter, orderBy string, limit, offset int) ([]*models.ReferenceItem, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ReferenceItem{}), filter)

	if orderBy == "" {
		orderBy = "list_code ASC, sort ASC, id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var items []*models.ReferenceItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list reference items: %w", err)
	}

	return items, nil
}

// Count returns the number of reference items matching the filter
func (r *ReferenceItemRepositoryImpl) Count(ctx context.Context, filter models.ReferenceItemFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.ReferenceItem{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reference items: %w", err)
	}

	return count, nil
}

// Exists checks if any reference item matching the filter exists
func (r *ReferenceItemRepositoryImpl) Exists(ctx context.Context, filter models.ReferenceItemFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
