package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/valvedesk/quoting-backoffice/models"
)

// SupplierRepositoryImpl implements SupplierRepository interface
type SupplierRepositoryImpl struct {
	*BaseRepository[models.Supplier, models.SupplierFilter]
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &SupplierRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Supplier, models.SupplierFilter](db),
	}
}

// ByCode retrieves a supplier by its unique code
func (r *SupplierRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Supplier, error) {
	suppliers, err := r.ByFilter(ctx, models.SupplierFilter{Code: &code}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(suppliers) == 0 {
		return nil, nil
	}
	return suppliers[0], nil
}

// ByCodes retrieves every supplier whose code is in codes
func (r *SupplierRepositoryImpl) ByCodes(ctx context.Context, codes []string) ([]*models.Supplier, error) {
	if len(codes) == 0 {
		return []*models.Supplier{}, nil
	}
	return r.ByFilter(ctx, models.SupplierFilter{Codes: codes}, "code ASC", 0, 0)
}

func (r *SupplierRepositoryImpl) applyFilter(query *gorm.DB, filter models.SupplierFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}
	if len(filter.Codes) > 0 {
		query = query.Where("code IN ?", filter.Codes)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Keyword != nil && strings.TrimSpace(*filter.Keyword) != "" {
		like := "%" + strings.TrimSpace(*filter.Keyword) + "%"
		query = query.Where("(code ILIKE ? OR name ILIKE ? OR contact ILIKE ?)", like, like, like)
	}
	return query
}

// ByFilter retrieves suppliers based on filter criteria
func (r *SupplierRepositoryImpl) ByFilter(ctx context.Context, filter models.SupplierFilter, orderBy string, limit, offset int) ([]*models.Supplier, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Supplier{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var suppliers []*models.Supplier
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, nil
}

// Count returns the number of suppliers matching the filter
func (r *SupplierRepositoryImpl) Count(ctx context.Context, filter models.SupplierFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.Supplier{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	return count, nil
}

// Exists checks if any supplier matching the filter exists
func (r *SupplierRepositoryImpl) Exists(ctx context.Context, filter models.SupplierFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
