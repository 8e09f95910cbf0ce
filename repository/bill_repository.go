package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/valvedesk/quoting-backoffice/models"
)

// BillRepositoryImpl implements BillRepository interface
type BillRepositoryImpl struct {
	*BaseRepository[models.Bill, models.BillFilter]
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) BillRepository {
	return &BillRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Bill, models.BillFilter](db),
	}
}

// ByIDWithDetails retrieves a bill with its lines ordered by id
func (r *BillRepositoryImpl) ByIDWithDetails(ctx context.Context, id uint) (*models.Bill, error) {
	db := r.getDB(ctx)

	var bill models.Bill
	err := db.Preload("Details", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).First(&bill, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find bill %d: %w", id, err)
	}

	return &bill, nil
}

// DetailByID retrieves a single bill line
func (r *BillRepositoryImpl) DetailByID(ctx context.Context, id uint) (*models.BillDetail, error) {
	db := r.getDB(ctx)

	var detail models.BillDetail
	if err := db.First(&detail, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find bill detail %d: %w", id, err)
	}

	return &detail, nil
}

func (r *BillRepositoryImpl) applyFilter(query *gorm.DB, filter models.BillFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.BillNo != nil {
		query = query.Where("bill_no = ?", *filter.BillNo)
	}
	if filter.PreProductionNo != nil {
		query = query.Where("pre_production_no = ?", *filter.PreProductionNo)
	}
	if filter.Keyword != nil && strings.TrimSpace(*filter.Keyword) != "" {
		like := "%" + strings.TrimSpace(*filter.Keyword) + "%"
		query = query.Where("(bill_no ILIKE ? OR title ILIKE ?)", like, like)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves bills based on filter criteria
func (r *BillRepositoryImpl) ByFilter(ctx context.Context, filter models.BillFilter, orderBy string, limit, offset int) ([]*models.Bill, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Bill{}), filter)

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

	var bills []*models.Bill
	if err := query.Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	return bills, nil
}

// Count returns the number of bills matching the filter
func (r *BillRepositoryImpl) Count(ctx context.Context, filter models.BillFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.Bill{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bills: %w", err)
	}

	return count, nil
}

// Exists checks if any bill matching the filter exists
func (r *BillRepositoryImpl) Exists(ctx context.Context, filter models.BillFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
