package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/valvedesk/quoting-backoffice/models"
)

// priceTable binds one physical price table to the neutral PricedPart view.
type priceTable[R any] struct {
	toPart   func(*R) models.PricedPart
	fromPart func(models.PricedPart) *R
	id       func(*R) uint
}

// PriceSetRepositoryImpl implements PriceSetRepository over an active table A and
// an expired table E that share their descriptive columns.
type PriceSetRepositoryImpl[A any, E any] struct {
	*BaseRepository[A, models.PricedPartFilter]
	category       models.PartCategory
	active         priceTable[A]
	expired        priceTable[E]
	keywordColumns []string
}

// NewValveBodyPriceRepository creates the repository over valve_body_prices and valve_body_prices_out
func NewValveBodyPriceRepository(db *gorm.DB) PriceSetRepository {
	return &PriceSetRepositoryImpl[models.ValveBodyPrice, models.ValveBodyPriceOut]{
		BaseRepository: NewBaseRepository[models.ValveBodyPrice, models.PricedPartFilter](db),
		category:       models.PartCategoryValveBody,
		active: priceTable[models.ValveBodyPrice]{
			toPart:   (*models.ValveBodyPrice).ToPricedPart,
			fromPart: models.NewValveBodyPrice,
			id:       func(r *models.ValveBodyPrice) uint { return r.ID },
		},
		expired: priceTable[models.ValveBodyPriceOut]{
			toPart:   (*models.ValveBodyPriceOut).ToPricedPart,
			fromPart: models.NewValveBodyPriceOut,
			id:       func(r *models.ValveBodyPriceOut) uint { return r.ID },
		},
		keywordColumns: []string{"valve_type", "version", "dn", "pn", "body_material", "connection_type", "drive_mode"},
	}
}

// NewAttachmentPriceRepository creates the repository over attachment_prices and attachment_prices_out
func NewAttachmentPriceRepository(db *gorm.DB) PriceSetRepository {
	return &PriceSetRepositoryImpl[models.AttachmentPrice, models.AttachmentPriceOut]{
		BaseRepository: NewBaseRepository[models.AttachmentPrice, models.PricedPartFilter](db),
		category:       models.PartCategoryAttachment,
		active: priceTable[models.AttachmentPrice]{
			toPart:   (*models.AttachmentPrice).ToPricedPart,
			fromPart: models.NewAttachmentPrice,
			id:       func(r *models.AttachmentPrice) uint { return r.ID },
		},
		expired: priceTable[models.AttachmentPriceOut]{
			toPart:   (*models.AttachmentPriceOut).ToPricedPart,
			fromPart: models.NewAttachmentPriceOut,
			id:       func(r *models.AttachmentPriceOut) uint { return r.ID },
		},
		keywordColumns: []string{"attachment_type", "model", "brand", "specification"},
	}
}

// PriceRepositories indexes the price repositories by category
type PriceRepositories map[models.PartCategory]PriceSetRepository

// NewPriceRepositories wires one repository per supported category
func NewPriceRepositories(db *gorm.DB) PriceRepositories {
	return NewPriceRepositoriesFrom(NewValveBodyPriceRepository(db), NewAttachmentPriceRepository(db))
}

// NewPriceRepositoriesFrom indexes already built repositories by their category
func NewPriceRepositoriesFrom(repos ...PriceSetRepository) PriceRepositories {
	out := make(PriceRepositories, len(repos))
	for _, r := range repos {
		out[r.Category()] = r
	}
	return out
}

// For returns the repository of category
func (p PriceRepositories) For(category models.PartCategory) (PriceSetRepository, bool) {
	r, ok := p[category]
	return r, ok
}

func (r *PriceSetRepositoryImpl[A, E]) Category() models.PartCategory {
	return r.category
}

// ByIDs retrieves rows of set by id, ordered by id ascending
func (r *PriceSetRepositoryImpl[A, E]) ByIDs(ctx context.Context, set models.PriceSet, ids []uint, forUpdate bool) ([]models.PricedPart, error) {
	if len(ids) == 0 {
		return []models.PricedPart{}, nil
	}
	filter := models.PricedPartFilter{IDs: ids}
	db := r.getDB(ctx)

	switch set {
	case models.PriceSetActive:
		return findParts(r.applyFilter(db.Model(new(A)), filter), r.active, "id ASC", 0, 0, forUpdate)
	case models.PriceSetExpired:
		return findParts(r.applyFilter(db.Model(new(E)), filter), r.expired, "id ASC", 0, 0, forUpdate)
	default:
		return nil, fmt.Errorf("unknown price set %q", set)
	}
}

// ByID retrieves a single row of set
func (r *PriceSetRepositoryImpl[A, E]) ByID(ctx context.Context, set models.PriceSet, id uint) (*models.PricedPart, error) {
	parts, err := r.ByIDs(ctx, set, []uint{id}, false)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return &parts[0], nil
}

// SaveBatch inserts parts into set and writes the generated ids back onto them
func (r *PriceSetRepositoryImpl[A, E]) SaveBatch(ctx context.Context, set models.PriceSet, parts []*models.PricedPart) (err error) {
	if len(parts) == 0 {
		return nil
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finishWrite(db, shouldCommit, err) }()

	switch set {
	case models.PriceSetActive:
		err = insertParts(db, r.active, parts)
	case models.PriceSetExpired:
		err = insertParts(db, r.expired, parts)
	default:
		err = fmt.Errorf("unknown price set %q", set)
	}
	return err
}

// DeleteByIDs removes rows of set by id
func (r *PriceSetRepositoryImpl[A, E]) DeleteByIDs(ctx context.Context, set models.PriceSet, ids []uint) (affected int64, err error) {
	if len(ids) == 0 {
		return 0, nil
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { err = finishWrite(db, shouldCommit, err) }()

	var res *gorm.DB
	switch set {
	case models.PriceSetActive:
		res = db.Where("id IN ?", ids).Delete(new(A))
	case models.PriceSetExpired:
		res = db.Where("id IN ?", ids).Delete(new(E))
	default:
		return 0, fmt.Errorf("unknown price set %q", set)
	}
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete %s %s prices: %w", set, r.category, res.Error)
	}
	return res.RowsAffected, nil
}

// UpdateValidity rewrites timeout, binding flag and operator stamp of active rows
func (r *PriceSetRepositoryImpl[A, E]) UpdateValidity(ctx context.Context, ids []uint, timeout, isPreProBind int, doUser *string, doDate time.Time) (affected int64, err error) {
	if len(ids) == 0 {
		return 0, nil
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { err = finishWrite(db, shouldCommit, err) }()

	res := db.Model(new(A)).Where("id IN ?", ids).Updates(map[string]any{
		"timeout":         timeout,
		"is_pre_pro_bind": isPreProBind,
		"do_user":         doUser,
		"do_date":         doDate,
	})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update %s price validity: %w", r.category, res.Error)
	}
	return res.RowsAffected, nil
}

// UpdateRemark sets the remark of an active row
func (r *PriceSetRepositoryImpl[A, E]) UpdateRemark(ctx context.Context, id uint, remark *string) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finishWrite(db, shouldCommit, err) }()

	res := db.Model(new(A)).Where("id = ?", id).Update("remark", remark)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s price remark: %w", r.category, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ByFilter retrieves rows of set matching filter
func (r *PriceSetRepositoryImpl[A, E]) ByFilter(ctx context.Context, set models.PriceSet, filter models.PricedPartFilter, orderBy string, limit, offset int) ([]models.PricedPart, error) {
	if orderBy == "" {
		orderBy = "id DESC"
	}
	db := r.getDB(ctx)

	switch set {
	case models.PriceSetActive:
		return findParts(r.applyFilter(db.Model(new(A)), filter), r.active, orderBy, limit, offset, false)
	case models.PriceSetExpired:
		return findParts(r.applyFilter(db.Model(new(E)), filter), r.expired, orderBy, limit, offset, false)
	default:
		return nil, fmt.Errorf("unknown price set %q", set)
	}
}

// Count returns the number of rows of set matching filter
func (r *PriceSetRepositoryImpl[A, E]) Count(ctx context.Context, set models.PriceSet, filter models.PricedPartFilter) (int64, error) {
	db := r.getDB(ctx)

	var query *gorm.DB
	switch set {
	case models.PriceSetActive:
		query = db.Model(new(A))
	case models.PriceSetExpired:
		query = db.Model(new(E))
	default:
		return 0, fmt.Errorf("unknown price set %q", set)
	}

	var count int64
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s %s prices: %w", set, r.category, err)
	}
	return count, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PriceSetRepositoryImpl[A, E]) applyFilter(query *gorm.DB, filter models.PricedPartFilter) *gorm.DB {
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.BillDetailID != nil {
		query = query.Where("bill_detail_id = ?", *filter.BillDetailID)
	}
	if filter.IsPreProBind != nil {
		query = query.Where("is_pre_pro_bind = ?", *filter.IsPreProBind)
	}
	if filter.AskDateFrom != nil {
		query = query.Where("ask_date >= ?", *filter.AskDateFrom)
	}
	if filter.AskDateTo != nil {
		query = query.Where("ask_date <= ?", *filter.AskDateTo)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	if filter.Keyword != nil && strings.TrimSpace(*filter.Keyword) != "" {
		like := "%" + strings.TrimSpace(*filter.Keyword) + "%"
		conds := make([]string, 0, len(r.keywordColumns))
		args := make([]any, 0, len(r.keywordColumns))
		for _, col := range r.keywordColumns {
			conds = append(conds, col+" ILIKE ?")
			args = append(args, like)
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return query
}

func findParts[R any](query *gorm.DB, table priceTable[R], orderBy string, limit, offset int, forUpdate bool) ([]models.PricedPart, error) {
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	query = query.Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*R
	if err := query.Find(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.PricedPart{}, nil
		}
		return nil, fmt.Errorf("failed to find price records: %w", err)
	}

	parts := make([]models.PricedPart, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, table.toPart(row))
	}
	return parts, nil
}

func insertParts[R any](db *gorm.DB, table priceTable[R], parts []*models.PricedPart) error {
	rows := make([]*R, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, table.fromPart(*p))
	}
	if err := db.CreateInBatches(rows, 100).Error; err != nil {
		return fmt.Errorf("failed to insert price records: %w", err)
	}
	for i, row := range rows {
		parts[i].ID = table.id(row)
	}
	return nil
}
