package businessflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// QuoteFlow records supplier quotes against bill lines and annotates active prices.
type QuoteFlow interface {
	SubmitQuote(ctx context.Context, req *dto.SubmitQuoteRequest, operatorID uint, username string, metadata *ClientMetadata) (*dto.PriceRecordDTO, error)
	UpdateRemark(ctx context.Context, category string, id uint, req *dto.UpdatePriceRemarkRequest, operatorID uint, metadata *ClientMetadata) (*dto.PriceRecordDTO, error)
}

type QuoteFlowImpl struct {
	priceRepos          repository.PriceRepositories
	billRepo            repository.BillRepository
	supplierRepo        repository.SupplierRepository
	auditRepo           repository.AuditLogRepository
	txManager           repository.TxManager
	settings            SettingFlow
	defaultValidityDays int
	logger              *zap.Logger
	now                 func() time.Time
}

func NewQuoteFlow(
	priceRepos repository.PriceRepositories,
	billRepo repository.BillRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditLogRepository,
	txManager repository.TxManager,
	settings SettingFlow,
	defaultValidityDays int,
	logger *zap.Logger,
) QuoteFlow {
	if defaultValidityDays < 1 {
		defaultValidityDays = utils.DefaultPriceValidityDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteFlowImpl{
		priceRepos:          priceRepos,
		billRepo:            billRepo,
		supplierRepo:        supplierRepo,
		auditRepo:           auditRepo,
		txManager:           txManager,
		settings:            settings,
		defaultValidityDays: defaultValidityDays,
		logger:              logger,
		now:                 utils.UTCNow,
	}
}

func (f *QuoteFlowImpl) SubmitQuote(ctx context.Context, req *dto.SubmitQuoteRequest, operatorID uint, username string, metadata *ClientMetadata) (*dto.PriceRecordDTO, error) {
	if req == nil || req.Price == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "price is required", nil)
	}

	detail, err := f.billRepo.DetailByID(ctx, req.BillDetailID)
	if err != nil {
		return nil, NewBusinessError("GET_BILL_DETAIL_FAILED", "Failed to get bill detail", err)
	}
	if detail == nil {
		return nil, NewBusinessError("BILL_DETAIL_NOT_FOUND", "Bill detail not found", ErrBillDetailNotFound)
	}
	repo, ok := f.priceRepos.For(detail.Category)
	if !ok {
		return nil, NewBusinessError("INVALID_CATEGORY", "invalid category", ErrInvalidPartCategory)
	}

	supplier, err := f.supplierRepo.ByID(ctx, req.SupplierID)
	if err != nil {
		return nil, NewBusinessError("GET_SUPPLIER_FAILED", "Failed to get supplier", err)
	}
	if supplier == nil {
		return nil, NewBusinessError("SUPPLIER_NOT_FOUND", "Supplier not found", ErrSupplierNotFound)
	}
	if !utils.IsTrue(supplier.IsActive) {
		return nil, NewBusinessError("SUPPLIER_INACTIVE", "Supplier is inactive", ErrSupplierInactive)
	}

	days := f.validityDays(ctx, req.ValidityDays)
	if days < 1 {
		return nil, NewBusinessError("INVALID_VALIDITY", "Validity days must be at least 1", ErrInvalidValidity)
	}

	now := f.now()
	bind := models.PreProBindNone
	if req.IsPreProBind {
		bind = models.PreProBindBound
	}
	part := &models.PricedPart{
		Category:     detail.Category,
		BillDetailID: &detail.ID,
		SupplierID:   &supplier.ID,
		AskDate:      &now,
		Price:        req.Price,
		BasicsPrice:  req.BasicsPrice,
		AddPrice:     req.AddPrice,
		Timeout:      -days,
		IsPreProBind: bind,
		DoUser:       utils.NilIfEmpty(username),
		DoDate:       &now,
		Remark:       req.Remark,
	}
	if detail.Category == models.PartCategoryAttachment {
		part.Attachment = detail.AttachmentSpec()
	} else {
		part.ValveBody = detail.ValveBodySpec()
	}

	err = f.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.SaveBatch(txCtx, models.PriceSetActive, []*models.PricedPart{part}); err != nil {
			return err
		}
		audit := newAuditLog(&operatorID, models.AuditActionQuoteSubmitted, string(detail.Category), &part.ID,
			fmt.Sprintf("quote from supplier %s for bill detail %d", supplier.Code, detail.ID), metadata,
			map[string]any{"validity_days": days, "supplier_id": supplier.ID})
		return f.auditRepo.Save(txCtx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("SUBMIT_QUOTE_FAILED", "Failed to submit quote", err)
	}

	f.logger.Info("quote submitted",
		zap.Uint("price_id", part.ID),
		zap.String("category", string(detail.Category)),
		zap.Uint("bill_detail_id", detail.ID),
		zap.Int("validity_days", days),
	)
	out := ToPriceRecordDTO(*part)
	return &out, nil
}

// validityDays prefers the request, then the runtime setting, then configuration
func (f *QuoteFlowImpl) validityDays(ctx context.Context, requested *int) int {
	if requested != nil {
		return *requested
	}
	if f.settings == nil {
		return f.defaultValidityDays
	}
	days := f.settings.IntValue(ctx, utils.PriceValidityDaysSettingKey, f.defaultValidityDays)
	if days < 1 {
		return f.defaultValidityDays
	}
	return days
}

func (f *QuoteFlowImpl) UpdateRemark(ctx context.Context, category string, id uint, req *dto.UpdatePriceRemarkRequest, operatorID uint, metadata *ClientMetadata) (*dto.PriceRecordDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	repo, ok := f.priceRepos.For(models.PartCategory(category))
	if !ok {
		return nil, NewBusinessError("INVALID_CATEGORY", "invalid category", ErrInvalidPartCategory)
	}

	var updated *models.PricedPart
	err := f.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := repo.ByID(txCtx, models.PriceSetActive, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrPriceRecordNotFound
		}
		if err := repo.UpdateRemark(txCtx, id, req.Remark); err != nil {
			return err
		}
		audit := newAuditLog(&operatorID, models.AuditActionPriceRemarkUpdated, category, &id,
			"price remark updated", metadata, map[string]any{"previous": utils.Deref(existing.Remark), "remark": utils.Deref(req.Remark)})
		if err := f.auditRepo.Save(txCtx, audit); err != nil {
			return err
		}
		existing.Remark = req.Remark
		updated = existing
		return nil
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, NewBusinessError("PRICE_RECORD_NOT_FOUND", "Price record not found", err)
		}
		return nil, NewBusinessError("UPDATE_REMARK_FAILED", "Failed to update remark", err)
	}

	out := ToPriceRecordDTO(*updated)
	return &out, nil
}
