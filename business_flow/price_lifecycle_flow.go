package businessflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// PriceLifecycleFlow moves price records between the active and expired sets and
// extends the validity of active ones.
type PriceLifecycleFlow interface {
	// SetPriceStatus never returns an error; failures are reported through the
	// response so every caller sees the same shape.
	SetPriceStatus(ctx context.Context, ids []uint, action string, extendDays *int, currentUser *string, entityType string) dto.SetPriceStatusResponse
	Migrate(ctx context.Context, category models.PartCategory, ids []uint, fromExpired bool, actingUser *string) (int64, error)
	Extend(ctx context.Context, category models.PartCategory, ids []uint, days int, actingUser *string) (int64, error)
}

// PriceLifecycleFlowImpl implements PriceLifecycleFlow
type PriceLifecycleFlowImpl struct {
	priceRepos repository.PriceRepositories
	txManager  repository.TxManager
	logger     *zap.Logger
	now        func() time.Time
}

func NewPriceLifecycleFlow(priceRepos repository.PriceRepositories, txManager repository.TxManager, logger *zap.Logger) PriceLifecycleFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceLifecycleFlowImpl{
		priceRepos: priceRepos,
		txManager:  txManager,
		logger:     logger,
		now:        utils.UTCNow,
	}
}

func (f *PriceLifecycleFlowImpl) SetPriceStatus(ctx context.Context, ids []uint, action string, extendDays *int, currentUser *string, entityType string) dto.SetPriceStatusResponse {
	count, err := f.setPriceStatus(ctx, ids, action, extendDays, currentUser, entityType)
	f.record(action, entityType, err)
	if err != nil {
		if !IsValidationError(err) {
			f.logger.Error("price status change failed",
				zap.String("category", entityType),
				zap.String("action", action),
				zap.Uints("ids", ids),
				zap.Error(err),
			)
			return dto.SetPriceStatusResponse{Success: false, Message: "Failed to update price status"}
		}
		return dto.SetPriceStatusResponse{Success: false, Message: validationMessage(err)}
	}

	f.logger.Info("price status changed",
		zap.String("category", entityType),
		zap.String("action", action),
		zap.Int64("count", count),
		zap.Stringp("user", currentUser),
	)
	return dto.SetPriceStatusResponse{
		Success: true,
		Message: fmt.Sprintf("%d price record(s) updated", count),
		Count:   count,
	}
}

func (f *PriceLifecycleFlowImpl) setPriceStatus(ctx context.Context, ids []uint, action string, extendDays *int, currentUser *string, entityType string) (int64, error) {
	act := models.PriceAction(action)
	if !act.Valid() {
		return 0, ErrInvalidPriceAction
	}
	category := models.PartCategory(entityType)
	if !category.Valid() {
		return 0, ErrInvalidPartCategory
	}
	if len(ids) == 0 {
		return 0, ErrPriceIDsRequired
	}

	switch act {
	case models.PriceActionSetValid:
		return f.Migrate(ctx, category, ids, true, currentUser)
	case models.PriceActionSetExpired:
		return f.Migrate(ctx, category, ids, false, currentUser)
	default:
		if extendDays == nil || *extendDays < 1 {
			return 0, ErrInvalidExtendDays
		}
		return f.Extend(ctx, category, ids, *extendDays, currentUser)
	}
}

// Migrate copies the matching records of the source set into the opposite set and
// deletes the originals in one transaction. Ids missing from the source set are
// ignored, so a batch with no match succeeds with a zero count.
func (f *PriceLifecycleFlowImpl) Migrate(ctx context.Context, category models.PartCategory, ids []uint, fromExpired bool, actingUser *string) (int64, error) {
	repo, ok := f.priceRepos.For(category)
	if !ok {
		return 0, ErrInvalidPartCategory
	}
	if len(ids) == 0 {
		return 0, ErrPriceIDsRequired
	}

	source := models.PriceSetActive
	if fromExpired {
		source = models.PriceSetExpired
	}
	dest := source.Opposite()

	var moved int64
	err := f.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		rows, err := repo.ByIDs(txCtx, source, ids, true)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		now := f.now()
		copies := make([]*models.PricedPart, 0, len(rows))
		sourceIDs := make([]uint, 0, len(rows))
		for _, row := range rows {
			c := row.MigrateTo(dest, actingUser, now)
			copies = append(copies, &c)
			sourceIDs = append(sourceIDs, row.ID)
		}

		if err := repo.SaveBatch(txCtx, dest, copies); err != nil {
			return err
		}
		if _, err := repo.DeleteByIDs(txCtx, source, sourceIDs); err != nil {
			return err
		}
		moved = int64(len(copies))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("migrate %s prices from %s: %w", category, source, err)
	}
	return moved, nil
}

// Extend rewrites the validity window of the matching active records. Every record
// in the batch takes the binding flag of the lowest id.
func (f *PriceLifecycleFlowImpl) Extend(ctx context.Context, category models.PartCategory, ids []uint, days int, actingUser *string) (int64, error) {
	repo, ok := f.priceRepos.For(category)
	if !ok {
		return 0, ErrInvalidPartCategory
	}
	if days < 1 {
		return 0, ErrInvalidExtendDays
	}
	if len(ids) == 0 {
		return 0, ErrNoActivePriceRecords
	}

	var updated int64
	err := f.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		rows, err := repo.ByIDs(txCtx, models.PriceSetActive, ids, true)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrNoActivePriceRecords
		}

		matched := make([]uint, 0, len(rows))
		for _, row := range rows {
			matched = append(matched, row.ID)
		}

		updated, err = repo.UpdateValidity(txCtx, matched, -days, rows[0].IsPreProBind, actingUser, f.now())
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNoActivePriceRecords) {
			return 0, err
		}
		return 0, fmt.Errorf("extend %s prices: %w", category, err)
	}
	return updated, nil
}

func (f *PriceLifecycleFlowImpl) record(action, category string, err error) {
	if !models.PriceAction(action).Valid() {
		action = "unknown"
	}
	if !models.PartCategory(category).Valid() {
		category = "unknown"
	}
	outcome := outcomeSuccess
	switch {
	case err == nil:
	case IsValidationError(err):
		outcome = outcomeRejected
	default:
		outcome = outcomeFailed
	}
	priceStatusTransitions.WithLabelValues(category, action, outcome).Inc()
}

// validationMessage unwraps a business error to its caller-facing text
func validationMessage(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	for _, sentinel := range []error{
		ErrInvalidPriceAction,
		ErrInvalidPartCategory,
		ErrPriceIDsRequired,
		ErrInvalidExtendDays,
		ErrNoActivePriceRecords,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
