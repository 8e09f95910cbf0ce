package businessflow

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/app/services"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// SettingFlow reads and edits runtime settings. Reads are served from a TTL cache
// that is dropped for a key as soon as it is written.
type SettingFlow interface {
	ListSettings(ctx context.Context) ([]dto.SystemSettingDTO, error)
	GetSetting(ctx context.Context, key string) (*dto.SystemSettingDTO, error)
	UpsertSetting(ctx context.Context, key string, req *dto.UpsertSettingRequest, operatorID uint, username string, metadata *ClientMetadata) (*dto.SystemSettingDTO, error)
	// IntValue returns the integer value of key, or fallback when it is unset or malformed
	IntValue(ctx context.Context, key string, fallback int) int
}

type SettingFlowImpl struct {
	settingRepo repository.SystemSettingRepository
	auditRepo   repository.AuditLogRepository
	txManager   repository.TxManager
	cache       services.SettingCache
	logger      *zap.Logger
}

func NewSettingFlow(
	settingRepo repository.SystemSettingRepository,
	auditRepo repository.AuditLogRepository,
	txManager repository.TxManager,
	cache services.SettingCache,
	logger *zap.Logger,
) SettingFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingFlowImpl{
		settingRepo: settingRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		cache:       cache,
		logger:      logger,
	}
}

func (f *SettingFlowImpl) ListSettings(ctx context.Context) ([]dto.SystemSettingDTO, error) {
	rows, err := f.settingRepo.List(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_SETTINGS_FAILED", "Failed to list settings", err)
	}
	out := make([]dto.SystemSettingDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToSystemSettingDTO(*row))
	}
	return out, nil
}

func (f *SettingFlowImpl) GetSetting(ctx context.Context, key string) (*dto.SystemSettingDTO, error) {
	row, err := f.settingRepo.ByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, NewBusinessError("GET_SETTING_FAILED", "Failed to get setting", err)
	}
	if row == nil {
		return nil, NewBusinessError("SETTING_NOT_FOUND", "Setting not found", ErrSettingNotFound)
	}
	out := ToSystemSettingDTO(*row)
	return &out, nil
}

func (f *SettingFlowImpl) UpsertSetting(ctx context.Context, key string, req *dto.UpsertSettingRequest, operatorID uint, username string, metadata *ClientMetadata) (*dto.SystemSettingDTO, error) {
	key = strings.TrimSpace(key)
	if req == nil || key == "" {
		return nil, NewBusinessError("INVALID_REQUEST", "key and value are required", ErrInvalidSettingValue)
	}
	value := strings.TrimSpace(req.Value)
	if err := validateSettingValue(key, value); err != nil {
		return nil, err
	}

	setting := &models.SystemSetting{
		Key:         key,
		Value:       value,
		Description: req.Description,
		UpdatedBy:   utils.NilIfEmpty(username),
		UpdatedAt:   utils.UTCNow(),
	}
	err := f.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := f.settingRepo.Upsert(txCtx, setting); err != nil {
			return err
		}
		audit := newAuditLog(&operatorID, models.AuditActionSystemSettingUpdate, "system_setting", nil,
			"setting "+key+" updated", metadata, map[string]any{"key": key, "value": value})
		return f.auditRepo.Save(txCtx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("UPSERT_SETTING_FAILED", "Failed to save setting", err)
	}
	f.cache.Delete(key)

	return f.GetSetting(ctx, key)
}

func (f *SettingFlowImpl) IntValue(ctx context.Context, key string, fallback int) int {
	raw, ok := f.cache.Get(key)
	if !ok {
		row, err := f.settingRepo.ByKey(ctx, key)
		if err != nil {
			f.logger.Warn("setting lookup failed", zap.String("key", key), zap.Error(err))
			return fallback
		}
		if row == nil {
			return fallback
		}
		raw = row.Value
		f.cache.Set(key, raw)
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		f.logger.Warn("setting is not an integer", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return n
}

func validateSettingValue(key, value string) error {
	if value == "" {
		return NewBusinessError("INVALID_SETTING_VALUE", "value is required", ErrInvalidSettingValue)
	}
	if key == utils.PriceValidityDaysSettingKey {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return NewBusinessErrorf("INVALID_SETTING_VALUE", "%s must be a positive integer", ErrInvalidSettingValue, key)
		}
	}
	return nil
}
