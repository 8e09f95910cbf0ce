package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// SystemSettingRepositoryImpl implements SystemSettingRepository interface.
type SystemSettingRepositoryImpl struct {
	*BaseRepository[models.SystemSetting, struct{}]
}

// NewSystemSettingRepository creates a new system setting repository.
func NewSystemSettingRepository(db *gorm.DB) SystemSettingRepository {
	return &SystemSettingRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SystemSetting, struct{}](db),
	}
}

// ByKey retrieves a setting by key.
func (r *SystemSettingRepositoryImpl) ByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	db := r.getDB(ctx)
	var row models.SystemSetting
	if err := db.Where(`"key" = ?`, key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// List returns every setting ordered by key.
func (r *SystemSettingRepositoryImpl) List(ctx context.Context) ([]*models.SystemSetting, error) {
	db := r.getDB(ctx)
	var rows []*models.SystemSetting
	if err := db.Order(`"key" ASC`).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list system settings: %w", err)
	}
	return rows, nil
}

// Upsert inserts the setting or overwrites value, description and editor of an existing key.
func (r *SystemSettingRepositoryImpl) Upsert(ctx context.Context, setting *models.SystemSetting) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finishWrite(db, shouldCommit, err) }()

	setting.UpdatedAt = utils.UTCNow()
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_by", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return fmt.Errorf("failed to upsert system setting %q: %w", setting.Key, err)
	}
	return nil
}
