package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/reward_bot/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSetting returns the stored value and whether the key exists.
func (r *Repository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return setting.Value, true, nil
}

func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&models.Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	r.logger.Debugf("Setting %s = %q", key, value)
	return nil
}

func (r *Repository) GetAllSettings(ctx context.Context) (map[string]string, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	return values, nil
}

// SeedSettings writes defaults only for keys that are absent.
func (r *Repository) SeedSettings(ctx context.Context, defaults map[string]string) error {
	for key, value := range defaults {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
			Create(&models.Setting{Key: key, Value: value}).Error
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	return nil
}

// CompareAndSetSetting writes value only while the stored value equals
// expected, and reports whether it did.
func (r *Repository) CompareAndSetSetting(ctx context.Context, key, expected, value string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Setting{}).
		Where("key = ? AND value = ?", key, expected).
		Update("value", value)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update setting %s: %w", key, res.Error)
	}
	return res.RowsAffected == 1, nil
}
