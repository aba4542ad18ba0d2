package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/gulfsteel/steelstore-api/pricing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSettings returns every stored setting keyed by name
func GetSettings(ctx context.Context, db *gorm.DB) (map[string]json.RawMessage, error) {
	var rows []models.Setting
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		settings[row.Key] = json.RawMessage(row.ValueJSON)
	}
	return settings, nil
}

// UpsertSettings writes each key, replacing existing values
func UpsertSettings(ctx context.Context, db *gorm.DB, values map[string]json.RawMessage) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no settings given", ErrValidation)
	}

	rows := make([]models.Setting, 0, len(values))
	for key, value := range values {
		if key == "" {
			return fmt.Errorf("%w: setting key is required", ErrValidation)
		}
		if !json.Valid(value) {
			return fmt.Errorf("%w: setting %q is not valid JSON", ErrValidation, key)
		}
		rows = append(rows, models.Setting{Key: key, ValueJSON: string(value)})
	}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value_json", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// LoadFeeConfig reads the fee settings and resolves them against the defaults.
// A malformed setting is logged and ignored so pricing falls back to the default.
func LoadFeeConfig(ctx context.Context, db *gorm.DB) (pricing.FeeConfig, error) {
	settings, err := GetSettings(ctx, db)
	if err != nil {
		return pricing.FeeConfig{}, err
	}
	return pricing.ResolveFeeConfig(feeSettingsFrom(ctx, settings)), nil
}

func feeSettingsFrom(ctx context.Context, settings map[string]json.RawMessage) pricing.FeeSettings {
	var out pricing.FeeSettings

	if raw, ok := settings[models.SettingDeliveryFees]; ok {
		var fees map[pricing.DeliveryMethod]*float64
		if err := json.Unmarshal(raw, &fees); err != nil {
			logger.Warn(ctx, "ignoring malformed setting", logger.String("key", models.SettingDeliveryFees), logger.ErrorF(err))
		} else {
			out.DeliveryFees = fees
		}
	}
	if raw, ok := settings[models.SettingExpressFee]; ok {
		var express pricing.ExpressFeeSettings
		if err := json.Unmarshal(raw, &express); err != nil {
			logger.Warn(ctx, "ignoring malformed setting", logger.String("key", models.SettingExpressFee), logger.ErrorF(err))
		} else {
			out.ExpressFee = &express
		}
	}
	if raw, ok := settings[models.SettingCutBendFee]; ok {
		var cutBend pricing.CutAndBendFeeSettings
		if err := json.Unmarshal(raw, &cutBend); err != nil {
			logger.Warn(ctx, "ignoring malformed setting", logger.String("key", models.SettingCutBendFee), logger.ErrorF(err))
		} else {
			out.CutAndBendFee = &cutBend
		}
	}

	return out
}
