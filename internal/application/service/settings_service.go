package service

import (
	"context"
	"log"
	"strings"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// StoreSettings is the typed view of the store's key/value settings
type StoreSettings struct {
	GSTRate decimal.Decimal `json:"gst_rate"`
}

// SettingsProvider supplies the store settings in effect for one request
type SettingsProvider interface {
	StoreSettings(ctx context.Context) (*StoreSettings, error)
}

var maxGSTRate = decimal.NewFromInt(100)

// SettingsService handles settings-related business logic
type SettingsService struct {
	settingsRepo   repository.SettingsRepository
	defaultGSTRate decimal.Decimal
}

// NewSettingsService creates a new settings service. defaultGSTRate applies
// when the settings table holds no usable gst_rate.
func NewSettingsService(settingsRepo repository.SettingsRepository, defaultGSTRate decimal.Decimal) *SettingsService {
	return &SettingsService{
		settingsRepo:   settingsRepo,
		defaultGSTRate: defaultGSTRate,
	}
}

// StoreSettings reads and parses the settings the order engine depends on
func (s *SettingsService) StoreSettings(ctx context.Context) (*StoreSettings, error) {
	setting, err := s.settingsRepo.Get(ctx, entity.SettingKeyGSTRate)
	if err != nil {
		return nil, err
	}

	rate := s.defaultGSTRate
	if setting != nil {
		parsed, err := decimal.NewFromString(strings.TrimSpace(setting.Value))
		if err != nil || parsed.IsNegative() {
			log.Printf("Warning: ignoring invalid %s setting %q, using %s", entity.SettingKeyGSTRate, setting.Value, rate)
		} else {
			rate = parsed
		}
	}

	return &StoreSettings{GSTRate: rate}, nil
}

// UpdateGSTRate stores a new GST percentage. Orders placed afterwards use it;
// existing order totals are not recomputed.
func (s *SettingsService) UpdateGSTRate(ctx context.Context, rate decimal.Decimal) (*StoreSettings, error) {
	if rate.IsNegative() || rate.GreaterThan(maxGSTRate) {
		return nil, apperror.NewFieldError("gst_rate", "gst_rate must be between 0 and 100")
	}

	setting := &entity.Setting{Key: entity.SettingKeyGSTRate, Value: rate.String()}
	if err := s.settingsRepo.Upsert(ctx, setting); err != nil {
		return nil, apperror.NewInternalError("Failed to save settings", err)
	}

	log.Printf("GST rate set to %s%%", rate)
	return s.StoreSettings(ctx)
}
