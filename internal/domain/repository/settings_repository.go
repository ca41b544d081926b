package repository

import (
	"context"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
)

// SettingsRepository reads the store's key/value settings
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	Upsert(ctx context.Context, setting *entity.Setting) error
}
