package repository

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
)

// SettingsRepository defines the interface for the store settings singleton
type SettingsRepository interface {
	// Get returns the settings row, creating the default one if absent.
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Update(ctx context.Context, settings *entity.StoreSettings) error
}
