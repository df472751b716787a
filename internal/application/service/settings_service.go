package service

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/repository"
)

// SettingsService manages the store settings singleton
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the store settings, creating defaults on first call
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.StoreSettings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettingsInput represents the update settings input. Nil fields keep
// their current value.
type UpdateSettingsInput struct {
	StoreName     *string
	Address       *string
	Phone         *string
	TaxID         *string
	Currency      *string
	ReceiptFooter *string
	PointsEnabled *bool
}

// UpdateSettings applies a partial update to the store settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		settings.StoreName = *input.StoreName
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Phone != nil {
		settings.Phone = *input.Phone
	}
	if input.TaxID != nil {
		settings.TaxID = *input.TaxID
	}
	if input.Currency != nil {
		settings.Currency = *input.Currency
	}
	if input.ReceiptFooter != nil {
		settings.ReceiptFooter = *input.ReceiptFooter
	}
	if input.PointsEnabled != nil {
		settings.PointsEnabled = *input.PointsEnabled
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
