package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// SettingsService orchestrates application settings operations.
type SettingsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store store.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: logger,
	}
}

// GetSetting returns a setting by key.
// Absence is reported through the bool, not an error.
func (s *SettingsService) GetSetting(ctx context.Context, key string) (*domain.Setting, bool, error) {
	setting, err := s.store.GetSetting(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return setting, true, nil
}

// SetSetting stores a setting value, replacing any previous value.
func (s *SettingsService) SetSetting(ctx context.Context, key string, value json.RawMessage) (*domain.Setting, error) {
	if err := s.store.SetSetting(ctx, key, value); err != nil {
		return nil, err
	}

	setting, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return nil, err
	}

	s.logger.Info("setting updated", "key", key)
	return setting, nil
}

// DeleteSetting removes a setting. Deleting an absent key is an error.
func (s *SettingsService) DeleteSetting(ctx context.Context, key string) error {
	if err := s.store.DeleteSetting(ctx, key); err != nil {
		return err
	}

	s.logger.Info("setting deleted", "key", key)
	return nil
}
