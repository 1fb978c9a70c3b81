package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// GetSetting retrieves a setting by key.
// Returns store.ErrNotFound if no value has been set for the key.
func (s *Store) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM settings WHERE key = ?`, key)

	var (
		setting   domain.Setting
		value     string
		updatedAt string
	)
	err := row.Scan(&setting.Key, &value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("setting %q not found", key))
	}
	if err != nil {
		return nil, ioErr("get setting", err)
	}

	setting.Value = json.RawMessage(value)
	setting.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, ioErr("parse setting time", err)
	}

	return &setting, nil
}

// SetSetting stores a value under key, replacing any previous value.
// The value must be valid JSON; the store imposes no schema beyond that.
func (s *Store) SetSetting(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return store.ErrInvalidInput.WithMessage("setting key is required")
	}
	if !json.Valid(value) {
		return store.ErrInvalidInput.WithMessage(fmt.Sprintf("setting %q value is not valid JSON", key))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key,
		string(value),
		formatTime(time.Now()),
	)
	if err != nil {
		return ioErr("set setting", err)
	}
	return nil
}

// DeleteSetting removes a setting by key.
// Returns store.ErrNotFound if the key has no value.
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return ioErr("delete setting", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return ioErr("rows affected", err)
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(fmt.Sprintf("setting %q not found", key))
	}
	return nil
}
