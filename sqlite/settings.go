package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/tracestrip"
)

// Compile-time interface verification.
var _ tracestrip.SettingsService = (*SettingsService)(nil)

const settingsKey = "options"

// SettingsService implements tracestrip.SettingsService using SQLite.
// Settings are stored as a single JSON document.
type SettingsService struct {
	db *DB
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *DB) *SettingsService {
	return &SettingsService{db: db}
}

// FindSettings returns the stored settings, or the defaults if none are stored.
// Stored JSON is decoded over the defaults, so keys added later keep their
// default values and unknown keys are ignored.
func (s *SettingsService) FindSettings(ctx context.Context) (*tracestrip.Settings, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", settingsKey).Scan(&value)
	if err == sql.ErrNoRows {
		return tracestrip.DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}

	settings := tracestrip.DefaultSettings()
	if err := json.Unmarshal([]byte(value), settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and stores settings.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings *tracestrip.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, settingsKey, string(value), formatTime(time.Now()))

	return err
}
