package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// SettingRepository handles the key/value settings table
type SettingRepository struct {
	db DBTX
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db DBTX) *SettingRepository {
	return &SettingRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *SettingRepository) WithTx(tx *sqlx.Tx) *SettingRepository {
	return &SettingRepository{db: tx}
}

// Get returns the value of a setting and whether the key exists
func (r *SettingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// GetMany returns the settings for the given keys, missing keys are absent from the map
func (r *SettingRepository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	query, args, err := sqlx.In(`SELECT key, value FROM settings WHERE key IN (?)`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to build settings query: %w", err)
	}

	var settings []models.Setting
	if err := r.db.SelectContext(ctx, &settings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	return values, nil
}

// Set inserts or replaces a setting
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
