package sqlite

import (
	"context"
	"database/sql"

	whatfits "github.com/WiwiC/WhatFits"
)

// Compile-time interface verification.
var _ whatfits.SettingStore = (*SettingStore)(nil)

// SettingStore implements whatfits.SettingStore using SQLite.
type SettingStore struct {
	db *DB
}

// NewSettingStore creates a new SettingStore.
func NewSettingStore(db *DB) *SettingStore {
	return &SettingStore{db: db}
}

// GetSetting returns the value for a key.
func (s *SettingStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = ?
	`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", whatfits.Errorf(whatfits.ENOTFOUND, "setting %q not found", key)
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

// SetSetting stores a value, replacing any previous one.
func (s *SettingStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// DeleteSetting removes a key. Removing an absent key is not an error.
func (s *SettingStore) DeleteSetting(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
	return err
}
