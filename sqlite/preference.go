package sqlite

import (
	"context"
	"database/sql"
	"time"

	whatfits "github.com/WiwiC/WhatFits"
)

// Compile-time interface verification.
var _ whatfits.PreferenceService = (*PreferenceService)(nil)

// PreferenceService implements whatfits.PreferenceService using SQLite.
// There is a single preferences row with id 1.
type PreferenceService struct {
	db *DB
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(db *DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// LoadPreferences returns the stored preferences, or a zero-value
// record when nothing has been saved yet.
func (s *PreferenceService) LoadPreferences(ctx context.Context) (*whatfits.Preferences, error) {
	var prefs whatfits.Preferences
	var avoid, allergens, labels, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT diet, avoid_ingredients, allergens, prefer_labels, max_unit_price, notes, updated_at
		FROM preferences
		WHERE id = 1
	`).Scan(&prefs.Diet, &avoid, &allergens, &labels, &prefs.MaxUnitPrice, &prefs.Notes, &updatedAt)

	if err == sql.ErrNoRows {
		return &whatfits.Preferences{}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := decodeJSON(avoid, "avoid_ingredients", &prefs.AvoidIngredients); err != nil {
		return nil, err
	}
	if err := decodeJSON(allergens, "allergens", &prefs.Allergens); err != nil {
		return nil, err
	}
	if err := decodeJSON(labels, "prefer_labels", &prefs.PreferLabels); err != nil {
		return nil, err
	}

	prefs.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at")
	if err != nil {
		return nil, err
	}

	return &prefs, nil
}

// SavePreferences normalizes, validates, and stores the record,
// replacing any previous version.
func (s *PreferenceService) SavePreferences(ctx context.Context, prefs *whatfits.Preferences) error {
	prefs.Normalize()
	if err := prefs.Validate(); err != nil {
		return err
	}

	prefs.UpdatedAt = time.Now().UTC()

	avoid, err := encodeJSON(prefs.AvoidIngredients)
	if err != nil {
		return err
	}
	allergens, err := encodeJSON(prefs.Allergens)
	if err != nil {
		return err
	}
	labels, err := encodeJSON(prefs.PreferLabels)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, diet, avoid_ingredients, allergens, prefer_labels, max_unit_price, notes, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			diet = excluded.diet,
			avoid_ingredients = excluded.avoid_ingredients,
			allergens = excluded.allergens,
			prefer_labels = excluded.prefer_labels,
			max_unit_price = excluded.max_unit_price,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, string(prefs.Diet), avoid, allergens, labels, prefs.MaxUnitPrice, prefs.Notes,
		prefs.UpdatedAt.Format(time.RFC3339))

	return err
}
