package sqlite_test

import (
	"context"
	"testing"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService_LoadPreferences(t *testing.T) {
	t.Parallel()

	t.Run("returns zero record before first save", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPreferenceService(db)

		prefs, err := svc.LoadPreferences(context.Background())
		require.NoError(t, err)
		assert.True(t, prefs.IsZero())
	})
}

func TestPreferenceService_SavePreferences(t *testing.T) {
	t.Parallel()

	t.Run("round-trips saved preferences", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPreferenceService(db)
		ctx := context.Background()

		prefs := &whatfits.Preferences{
			Diet:             whatfits.DietVegan,
			AvoidIngredients: []string{"huile de palme"},
			Allergens:        []string{"arachides", "soja"},
			PreferLabels:     []string{"organic"},
			MaxUnitPrice:     "15.00",
			Notes:            "Je privilégie les producteurs locaux.",
		}
		require.NoError(t, svc.SavePreferences(ctx, prefs))
		assert.False(t, prefs.UpdatedAt.IsZero(), "UpdatedAt should be set")

		loaded, err := svc.LoadPreferences(ctx)
		require.NoError(t, err)

		assert.Equal(t, whatfits.DietVegan, loaded.Diet)
		assert.Equal(t, []string{"huile de palme"}, loaded.AvoidIngredients)
		assert.Equal(t, []string{"arachides", "soja"}, loaded.Allergens)
		assert.Equal(t, []string{"organic"}, loaded.PreferLabels)
		assert.Equal(t, "15.00", loaded.MaxUnitPrice)
		assert.Equal(t, "Je privilégie les producteurs locaux.", loaded.Notes)
	})

	t.Run("replaces previous record", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPreferenceService(db)
		ctx := context.Background()

		require.NoError(t, svc.SavePreferences(ctx, &whatfits.Preferences{
			Diet: whatfits.DietVegetarian,
		}))
		require.NoError(t, svc.SavePreferences(ctx, &whatfits.Preferences{
			Diet:      whatfits.DietHalal,
			Allergens: []string{"lait"},
		}))

		loaded, err := svc.LoadPreferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, whatfits.DietHalal, loaded.Diet)
		assert.Equal(t, []string{"lait"}, loaded.Allergens)
	})

	t.Run("normalizes term lists before saving", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPreferenceService(db)
		ctx := context.Background()

		prefs := &whatfits.Preferences{
			Allergens: []string{"  Arachides ", "arachides", ""},
		}
		require.NoError(t, svc.SavePreferences(ctx, prefs))

		loaded, err := svc.LoadPreferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"arachides"}, loaded.Allergens)
	})

	t.Run("rejects unknown diet", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPreferenceService(db)

		err := svc.SavePreferences(context.Background(), &whatfits.Preferences{
			Diet: whatfits.Diet("carnivore"),
		})
		require.Error(t, err)
		assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
	})

	t.Run("rejects unparseable price cap", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPreferenceService(db)

		err := svc.SavePreferences(context.Background(), &whatfits.Preferences{
			MaxUnitPrice: "cheap",
		})
		require.Error(t, err)
		assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
	})
}
