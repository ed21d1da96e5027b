package whatfits_test

import (
	"testing"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gelatine", whatfits.Fold("Gélatine"))
	assert.Equal(t, "boeuf", whatfits.Fold("Bœuf"))
	assert.Equal(t, "creme fraiche", whatfits.Fold("Crème Fraîche"))
	assert.Equal(t, "already plain", whatfits.Fold("already plain"))
	assert.Empty(t, whatfits.Fold(""))
}

func TestNormalizeIngredients(t *testing.T) {
	t.Parallel()

	t.Run("splits trims lowercases and deduplicates", func(t *testing.T) {
		t.Parallel()

		got := whatfits.NormalizeIngredients("Ingrédients : Lait entier, Sucre; PRÉSURE, lait entier.")

		assert.Equal(t, []string{"lait entier", "sucre", "présure"}, got)
	})

	t.Run("keeps commas inside parentheses", func(t *testing.T) {
		t.Parallel()

		got := whatfits.NormalizeIngredients("farine de blé (gluten, fibres), sel")

		assert.Equal(t, []string{"farine de blé (gluten, fibres)", "sel"}, got)
	})

	t.Run("drops percentage-only tokens", func(t *testing.T) {
		t.Parallel()

		got := whatfits.NormalizeIngredients("tomates, 30%, oignons")

		assert.Equal(t, []string{"tomates", "oignons"}, got)
	})

	t.Run("returns nil for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, whatfits.NormalizeIngredients(""))
		assert.Nil(t, whatfits.NormalizeIngredients("Ingredients: "))
	})
}

func TestNormalizeTerms(t *testing.T) {
	t.Parallel()

	got := whatfits.NormalizeTerms([]string{" Arachide ", "GLUTEN", "arachide", ""})

	assert.Equal(t, []string{"arachide", "gluten"}, got)
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		value    float64
		currency string
		ok       bool
	}{
		{"french euro", "12,99 €", 12.99, "EUR", true},
		{"leading dollar", "$12.99", 12.99, "USD", true},
		{"thousands with comma decimal", "1 299,50 €", 1299.50, "EUR", true},
		{"iso code suffix", "8.50 EUR", 8.50, "EUR", true},
		{"plain integer", "15", 15, "", true},
		{"comma thousands no decimal", "1,299", 1299, "", true},
		{"no amount", "sans prix", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, currency, ok := whatfits.ParseAmount(tt.input)

			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.value, value, 0.001)
				assert.Equal(t, tt.currency, currency)
			}
		})
	}
}

func TestTruncateBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", whatfits.TruncateBytes("abc", 10))
	assert.Equal(t, "ab", whatfits.TruncateBytes("abcd", 2))
	assert.Empty(t, whatfits.TruncateBytes("abc", 0))

	// Never splits a UTF-8 sequence.
	assert.Equal(t, "h", whatfits.TruncateBytes("héllo", 2))
}
