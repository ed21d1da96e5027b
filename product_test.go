package whatfits_test

import (
	"testing"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires source URL", func(t *testing.T) {
		t.Parallel()

		p := &whatfits.Product{Title: "Café moulu"}
		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
	})

	t.Run("requires title", func(t *testing.T) {
		t.Parallel()

		p := &whatfits.Product{SourceURL: "https://shop.example/p/1"}
		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
	})

	t.Run("accepts minimal product", func(t *testing.T) {
		t.Parallel()

		p := &whatfits.Product{SourceURL: "https://shop.example/p/1", Title: "Café moulu"}
		assert.NoError(t, p.Validate())
	})
}

func TestProduct_FindSection(t *testing.T) {
	t.Parallel()

	p := &whatfits.Product{
		Sections: []whatfits.Section{
			{Label: "nutrition", Content: "60 kcal"},
			{Label: "ingredients", Content: "lait"},
		},
	}

	assert.Equal(t, "60 kcal", p.FindSection("nutrition"))
	assert.Empty(t, p.FindSection("storage"))
}

func TestCart_Validate(t *testing.T) {
	t.Parallel()

	cart := &whatfits.Cart{SourceURL: "https://shop.example/cart"}
	err := cart.Validate()

	require.Error(t, err)
	assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))

	cart.Items = []whatfits.CartItem{{Title: "Thé vert", Quantity: 1}}
	assert.NoError(t, cart.Validate())
}
