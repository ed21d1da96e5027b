package htmltomarkdown_test

import (
	"testing"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements whatfits.Converter at compile time.
var _ whatfits.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		html := `<p>Confiture de fraises artisanale.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Confiture de fraises artisanale.")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Confiture de fraises</h1><h2>Ingrédients</h2><h3>Conservation</h3>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Confiture de fraises")
		assert.Contains(t, md, "## Ingrédients")
		assert.Contains(t, md, "### Conservation")
	})

	t.Run("converts ingredient lists", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li>Fraises 60%</li><li>Sucre de canne</li><li>Pectine</li></ul>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "- Fraises 60%")
		assert.Contains(t, md, "- Sucre de canne")
		assert.Contains(t, md, "- Pectine")
	})

	t.Run("converts nutrition tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Pour 100 g</th><th>Valeur</th></tr></thead>
<tbody><tr><td>Énergie</td><td>220 kcal</td></tr><tr><td>Sucres</td><td>52 g</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		// Table cells may be padded for alignment, so check for content
		assert.Contains(t, md, "Pour 100 g")
		assert.Contains(t, md, "Énergie")
		assert.Contains(t, md, "220 kcal")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		html := `<p>Peut contenir des <strong>fruits à coque</strong> et des traces de <em>lait</em>.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "**fruits à coque**")
		assert.Contains(t, md, "*lait*")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("")

		require.Error(t, err)
		assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
	})

	t.Run("handles full product description block", func(t *testing.T) {
		t.Parallel()

		html := `<div>
<h1>Granola bio aux noix</h1>
<p>Un granola croustillant préparé en Bretagne.</p>
<h2>Ingrédients</h2>
<ul>
<li>Flocons d'avoine 55%</li>
<li>Noix 20%</li>
<li>Miel</li>
</ul>
<h2>Allergènes</h2>
<p>Contient : <strong>gluten</strong>, <strong>fruits à coque</strong>.</p>
<h2>Valeurs nutritionnelles</h2>
<table>
<thead><tr><th>Pour 100 g</th><th>Valeur</th></tr></thead>
<tbody>
<tr><td>Énergie</td><td>450 kcal</td></tr>
<tr><td>Lipides</td><td>18 g</td></tr>
</tbody>
</table>
</div>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Granola bio aux noix")
		assert.Contains(t, md, "## Ingrédients")
		assert.Contains(t, md, "- Flocons d'avoine 55%")
		assert.Contains(t, md, "**gluten**")
		assert.Contains(t, md, "450 kcal")
	})
}
