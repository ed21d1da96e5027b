package goquery_test

import (
	"testing"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frenchCartHTML = `<!DOCTYPE html>
<html lang="fr">
<head><title>Votre panier</title></head>
<body>
<h1>Votre panier</h1>
<table class="cart-table">
<tr><th>Produit</th><th>Qté</th><th>Prix</th><th>Total</th></tr>
<tr>
  <td><a href="/p/the-vert">Thé vert Bio</a></td>
  <td><input type="number" value="2"></td>
  <td>3,50 €</td>
  <td>7,00 €</td>
</tr>
<tr>
  <td><a href="/p/cafe-moulu">Café moulu</a></td>
  <td>Qté : 1</td>
  <td>4,20 €</td>
  <td>4,20 €</td>
</tr>
</table>
<p class="cart-total">Total : 11,20 €</p>
</body>
</html>`

func TestCartExtractor_FrenchCart(t *testing.T) {
	t.Parallel()

	extractor := goquery.NewCartExtractor()

	cart, err := extractor.ExtractCart(frenchCartHTML, "https://shop.example/panier")

	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	assert.Equal(t, "Thé vert Bio", cart.Items[0].Title)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "3.5", cart.Items[0].UnitPrice)
	assert.Equal(t, "7", cart.Items[0].LineTotal)
	assert.Equal(t, "https://shop.example/p/the-vert", cart.Items[0].ProductURL)

	assert.Equal(t, "Café moulu", cart.Items[1].Title)
	assert.Equal(t, 1, cart.Items[1].Quantity)
	assert.Equal(t, "4.2", cart.Items[1].UnitPrice)

	assert.Equal(t, "EUR", cart.Currency)
	assert.Equal(t, "11.2", cart.Total)
}

func TestCartExtractor_ListCart(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<ul class="basket-items">
<li><a href="https://shop.example/p/oats">Rolled Oats</a> x 3 — $2.50</li>
<li><span class="item-name">Loose item without price</span></li>
</ul>
</body></html>`

	extractor := goquery.NewCartExtractor()

	cart, err := extractor.ExtractCart(html, "https://shop.example/cart")

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Rolled Oats", cart.Items[0].Title)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "2.5", cart.Items[0].UnitPrice)
	assert.Equal(t, "USD", cart.Currency)
}

func TestCartExtractor_NoItems(t *testing.T) {
	t.Parallel()

	extractor := goquery.NewCartExtractor()

	_, err := extractor.ExtractCart("<html><body><p>Panier vide</p></body></html>", "https://shop.example/panier")

	require.Error(t, err)
	assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
}

func TestCartExtractor_InvalidSourceURL(t *testing.T) {
	t.Parallel()

	extractor := goquery.NewCartExtractor()

	_, err := extractor.ExtractCart("<html></html>", "://bad")

	require.Error(t, err)
	assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
}
