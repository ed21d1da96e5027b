package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	whatfits "github.com/WiwiC/WhatFits"
)

// Ensure Detector implements whatfits.PageDetector at compile time.
var _ whatfits.PageDetector = (*Detector)(nil)

// Detector classifies pages as product or cart pages from structural
// markers: JSON-LD and microdata for products, bilingual cart headings
// and quantity controls for carts.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// cartHeadingMarkers are folded FR/EN phrases that identify a cart page
// when found in the page title or a top-level heading.
var cartHeadingMarkers = []string{
	"votre panier", "mon panier", "panier", "your cart", "my cart",
	"shopping cart", "your basket", "my basket", "shopping basket",
}

// addToCartMarkers are folded FR/EN phrases on purchase buttons that
// identify a product page.
var addToCartMarkers = []string{
	"ajouter au panier", "add to cart", "add to basket", "add to bag",
	"acheter", "buy now",
}

// Detect analyzes HTML and returns the identified page kind.
// Returns PageKindUnknown if the page cannot be classified.
func (d *Detector) Detect(html string) whatfits.PageKind {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return whatfits.PageKindUnknown
	}

	// Cart headings first: cart pages may embed product structured
	// data for their line items.
	if d.hasCartHeading(doc) {
		return whatfits.PageKindCart
	}

	// Product structured data is the most reliable product marker.
	if hasProductJSONLD(doc) {
		return whatfits.PageKindProduct
	}
	if doc.Find("[itemtype*='schema.org/Product']").Length() > 0 {
		return whatfits.PageKindProduct
	}
	if ogType, ok := metaContent(doc, "meta[property='og:type']"); ok {
		if strings.Contains(strings.ToLower(ogType), "product") {
			return whatfits.PageKindProduct
		}
	}

	// Purchase button on the page body.
	if d.hasAddToCart(doc) {
		return whatfits.PageKindProduct
	}

	// Quantity controls inside a cart-ish container.
	if doc.Find("[class*='cart'] input[type='number'], [class*='panier'] input[type='number'], [class*='basket'] input[type='number']").Length() > 0 {
		return whatfits.PageKindCart
	}

	return whatfits.PageKindUnknown
}

func (d *Detector) hasCartHeading(doc *goquery.Document) bool {
	found := false
	doc.Find("title, h1, h2").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := whatfits.Fold(collapse(sel.Text()))
		for _, marker := range cartHeadingMarkers {
			if text == marker || strings.HasPrefix(text, marker+" ") {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func (d *Detector) hasAddToCart(doc *goquery.Document) bool {
	found := false
	doc.Find("button, input[type='submit'], a[role='button'], [class*='add-to-cart'], [class*='addtocart']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if text == "" {
			text, _ = sel.Attr("value")
		}
		folded := whatfits.Fold(collapse(text))
		for _, marker := range addToCartMarkers {
			if strings.Contains(folded, marker) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// metaContent returns the content attribute of the first element
// matching the selector.
func metaContent(doc *goquery.Document, selector string) (string, bool) {
	content, exists := doc.Find(selector).First().Attr("content")
	if !exists || strings.TrimSpace(content) == "" {
		return "", false
	}
	return strings.TrimSpace(content), true
}
