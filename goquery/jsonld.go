package goquery

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ldProduct holds the fields extracted from a schema.org Product node.
type ldProduct struct {
	Name        string
	Brand       string
	Description string
	Price       string // normalized decimal
	Currency    string
}

// hasProductJSONLD reports whether the document carries a schema.org
// Product node in any ld+json script.
func hasProductJSONLD(doc *goquery.Document) bool {
	_, ok := parseProductJSONLD(doc)
	return ok
}

// parseProductJSONLD scans the document's ld+json scripts for the
// first schema.org Product node and extracts its fields. Arrays and
// @graph wrappers are searched recursively.
func parseProductJSONLD(doc *goquery.Document) (*ldProduct, bool) {
	var product *ldProduct

	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var node any
		if err := json.Unmarshal([]byte(sel.Text()), &node); err != nil {
			return true // malformed scripts are common; keep scanning
		}
		if found := findProductNode(node); found != nil {
			product = extractLDProduct(found)
			return false
		}
		return true
	})

	return product, product != nil
}

// findProductNode searches a decoded JSON-LD value for a Product node.
func findProductNode(node any) map[string]any {
	switch v := node.(type) {
	case map[string]any:
		if isProductType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findProductNode(graph)
		}
	case []any:
		for _, item := range v {
			if found := findProductNode(item); found != nil {
				return found
			}
		}
	}
	return nil
}

// isProductType handles @type as a string or a list of strings.
func isProductType(raw any) bool {
	switch t := raw.(type) {
	case string:
		return strings.EqualFold(t, "Product")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Product") {
				return true
			}
		}
	}
	return false
}

func extractLDProduct(node map[string]any) *ldProduct {
	p := &ldProduct{
		Name:        ldString(node["name"]),
		Description: ldString(node["description"]),
	}

	// brand may be a string or a nested Brand object.
	switch brand := node["brand"].(type) {
	case string:
		p.Brand = brand
	case map[string]any:
		p.Brand = ldString(brand["name"])
	}

	// offers may be a single object or a list; take the first offer
	// that carries a price.
	for _, offer := range ldOffers(node["offers"]) {
		price, ok := ldAmount(offer["price"])
		if !ok {
			continue
		}
		p.Price = price
		p.Currency = ldString(offer["priceCurrency"])
		break
	}

	return p
}

func ldOffers(raw any) []map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return []map[string]any{v}
	case []any:
		offers := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				offers = append(offers, m)
			}
		}
		return offers
	}
	return nil
}

func ldString(raw any) string {
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}

// ldAmount normalizes a JSON-LD price, which may be a number or a
// string in either decimal convention.
func ldAmount(raw any) (string, bool) {
	switch v := raw.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case string:
		if value, _, ok := parseAmountString(v); ok {
			return value, true
		}
	}
	return "", false
}
