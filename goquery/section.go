// Package goquery provides HTML extraction for product and cart pages.
// Extraction is structured-data first (JSON-LD, microdata, meta tags)
// with a generic fuzzy bilingual section pass; there are no
// per-retailer selector chains.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	whatfits "github.com/WiwiC/WhatFits"
)

// headerSelector matches elements that can open a labeled page section.
const headerSelector = "h1, h2, h3, h4, h5, h6, dt, summary"

// sectionVocabulary maps canonical section labels to their folded
// FR/EN header forms. Matching is fuzzy: a header matches when it
// contains one of the forms after folding, so "Liste des ingrédients"
// and "INGREDIENTS:" both resolve to "ingredients".
var sectionVocabulary = map[string][]string{
	"ingredients": {"ingredients", "ingredient", "composition"},
	"allergens":   {"allergenes", "allergens", "allergen", "allergies"},
	"nutrition":   {"nutrition", "valeurs nutritionnelles", "nutrition facts", "nutritional information", "repères nutritionnels"},
	"description": {"description", "about this item", "a propos de cet article", "presentation"},
	"usage":       {"conseils d'utilisation", "mode d'emploi", "how to use", "directions"},
	"storage":     {"conservation", "storage"},
}

// maxHeaderLength guards the fuzzy match against body text that merely
// mentions a vocabulary word. Real section headers are short.
const maxHeaderLength = 60

// sectionLabel resolves a header text to its canonical section label.
func sectionLabel(header string) (string, bool) {
	folded := whatfits.Fold(strings.TrimRight(strings.TrimSpace(header), " :"))
	if folded == "" || len(folded) > maxHeaderLength {
		return "", false
	}
	for canonical, forms := range sectionVocabulary {
		for _, form := range forms {
			if strings.Contains(folded, whatfits.Fold(form)) {
				return canonical, true
			}
		}
	}
	return "", false
}

// ExtractSections walks the document headers in order and returns the
// labeled sections recognized by the bilingual vocabulary. The first
// occurrence of each label wins. Section content is the text of the
// header's following siblings up to the next header; when a header has
// no following siblings (it is the sole child of a wrapper), the
// wrapper's next sibling is used instead.
func ExtractSections(doc *goquery.Document) []whatfits.Section {
	var sections []whatfits.Section
	seen := make(map[string]struct{})

	doc.Find(headerSelector).Each(func(_ int, sel *goquery.Selection) {
		label, ok := sectionLabel(sel.Text())
		if !ok {
			return
		}
		if _, dup := seen[label]; dup {
			return
		}

		content := sectionText(sel)
		if content == "" {
			return
		}

		seen[label] = struct{}{}
		sections = append(sections, whatfits.Section{Label: label, Content: content})
	})

	return sections
}

// sectionText collects the content following a section header.
func sectionText(header *goquery.Selection) string {
	text := collapse(header.NextUntil(headerSelector).Text())
	if text != "" {
		return text
	}
	// Header is alone in its wrapper; take the wrapper's next sibling.
	return collapse(header.Parent().Next().Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
