package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	whatfits "github.com/WiwiC/WhatFits"
)

// Ensure ProductExtractor implements whatfits.ProductExtractor at compile time.
var _ whatfits.ProductExtractor = (*ProductExtractor)(nil)

// ProductExtractor extracts a normalized product record from HTML.
// Extraction precedence: schema.org JSON-LD, then microdata/meta tags,
// then the fuzzy bilingual section pass.
type ProductExtractor struct{}

// NewProductExtractor creates a new ProductExtractor.
func NewProductExtractor() *ProductExtractor {
	return &ProductExtractor{}
}

// containsRe captures a "contains:" / "contient :" allergen
// declaration embedded in ingredient text.
var containsRe = regexp.MustCompile(`(?i)(?:contient|contains|peut contenir(?: des? traces de)?|may contain(?: traces of)?)\s*:?\s*([^.;]+)`)

// ExtractProduct extracts a product record from the page HTML.
// Missing fields default to zero values. Returns EINVALID when the
// page yields no product title at all.
func (e *ProductExtractor) ExtractProduct(html string, sourceURL string) (*whatfits.Product, error) {
	if sourceURL == "" {
		return nil, whatfits.Errorf(whatfits.EINVALID, "source URL required")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, whatfits.Errorf(whatfits.EINVALID, "failed to parse HTML: %v", err)
	}

	product := &whatfits.Product{SourceURL: sourceURL}

	ld, hasLD := parseProductJSONLD(doc)
	if hasLD {
		product.Title = ld.Name
		product.Brand = ld.Brand
		product.Description = ld.Description
		product.Price = ld.Price
		product.Currency = ld.Currency
	}

	e.fillFromMeta(doc, product)
	e.fillFromSections(doc, product)

	product.Labels = extractLabels(doc, product.Title)
	product.Language = detectLanguage(doc)

	if product.Title == "" {
		return nil, whatfits.Errorf(whatfits.EINVALID, "no product title found at %s", sourceURL)
	}
	return product, nil
}

// fillFromMeta fills fields still missing after JSON-LD from meta tags,
// microdata, and the document structure.
func (e *ProductExtractor) fillFromMeta(doc *goquery.Document, product *whatfits.Product) {
	if product.Title == "" {
		if title, ok := metaContent(doc, "meta[property='og:title']"); ok {
			product.Title = title
		} else if h1 := collapse(doc.Find("h1").First().Text()); h1 != "" {
			product.Title = h1
		} else {
			product.Title = collapse(doc.Find("title").First().Text())
		}
	}
	if product.Brand == "" {
		if brand, ok := metaContent(doc, "meta[property='product:brand'], [itemprop='brand']"); ok {
			product.Brand = brand
		} else if brand := collapse(doc.Find("[itemprop='brand']").First().Text()); brand != "" {
			product.Brand = brand
		}
	}
	if product.Description == "" {
		if desc, ok := metaContent(doc, "meta[property='og:description'], meta[name='description']"); ok {
			product.Description = desc
		}
	}
	if product.Price == "" {
		product.Price, product.Currency = extractPrice(doc)
	}
}

// fillFromSections runs the fuzzy section pass and derives the
// ingredient and allergen lists.
func (e *ProductExtractor) fillFromSections(doc *goquery.Document, product *whatfits.Product) {
	product.Sections = ExtractSections(doc)

	raw := product.FindSection("ingredients")
	if raw == "" {
		raw = collapse(doc.Find("[itemprop='ingredients'], [itemprop='recipeIngredient']").First().Text())
	}
	if raw != "" {
		// Split off any embedded allergen declaration before
		// normalizing the ingredient list.
		for _, m := range containsRe.FindAllStringSubmatch(raw, -1) {
			product.Allergens = append(product.Allergens, whatfits.NormalizeIngredients(m[1])...)
		}
		product.Ingredients = whatfits.NormalizeIngredients(containsRe.ReplaceAllString(raw, ""))
	}

	if section := product.FindSection("allergens"); section != "" {
		product.Allergens = append(product.Allergens, whatfits.NormalizeIngredients(section)...)
	}
	product.Allergens = whatfits.NormalizeTerms(product.Allergens)

	if product.Description == "" {
		product.Description = product.FindSection("description")
	}
}

// extractPrice reads the price from microdata or price meta tags.
func extractPrice(doc *goquery.Document) (price, currency string) {
	if amount, ok := metaContent(doc, "meta[property='product:price:amount'], meta[itemprop='price'], [itemprop='price']"); ok {
		if value, cur, ok := parseAmountString(amount); ok {
			if cur == "" {
				if c, ok := metaContent(doc, "meta[property='product:price:currency'], meta[itemprop='priceCurrency'], [itemprop='priceCurrency']"); ok {
					cur = strings.ToUpper(c)
				}
			}
			return value, cur
		}
	}
	if text := collapse(doc.Find("[itemprop='price'], [class*='price']").First().Text()); text != "" {
		if value, cur, ok := parseAmountString(text); ok {
			return value, cur
		}
	}
	return "", ""
}

// extractLabels collects declared marks (bio, vegan, sans gluten, ...)
// from badge-like elements and the product title.
func extractLabels(doc *goquery.Document, title string) []string {
	var labels []string
	seen := make(map[string]struct{})

	add := func(text string) {
		text = collapse(text)
		if text == "" || len(text) > maxHeaderLength {
			return
		}
		canonical, ok := whatfits.CanonicalLabel(text)
		if !ok {
			return
		}
		if _, dup := seen[canonical]; dup {
			return
		}
		seen[canonical] = struct{}{}
		labels = append(labels, text)
	}

	doc.Find("[class*='badge'], [class*='label'], [class*='tag'], [class*='flag']").Each(func(_ int, sel *goquery.Selection) {
		add(sel.Text())
	})

	// Title words such as "Confiture Bio" carry marks too.
	for _, word := range strings.Fields(title) {
		add(word)
	}

	return labels
}

// frenchMarkers are common French function words used as a language
// heuristic when the page declares no lang attribute.
var frenchMarkers = []string{" le ", " la ", " les ", " des ", " une ", " avec ", " pour ", " est "}

// detectLanguage returns "fr" or "en" from the html lang attribute,
// falling back to a French marker count over the body text.
func detectLanguage(doc *goquery.Document) string {
	if lang, exists := doc.Find("html").First().Attr("lang"); exists && len(lang) >= 2 {
		lang = strings.ToLower(lang[:2])
		if lang == "fr" || lang == "en" {
			return lang
		}
	}

	body := " " + whatfits.Fold(collapse(doc.Find("body").Text())) + " "
	if body == "  " {
		return ""
	}
	hits := 0
	for _, marker := range frenchMarkers {
		hits += strings.Count(body, marker)
	}
	if hits >= 3 {
		return "fr"
	}
	return "en"
}

// parseAmountString normalizes an amount string to a decimal string.
func parseAmountString(s string) (value, currency string, ok bool) {
	v, currency, ok := whatfits.ParseAmount(s)
	if !ok {
		return "", "", false
	}
	return strconv.FormatFloat(v, 'f', -1, 64), currency, true
}
