package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	whatfits "github.com/WiwiC/WhatFits"
	"golang.org/x/net/html"
)

// Ensure CartExtractor implements whatfits.CartExtractor at compile time.
var _ whatfits.CartExtractor = (*CartExtractor)(nil)

// CartExtractor extracts cart line items from HTML using structural
// heuristics: rows inside cart-ish containers that carry a price, with
// FR/EN quantity and total parsing.
type CartExtractor struct{}

// NewCartExtractor creates a new CartExtractor.
func NewCartExtractor() *CartExtractor {
	return &CartExtractor{}
}

// rowSelector matches candidate cart line containers.
const rowSelector = "[class*='cart'] tr, [class*='panier'] tr, [class*='basket'] tr, " +
	"[class*='cart'] li, [class*='panier'] li, [class*='basket'] li, " +
	"[class*='cart-item'], [class*='line-item'], [data-cart-item]"

// quantityRe matches FR/EN quantity markers in row text: "Qty: 2",
// "Qté : 3", "x 4".
var quantityRe = regexp.MustCompile(`(?i)(?:qty|qt[ée]|quantit[ée]s?)\s*:?\s*(\d+)|(?:^|\s)x\s*(\d+)\b`)

// totalRe matches FR/EN grand-total labels.
var totalRe = regexp.MustCompile(`(?i)^(?:total|sous-total|subtotal|order total|total de la commande)\b`)

// ExtractCart extracts cart line items from the page HTML.
// Returns EINVALID when no line items are found.
func (e *CartExtractor) ExtractCart(rawHTML string, sourceURL string) (*whatfits.Cart, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, whatfits.Errorf(whatfits.EINVALID, "invalid source URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, whatfits.Errorf(whatfits.EINVALID, "failed to parse HTML: %v", err)
	}

	cart := &whatfits.Cart{SourceURL: sourceURL}
	seen := make(map[*html.Node]struct{})

	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		node := row.Get(0)
		if _, dup := seen[node]; dup {
			return
		}
		seen[node] = struct{}{}

		// Skip header rows and rows nested inside an already-seen row.
		if row.Find("th").Length() > 0 {
			return
		}
		if hasSeenAncestor(node, seen) {
			return
		}

		item, ok := extractItem(row, base)
		if !ok {
			return
		}
		if cart.Currency == "" {
			cart.Currency = itemCurrency(row)
		}
		cart.Items = append(cart.Items, item)
	})

	cart.Total = extractTotal(doc)

	if len(cart.Items) == 0 {
		return nil, whatfits.Errorf(whatfits.EINVALID, "no cart items found at %s", sourceURL)
	}
	return cart, nil
}

// hasSeenAncestor reports whether any ancestor of node was already
// extracted as a row, which happens when a line item matches both the
// container and a nested element.
func hasSeenAncestor(node *html.Node, seen map[*html.Node]struct{}) bool {
	for p := node.Parent; p != nil; p = p.Parent {
		if _, ok := seen[p]; ok {
			return true
		}
	}
	return false
}

// extractItem builds a cart item from a candidate row. Rows without a
// parseable price are rejected; they are headings, promos, or chrome.
func extractItem(row *goquery.Selection, base *url.URL) (whatfits.CartItem, bool) {
	text := collapse(row.Text())

	amounts := findAmounts(text)
	if len(amounts) == 0 {
		return whatfits.CartItem{}, false
	}

	item := whatfits.CartItem{
		Title:     itemTitle(row),
		Quantity:  itemQuantity(row, text),
		UnitPrice: amounts[0],
	}
	if item.Title == "" {
		return whatfits.CartItem{}, false
	}
	if len(amounts) > 1 {
		item.LineTotal = amounts[len(amounts)-1]
	}

	if href, exists := row.Find("a[href]").First().Attr("href"); exists {
		if ref, err := url.Parse(href); err == nil {
			item.ProductURL = base.ResolveReference(ref).String()
		}
	}
	return item, true
}

func itemTitle(row *goquery.Selection) string {
	if title := collapse(row.Find("a").First().Text()); title != "" {
		return title
	}
	if title := collapse(row.Find("[class*='name'], [class*='title'], [class*='product']").First().Text()); title != "" {
		return title
	}
	// First cell of a table row.
	return collapse(row.Find("td").First().Text())
}

func itemQuantity(row *goquery.Selection, text string) int {
	if value, exists := row.Find("input[type='number']").First().Attr("value"); exists {
		if qty, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && qty > 0 {
			return qty
		}
	}
	if selected := collapse(row.Find("option[selected]").First().Text()); selected != "" {
		if qty, err := strconv.Atoi(selected); err == nil && qty > 0 {
			return qty
		}
	}
	if m := quantityRe.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if qty, err := strconv.Atoi(raw); err == nil && qty > 0 {
			return qty
		}
	}
	return 1
}

func itemCurrency(row *goquery.Selection) string {
	for _, m := range amountRe.FindAllString(row.Text(), -1) {
		if _, currency, ok := parseAmountString(m); ok && currency != "" {
			return currency
		}
	}
	return ""
}

// findAmounts returns all normalized amounts in the text, in order.
func findAmounts(text string) []string {
	var amounts []string
	for _, m := range amountRe.FindAllString(text, -1) {
		if value, _, ok := parseAmountString(m); ok {
			amounts = append(amounts, value)
		}
	}
	return amounts
}

// amountRe mirrors the root package's amount syntax but requires a
// currency marker on one side, so bare quantities are not mistaken
// for prices in cart rows.
var amountRe = regexp.MustCompile(`(?i)(?:€|\$|£|eur|usd|gbp)\s*\d{1,3}(?:[ \x{202f}\x{00a0},]\d{3})*(?:[.,]\d{1,2})?|\d{1,3}(?:[ \x{202f}\x{00a0},]\d{3})*(?:[.,]\d{1,2})?\s*(?:€|\$|£|eur|usd|gbp)`)

// extractTotal finds the grand total. The last total-labeled element
// wins, since subtotals precede the order total.
func extractTotal(doc *goquery.Document) string {
	total := ""
	doc.Find("tr, li, div, p, dt, dd").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 3 {
			return
		}
		text := collapse(sel.Text())
		if !totalRe.MatchString(text) {
			return
		}
		if amounts := findAmounts(text); len(amounts) > 0 {
			total = amounts[len(amounts)-1]
		}
	})
	return total
}
