// Package check provides the product checking pipeline. It coordinates
// fetching, page classification, extraction, deterministic rule
// evaluation, and model judgments for single products and whole carts.
package check

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	whatfits "github.com/WiwiC/WhatFits"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the cart fan-out.
const DefaultConcurrency = 4

// ProgressFunc is called as cart items complete.
type ProgressFunc func(completed, total int, item whatfits.CartItem)

// Checker orchestrates checking of shop pages.
type Checker struct {
	Fetcher       whatfits.Fetcher
	Detector      whatfits.PageDetector
	Extractor     whatfits.ProductExtractor
	CartExtractor whatfits.CartExtractor
	Fallback      whatfits.Extractor // generic content fallback, optional
	Converter     whatfits.Converter // used with Fallback, optional
	Products      whatfits.ProductService
	Judge         whatfits.Judge // optional; findings-only when nil
	TokenCounter  whatfits.TokenCounter
	RateLimiter   whatfits.DomainLimiter
	Concurrency   int
	RetryDelays   []time.Duration
	PromptBudget  int
	Progress      ProgressFunc // optional, cart fan-out only
}

// Result holds the outcome of checking a single product.
type Result struct {
	Product  *whatfits.Product
	Findings []whatfits.Finding
	Cached   bool

	// Judgment is nil when no Judge is configured or the model call
	// failed; JudgmentErr carries the failure so callers can still
	// present the deterministic findings.
	Judgment    *whatfits.Judgment
	JudgmentErr error

	// ContextTokens is the token count of the product context sent to
	// the model, when a TokenCounter is configured.
	ContextTokens int
}

// ItemResult holds the outcome of checking one cart line item.
type ItemResult struct {
	Item   whatfits.CartItem
	Result *Result
	Err    error
}

// CartResult holds the outcome of checking a cart page.
type CartResult struct {
	Cart  *whatfits.Cart
	Items []ItemResult
}

// Failed counts items that could not be checked.
func (r *CartResult) Failed() int {
	var n int
	for _, item := range r.Items {
		if item.Err != nil {
			n++
		}
	}
	return n
}

// Outcome is the result of Check, holding whichever branch the page
// kind selected.
type Outcome struct {
	Kind    whatfits.PageKind
	Product *Result     // set when Kind is PageKindProduct
	Cart    *CartResult // set when Kind is PageKindCart
}

// Check fetches the URL, classifies the page, and runs the matching
// pipeline. An unclassifiable page is treated as a product page, since
// shops mark carts far more consistently than products.
func (c *Checker) Check(ctx context.Context, rawURL string, prefs *whatfits.Preferences) (*Outcome, error) {
	html, err := c.fetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	kind := whatfits.PageKindProduct
	if c.Detector != nil && c.Detector.Detect(html) == whatfits.PageKindCart {
		kind = whatfits.PageKindCart
	}

	if kind == whatfits.PageKindCart {
		cart, err := c.checkCartHTML(ctx, rawURL, html, prefs)
		if err != nil {
			return nil, err
		}
		return &Outcome{Kind: whatfits.PageKindCart, Cart: cart}, nil
	}

	result, err := c.checkProductHTML(ctx, rawURL, html, prefs)
	if err != nil {
		return nil, err
	}
	return &Outcome{Kind: whatfits.PageKindProduct, Product: result}, nil
}

// CheckURL fetches and checks a single product page.
func (c *Checker) CheckURL(ctx context.Context, rawURL string, prefs *whatfits.Preferences) (*Result, error) {
	html, err := c.fetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return c.checkProductHTML(ctx, rawURL, html, prefs)
}

// CheckCart fetches a cart page and checks every line item.
func (c *Checker) CheckCart(ctx context.Context, rawURL string, prefs *whatfits.Preferences) (*CartResult, error) {
	html, err := c.fetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return c.checkCartHTML(ctx, rawURL, html, prefs)
}

// FetchProduct fetches and extracts a product without evaluating rules
// or calling the model. Used by the question flow, which only needs
// the product context.
func (c *Checker) FetchProduct(ctx context.Context, rawURL string) (*whatfits.Product, error) {
	html, err := c.fetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	product, _, err := c.loadProduct(ctx, rawURL, html)
	return product, err
}

// fetchHTML rate-limits and fetches a URL with retry.
func (c *Checker) fetchHTML(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", whatfits.Errorf(whatfits.EINVALID, "invalid URL %q", rawURL)
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, parsed.Host); err != nil {
			return "", err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, rawURL, c.Fetcher.Fetch, nil, delays)
}

// loadProduct returns the product record for a page, reusing the cached
// record when the page content has not changed.
func (c *Checker) loadProduct(ctx context.Context, rawURL, html string) (*whatfits.Product, bool, error) {
	hash := computeHash(html)

	if c.Products != nil {
		cached, err := c.Products.FindProductBySourceURL(ctx, rawURL)
		if err == nil && cached.ContentHash == hash {
			return cached, true, nil
		}
	}

	product, err := c.Extractor.ExtractProduct(html, rawURL)
	if err != nil {
		return nil, false, err
	}
	product.ContentHash = hash

	// When structured extraction found no description, fall back to
	// generic main-content extraction rendered as Markdown.
	if product.Description == "" && c.Fallback != nil && c.Converter != nil {
		if extracted, err := c.Fallback.Extract(html); err == nil && extracted.ContentHTML != "" {
			if markdown, err := c.Converter.Convert(extracted.ContentHTML); err == nil {
				product.Description = markdown
			}
		}
	}

	if c.Products != nil {
		// Replace any stale record. Cache failures do not fail the check.
		_ = c.Products.DeleteProductBySourceURL(ctx, rawURL)
		_ = c.Products.CreateProduct(ctx, product)
	}

	return product, false, nil
}

// checkProductHTML runs the product pipeline on already-fetched HTML.
func (c *Checker) checkProductHTML(ctx context.Context, rawURL, html string, prefs *whatfits.Preferences) (*Result, error) {
	if prefs == nil {
		prefs = &whatfits.Preferences{}
	}

	product, cached, err := c.loadProduct(ctx, rawURL, html)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Product:  product,
		Findings: whatfits.EvaluateProduct(product, prefs),
		Cached:   cached,
	}

	if c.TokenCounter != nil {
		promptContext := whatfits.FormatProductContext(product, c.PromptBudget)
		if tokens, err := c.TokenCounter.CountTokens(ctx, promptContext); err == nil {
			result.ContextTokens = tokens
		}
	}

	if c.Judge != nil {
		judgment, err := c.Judge.JudgeProduct(ctx, product, prefs, result.Findings)
		if err != nil {
			result.JudgmentErr = err
		} else {
			whatfits.EnforceFindings(judgment, result.Findings)
			result.Judgment = judgment
		}
	}

	return result, nil
}

// checkCartHTML extracts a cart and checks each line item. Items with
// a product URL get the full product pipeline; items without one are
// evaluated from the line data alone, with no model call. Per-item
// failures are recorded, not fatal.
func (c *Checker) checkCartHTML(ctx context.Context, rawURL, html string, prefs *whatfits.Preferences) (*CartResult, error) {
	if prefs == nil {
		prefs = &whatfits.Preferences{}
	}

	cart, err := c.CartExtractor.ExtractCart(html, rawURL)
	if err != nil {
		return nil, err
	}

	result := &CartResult{
		Cart:  cart,
		Items: make([]ItemResult, len(cart.Items)),
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var completed int64
	for i, item := range cart.Items {
		i, item := i, item
		g.Go(func() error {
			result.Items[i] = c.checkItem(gctx, cart, item, prefs)
			if c.Progress != nil {
				c.Progress(int(atomic.AddInt64(&completed, 1)), len(cart.Items), item)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// checkItem checks one cart line item.
func (c *Checker) checkItem(ctx context.Context, cart *whatfits.Cart, item whatfits.CartItem, prefs *whatfits.Preferences) ItemResult {
	if item.ProductURL != "" {
		res, err := c.CheckURL(ctx, item.ProductURL, prefs)
		return ItemResult{Item: item, Result: res, Err: err}
	}

	// No product page to fetch; evaluate what the cart row declares.
	product := &whatfits.Product{
		SourceURL: cart.SourceURL,
		Title:     item.Title,
		Price:     item.UnitPrice,
		Currency:  cart.Currency,
	}
	return ItemResult{
		Item: item,
		Result: &Result{
			Product:  product,
			Findings: whatfits.EvaluateProduct(product, prefs),
		},
	}
}
