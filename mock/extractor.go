package mock

import whatfits "github.com/WiwiC/WhatFits"

var _ whatfits.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of whatfits.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*whatfits.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*whatfits.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ whatfits.PageDetector = (*PageDetector)(nil)

// PageDetector is a mock implementation of whatfits.PageDetector.
type PageDetector struct {
	DetectFn func(html string) whatfits.PageKind
}

func (d *PageDetector) Detect(html string) whatfits.PageKind {
	return d.DetectFn(html)
}

var _ whatfits.ProductExtractor = (*ProductExtractor)(nil)

// ProductExtractor is a mock implementation of whatfits.ProductExtractor.
type ProductExtractor struct {
	ExtractProductFn func(html string, sourceURL string) (*whatfits.Product, error)
}

func (e *ProductExtractor) ExtractProduct(html string, sourceURL string) (*whatfits.Product, error) {
	return e.ExtractProductFn(html, sourceURL)
}

var _ whatfits.CartExtractor = (*CartExtractor)(nil)

// CartExtractor is a mock implementation of whatfits.CartExtractor.
type CartExtractor struct {
	ExtractCartFn func(html string, sourceURL string) (*whatfits.Cart, error)
}

func (e *CartExtractor) ExtractCart(html string, sourceURL string) (*whatfits.Cart, error) {
	return e.ExtractCartFn(html, sourceURL)
}
