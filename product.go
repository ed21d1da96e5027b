package whatfits

import (
	"context"
	"time"
)

// Product represents a normalized product record extracted from an
// e-commerce page. All fields except SourceURL and Title are optional;
// extraction fills what it can and leaves the rest zero-valued.
type Product struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	Brand       string    `json:"brand"`
	Price       string    `json:"price"`    // normalized decimal, e.g. "12.99"
	Currency    string    `json:"currency"` // ISO code, e.g. "EUR"
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Allergens   []string  `json:"allergens"`
	Labels      []string  `json:"labels"` // declared marks: "bio", "vegan", ...
	Sections    []Section `json:"sections"`
	Language    string    `json:"language"` // "fr", "en", or ""
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Section is a labeled block of page content matched by the bilingual
// header vocabulary (ingredients, allergens, nutrition, ...).
type Section struct {
	Label   string `json:"label"` // canonical label, e.g. "ingredients"
	Content string `json:"content"`
}

// Validate returns an error if the product contains invalid fields.
func (p *Product) Validate() error {
	if p.SourceURL == "" {
		return Errorf(EINVALID, "product source URL required")
	}
	if p.Title == "" {
		return Errorf(EINVALID, "product title required")
	}
	return nil
}

// FindSection returns the content of the first section with the given
// canonical label, or "" if the product has no such section.
func (p *Product) FindSection(label string) string {
	for _, s := range p.Sections {
		if s.Label == label {
			return s.Content
		}
	}
	return ""
}

// ProductService represents a service for managing cached product
// records. The cache is keyed by source URL; re-checking a URL whose
// content hash changed replaces the cached record.
type ProductService interface {
	// CreateProduct creates a new product record.
	CreateProduct(ctx context.Context, product *Product) error

	// FindProductByID retrieves a product by ID.
	// Returns ENOTFOUND if the product does not exist.
	FindProductByID(ctx context.Context, id string) (*Product, error)

	// FindProductBySourceURL retrieves the cached product for a URL.
	// Returns ENOTFOUND if no record exists for the URL.
	FindProductBySourceURL(ctx context.Context, sourceURL string) (*Product, error)

	// FindProducts retrieves products matching the filter.
	FindProducts(ctx context.Context, filter ProductFilter) ([]*Product, error)

	// DeleteProduct permanently removes a product record.
	// Returns ENOTFOUND if the product does not exist.
	DeleteProduct(ctx context.Context, id string) error

	// DeleteProductBySourceURL removes the cached record for a URL,
	// if any. Deleting a URL with no record is not an error.
	DeleteProductBySourceURL(ctx context.Context, sourceURL string) error
}

// ProductFilter represents a filter for FindProducts.
type ProductFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
