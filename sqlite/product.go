package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ whatfits.ProductService = (*ProductService)(nil)

// ProductService implements whatfits.ProductService using SQLite.
// The table acts as a cache keyed by source URL; callers compare
// ContentHash to decide whether a cached record is still current.
type ProductService struct {
	db *DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *DB) *ProductService {
	return &ProductService{db: db}
}

// CreateProduct creates a new product record.
func (s *ProductService) CreateProduct(ctx context.Context, product *whatfits.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	product.ID = uuid.New().String()
	if product.FetchedAt.IsZero() {
		product.FetchedAt = time.Now().UTC()
	}

	ingredients, err := encodeJSON(product.Ingredients)
	if err != nil {
		return err
	}
	allergens, err := encodeJSON(product.Allergens)
	if err != nil {
		return err
	}
	labels, err := encodeJSON(product.Labels)
	if err != nil {
		return err
	}
	sections, err := encodeJSON(product.Sections)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, source_url, title, brand, price, currency, description,
			ingredients, allergens, labels, sections, language, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, product.ID, product.SourceURL, product.Title, product.Brand, product.Price,
		product.Currency, product.Description, ingredients, allergens, labels, sections,
		product.Language, product.ContentHash, product.FetchedAt.Format(time.RFC3339))

	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return whatfits.Errorf(whatfits.EINVALID, "product already cached for %s", product.SourceURL)
	}
	return err
}

// FindProductByID retrieves a product by ID.
func (s *ProductService) FindProductByID(ctx context.Context, id string) (*whatfits.Product, error) {
	return s.findProduct(ctx, "id = ?", id)
}

// FindProductBySourceURL retrieves the cached product for a URL.
func (s *ProductService) FindProductBySourceURL(ctx context.Context, sourceURL string) (*whatfits.Product, error) {
	return s.findProduct(ctx, "source_url = ?", sourceURL)
}

func (s *ProductService) findProduct(ctx context.Context, where string, arg any) (*whatfits.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, title, brand, price, currency, description,
			ingredients, allergens, labels, sections, language, content_hash, fetched_at
		FROM products
		WHERE `+where, arg)

	product, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return nil, whatfits.Errorf(whatfits.ENOTFOUND, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// FindProducts retrieves products matching the filter.
func (s *ProductService) FindProducts(ctx context.Context, filter whatfits.ProductFilter) ([]*whatfits.Product, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, source_url, title, brand, price, currency, description,
		ingredients, allergens, labels, sections, language, content_hash, fetched_at
		FROM products WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY fetched_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*whatfits.Product
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// DeleteProduct permanently removes a product record.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return whatfits.Errorf(whatfits.ENOTFOUND, "product not found")
	}

	return nil
}

// DeleteProductBySourceURL removes the cached record for a URL, if any.
func (s *ProductService) DeleteProductBySourceURL(ctx context.Context, sourceURL string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE source_url = ?", sourceURL)
	return err
}

// scanProduct scans a product row using the given scan function.
func scanProduct(scan func(...any) error) (*whatfits.Product, error) {
	var product whatfits.Product
	var ingredients, allergens, labels, sections, fetchedAt string

	if err := scan(&product.ID, &product.SourceURL, &product.Title, &product.Brand,
		&product.Price, &product.Currency, &product.Description, &ingredients,
		&allergens, &labels, &sections, &product.Language, &product.ContentHash,
		&fetchedAt); err != nil {
		return nil, err
	}

	if err := decodeJSON(ingredients, "ingredients", &product.Ingredients); err != nil {
		return nil, err
	}
	if err := decodeJSON(allergens, "allergens", &product.Allergens); err != nil {
		return nil, err
	}
	if err := decodeJSON(labels, "labels", &product.Labels); err != nil {
		return nil, err
	}
	if err := decodeJSON(sections, "sections", &product.Sections); err != nil {
		return nil, err
	}

	var err error
	product.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &product, nil
}
