package mock

import (
	"context"

	whatfits "github.com/WiwiC/WhatFits"
)

var _ whatfits.ProductService = (*ProductService)(nil)

// ProductService is a mock implementation of whatfits.ProductService.
type ProductService struct {
	CreateProductFn            func(ctx context.Context, product *whatfits.Product) error
	FindProductByIDFn          func(ctx context.Context, id string) (*whatfits.Product, error)
	FindProductBySourceURLFn   func(ctx context.Context, sourceURL string) (*whatfits.Product, error)
	FindProductsFn             func(ctx context.Context, filter whatfits.ProductFilter) ([]*whatfits.Product, error)
	DeleteProductFn            func(ctx context.Context, id string) error
	DeleteProductBySourceURLFn func(ctx context.Context, sourceURL string) error
}

func (s *ProductService) CreateProduct(ctx context.Context, product *whatfits.Product) error {
	return s.CreateProductFn(ctx, product)
}

func (s *ProductService) FindProductByID(ctx context.Context, id string) (*whatfits.Product, error) {
	return s.FindProductByIDFn(ctx, id)
}

func (s *ProductService) FindProductBySourceURL(ctx context.Context, sourceURL string) (*whatfits.Product, error) {
	return s.FindProductBySourceURLFn(ctx, sourceURL)
}

func (s *ProductService) FindProducts(ctx context.Context, filter whatfits.ProductFilter) ([]*whatfits.Product, error) {
	return s.FindProductsFn(ctx, filter)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.DeleteProductFn(ctx, id)
}

func (s *ProductService) DeleteProductBySourceURL(ctx context.Context, sourceURL string) error {
	return s.DeleteProductBySourceURLFn(ctx, sourceURL)
}
