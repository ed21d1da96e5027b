package mock

import (
	"context"

	whatfits "github.com/WiwiC/WhatFits"
)

var _ whatfits.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of whatfits.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ whatfits.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of whatfits.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.WaitFn(ctx, domain)
}
