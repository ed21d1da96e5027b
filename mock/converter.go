package mock

import whatfits "github.com/WiwiC/WhatFits"

var _ whatfits.Converter = (*Converter)(nil)

// Converter is a mock implementation of whatfits.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
