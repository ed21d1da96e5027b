package mock

import (
	"context"

	whatfits "github.com/WiwiC/WhatFits"
)

var _ whatfits.PreferenceService = (*PreferenceService)(nil)

// PreferenceService is a mock implementation of whatfits.PreferenceService.
type PreferenceService struct {
	LoadPreferencesFn func(ctx context.Context) (*whatfits.Preferences, error)
	SavePreferencesFn func(ctx context.Context, prefs *whatfits.Preferences) error
}

func (s *PreferenceService) LoadPreferences(ctx context.Context) (*whatfits.Preferences, error) {
	return s.LoadPreferencesFn(ctx)
}

func (s *PreferenceService) SavePreferences(ctx context.Context, prefs *whatfits.Preferences) error {
	return s.SavePreferencesFn(ctx, prefs)
}
