package mock

import (
	"context"

	whatfits "github.com/WiwiC/WhatFits"
)

var _ whatfits.SettingStore = (*SettingStore)(nil)

// SettingStore is a mock implementation of whatfits.SettingStore.
type SettingStore struct {
	GetSettingFn    func(ctx context.Context, key string) (string, error)
	SetSettingFn    func(ctx context.Context, key, value string) error
	DeleteSettingFn func(ctx context.Context, key string) error
}

func (s *SettingStore) GetSetting(ctx context.Context, key string) (string, error) {
	return s.GetSettingFn(ctx, key)
}

func (s *SettingStore) SetSetting(ctx context.Context, key, value string) error {
	return s.SetSettingFn(ctx, key, value)
}

func (s *SettingStore) DeleteSetting(ctx context.Context, key string) error {
	return s.DeleteSettingFn(ctx, key)
}
