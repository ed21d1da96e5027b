package main

import (
	"fmt"
	"strings"

	whatfits "github.com/WiwiC/WhatFits"
)

// configKeys are the keys the config command accepts.
var configKeys = []string{
	whatfits.SettingAPIKey,
	whatfits.SettingProvider,
	whatfits.SettingModel,
	whatfits.SettingBaseURL,
}

// ConfigCmd manages stored configuration.
type ConfigCmd struct {
	Set   SetConfigCmd   `cmd:"" help:"Store a configuration value."`
	Get   GetConfigCmd   `cmd:"" help:"Print a configuration value."`
	Unset UnsetConfigCmd `cmd:"" help:"Remove a configuration value."`
}

// SetConfigCmd stores a configuration value.
type SetConfigCmd struct {
	Key   string `arg:"" required:"" help:"One of: api_key, provider, model, base_url."`
	Value string `arg:"" required:"" help:"The value to store."`
}

// Run executes the config set command.
func (c *SetConfigCmd) Run(deps *Dependencies) error {
	if err := validateConfigKey(c.Key); err != nil {
		return err
	}
	if c.Key == whatfits.SettingProvider && c.Value != "openai" && c.Value != "gemini" {
		return whatfits.Errorf(whatfits.EINVALID, "provider must be openai or gemini")
	}

	if err := deps.Settings.SetSetting(deps.Ctx, c.Key, c.Value); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s set\n", c.Key)
	return nil
}

// GetConfigCmd prints a configuration value.
type GetConfigCmd struct {
	Key string `arg:"" required:"" help:"One of: api_key, provider, model, base_url."`
}

// Run executes the config get command.
func (c *GetConfigCmd) Run(deps *Dependencies) error {
	if err := validateConfigKey(c.Key); err != nil {
		return err
	}

	value, err := deps.Settings.GetSetting(deps.Ctx, c.Key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", whatfits.ErrorMessage(err))
		return err
	}
	if c.Key == whatfits.SettingAPIKey {
		value = maskKey(value)
	}
	fmt.Fprintln(deps.Stdout, value)
	return nil
}

// UnsetConfigCmd removes a configuration value.
type UnsetConfigCmd struct {
	Key string `arg:"" required:"" help:"One of: api_key, provider, model, base_url."`
}

// Run executes the config unset command.
func (c *UnsetConfigCmd) Run(deps *Dependencies) error {
	if err := validateConfigKey(c.Key); err != nil {
		return err
	}

	if err := deps.Settings.DeleteSetting(deps.Ctx, c.Key); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s unset\n", c.Key)
	return nil
}

func validateConfigKey(key string) error {
	for _, known := range configKeys {
		if key == known {
			return nil
		}
	}
	return whatfits.Errorf(whatfits.EINVALID, "unknown key %q (expected one of: %s)", key, strings.Join(configKeys, ", "))
}

// maskKey hides all but the tail of a stored API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
