package main

import (
	"context"
	"io"
	"time"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/check"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB          string        `help:"Path to the cache database." env:"WHATFITS_DB"`
	Provider    string        `help:"Model provider (openai or gemini)." env:"WHATFITS_PROVIDER"`
	Model       string        `help:"Model name override." env:"WHATFITS_MODEL"`
	BaseURL     string        `name:"base-url" help:"Chat completions base URL override." env:"WHATFITS_BASE_URL"`
	Browser     bool          `help:"Render pages in a headless browser before extraction."`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page."`
	Concurrency int           `short:"c" default:"4" help:"Concurrent cart item fetch limit."`
	Verbose     bool          `short:"v" help:"Log fetches and model calls to stderr."`

	Check    CheckCmd    `cmd:"" help:"Check a product or cart page against your preferences."`
	Cart     CartCmd     `cmd:"" help:"Check every item on a cart page."`
	Ask      AskCmd      `cmd:"" help:"Ask a question about a product page."`
	Prefs    PrefsCmd    `cmd:"" help:"Show or update your preferences."`
	Sessions SessionsCmd `cmd:"" help:"List, show, or clear question sessions."`
	Config   ConfigCmd   `cmd:"" help:"Manage stored configuration such as the API key."`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Products    whatfits.ProductService
	Preferences whatfits.PreferenceService
	Sessions    whatfits.SessionService
	Settings    whatfits.SettingStore

	Checker *check.Checker

	// Asker is nil when no API key is configured.
	Asker whatfits.Asker
}
