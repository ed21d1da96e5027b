package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/check"
	"github.com/WiwiC/WhatFits/gemini"
	"github.com/WiwiC/WhatFits/goquery"
	"github.com/WiwiC/WhatFits/htmltomarkdown"
	wfhttp "github.com/WiwiC/WhatFits/http"
	"github.com/WiwiC/WhatFits/openai"
	"github.com/WiwiC/WhatFits/rod"
	wfslog "github.com/WiwiC/WhatFits/slog"
	"github.com/WiwiC/WhatFits/sqlite"
	"github.com/WiwiC/WhatFits/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("whatfits"),
		kong.Description("Check shop pages against your dietary preferences"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open the database
	dbPath := cli.DB
	if dbPath == "" {
		dbPath, err = defaultDBPath()
		if err != nil {
			return err
		}
	}
	db := sqlite.NewDB(dbPath)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	defer db.Close()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,

		Products:    sqlite.NewProductService(db),
		Preferences: sqlite.NewPreferenceService(db),
		Sessions:    sqlite.NewSessionService(db),
		Settings:    sqlite.NewSettingStore(db),
	}

	// Commands that never touch the network need no further wiring.
	if !commandFetches(kctx.Command()) {
		return kctx.Run(deps)
	}

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// Create the fetcher
	var fetcher whatfits.Fetcher
	if cli.Browser {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer rodFetcher.Close()
		fetcher = rodFetcher
	} else {
		fetcher = wfhttp.NewFetcher(wfhttp.WithTimeout(cli.Timeout))
	}
	if logger != nil {
		fetcher = wfslog.NewLoggingFetcher(fetcher, logger)
	}

	// Create the judge and asker when an API key is available
	judge, asker, tokenCounter, err := m.newModelClients(ctx, cli, deps.Settings)
	if err != nil {
		return err
	}
	if logger != nil && judge != nil {
		judge = wfslog.NewLoggingJudge(judge, logger)
	}
	if logger != nil && asker != nil {
		asker = wfslog.NewLoggingAsker(asker, logger)
	}
	deps.Asker = asker

	deps.Checker = &check.Checker{
		Fetcher:       fetcher,
		Detector:      goquery.NewDetector(),
		Extractor:     goquery.NewProductExtractor(),
		CartExtractor: goquery.NewCartExtractor(),
		Fallback:      trafilatura.NewExtractor(),
		Converter:     htmltomarkdown.NewConverter(),
		Products:      deps.Products,
		Judge:         judge,
		TokenCounter:  tokenCounter,
		RateLimiter:   check.NewDomainLimiter(1.0),
		Concurrency:   cli.Concurrency,
	}

	return kctx.Run(deps)
}

// newModelClients resolves the provider configuration and builds the
// judge and asker. Both are nil when no API key is configured; the
// check commands then report deterministic findings only.
func (m *Main) newModelClients(ctx context.Context, cli *CLI, settings whatfits.SettingStore) (whatfits.Judge, whatfits.Asker, whatfits.TokenCounter, error) {
	provider := resolveSetting(ctx, settings, cli.Provider, whatfits.SettingProvider, "openai")
	model := resolveSetting(ctx, settings, cli.Model, whatfits.SettingModel, "")
	baseURL := resolveSetting(ctx, settings, cli.BaseURL, whatfits.SettingBaseURL, "")
	apiKey := resolveAPIKey(ctx, settings, provider)

	switch provider {
	case "openai":
		if apiKey == "" {
			return nil, nil, nil, nil
		}
		opts := []openai.Option{}
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		client := openai.NewClient(apiKey, opts...)
		return client, client, nil, nil

	case "gemini":
		if apiKey == "" {
			return nil, nil, nil, nil
		}
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		opts := []gemini.Option{}
		if model != "" {
			opts = append(opts, gemini.WithModel(model))
		}
		client := gemini.NewClient(genaiClient, opts...)

		// The local tokenizer supports a fixed set of models; count
		// with a supported one when the configured model is not.
		var tokenCounter whatfits.TokenCounter
		if tc, err := gemini.NewTokenCounter(model); err == nil {
			tokenCounter = tc
		} else if tc, err := gemini.NewTokenCounter("gemini-2.0-flash"); err == nil {
			tokenCounter = tc
		}
		return client, client, tokenCounter, nil

	default:
		return nil, nil, nil, whatfits.Errorf(whatfits.EINVALID, "unknown provider %q", provider)
	}
}

// commandFetches reports whether the parsed command needs a fetcher
// and model client.
func commandFetches(command string) bool {
	for _, prefix := range []string{"check", "cart", "ask"} {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return true
		}
	}
	return false
}

// resolveSetting returns the first non-empty value among the flag, the
// stored setting, and the fallback.
func resolveSetting(ctx context.Context, settings whatfits.SettingStore, flagValue, key, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if value, err := settings.GetSetting(ctx, key); err == nil && value != "" {
		return value
	}
	return fallback
}

// resolveAPIKey returns the API key from the environment or the
// setting store. Environment variables take precedence.
func resolveAPIKey(ctx context.Context, settings whatfits.SettingStore, provider string) string {
	if key := os.Getenv("WHATFITS_API_KEY"); key != "" {
		return key
	}
	switch provider {
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
	case "openai":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key
		}
	}
	if key, err := settings.GetSetting(ctx, whatfits.SettingAPIKey); err == nil {
		return key
	}
	return ""
}

// defaultDBPath returns the database path under the user's home
// directory, creating the parent directory if needed.
func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".whatfits")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, "whatfits.db"), nil
}
