package whatfits

import "context"

// Well-known setting keys.
const (
	SettingAPIKey   = "api_key"
	SettingProvider = "provider" // "openai" or "gemini"
	SettingModel    = "model"
	SettingBaseURL  = "base_url"
)

// SettingStore is a small key-value store for configuration that must
// survive between invocations, such as the API key. Environment
// variables take precedence over stored values.
type SettingStore interface {
	// GetSetting returns the value for a key.
	// Returns ENOTFOUND if the key is not set.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting stores a value, replacing any previous one.
	SetSetting(ctx context.Context, key, value string) error

	// DeleteSetting removes a key. Removing an absent key is not an
	// error.
	DeleteSetting(ctx context.Context, key string) error
}
