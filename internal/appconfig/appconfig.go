// Package appconfig reads client settings from the global config file,
// with env-var overrides.
package appconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"vantage/internal/authstore"
)

// Config is the global config stored at ~/.config/vantage/config.json.
type Config struct {
	ServerURL      string `json:"server_url,omitempty"`
	DefaultCountry string `json:"default_country,omitempty"`
	ChatDelay      string `json:"chat_delay,omitempty"` // duration string, default "500ms"
	Debug          *bool  `json:"debug,omitempty"`      // nil = default false
}

const defaultServerURL = "http://localhost:8000"

// defaultChatDelay is how long to wait after an AI action before
// refreshing state, giving the server time to settle its side effects.
const defaultChatDelay = 500 * time.Millisecond

// Load reads the global config. A missing file yields an empty config.
func Load() (*Config, error) {
	dir, err := authstore.ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the global config.
func Save(cfg *Config) error {
	dir, err := authstore.ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// ServerURL returns the backend base URL.
// Priority: VANTAGE_SERVER_URL env > config.json > default.
func ServerURL() string {
	if v := os.Getenv("VANTAGE_SERVER_URL"); v != "" {
		return v
	}
	cfg, err := Load()
	if err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return defaultServerURL
}

// DefaultCountry returns the default country filter for discovery.
// Priority: VANTAGE_COUNTRY env > config.json > none.
func DefaultCountry() string {
	if v := os.Getenv("VANTAGE_COUNTRY"); v != "" {
		return v
	}
	cfg, err := Load()
	if err == nil {
		return cfg.DefaultCountry
	}
	return ""
}

// ChatDelay returns the post-action refresh delay.
// Priority: VANTAGE_CHAT_DELAY env > config.json > 500ms.
func ChatDelay() time.Duration {
	if v := os.Getenv("VANTAGE_CHAT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	cfg, err := Load()
	if err == nil && cfg.ChatDelay != "" {
		if d, err := time.ParseDuration(cfg.ChatDelay); err == nil {
			return d
		}
	}
	return defaultChatDelay
}

// DebugEnabled returns whether diagnostic file logging is on.
// Priority: VANTAGE_DEBUG env > config.json > false.
func DebugEnabled() bool {
	switch os.Getenv("VANTAGE_DEBUG") {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	cfg, err := Load()
	if err == nil && cfg.Debug != nil {
		return *cfg.Debug
	}
	return false
}
