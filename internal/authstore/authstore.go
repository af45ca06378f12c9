// Package authstore persists the session token, the client's only piece
// of durable state.
package authstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credentials stores authentication state at ~/.config/vantage/auth.json.
type Credentials struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// ConfigDir returns ~/.config/vantage, creating it if necessary.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "vantage")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// Load reads credentials from auth.json. Returns nil, nil when no
// credentials are stored.
func Load() (*Credentials, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "auth.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Save writes credentials to auth.json (0600 perms).
func Save(creds *Credentials) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "auth.json"), data, 0600)
}

// Clear removes the auth.json file. Clearing an already-clear store is
// not an error.
func Clear() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(dir, "auth.json"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Token returns the stored session token.
// Priority: VANTAGE_TOKEN env > auth.json.
func Token() string {
	if v := os.Getenv("VANTAGE_TOKEN"); v != "" {
		return sanitize(v)
	}
	creds, err := Load()
	if err != nil || creds == nil {
		return ""
	}
	return sanitize(creds.Token)
}

// IsAuthenticated returns true if a usable token is available. Token
// presence is the sole authentication signal.
func IsAuthenticated() bool {
	return Token() != ""
}

// sanitize rejects placeholder token values. The server's other clients
// have been seen storing the literal strings "undefined" and "null";
// treat them as absent.
func sanitize(token string) string {
	switch strings.TrimSpace(token) {
	case "", "undefined", "null":
		return ""
	}
	return strings.TrimSpace(token)
}
