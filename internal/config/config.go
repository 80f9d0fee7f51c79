// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mferrell/dealflow/internal/notify"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// dataDir is where the database and preference store live by default.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "dealflow")
}

// DatabasePath resolves the SQLite path from config, with a default
// under the user data directory.
func DatabasePath() string {
	if v := viper.GetString("storage.database_path"); v != "" {
		return ExpandPath(v)
	}
	return filepath.Join(dataDir(), "deals.db")
}

// PrefsPath resolves the preference store directory.
func PrefsPath() string {
	if v := viper.GetString("storage.prefs_path"); v != "" {
		return ExpandPath(v)
	}
	return filepath.Join(dataDir(), "prefs")
}

// DirectoryURL returns the owner-directory base URL, empty when the
// directory integration is unconfigured.
func DirectoryURL() string {
	if v := viper.GetString("directory.url"); v != "" {
		return v
	}
	return os.Getenv("DEALFLOW_DIRECTORY_URL")
}

// LoadNotifyConfig assembles the notification pipeline configuration.
// Precedence: viper configuration (config file or DEALFLOW_ env vars),
// then direct environment variables.
func LoadNotifyConfig() (*notify.Config, error) {
	cfg := notify.Config{
		TokenURL:     viper.GetString("notify.token_url"),
		ClientID:     viper.GetString("notify.client_id"),
		ClientSecret: viper.GetString("notify.client_secret"),
		RelayURL:     viper.GetString("notify.relay_url"),
		From:         viper.GetString("notify.from"),
	}

	if cfg.TokenURL == "" {
		cfg.TokenURL = os.Getenv("MAIL_TOKEN_URL")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("MAIL_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("MAIL_CLIENT_SECRET")
	}
	if cfg.RelayURL == "" {
		cfg.RelayURL = os.Getenv("MAIL_RELAY_URL")
	}
	if cfg.From == "" {
		cfg.From = os.Getenv("MAIL_FROM")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
