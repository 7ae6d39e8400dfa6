// Package config defines the application configuration structures.
//
// Separated from cmd to allow other packages (api, ssh, tui) to
// depend on config without importing Cobra. Settings live in
// ~/.sqlgpt/config.json; SQLGPT_SERVER overrides the server URL.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all application settings.
type Config struct {
	// ServerURL is the SQL-GPT server base URL, e.g. "http://localhost:5000".
	ServerURL string `json:"server_url"`

	// PageLimit is the default rows-per-page for the table browser.
	PageLimit int `json:"page_limit"`

	SSH SSHConfig `json:"ssh,omitempty"`
}

// SSHConfig holds SSH tunnel settings for reaching a server
// behind a bastion host.
type SSHConfig struct {
	Enabled       bool   `json:"enabled,omitempty"`
	Host          string `json:"host,omitempty"`
	Port          int    `json:"port,omitempty"`
	User          string `json:"user,omitempty"`
	KeyPath       string `json:"key_path,omitempty"`
	KeyPassphrase string `json:"key_passphrase,omitempty"`
}

// Default returns a config with sensible defaults.
func Default() Config {
	return Config{
		ServerURL: "http://localhost:5000",
		PageLimit: 100,
		SSH:       SSHConfig{Port: 22},
	}
}

func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(homeDir, ".sqlgpt")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads ~/.sqlgpt/config.json; returns defaults if not found.
// The SQLGPT_SERVER environment variable wins over the file.
func Load() (Config, error) {
	cfg := Default()

	path, err := configPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if uerr := json.Unmarshal(data, &cfg); uerr != nil {
			return cfg, uerr
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if env := strings.TrimSpace(os.Getenv("SQLGPT_SERVER")); env != "" {
		cfg.ServerURL = env
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = Default().PageLimit
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	return cfg, nil
}

// Save writes the config to disk.
func (c Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
