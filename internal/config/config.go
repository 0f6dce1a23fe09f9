// Package config loads the client/server configuration from a yaml file with
// env-var and built-in fallbacks.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server is the backend base URL the client talks to.
	Server string `yaml:"server"`
	// Board selects a named board (multi-board variant); empty means the
	// single-board endpoints.
	Board string `yaml:"board"`

	// DebounceMS is the save coalescing window for keystroke-level edits.
	DebounceMS int `yaml:"debounce_ms"`
	// SaveTimeoutS aborts a stalled persistence write.
	SaveTimeoutS int `yaml:"save_timeout_s"`

	// Serve configures `kanban serve`, the dev backend.
	Serve ServeConfig `yaml:"serve"`
}

type ServeConfig struct {
	Listen string `yaml:"listen"`
	DBPath string `yaml:"db_path"`
}

func defaults() Config {
	return Config{
		Server:       envOr("KANBAN_SERVER", "http://localhost:8080"),
		DebounceMS:   300,
		SaveTimeoutS: 10,
		Serve: ServeConfig{
			Listen: ":8080",
			DBPath: "",
		},
	}
}

// DefaultPath is ~/.kanban/config.yml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yml"
	}
	return filepath.Join(home, ".kanban", "config.yml")
}

// Load reads path, falling back to defaults when the file does not exist.
// Fields left empty in the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := defaults()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	// An empty file decodes to io.EOF; treat it like a missing one.
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Server == "" {
		cfg.Server = defaults().Server
	}
	if cfg.DebounceMS <= 0 {
		cfg.DebounceMS = defaults().DebounceMS
	}
	if cfg.SaveTimeoutS <= 0 {
		cfg.SaveTimeoutS = defaults().SaveTimeoutS
	}
	if cfg.Serve.Listen == "" {
		cfg.Serve.Listen = defaults().Serve.Listen
	}
	return cfg, nil
}

func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func (c Config) SaveTimeout() time.Duration {
	return time.Duration(c.SaveTimeoutS) * time.Second
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
