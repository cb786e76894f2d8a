// Package config loads ctxline settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all ctxline configuration. Every field is optional; a missing
// file yields DefaultConfig.
type Config struct {
	General GeneralConfig `toml:"general"`
	Git     GitConfig     `toml:"git"`
	Cache   CacheConfig   `toml:"cache"`
	Claude  ProfileConfig `toml:"claude"`
	Gemini  ProfileConfig `toml:"gemini"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Debug   bool   `toml:"debug"`
	LogFile string `toml:"log_file,omitempty"`
}

// GitConfig controls the git queries.
type GitConfig struct {
	FastPath          bool `toml:"fast_path"`
	RevParseTimeoutMs int  `toml:"rev_parse_timeout_ms"`
	BranchTimeoutMs   int  `toml:"branch_timeout_ms"`
	StatusTimeoutMs   int  `toml:"status_timeout_ms"`
}

// CacheConfig controls the transcript usage cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Git: GitConfig{
			FastPath:          true,
			RevParseTimeoutMs: 2000,
			BranchTimeoutMs:   2000,
			StatusTimeoutMs:   5000,
		},
	}
}

// PathOverride replaces the default config location when set (--config).
var PathOverride string

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ctxline")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ctxline")
}

// Path returns the full path to the config file.
func Path() string {
	if PathOverride != "" {
		return PathOverride
	}
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ctxline")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "ctxline")
}

// CachePath returns the usage cache database path.
func (c Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return filepath.Join(CacheDir(), "usage.db")
}

// LogPath returns the debug log path.
func (c Config) LogPath() string {
	if c.General.LogFile != "" {
		return c.General.LogFile
	}
	return filepath.Join(CacheDir(), "ctxline.log")
}

// Load reads the config file, returning defaults if it doesn't exist.
// On a parse or validation error the defaults are returned with the error so
// callers that must always render can carry on.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	parsed := DefaultConfig()
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := parsed.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", Path(), err)
	}

	return parsed, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Validate rejects values that would break rendering.
func (c Config) Validate() error {
	if c.Git.RevParseTimeoutMs < 0 || c.Git.BranchTimeoutMs < 0 || c.Git.StatusTimeoutMs < 0 {
		return fmt.Errorf("git timeouts must not be negative")
	}
	if err := c.Claude.validate("claude"); err != nil {
		return err
	}
	return c.Gemini.validate("gemini")
}
