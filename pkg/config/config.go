// Package config loads hierarchytrix's TOML configuration file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the parsed contents of ~/.config/hierarchytrix/config.toml.
type Config struct {
	// TimeLimits sets a default solve time limit per method, overridden by
	// the --time-limit flag when present.
	TimeLimits TimeLimits `toml:"time_limits"`
	// CacheDir overrides the default XDG cache directory.
	CacheDir string `toml:"cache_dir"`
	// Audit selects the audit backend: "none" (default), "file", or "mongo".
	Audit AuditConfig `toml:"audit"`
}

// TimeLimits holds per-method default solve time limits, in seconds. Zero
// means unset; the CLI then falls back to its built-in default limit.
type TimeLimits struct {
	ILP       int `toml:"ilp"`
	Heuristic int `toml:"heuristic"`
	Hybrid    int `toml:"hybrid"`
}

// Duration returns the configured limit for method as a time.Duration,
// or zero if unset or method is unrecognized.
func (t TimeLimits) Duration(method string) time.Duration {
	var seconds int
	switch method {
	case "ilp":
		seconds = t.ILP
	case "heuristic":
		seconds = t.Heuristic
	case "hybrid":
		seconds = t.Hybrid
	}
	return time.Duration(seconds) * time.Second
}

// AuditConfig selects and configures the audit backend.
type AuditConfig struct {
	Backend  string `toml:"backend"` // "none", "file", "mongo"
	Path     string `toml:"path"`    // for "file"
	MongoURI string `toml:"mongo_uri"`
}

// Default returns the zero-value Config: no per-method time limits set,
// default cache directory, audit disabled.
func Default() Config {
	return Config{Audit: AuditConfig{Backend: "none"}}
}

// DefaultPath returns ~/.config/hierarchytrix/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hierarchytrix", "config.toml"), nil
}

// Load reads and parses the TOML config file at path. A missing file is
// not an error; Load returns Default() instead.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
