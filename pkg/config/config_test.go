package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Audit.Backend != "none" {
		t.Errorf("Audit.Backend = %q, want %q", cfg.Audit.Backend, "none")
	}
}

func TestLoadParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	src := `
cache_dir = "/tmp/hierarchytrix-cache"

[time_limits]
ilp = 30
hybrid = 10

[audit]
backend = "file"
path = "/tmp/audit.jsonl"
`
	if err := os.WriteFile(path, []byte(src), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CacheDir != "/tmp/hierarchytrix-cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.TimeLimits.Duration("ilp") != 30*time.Second {
		t.Errorf("TimeLimits.Duration(ilp) = %v, want 30s", cfg.TimeLimits.Duration("ilp"))
	}
	if cfg.TimeLimits.Duration("heuristic") != 0 {
		t.Errorf("TimeLimits.Duration(heuristic) = %v, want 0", cfg.TimeLimits.Duration("heuristic"))
	}
	if cfg.Audit.Backend != "file" || cfg.Audit.Path != "/tmp/audit.jsonl" {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("DefaultPath() = %q, want basename config.toml", path)
	}
}
