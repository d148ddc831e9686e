package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("FINTRACK_DATA", "")
	t.Setenv("FINTRACK_BACKEND", "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestSaveToAndLoadFrom(t *testing.T) {
	t.Setenv("FINTRACK_DATA", "")
	t.Setenv("FINTRACK_BACKEND", "")
	path := filepath.Join(t.TempDir(), "fintrack", "config.toml")

	cfg := DefaultConfig()
	cfg.Storage.Backend = "json"
	cfg.Insights.APIKey = "sk-test"
	cfg.General.DefaultPeriod = "30days"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Storage.Backend != "json" || got.Insights.APIKey != "sk-test" || got.General.DefaultPeriod != "30days" {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FINTRACK_DATA", "/tmp/x.db")
	t.Setenv("FINTRACK_BACKEND", "json")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Storage.Path != "/tmp/x.db" || cfg.Storage.Backend != "json" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}

	t.Setenv("FINTRACK_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	cfg.Insights.APIKey = "from-file"
	if got := GetAPIKey(cfg); got != "from-env" {
		t.Fatalf("GetAPIKey = %q, want from-env", got)
	}
	t.Setenv("FINTRACK_API_KEY", "fintrack-env")
	if got := GetAPIKey(cfg); got != "fintrack-env" {
		t.Fatalf("GetAPIKey = %q, want fintrack-env", got)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Storage.Backend = "mongo"
	cfg.General.DefaultPeriod = "weekly"
	cfg.Daemon.IntervalSec = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted bad config")
	}
	for _, want := range []string{"storage.backend", "default_period", "daemon.interval_sec"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestParseBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom accepted invalid TOML")
	}
}
