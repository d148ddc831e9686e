// Package config reads and writes the fintrack TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all fintrack configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Storage    StorageConfig    `toml:"storage"`
	Insights   InsightsConfig   `toml:"insights"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	// DefaultPeriod overrides the period stored with the data when set.
	DefaultPeriod string `toml:"default_period,omitempty"`
	LogLevel      string `toml:"log_level"`
}

// StorageConfig selects where records live.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path,omitempty"`
}

// InsightsConfig holds the language model settings.
type InsightsConfig struct {
	APIKey     string `toml:"api_key,omitempty"`
	BaseURL    string `toml:"base_url,omitempty"`
	Model      string `toml:"model,omitempty"`
	MaxTokens  int    `toml:"max_tokens,omitempty"`
	TimeoutSec int    `toml:"timeout_sec,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DaemonConfig holds background monitor settings.
type DaemonConfig struct {
	Addr           string `toml:"addr"`
	IntervalSec    int    `toml:"interval_sec"`
	BackupSchedule string `toml:"backup_schedule,omitempty"`
	BackupDir      string `toml:"backup_dir,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			LogLevel: "warn",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8787",
			IntervalSec: 15,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fintrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fintrack")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadEnv reads a .env file from the working directory if one exists.
func LoadEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading .env: %w", err)
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if p := os.Getenv("FINTRACK_DATA"); p != "" {
		cfg.Storage.Path = p
	}
	if b := os.Getenv("FINTRACK_BACKEND"); b != "" {
		cfg.Storage.Backend = b
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
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

// GetAPIKey returns the insights API key from env vars or config, in that order.
func GetAPIKey(cfg Config) string {
	for _, name := range []string{"FINTRACK_API_KEY", "ANTHROPIC_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return cfg.Insights.APIKey
}

// InsightsTimeout returns the configured request timeout, or zero for the default.
func (c Config) InsightsTimeout() time.Duration {
	return time.Duration(c.Insights.TimeoutSec) * time.Second
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string
	switch strings.ToLower(c.Storage.Backend) {
	case "", "sqlite", "json":
	default:
		problems = append(problems, fmt.Sprintf("storage.backend %q must be sqlite or json", c.Storage.Backend))
	}
	switch strings.ToLower(c.General.DefaultPeriod) {
	case "", "all", "month", "14days", "30days":
	default:
		problems = append(problems, fmt.Sprintf("general.default_period %q must be all, month, 14days or 30days", c.General.DefaultPeriod))
	}
	if c.Insights.MaxTokens < 0 {
		problems = append(problems, "insights.max_tokens must not be negative")
	}
	if c.Insights.TimeoutSec < 0 {
		problems = append(problems, "insights.timeout_sec must not be negative")
	}
	if c.TUI.RefreshIntervalSec < 0 {
		problems = append(problems, "tui.refresh_interval_sec must not be negative")
	}
	if c.Daemon.IntervalSec < 0 {
		problems = append(problems, "daemon.interval_sec must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
