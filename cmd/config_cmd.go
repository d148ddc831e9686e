package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/insights"
	"github.com/theirongolddev/fintrack/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.DefaultPeriod != "" {
		fmt.Printf("    Default period: %s\n", cfg.General.DefaultPeriod)
	} else {
		fmt.Println("    Default period: saved with data")
	}
	fmt.Printf("    Log level:      %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Storage]")
	backend := cfg.Storage.Backend
	if flagBackend != "" {
		backend = flagBackend
	}
	path := cfg.Storage.Path
	if flagData != "" {
		path = flagData
	}
	if path == "" {
		path = store.DefaultPath(backend)
	}
	fmt.Printf("    Backend: %s\n", backend)
	fmt.Printf("    Path:    %s\n", path)
	fmt.Println()

	fmt.Println("  [Insights]")
	if key := config.GetAPIKey(cfg); key != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key: not configured")
	}
	ic := insights.FromConfig(cfg)
	fmt.Printf("    Model:   %s\n", orDefault(ic.Model, insights.DefaultModel))
	fmt.Printf("    URL:     %s\n", orDefault(ic.BaseURL, insights.DefaultBaseURL))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %v every %ds\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	if cfg.Daemon.BackupSchedule != "" {
		fmt.Printf("    Backups:  %q into %s\n", cfg.Daemon.BackupSchedule, cfg.Daemon.BackupDir)
	} else {
		fmt.Println("    Backups:  off")
	}
	fmt.Println()

	fmt.Println("  Run `fintrack setup` to reconfigure.")
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
