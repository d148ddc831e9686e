package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/tui"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		cfg := appCfg
		vals := tui.NewSetupValues(cfg, led.Snapshot().Settings)
		if key := config.GetAPIKey(cfg); key != "" {
			fmt.Printf("\n  Current API key: %s (leave blank to keep)\n", maskAPIKey(key))
		}

		if err := tui.NewSetupForm(&vals).RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Setup cancelled; nothing changed.")
				return nil
			}
			return err
		}

		alloc, err := vals.Allocation()
		if err != nil {
			return err
		}
		vals.ApplyConfig(&cfg)
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		appCfg = cfg
		theme.SetActive(cfg.Appearance.Theme)

		if err := led.SetAllocation(ctx, alloc); err != nil {
			return err
		}
		if err := led.SetPeriod(ctx, vals.PeriodValue()); err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("  Saved to %s\n", config.ConfigPath())
		printAllocation(led.Snapshot().Settings.Allocation)
		fmt.Println("  Run `fintrack setup` anytime to reconfigure.")
		fmt.Println()
		return nil
	})
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
