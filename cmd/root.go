// Package cmd implements the fintrack CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/ledger"
	flog "github.com/theirongolddev/fintrack/internal/log"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

var (
	flagPeriod  string
	flagData    string
	flagBackend string
	flagQuiet   bool
	flagVerbose bool
)

// appCfg is loaded once per invocation by the root pre-run hook.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Personal budget tracker",
	Long: "Track income, expenses, debts, fixed bills and savings goals, and see how\n" +
		"spending measures up against a needs/wants/savings allocation.",
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Time window: all, month, 14days, 30days (default: saved period)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Data file path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite or json")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress warnings and hints")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func initApp(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appCfg = cfg

	logCfg := flog.DefaultConfig()
	logCfg.Level = flog.ParseLevel(cfg.General.LogLevel)
	if flagVerbose {
		logCfg.Level = slog.LevelDebug
	}
	flog.Setup(logCfg)
	return nil
}

// openStore opens the configured backend, letting flags win over config.
func openStore() (store.Backend, error) {
	backend := appCfg.Storage.Backend
	if flagBackend != "" {
		backend = flagBackend
	}
	path := appCfg.Storage.Path
	if flagData != "" {
		path = flagData
	}
	return store.Open(backend, path)
}

// openLedger opens the store and loads the ledger from it. The returned
// func closes the store.
func openLedger(ctx context.Context) (*ledger.Ledger, func(), error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	led, err := ledger.Open(ctx, st)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("%s: %w", st.Path(), err)
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			flog.For(flog.ComponentStore).Warn("close failed", flog.Err(err))
		}
	}
	return led, closeFn, nil
}

// withLedger runs fn against an opened ledger and applies the shared
// error policy to what it returns.
func withLedger(cmd *cobra.Command, fn func(ctx context.Context, led *ledger.Ledger) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	led, closeFn, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return outcome(fn(ctx, led))
}

// outcome maps command errors onto the CLI policy: unknown records are a
// no-op, failed saves are a warning, anything else fails the command.
func outcome(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrNotFound):
		hint("Nothing to do: %v", err)
		return nil
	case errors.Is(err, ledger.ErrPersist):
		fmt.Fprintf(os.Stderr, "  Warning: changes were applied but could not be saved: %v\n", err)
		return nil
	}
	return err
}

// activePeriod resolves --period, then the configured default, then the
// period saved with the data.
func activePeriod(led *ledger.Ledger) (model.Period, error) {
	if flagPeriod != "" {
		return model.ParsePeriod(flagPeriod)
	}
	if appCfg.General.DefaultPeriod != "" {
		if p, err := model.ParsePeriod(appCfg.General.DefaultPeriod); err == nil {
			return p, nil
		}
	}
	return led.Period(), nil
}

func hint(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

// parseAmount accepts plain decimals plus an optional "$" and thousands commas.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseDate returns the zero Date for an empty string so commands default
// to today.
func parseDate(s string) (model.Date, error) {
	if strings.TrimSpace(s) == "" {
		return model.Date{}, nil
	}
	return model.ParseDate(s)
}
