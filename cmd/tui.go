package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/config"
	flog "github.com/theirongolddev/fintrack/internal/log"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	var period model.Period
	if flagPeriod != "" {
		p, err := model.ParsePeriod(flagPeriod)
		if err != nil {
			return err
		}
		period = p
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			flog.For(flog.ComponentStore).Warn("close failed", flog.Err(err))
		}
	}()

	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log lines would tear the alternate screen.
	flog.Setup(flog.Config{Level: flog.ParseLevel(appCfg.General.LogLevel), Output: io.Discard})

	app := tui.NewApp(tui.Options{
		Store:     st,
		Config:    appCfg,
		Period:    period,
		NeedSetup: !config.Exists(),
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
