package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// SetupValues holds what the first-run form collects. Percentages stay
// strings while the form edits them.
type SetupValues struct {
	Theme   string
	Period  string
	Needs   string
	Wants   string
	Savings string
	APIKey  string
}

// NewSetupValues prefills the form from the current config and settings.
func NewSetupValues(cfg config.Config, settings model.Settings) SetupValues {
	return SetupValues{
		Theme:   cfg.Appearance.Theme,
		Period:  settings.Period.String(),
		Needs:   settings.Allocation.Needs.String(),
		Wants:   settings.Allocation.Wants.String(),
		Savings: settings.Allocation.Savings.String(),
	}
}

// NewSetupForm builds the setup wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}
	periodOpts := make([]huh.Option[string], 0, len(model.Periods))
	for _, p := range model.Periods {
		periodOpts = append(periodOpts, huh.NewOption(p.Label(), p.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fintrack").
				Description("Split your income into needs, wants and savings,\nthen track spending against each share."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewSelect[string]().
				Title("Default time period").
				Options(periodOpts...).
				Value(&vals.Period),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Needs %").
				Description("Rent, groceries, bills").
				Value(&vals.Needs).
				Validate(validatePercent),
			huh.NewInput().
				Title("Wants %").
				Description("Dining out, entertainment, shopping").
				Value(&vals.Wants).
				Validate(validatePercent),
			huh.NewInput().
				Title("Savings & Debt %").
				Description("Goals and debt repayment").
				Value(&vals.Savings).
				Validate(validatePercent),
		).Title("Budget allocation"),
		huh.NewGroup(
			huh.NewInput().
				Title("Anthropic API key").
				Description("Optional. Enables the Insights tab. Leave blank to skip.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.APIKey),
		),
	).WithTheme(huh.ThemeCharm())
}

func validatePercent(s string) error {
	_, err := parsePercent(s)
	return err
}

func parsePercent(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("enter a number like 50")
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("must be between 0 and 100")
	}
	return d, nil
}

// Allocation parses the three percentages.
func (v SetupValues) Allocation() (model.Allocation, error) {
	var a model.Allocation
	var err error
	if a.Needs, err = parsePercent(v.Needs); err != nil {
		return a, fmt.Errorf("needs: %w", err)
	}
	if a.Wants, err = parsePercent(v.Wants); err != nil {
		return a, fmt.Errorf("wants: %w", err)
	}
	if a.Savings, err = parsePercent(v.Savings); err != nil {
		return a, fmt.Errorf("savings: %w", err)
	}
	return a, nil
}

// PeriodValue is the chosen period, falling back to month.
func (v SetupValues) PeriodValue() model.Period {
	if p, err := model.ParsePeriod(v.Period); err == nil {
		return p
	}
	return model.PeriodMonth
}

// ApplyConfig copies the config-level answers into cfg. A blank API key
// keeps the existing one. The period and allocation are stored with the
// data, not the config.
func (v SetupValues) ApplyConfig(cfg *config.Config) {
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	if key := strings.TrimSpace(v.APIKey); key != "" {
		cfg.Insights.APIKey = key
	}
}
