package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/insights"
	"github.com/theirongolddev/fintrack/internal/ledger"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Ask a language model for an analysis of your finances",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, _ []string) error {
	client, err := insights.NewClient(insights.FromConfig(appCfg))
	if errors.Is(err, insights.ErrNoAPIKey) {
		return errors.New("no API key: set FINTRACK_API_KEY or run `fintrack setup`")
	}
	if err != nil {
		return err
	}

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		snap := insights.NewSnapshot(led.Snapshot())
		if len(snap.Income) == 0 && len(snap.Expenses) == 0 {
			fmt.Println("\n  Add some income and expenses first; there is nothing to analyze yet.")
			fmt.Println()
			return nil
		}

		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Generating insights...\n")
		}
		report, err := client.Generate(ctx, snap, led.Now())
		if err != nil {
			return fmt.Errorf("generating insights: %w", err)
		}
		fmt.Print(renderReport(report))
		return nil
	})
}

func renderReport(r *insights.Report) string {
	var b strings.Builder
	b.WriteString("\n" + cli.RenderTitle("FINANCIAL INSIGHTS") + "\n\n")

	b.WriteString(cli.RenderTable(cli.Table{
		Title: "Financial Health",
		Rows: [][]string{
			{"Score", r.FinancialHealth.Score.StringFixed(0) + " / 100"},
			{"Summary", cli.Truncate(r.FinancialHealth.Summary, 70)},
			{"---"},
			{"Next 30 days", cli.FormatMoney(r.SpendingForecast.Next30Days)},
			{"Forecast", cli.Truncate(r.SpendingForecast.Comment, 70)},
		},
		LeftCols: 2,
	}))

	if len(r.GoalEstimates) > 0 {
		rows := make([][]string, 0, len(r.GoalEstimates))
		for _, g := range r.GoalEstimates {
			rows = append(rows, []string{g.GoalTitle, g.EstimatedCompletionDate})
		}
		b.WriteString("\n" + cli.RenderTable(cli.Table{
			Title:   "Goal Estimates",
			Headers: []string{"Goal", "Estimated completion"},
			Rows:    rows,
		}))
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n" + cli.RenderSection("Recommendations") + "\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  %d. %s\n     %s\n", i+1, rec.Title, cli.Muted(rec.Description))
		}
	}
	if r.Model != "" {
		b.WriteString("\n" + cli.Muted("  Generated by "+r.Model) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}
