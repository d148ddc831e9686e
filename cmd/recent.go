package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Latest income and expenses in the period",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		p, err := activePeriod(led)
		if err != nil {
			return err
		}
		recent := led.BudgetFor(p).Recent
		if len(recent) == 0 {
			fmt.Printf("\n  No activity in %s.\n\n", p.Label())
			return nil
		}

		rows := make([][]string, 0, len(recent))
		for _, e := range recent {
			rows = append(rows, []string{
				cli.FormatDate(e.Date),
				e.Label,
				cli.Truncate(e.Description, 32),
				cli.Money(e.Amount),
				led.ShortID(e.Kind, e.ID),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Recent Activity  " + p.Label(),
			Headers:  []string{"Date", "Type", "Description", "Amount", "ID"},
			Rows:     rows,
			LeftCols: 3,
		}))
		fmt.Println()
		return nil
	})
}
