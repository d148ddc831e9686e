package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Budget allocation, category breakdown and savings",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		p, err := activePeriod(led)
		if err != nil {
			return err
		}
		b := led.BudgetFor(p)

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("FINTRACK  %s", p.Label())))
		fmt.Println()

		if b.Allocation.TotalIncome.IsZero() && b.Categories.Total.IsZero() {
			fmt.Println("  No income or expenses in this period.")
			fmt.Println("  Add some with `fintrack income add` and `fintrack expense add`.")
			fmt.Println()
		}

		fmt.Print(renderAllocation(b.Allocation))
		if !b.Allocation.Balanced {
			fmt.Println(cli.Warn(fmt.Sprintf("  Allocation adds up to %s, not 100%%. Adjust with `fintrack allocation`.",
				cli.FormatPercentWhole(b.Allocation.TotalPercent))))
		}
		fmt.Println()

		if len(b.Categories.Categories) > 0 {
			fmt.Print(renderCategories(b.Categories))
			fmt.Println()
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Title: "Overview",
			Rows: [][]string{
				{"Available savings", cli.FormatMoney(b.AvailableSavings)},
				{"---"},
				{"Income (all time)", cli.FormatMoney(b.Income.Total)},
				{"Income (this month)", cli.FormatMoney(b.Income.ThisMonth)},
				{"Income sources", cli.FormatNumber(int64(b.Income.Sources))},
				{"---"},
				{"Debt remaining", fmt.Sprintf("%s of %s", cli.FormatMoney(b.Debts.Remaining), cli.FormatMoney(b.Debts.Original))},
				{"Fixed bills pending", fmt.Sprintf("%s of %s", cli.FormatMoney(b.Fixed.Pending), cli.FormatMoney(b.Fixed.Total))},
			},
		}))
		fmt.Println()
		return nil
	})
}

func renderAllocation(a model.AllocationSummary) string {
	rows := make([][]string, 0, 5)
	for _, s := range a.Buckets() {
		rows = append(rows, []string{
			s.Bucket.String(),
			cli.FormatPercentWhole(s.Percent),
			cli.FormatMoney(s.Allocated),
			cli.FormatMoney(s.Spent),
			cli.Money(s.Remaining),
			cli.RenderUsageBar(s.UsedPercent(), 12),
		})
	}
	rows = append(rows, []string{"---"}, []string{
		"Total",
		cli.FormatPercentWhole(a.TotalPercent),
		cli.FormatMoney(a.Total.Allocated),
		cli.FormatMoney(a.Total.Spent),
		cli.Money(a.Total.Remaining),
		"",
	})

	return cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Allocation  (income %s)", cli.FormatMoney(a.TotalIncome)),
		Headers: []string{"Bucket", "Target", "Allocated", "Spent", "Remaining", "Used"},
		Rows:    rows,
	})
}

func renderCategories(c model.CategoryBreakdown) string {
	rows := make([][]string, 0, len(c.Categories)+len(c.Buckets)+2)
	for _, ct := range c.Categories {
		rows = append(rows, []string{ct.Bucket.String(), ct.Category, cli.FormatMoney(ct.Total), cli.FormatPercent(ct.Percent)})
	}
	rows = append(rows, []string{"---"})
	for _, bt := range c.Buckets {
		rows = append(rows, []string{bt.Bucket.String(), "all", cli.FormatMoney(bt.Total), cli.FormatPercent(bt.Percent)})
	}
	rows = append(rows, []string{"---"}, []string{"Total", "", cli.FormatMoney(c.Total), ""})

	return cli.RenderTable(cli.Table{
		Title:    "Spending by Category",
		Headers:  []string{"Bucket", "Category", "Spent", "Share"},
		Rows:     rows,
		LeftCols: 2,
	})
}
