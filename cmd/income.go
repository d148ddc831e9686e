package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var (
	flagIncomeSource string
	flagIncomeMain   string
	flagIncomeSub    string
	flagIncomeDesc   string
	flagIncomeDate   string
	flagIncomeAmount string
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Record and list income",
}

var incomeAddCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Record income",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeAdd,
}

var incomeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List income in the period",
	Args:  cobra.NoArgs,
	RunE:  runIncomeList,
}

var incomeEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an income record",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeEdit,
}

func init() {
	for _, c := range []*cobra.Command{incomeAddCmd, incomeEditCmd} {
		c.Flags().StringVarP(&flagIncomeSource, "source", "s", "", "Where the money came from")
		c.Flags().StringVar(&flagIncomeMain, "main-category", "", "Main category (e.g. Salary)")
		c.Flags().StringVar(&flagIncomeSub, "sub-category", "", "Sub-category")
		c.Flags().StringVarP(&flagIncomeDesc, "description", "m", "", "Description")
		c.Flags().StringVar(&flagIncomeDate, "date", "", "Date as YYYY-MM-DD (default today)")
	}
	incomeEditCmd.Flags().StringVar(&flagIncomeAmount, "amount", "", "New amount")
	_ = incomeAddCmd.MarkFlagRequired("source")

	incomeCmd.AddCommand(incomeAddCmd, incomeListCmd, incomeEditCmd)
	rootCmd.AddCommand(incomeCmd)
}

func runIncomeAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	date, err := parseDate(flagIncomeDate)
	if err != nil {
		return err
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		r, err := led.AddIncome(ctx, ledger.IncomeInput{
			Date:         date,
			Source:       flagIncomeSource,
			MainCategory: flagIncomeMain,
			SubCategory:  flagIncomeSub,
			Description:  flagIncomeDesc,
			Amount:       amount,
		})
		if r.ID != "" {
			fmt.Printf("  Added income %s: %s from %s on %s\n", led.ShortID(model.KindIncome, r.ID), cli.FormatMoney(r.Amount), r.Source, r.Date)
		}
		return err
	})
}

func runIncomeList(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		p, err := activePeriod(led)
		if err != nil {
			return err
		}
		w := pipeline.Filter(led.Snapshot(), p, led.Now())
		if len(w.Income) == 0 {
			fmt.Printf("\n  No income in %s.\n\n", p.Label())
			return nil
		}

		short := led.ShortIDs(model.KindIncome)
		rows := make([][]string, 0, len(w.Income)+2)
		for _, r := range pipeline.SortByDate(w.Income, func(r model.Income) model.Date { return r.Date }) {
			rows = append(rows, []string{
				short[r.ID],
				cli.FormatDate(r.Date),
				r.Source,
				categoryPath(r.MainCategory, r.SubCategory),
				cli.Truncate(r.Description, 28),
				cli.FormatMoney(r.Amount),
			})
		}
		rows = append(rows, []string{"---"}, []string{"", "", "", "", "Total", cli.FormatMoney(pipeline.SumIncome(w.Income))})

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Income  " + p.Label(),
			Headers:  []string{"ID", "Date", "Source", "Category", "Description", "Amount"},
			Rows:     rows,
			LeftCols: 5,
		}))
		fmt.Println()
		return nil
	})
}

func runIncomeEdit(cmd *cobra.Command, args []string) error {
	var patch ledger.IncomePatch
	var err error
	if patch.Date, err = changedDate(cmd, "date"); err != nil {
		return err
	}
	if patch.Amount, err = changedAmount(cmd, "amount"); err != nil {
		return err
	}
	patch.Source = changedString(cmd, "source")
	patch.MainCategory = changedString(cmd, "main-category")
	patch.SubCategory = changedString(cmd, "sub-category")
	patch.Description = changedString(cmd, "description")

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(model.KindIncome, args[0])
		if err != nil {
			return err
		}
		r, err := led.EditIncome(ctx, id, patch)
		if r.ID != "" {
			fmt.Printf("  Updated income %s: %s from %s on %s\n", led.ShortID(model.KindIncome, r.ID), cli.FormatMoney(r.Amount), r.Source, r.Date)
		}
		return err
	})
}

func categoryPath(main, sub string) string {
	switch {
	case main == "":
		return "-"
	case sub == "":
		return main
	}
	return main + " / " + sub
}
