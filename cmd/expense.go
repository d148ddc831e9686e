package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var (
	flagExpenseBucket   string
	flagExpenseCategory string
	flagExpenseDate     string
	flagExpenseDesc     string
	flagExpenseAmount   string
)

var expenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"expenses", "spend"},
	Short:   "Record and list expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add <amount> <description>",
	Short: "Record an expense",
	Long: "Record an expense. When --category is omitted the category and bucket\n" +
		"are guessed from the description (\"uber\" -> Needs / Transportation).",
	Args: cobra.MinimumNArgs(2),
	RunE: runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses in the period",
	Args:  cobra.NoArgs,
	RunE:  runExpenseList,
}

var expenseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseEdit,
}

func init() {
	for _, c := range []*cobra.Command{expenseAddCmd, expenseEditCmd} {
		c.Flags().StringVarP(&flagExpenseBucket, "bucket", "b", "", "Allocation bucket: needs, wants or savings")
		c.Flags().StringVarP(&flagExpenseCategory, "category", "c", "", "Category from `fintrack category list`")
		c.Flags().StringVar(&flagExpenseDate, "date", "", "Date as YYYY-MM-DD (default today)")
	}
	expenseEditCmd.Flags().StringVarP(&flagExpenseDesc, "description", "m", "", "New description")
	expenseEditCmd.Flags().StringVar(&flagExpenseAmount, "amount", "", "New amount")

	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd, expenseEditCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	date, err := parseDate(flagExpenseDate)
	if err != nil {
		return err
	}
	description := strings.Join(args[1:], " ")

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		bucket, category, err := pickCategory(led, description)
		if err != nil {
			return err
		}
		r, err := led.AddExpense(ctx, ledger.ExpenseInput{
			Date:        date,
			Bucket:      bucket,
			Category:    category,
			Description: description,
			Amount:      amount,
		})
		if errors.Is(err, ledger.ErrUnknownCategory) {
			return fmt.Errorf("%w (add it with `fintrack category add`)", err)
		}
		if r.ID != "" {
			fmt.Printf("  Added expense %s: %s  %s  %s\n", led.ShortID(model.KindExpense, r.ID), cli.FormatMoney(r.Amount), r.Label(), r.Description)
		}
		return err
	})
}

// pickCategory combines the bucket and category flags with a guess from
// the description for whichever is missing.
func pickCategory(led *ledger.Ledger, description string) (model.Bucket, string, error) {
	var bucket model.Bucket
	if flagExpenseBucket != "" {
		b, err := model.ParseBucket(flagExpenseBucket)
		if err != nil {
			return "", "", err
		}
		bucket = b
	}
	category := flagExpenseCategory
	if bucket != "" && category != "" {
		return bucket, category, nil
	}

	gb, gc, ok := ledger.GuessCategory(description, led.Categories())
	if category == "" {
		if !ok {
			return "", "", errors.New("could not guess a category from the description; pass --category")
		}
		category = gc
		hint("Guessed category %s", gc)
	}
	if bucket == "" {
		if !ok || gc != category {
			return "", "", errors.New("pass --bucket (needs, wants or savings)")
		}
		bucket = gb
	}
	return bucket, category, nil
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		p, err := activePeriod(led)
		if err != nil {
			return err
		}
		w := pipeline.Filter(led.Snapshot(), p, led.Now())
		if len(w.Expenses) == 0 {
			fmt.Printf("\n  No expenses in %s.\n\n", p.Label())
			return nil
		}

		short := led.ShortIDs(model.KindExpense)
		rows := make([][]string, 0, len(w.Expenses)+2)
		for _, r := range pipeline.SortByDate(w.Expenses, func(r model.Expense) model.Date { return r.Date }) {
			rows = append(rows, []string{
				short[r.ID],
				cli.FormatDate(r.Date),
				r.Bucket.String(),
				r.Category,
				cli.Truncate(r.Description, 32),
				cli.FormatMoney(r.Amount),
			})
		}
		total := pipeline.TotalAmount(w.Expenses, func(r model.Expense) decimal.Decimal { return r.Amount })
		rows = append(rows, []string{"---"}, []string{"", "", "", "", "Total", cli.FormatMoney(total)})

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Expenses  " + p.Label(),
			Headers:  []string{"ID", "Date", "Bucket", "Category", "Description", "Amount"},
			Rows:     rows,
			LeftCols: 5,
		}))
		fmt.Println()
		return nil
	})
}

func runExpenseEdit(cmd *cobra.Command, args []string) error {
	var patch ledger.ExpensePatch
	var err error
	if patch.Date, err = changedDate(cmd, "date"); err != nil {
		return err
	}
	if patch.Amount, err = changedAmount(cmd, "amount"); err != nil {
		return err
	}
	if patch.Bucket, err = changedBucket(cmd, "bucket"); err != nil {
		return err
	}
	patch.Category = changedString(cmd, "category")
	patch.Description = changedString(cmd, "description")

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(model.KindExpense, args[0])
		if err != nil {
			return err
		}
		r, err := led.EditExpense(ctx, id, patch)
		if r.ID != "" {
			fmt.Printf("  Updated expense %s: %s  %s  %s\n", led.ShortID(model.KindExpense, r.ID), cli.FormatMoney(r.Amount), r.Label(), r.Description)
		}
		return err
	})
}
