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
	flagDebtCreditor string
	flagDebtDesc     string
	flagDebtAmount   string
)

var debtCmd = &cobra.Command{
	Use:     "debt",
	Aliases: []string{"debts"},
	Short:   "Track debts and repayments",
}

var debtAddCmd = &cobra.Command{
	Use:   "add <creditor> <amount>",
	Short: "Record a debt",
	Args:  cobra.ExactArgs(2),
	RunE:  runDebtAdd,
}

var debtListCmd = &cobra.Command{
	Use:   "list",
	Short: "List debts",
	Args:  cobra.NoArgs,
	RunE:  runDebtList,
}

var debtEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change creditor, description or original amount",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtEdit,
}

var debtPayCmd = &cobra.Command{
	Use:   "pay <id> <amount>",
	Short: "Record a payment, logged as a Debt Repayment expense",
	Args:  cobra.ExactArgs(2),
	RunE:  runDebtPay,
}

func init() {
	debtAddCmd.Flags().StringVarP(&flagDebtDesc, "description", "m", "", "Description")
	debtEditCmd.Flags().StringVar(&flagDebtCreditor, "creditor", "", "New creditor")
	debtEditCmd.Flags().StringVarP(&flagDebtDesc, "description", "m", "", "New description")
	debtEditCmd.Flags().StringVar(&flagDebtAmount, "amount", "", "New original amount")

	debtCmd.AddCommand(debtAddCmd, debtListCmd, debtEditCmd, debtPayCmd)
	rootCmd.AddCommand(debtCmd)
}

func runDebtAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		d, err := led.AddDebt(ctx, ledger.DebtInput{
			Creditor:       args[0],
			Description:    flagDebtDesc,
			OriginalAmount: amount,
		})
		if d.ID != "" {
			fmt.Printf("  Added debt %s: %s owed to %s\n", led.ShortID(model.KindDebt, d.ID), cli.FormatMoney(d.OriginalAmount), d.Creditor)
		}
		return err
	})
}

func runDebtList(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		debts := pipeline.Filter(led.Snapshot(), model.PeriodAll, led.Now()).Debts
		if len(debts) == 0 {
			fmt.Println("\n  No debts recorded.")
			fmt.Println()
			return nil
		}

		short := led.ShortIDs(model.KindDebt)
		rows := make([][]string, 0, len(debts)+2)
		for _, d := range debts {
			paidPct := decimalPercent(d.PaidAmount, d.OriginalAmount)
			rows = append(rows, []string{
				short[d.ID],
				d.Creditor,
				cli.Truncate(d.Description, 24),
				cli.FormatMoney(d.OriginalAmount),
				cli.FormatMoney(d.PaidAmount),
				cli.Money(d.Remaining()),
				cli.RenderUsageBar(paidPct, 10),
			})
		}
		t := pipeline.SumDebts(debts)
		rows = append(rows, []string{"---"}, []string{
			"", "Total", "",
			cli.FormatMoney(t.Original), cli.FormatMoney(t.Paid), cli.Money(t.Remaining), "",
		})

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Debts",
			Headers:  []string{"ID", "Creditor", "Description", "Original", "Paid", "Remaining", "Repaid"},
			Rows:     rows,
			LeftCols: 3,
		}))
		fmt.Println()
		return nil
	})
}

func runDebtEdit(cmd *cobra.Command, args []string) error {
	var patch ledger.DebtPatch
	var err error
	if patch.OriginalAmount, err = changedAmount(cmd, "amount"); err != nil {
		return err
	}
	patch.Creditor = changedString(cmd, "creditor")
	patch.Description = changedString(cmd, "description")

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(model.KindDebt, args[0])
		if err != nil {
			return err
		}
		d, err := led.EditDebt(ctx, id, patch)
		if d.ID != "" {
			fmt.Printf("  Updated debt %s: %s owed to %s\n", led.ShortID(model.KindDebt, d.ID), cli.FormatMoney(d.OriginalAmount), d.Creditor)
		}
		return err
	})
}

func runDebtPay(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(model.KindDebt, args[0])
		if err != nil {
			return err
		}
		d, exp, err := led.RecordDebtPayment(ctx, id, amount)
		if d.ID != "" {
			fmt.Printf("  Paid %s to %s, %s remaining (expense %s)\n",
				cli.FormatMoney(exp.Amount), d.Creditor, cli.FormatMoney(d.Remaining()), led.ShortID(model.KindExpense, exp.ID))
		}
		return err
	})
}
