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
	flagFixedDesc   string
	flagFixedDue    int
	flagFixedAmount string
)

var fixedCmd = &cobra.Command{
	Use:     "fixed",
	Aliases: []string{"bills"},
	Short:   "Track recurring monthly bills",
}

var fixedAddCmd = &cobra.Command{
	Use:   "add <due-day> <amount> <description>",
	Short: "Record a fixed monthly expense",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runFixedAdd,
}

var fixedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fixed expenses in the period by due day",
	Args:  cobra.NoArgs,
	RunE:  runFixedList,
}

var fixedEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change due day, description or amount",
	Args:  cobra.ExactArgs(1),
	RunE:  runFixedEdit,
}

var fixedToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a fixed expense between pending and paid",
	Args:  cobra.ExactArgs(1),
	RunE:  runFixedToggle,
}

func init() {
	fixedEditCmd.Flags().IntVar(&flagFixedDue, "due", 0, "New due day (1-31)")
	fixedEditCmd.Flags().StringVarP(&flagFixedDesc, "description", "m", "", "New description")
	fixedEditCmd.Flags().StringVar(&flagFixedAmount, "amount", "", "New amount")

	fixedCmd.AddCommand(fixedAddCmd, fixedListCmd, fixedEditCmd, fixedToggleCmd)
	rootCmd.AddCommand(fixedCmd)
}

func runFixedAdd(cmd *cobra.Command, args []string) error {
	var due int
	if _, err := fmt.Sscanf(args[0], "%d", &due); err != nil {
		return fmt.Errorf("invalid due day %q", args[0])
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	description := joinArgs(args[2:])

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		f, err := led.AddFixed(ctx, ledger.FixedInput{DueDay: due, Description: description, Amount: amount})
		if f.ID != "" {
			fmt.Printf("  Added fixed expense %s: %s due on the %s\n", led.ShortID(model.KindFixed, f.ID), cli.FormatMoney(f.Amount), cli.Ordinal(f.DueDay))
		}
		return err
	})
}

func runFixedList(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		p, err := activePeriod(led)
		if err != nil {
			return err
		}
		now := led.Now()
		fixed := pipeline.SortFixedByDueDay(pipeline.Filter(led.Snapshot(), p, now).FixedExpenses)
		if len(fixed) == 0 {
			fmt.Printf("\n  No fixed expenses in %s.\n\n", p.Label())
			return nil
		}

		short := led.ShortIDs(model.KindFixed)
		rows := make([][]string, 0, len(fixed)+4)
		for _, f := range fixed {
			status := cli.Warn(f.Status.String())
			if f.Status == model.StatusPaid {
				status = cli.Good(f.Status.String())
			}
			rows = append(rows, []string{
				short[f.ID],
				pipeline.DueDate(f.DueDay, now).Format("Jan 02"),
				cli.Truncate(f.Description, 32),
				status,
				cli.FormatMoney(f.Amount),
			})
		}
		t := pipeline.SumFixed(fixed)
		rows = append(rows, []string{"---"},
			[]string{"", "", "Pending", "", cli.FormatMoney(t.Pending)},
			[]string{"", "", "Paid", "", cli.FormatMoney(t.Paid)},
			[]string{"", "", "Total", "", cli.FormatMoney(t.Total)},
		)

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Fixed Expenses  " + p.Label(),
			Headers:  []string{"ID", "Due", "Description", "Status", "Amount"},
			Rows:     rows,
			LeftCols: 4,
		}))
		fmt.Println()
		return nil
	})
}

func runFixedEdit(cmd *cobra.Command, args []string) error {
	var patch ledger.FixedPatch
	var err error
	if patch.Amount, err = changedAmount(cmd, "amount"); err != nil {
		return err
	}
	patch.DueDay = changedInt(cmd, "due")
	patch.Description = changedString(cmd, "description")

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(model.KindFixed, args[0])
		if err != nil {
			return err
		}
		f, err := led.EditFixed(ctx, id, patch)
		if f.ID != "" {
			fmt.Printf("  Updated fixed expense %s: %s due on the %s\n", led.ShortID(model.KindFixed, f.ID), cli.FormatMoney(f.Amount), cli.Ordinal(f.DueDay))
		}
		return err
	})
}

func runFixedToggle(cmd *cobra.Command, args []string) error {
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(model.KindFixed, args[0])
		if err != nil {
			return err
		}
		f, err := led.ToggleFixedStatus(ctx, id)
		if f.ID != "" {
			fmt.Printf("  %s is now %s\n", f.Description, f.Status)
		}
		return err
	})
}
