package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
)

var flagResetYes bool

var hideCmd = &cobra.Command{
	Use:   "hide <kind> <id>",
	Short: "Hide a record from every total",
	Long:  "Hide a record. Kinds: income, expense, debt, fixed, goal.",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetHidden(cmd, args, true) },
}

var unhideCmd = &cobra.Command{
	Use:   "unhide <kind> <id>",
	Short: "Bring a hidden record back",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetHidden(cmd, args, false) },
}

var deleteCmd = &cobra.Command{
	Use:     "delete <kind> <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a record permanently",
	Args:    cobra.ExactArgs(2),
	RunE:    runDelete,
}

var hiddenCmd = &cobra.Command{
	Use:   "hidden",
	Short: "List hidden records",
	Args:  cobra.NoArgs,
	RunE:  runHidden,
}

var clearCmd = &cobra.Command{
	Use:   "clear <kind>",
	Short: "Delete every record of one kind",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all data and restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetYes, "yes", false, "Confirm erasing all data")
	rootCmd.AddCommand(hideCmd, unhideCmd, deleteCmd, hiddenCmd, clearCmd, resetCmd)
}

func runSetHidden(cmd *cobra.Command, args []string, hidden bool) error {
	kind, err := model.ParseKind(args[0])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(kind, args[1])
		if err != nil {
			return err
		}
		err = led.SetHidden(ctx, kind, id, hidden)
		if err == nil || errors.Is(err, ledger.ErrPersist) {
			verb := "Hid"
			if !hidden {
				verb = "Restored"
			}
			fmt.Printf("  %s %s %s\n", verb, kind.Label(), led.ShortID(kind, id))
		}
		return err
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind, err := model.ParseKind(args[0])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(kind, args[1])
		if err != nil {
			return err
		}
		short := led.ShortID(kind, id)
		err = led.Delete(ctx, kind, id)
		if err == nil || errors.Is(err, ledger.ErrPersist) {
			fmt.Printf("  Deleted %s %s\n", kind.Label(), short)
		}
		return err
	})
}

func runHidden(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		rows := hiddenRows(led)
		if len(rows) == 0 {
			fmt.Println("\n  No hidden records.")
			fmt.Println()
			return nil
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Hidden Records",
			Headers:  []string{"Kind", "ID", "Date", "Description", "Amount"},
			Rows:     rows,
			LeftCols: 4,
		}))
		fmt.Println("  Restore with `fintrack unhide <kind> <id>`.")
		fmt.Println()
		return nil
	})
}

func hiddenRows(led *ledger.Ledger) [][]string {
	doc := led.Snapshot()
	shorts := make(map[model.Kind]map[model.ID]string)
	short := func(k model.Kind, id model.ID) string {
		if shorts[k] == nil {
			shorts[k] = led.ShortIDs(k)
		}
		return shorts[k][id]
	}
	var rows [][]string
	for _, r := range doc.Income {
		if r.Hidden {
			rows = append(rows, []string{"income", short(model.KindIncome, r.ID), r.Date.String(), r.Source, cli.FormatMoney(r.Amount)})
		}
	}
	for _, r := range doc.Expenses {
		if r.Hidden {
			rows = append(rows, []string{"expense", short(model.KindExpense, r.ID), r.Date.String(), r.Description, cli.FormatMoney(r.Amount)})
		}
	}
	for _, r := range doc.Debts {
		if r.Hidden {
			rows = append(rows, []string{"debt", short(model.KindDebt, r.ID), "", r.Creditor, cli.FormatMoney(r.Remaining())})
		}
	}
	for _, r := range doc.FixedExpenses {
		if r.Hidden {
			rows = append(rows, []string{"fixed", short(model.KindFixed, r.ID), cli.Ordinal(r.DueDay), r.Description, cli.FormatMoney(r.Amount)})
		}
	}
	for _, r := range doc.Goals {
		if r.Hidden {
			rows = append(rows, []string{"goal", short(model.KindGoal, r.ID), "", r.Title, cli.FormatMoney(r.TargetAmount)})
		}
	}
	return rows
}

func runClear(cmd *cobra.Command, args []string) error {
	kind, err := model.ParseKind(args[0])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		n, err := led.Clear(ctx, kind)
		if err == nil || errors.Is(err, ledger.ErrPersist) {
			fmt.Printf("  Removed %d %s records\n", n, kind.Label())
		}
		return err
	})
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !flagResetYes {
		return errors.New("reset erases every record; rerun with --yes to confirm")
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		err := led.Reset(ctx)
		if err == nil || errors.Is(err, ledger.ErrPersist) {
			fmt.Println("  All data erased. Settings restored to defaults.")
		}
		return err
	})
}
