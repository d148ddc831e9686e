package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/export"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
)

var (
	flagExportOut string
	flagImportYes bool
)

var exportCmd = &cobra.Command{
	Use:       "export <income|expenses|json>",
	Short:     "Export income or expenses as CSV, or everything as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"income", "expenses", "json"},
	RunE:      runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Write to file instead of stdout")
	importCmd.Flags().BoolVar(&flagImportYes, "yes", false, "Confirm replacing existing data")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	var write func(io.Writer, model.Document) error
	switch args[0] {
	case "income":
		write = func(w io.Writer, doc model.Document) error { return export.IncomeCSV(w, doc.Income) }
	case "expense", "expenses":
		write = func(w io.Writer, doc model.Document) error { return export.ExpensesCSV(w, doc.Expenses) }
	case "json":
		write = export.JSON
	default:
		return fmt.Errorf("unknown export %q (want income, expenses or json)", args[0])
	}

	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		doc := led.Snapshot()
		if flagExportOut == "" {
			return write(os.Stdout, doc)
		}

		f, err := os.OpenFile(flagExportOut, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		if err := write(f, doc); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		hint("Wrote %s", flagExportOut)
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	//nolint:gosec // import path is chosen by the local user
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		doc, err := ledger.Decode(f, ledger.NewID, led.Now())
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		fmt.Printf("  %s holds %d income, %d expenses, %d debts, %d fixed expenses, %d goals\n",
			args[0], len(doc.Income), len(doc.Expenses), len(doc.Debts), len(doc.FixedExpenses), len(doc.Goals))
		if !flagImportYes {
			return errors.New("import replaces all current data; rerun with --yes to confirm")
		}

		err = led.Replace(ctx, doc)
		if err == nil || errors.Is(err, ledger.ErrPersist) {
			fmt.Println("  Import complete.")
		}
		return err
	})
}
