package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/ledger"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage expense categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expense categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
			fmt.Println()
			for _, c := range led.Categories() {
				fmt.Printf("  %s\n", c)
			}
			fmt.Println()
			return nil
		})
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := joinArgs(args)
		return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
			err := led.AddCategory(ctx, name)
			if errors.Is(err, ledger.ErrDuplicateCategory) {
				hint("Category %q already exists", name)
				return nil
			}
			if err == nil || errors.Is(err, ledger.ErrPersist) {
				fmt.Printf("  Added category %q\n", name)
			}
			return err
		})
	},
}

var categoryRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a category (existing expenses keep it)",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := joinArgs(args)
		return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
			err := led.DeleteCategory(ctx, name)
			if err == nil || errors.Is(err, ledger.ErrPersist) {
				fmt.Printf("  Removed category %q\n", name)
			}
			return err
		})
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryRmCmd)
	rootCmd.AddCommand(categoryCmd)
}
