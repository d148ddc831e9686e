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
)

var periodCmd = &cobra.Command{
	Use:   "period [all|month|14days|30days]",
	Short: "Show or save the active time window",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeriod,
}

var allocationCmd = &cobra.Command{
	Use:   "allocation [<needs> <wants> <savings>]",
	Short: "Show or set the needs/wants/savings percentages",
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return errors.New("pass no arguments or all three percentages")
		}
		return nil
	},
	RunE: runAllocation,
}

func init() {
	rootCmd.AddCommand(periodCmd, allocationCmd)
}

func runPeriod(cmd *cobra.Command, args []string) error {
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		if len(args) == 0 {
			fmt.Printf("  Active period: %s (%s)\n", led.Period(), led.Period().Label())
			return nil
		}
		p, err := model.ParsePeriod(args[0])
		if err != nil {
			return err
		}
		err = led.SetPeriod(ctx, p)
		if err == nil || errors.Is(err, ledger.ErrPersist) {
			fmt.Printf("  Active period set to %s\n", p.Label())
		}
		return err
	})
}

func runAllocation(cmd *cobra.Command, args []string) error {
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		if len(args) == 0 {
			a := led.Snapshot().Settings.Allocation
			printAllocation(a)
			return nil
		}

		var pcts [3]decimal.Decimal
		for i, s := range args {
			d, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
			if err != nil {
				return fmt.Errorf("invalid percentage %q", s)
			}
			pcts[i] = d
		}
		a := model.Allocation{Needs: pcts[0], Wants: pcts[1], Savings: pcts[2]}
		err := led.SetAllocation(ctx, a)
		if err == nil || errors.Is(err, ledger.ErrPersist) {
			printAllocation(a)
		}
		return err
	})
}

func printAllocation(a model.Allocation) {
	fmt.Printf("  Needs %s  Wants %s  Savings & Debt %s\n",
		cli.FormatPercentWhole(a.Needs), cli.FormatPercentWhole(a.Wants), cli.FormatPercentWhole(a.Savings))
	if !a.Total().Equal(decimal.NewFromInt(100)) {
		fmt.Println(cli.Warn(fmt.Sprintf("  Total is %s; percentages should add up to 100%%.", cli.FormatPercentWhole(a.Total()))))
	}
}
