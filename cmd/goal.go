package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var (
	flagGoalTitle  string
	flagGoalTarget string
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals"},
	Short:   "Track savings goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <target> <title>",
	Short: "Create a savings goal",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runGoalAdd,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with progress",
	Args:  cobra.NoArgs,
	RunE:  runGoalList,
}

var goalEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a goal's title or target",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalEdit,
}

var goalContributeCmd = &cobra.Command{
	Use:   "contribute <id> <amount>",
	Short: "Move available savings into a goal",
	Long: "Add a contribution to a goal. The amount may not exceed the savings\n" +
		"available in the saved period; it is also logged as a Goal Savings expense.",
	Args: cobra.ExactArgs(2),
	RunE: runGoalContribute,
}

func init() {
	goalEditCmd.Flags().StringVar(&flagGoalTitle, "title", "", "New title")
	goalEditCmd.Flags().StringVar(&flagGoalTarget, "target", "", "New target amount")

	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalEditCmd, goalContributeCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	target, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		g, err := led.AddGoal(ctx, ledger.GoalInput{Title: joinArgs(args[1:]), TargetAmount: target})
		if g.ID != "" {
			fmt.Printf("  Added goal %s: %s (target %s)\n", led.ShortID(model.KindGoal, g.ID), g.Title, cli.FormatMoney(g.TargetAmount))
		}
		return err
	})
}

func runGoalList(cmd *cobra.Command, _ []string) error {
	return withLedger(cmd, func(_ context.Context, led *ledger.Ledger) error {
		goals := pipeline.GoalsProgress(led.Snapshot().Goals)
		if len(goals) == 0 {
			fmt.Println("\n  No goals yet. Create one with `fintrack goal add`.")
			fmt.Println()
			return nil
		}

		short := led.ShortIDs(model.KindGoal)
		rows := make([][]string, 0, len(goals))
		for _, gp := range goals {
			rows = append(rows, []string{
				short[gp.Goal.ID],
				gp.Goal.Title,
				cli.FormatMoney(gp.Goal.SavedAmount),
				cli.FormatMoney(gp.Goal.TargetAmount),
				cli.RenderUsageBar(gp.PercentComplete, 12),
				cli.FormatMoney(gp.AverageContribution),
				cli.FormatNumber(int64(len(gp.Goal.Contributions))),
			})
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Goals",
			Headers:  []string{"ID", "Goal", "Saved", "Target", "Progress", "Avg", "Count"},
			Rows:     rows,
			LeftCols: 2,
		}))
		period, err := activePeriod(led)
		if err != nil {
			return err
		}
		fmt.Printf("  Available savings (%s): %s\n\n", period.Label(), cli.FormatMoney(led.AvailableSavingsIn(period)))
		return nil
	})
}

func runGoalEdit(cmd *cobra.Command, args []string) error {
	var patch ledger.GoalPatch
	var err error
	if patch.TargetAmount, err = changedAmount(cmd, "target"); err != nil {
		return err
	}
	patch.Title = changedString(cmd, "title")

	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(model.KindGoal, args[0])
		if err != nil {
			return err
		}
		g, err := led.EditGoal(ctx, id, patch)
		if g.ID != "" {
			fmt.Printf("  Updated goal %s: %s (target %s)\n", led.ShortID(model.KindGoal, g.ID), g.Title, cli.FormatMoney(g.TargetAmount))
		}
		return err
	})
}

func runGoalContribute(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(ctx context.Context, led *ledger.Ledger) error {
		id, err := led.Resolve(model.KindGoal, args[0])
		if err != nil {
			return err
		}
		period, err := activePeriod(led)
		if err != nil {
			return err
		}
		g, exp, err := led.ContributeIn(ctx, period, id, amount)
		var short *ledger.InsufficientSavingsError
		if errors.As(err, &short) {
			return fmt.Errorf("only %s is available to save in %s", cli.FormatMoney(short.Available), short.Period.Label())
		}
		if g.ID != "" {
			gp := pipeline.Progress(g)
			fmt.Printf("  Saved %s toward %s: %s of %s (%s)\n",
				cli.FormatMoney(exp.Amount), g.Title,
				cli.FormatMoney(g.SavedAmount), cli.FormatMoney(g.TargetAmount), cli.FormatPercent(gp.PercentComplete))
		}
		return err
	})
}
