package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Progress computes completion and average contribution for g.
// PercentComplete is left unclamped; callers clamp for progress bars only.
func Progress(g model.Goal) model.GoalProgress {
	p := model.GoalProgress{
		Goal:      g,
		Remaining: g.TargetAmount.Sub(g.SavedAmount),
	}
	if g.TargetAmount.IsPositive() {
		p.PercentComplete = g.SavedAmount.Div(g.TargetAmount).Mul(hundred)
	}
	if n := len(g.Contributions); n > 0 {
		p.AverageContribution = ContributionSum(g).Div(decimal.NewFromInt(int64(n)))
	}
	return p
}

// GoalsProgress returns progress for every visible goal in order.
func GoalsProgress(goals []model.Goal) []model.GoalProgress {
	visible := VisibleGoals(goals)
	out := make([]model.GoalProgress, 0, len(visible))
	for _, g := range visible {
		out = append(out, Progress(g))
	}
	return out
}

// ContributionSum totals a goal's contributions.
func ContributionSum(g model.Goal) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range g.Contributions {
		sum = sum.Add(c.Amount)
	}
	return sum
}
