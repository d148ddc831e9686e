package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	var b strings.Builder

	savings := a.budget.AvailableSavings
	savingsLine := lipgloss.NewStyle().Foreground(t.AmountColor(savings)).Bold(true).Render(cli.FormatMoney(savings))
	b.WriteString(components.ContentCard("Available Savings",
		savingsLine+muted.Render(" can go to goals this period ("+a.period.Label()+")"), cw))
	b.WriteString("\n")

	goals := a.budget.Goals
	if len(goals) == 0 {
		b.WriteString(components.ContentCard("Goals", muted.Render("No goals yet. Add one with `fintrack goal add <target> <title>`."), cw))
		return b.String()
	}

	cols := 2
	if a.isCompactLayout() {
		cols = 1
	}
	widths := components.LayoutRow(cw, cols)
	for i := 0; i < len(goals); i += cols {
		row := make([]string, 0, cols)
		for j := 0; j < cols && i+j < len(goals); j++ {
			row = append(row, goalCard(goals[i+j], widths[j]))
		}
		b.WriteString(components.CardRow(row))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func goalCard(gp model.GoalProgress, outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary)

	g := gp.Goal
	pct := gp.PercentComplete.Div(decimalHundred).InexactFloat64()

	var body strings.Builder
	body.WriteString(components.ProgressBar(pct, max(innerW-6, 8)))
	body.WriteString("\n")
	body.WriteString(value.Render(fmt.Sprintf("%s of %s", cli.FormatMoney(g.SavedAmount), cli.FormatMoney(g.TargetAmount))))
	body.WriteString("\n")

	if gp.Remaining.IsPositive() {
		body.WriteString(muted.Render(cli.FormatMoney(gp.Remaining) + " to go"))
	} else {
		body.WriteString(lipgloss.NewStyle().Foreground(t.Green).Render("Reached"))
	}
	if n := len(g.Contributions); n > 0 {
		body.WriteString(muted.Render(fmt.Sprintf(" · %d contributions, avg %s", n, cli.FormatMoney(gp.AverageContribution))))
		last := g.Contributions[n-1]
		body.WriteString("\n")
		body.WriteString(muted.Render(fmt.Sprintf("last %s on %s", cli.FormatMoney(last.Amount), cli.FormatDate(last.Date))))
	}
	return components.ContentCard(cli.Truncate(g.Title, innerW), body.String(), outerW)
}
