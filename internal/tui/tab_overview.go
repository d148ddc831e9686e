package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const recentRows = 8

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	bud := a.budget
	alloc := bud.Allocation
	var b strings.Builder

	// Row 1: headline numbers
	spent := alloc.Total.Spent
	remaining := alloc.Total.Remaining
	cards := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(alloc.TotalIncome), Delta: fmt.Sprintf("%d sources overall", bud.Income.Sources), Color: t.Green},
		{Label: "Spent", Value: cli.FormatMoney(spent), Delta: "incl. " + cli.FormatMoney(bud.Fixed.Total) + " fixed"},
		{Label: "Remaining", Value: cli.FormatMoney(remaining), Delta: "of " + cli.FormatMoney(alloc.Total.Allocated), Color: t.AmountColor(remaining)},
		{Label: "Available Savings", Value: cli.FormatMoney(bud.AvailableSavings), Delta: "for goal contributions", Color: t.AmountColor(bud.AvailableSavings)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: allocation bars + recent activity
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Allocation", a.allocationBody(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Recent Activity", a.recentBody(components.CardInnerWidth(cw)), cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Allocation", a.allocationBody(halves[0]), halves[0]),
		components.ContentCard("Recent Activity", a.recentBody(components.CardInnerWidth(halves[1])), halves[1]),
	}))
	return b.String()
}

// allocationBody renders one bar per bucket plus the percentage check.
func (a App) allocationBody(outerW int) string {
	t := theme.Active
	alloc := a.budget.Allocation
	innerW := components.CardInnerWidth(outerW)

	labelW := 16
	barW := max(innerW-labelW-8, 8)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	warn := lipgloss.NewStyle().Foreground(t.Orange)

	var body strings.Builder
	for _, bs := range alloc.Buckets() {
		used := bs.UsedPercent().Div(decimalHundred).InexactFloat64()
		body.WriteString(components.BudgetBar(bs.Bucket.String(), used, labelW, barW))
		body.WriteString("\n")
		body.WriteString(muted.Render(fmt.Sprintf("%-*s %s of %s · %s left",
			labelW, " "+cli.FormatPercentWhole(bs.Percent),
			cli.FormatMoney(bs.Spent), cli.FormatMoney(bs.Allocated), cli.FormatMoney(bs.Remaining))))
		body.WriteString("\n")
	}
	if !alloc.Balanced {
		body.WriteString(warn.Render(fmt.Sprintf("Allocation totals %s, not 100%%", cli.FormatPercentWhole(alloc.TotalPercent))))
	} else {
		body.WriteString(muted.Render("Allocation totals 100%"))
	}
	return body.String()
}

func (a App) recentBody(innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary)

	entries := a.budget.Recent
	if len(entries) == 0 {
		return muted.Render("No income or expenses in this period")
	}
	if len(entries) > recentRows {
		entries = entries[:recentRows]
	}

	amountW := 12
	dateW := 10
	descW := max(innerW-amountW-dateW-2, 8)

	var body strings.Builder
	for i, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = e.Label
		}
		amt := lipgloss.NewStyle().Foreground(t.AmountColor(e.Amount)).Render(fmt.Sprintf("%*s", amountW, cli.FormatSigned(e.Amount)))
		fmt.Fprintf(&body, "%s %s %s",
			muted.Render(fmt.Sprintf("%-*s", dateW, e.Date.String())),
			text.Render(fmt.Sprintf("%-*s", descW, cli.Truncate(desc, descW))),
			amt)
		if i < len(entries)-1 {
			body.WriteString("\n")
		}
	}
	return body.String()
}
