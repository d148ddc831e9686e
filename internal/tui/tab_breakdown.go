package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var decimalHundred = decimal.NewFromInt(100)

func (a App) renderBreakdownTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: daily spend chart
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	if len(a.budget.Daily) > 0 {
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Daily Spending · %s", a.period.Label()),
			components.DailySpendChart(a.budget.Daily, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 2: categories + bucket totals
	cats := a.budget.Categories
	if len(cats.Categories) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted)
		b.WriteString(components.ContentCard("Spending by Category", muted.Render("No expenses in this period"), cw))
		return b.String()
	}

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Spending by Category", a.categoryBody(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("By Bucket", a.bucketBody(components.CardInnerWidth(cw)), cw))
		return b.String()
	}

	widths := components.LayoutRow(cw, 3)
	left := widths[0] + widths[1]
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Spending by Category", a.categoryBody(components.CardInnerWidth(left)), left),
		components.ContentCard("By Bucket", a.bucketBody(components.CardInnerWidth(widths[2])), widths[2]),
	}))
	return b.String()
}

// categoryBody draws one share bar per (bucket, category) sized against
// the largest category and colored by bucket.
func (a App) categoryBody(innerW int) string {
	t := theme.Active
	cats := a.budget.Categories.Categories

	peak := decimal.Zero
	for _, c := range cats {
		peak = decimal.Max(peak, c.Total)
	}

	nameW := min(max(innerW/3, 14), 28)
	valW := 11
	pctW := 7
	barMax := max(innerW-nameW-valW-pctW-3, 4)

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	valStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var body strings.Builder
	for i, c := range cats {
		barLen := 0
		if peak.IsPositive() {
			barLen = int(c.Total.Div(peak).InexactFloat64() * float64(barMax))
		}
		bar := lipgloss.NewStyle().Foreground(t.BucketColor(c.Bucket)).Render(strings.Repeat("█", barLen))

		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, cli.Truncate(c.Category, nameW))))
		body.WriteString(" ")
		body.WriteString(bar + strings.Repeat(" ", barMax-barLen))
		body.WriteString(valStyle.Render(fmt.Sprintf(" %*s %*s", valW, cli.FormatMoney(c.Total), pctW, cli.FormatPercent(c.Percent))))
		if i < len(cats)-1 {
			body.WriteString("\n")
		}
	}
	return body.String()
}

func (a App) bucketBody(innerW int) string {
	t := theme.Active
	cats := a.budget.Categories
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	bold := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)

	var body strings.Builder
	for _, bt := range cats.Buckets {
		dot := lipgloss.NewStyle().Foreground(t.BucketColor(bt.Bucket)).Render("●")
		fmt.Fprintf(&body, "%s %s\n", dot, bold.Render(bt.Bucket.String()))
		body.WriteString(muted.Render(fmt.Sprintf("  %s · %s of spend", cli.FormatMoney(bt.Total), cli.FormatPercent(bt.Percent))))
		body.WriteString("\n")
	}
	body.WriteString(muted.Render(strings.Repeat("─", max(innerW, 10))))
	body.WriteString("\n")
	body.WriteString(bold.Render("Total " + cli.FormatMoney(cats.Total)))
	return body.String()
}
