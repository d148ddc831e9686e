package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// billsState is the cursor over the fixed-expense list.
type billsState struct {
	cursor int
}

func (s *billsState) up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *billsState) down(n int) {
	if s.cursor < n-1 {
		s.cursor++
	}
}

func (a App) renderBillsTab(cw int) string {
	var b strings.Builder

	fixed := a.budget.Fixed
	debts := a.budget.Debts
	t := theme.Active
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Bills Pending", Value: cli.FormatMoney(fixed.Pending), Delta: fmt.Sprintf("%d bills", fixed.Count), Color: t.Orange},
		{Label: "Bills Paid", Value: cli.FormatMoney(fixed.Paid), Delta: "of " + cli.FormatMoney(fixed.Total), Color: t.Green},
		{Label: "Debt Remaining", Value: cli.FormatMoney(debts.Remaining), Delta: fmt.Sprintf("%d debts", debts.Count), Color: t.Red},
		{Label: "Debt Repaid", Value: cli.FormatMoney(debts.Paid), Delta: "of " + cli.FormatMoney(debts.Original)},
	}, cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Fixed Expenses", a.billsBody(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Debts", a.debtsBody(components.CardInnerWidth(cw)), cw))
		return b.String()
	}
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Fixed Expenses", a.billsBody(components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Debts", a.debtsBody(components.CardInnerWidth(halves[1])), halves[1]),
	}))
	return b.String()
}

func (a App) billsBody(innerW int) string {
	t := theme.Active
	rows := a.billRows()
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	if len(rows) == 0 {
		return muted.Render("No fixed expenses in this period")
	}

	text := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selected := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	paid := lipgloss.NewStyle().Foreground(t.Green)
	pending := lipgloss.NewStyle().Foreground(t.Orange)

	dueW, amtW, statusW := 5, 11, 8
	descW := max(innerW-dueW-amtW-statusW-4, 8)

	var body strings.Builder
	for i, f := range rows {
		status := pending.Render(fmt.Sprintf("%-*s", statusW, f.Status))
		if f.Status == model.StatusPaid {
			status = paid.Render(fmt.Sprintf("%-*s", statusW, f.Status))
		}
		line := fmt.Sprintf("%-*s %-*s %*s ",
			dueW, cli.Ordinal(f.DueDay),
			descW, cli.Truncate(f.Description, descW),
			amtW, cli.FormatMoney(f.Amount))
		style := text
		marker := "  "
		if i == a.bills.cursor {
			style = selected
			marker = "▸ "
		}
		body.WriteString(marker + style.Render(line) + status)
		if i < len(rows)-1 {
			body.WriteString("\n")
		}
	}
	body.WriteString("\n\n")
	body.WriteString(muted.Render("j/k select · t toggle paid"))
	return body.String()
}

func (a App) debtsBody(innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary)

	debts := pipeline.Filter(a.led.Snapshot(), a.period, a.now()).Debts
	if len(debts) == 0 {
		return muted.Render("No debts")
	}

	var body strings.Builder
	for i, d := range debts {
		repaid := 0.0
		if d.OriginalAmount.IsPositive() {
			repaid = d.PaidAmount.Div(d.OriginalAmount).InexactFloat64()
		}
		body.WriteString(text.Render(cli.Truncate(d.Creditor, innerW)))
		body.WriteString("\n")
		body.WriteString(components.ProgressBar(repaid, max(innerW-6, 8)))
		body.WriteString("\n")
		body.WriteString(muted.Render(fmt.Sprintf("%s left of %s", cli.FormatMoney(d.Remaining()), cli.FormatMoney(d.OriginalAmount))))
		if i < len(debts)-1 {
			body.WriteString("\n")
		}
	}
	return body.String()
}
