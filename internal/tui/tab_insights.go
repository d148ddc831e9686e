package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/insights"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// insightsState holds the last report. A failed request keeps the
// previous report on screen.
type insightsState struct {
	report     *insights.Report
	err        error
	generating bool
}

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	warn := lipgloss.NewStyle().Foreground(t.Orange)
	accent := lipgloss.NewStyle().Foreground(t.Accent)
	var b strings.Builder

	var status string
	switch {
	case a.insights.generating:
		status = accent.Render(a.spinner.View() + " Generating insights...")
	case errors.Is(a.insights.err, insights.ErrNoAPIKey):
		status = warn.Render("No API key. Set FINTRACK_API_KEY or run `fintrack setup`.")
	case a.insights.err != nil:
		status = warn.Render("Insights failed: "+a.insights.err.Error()) + "\n" + muted.Render("Press Enter to try again.")
	case a.insights.report == nil:
		status = muted.Render("Press Enter to send a snapshot of your records for analysis.")
	default:
		status = muted.Render(fmt.Sprintf("Generated %s by %s · Enter to regenerate",
			a.insights.report.GeneratedAt.Format("Jan 2 15:04"), a.insights.report.Model))
	}
	b.WriteString(components.ContentCard("Insights", status, cw))

	r := a.insights.report
	if r == nil {
		return b.String()
	}
	b.WriteString("\n")

	innerFull := components.CardInnerWidth(cw)
	score := lipgloss.NewStyle().Foreground(scoreColor(r.FinancialHealth.Score.InexactFloat64())).Bold(true)
	healthBody := func(w int) string {
		return score.Render(r.FinancialHealth.Score.String()+"/100") + "\n" + wrap(r.FinancialHealth.Summary, w)
	}
	forecastBody := func(w int) string {
		return lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(cli.FormatMoney(r.SpendingForecast.Next30Days)) +
			muted.Render(" next 30 days") + "\n" + wrap(r.SpendingForecast.Comment, w)
	}

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Financial Health", healthBody(innerFull), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Spending Forecast", forecastBody(innerFull), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Financial Health", healthBody(components.CardInnerWidth(halves[0])), halves[0]),
			components.ContentCard("Spending Forecast", forecastBody(components.CardInnerWidth(halves[1])), halves[1]),
		}))
	}
	b.WriteString("\n")

	if len(r.GoalEstimates) > 0 {
		var est strings.Builder
		for i, g := range r.GoalEstimates {
			fmt.Fprintf(&est, "%s %s", lipgloss.NewStyle().Foreground(t.TextPrimary).Render(g.GoalTitle), muted.Render("→ "+g.EstimatedCompletionDate))
			if i < len(r.GoalEstimates)-1 {
				est.WriteString("\n")
			}
		}
		b.WriteString(components.ContentCard("Goal Estimates", est.String(), cw))
		b.WriteString("\n")
	}

	var recs strings.Builder
	for i, rec := range r.Recommendations {
		recs.WriteString(accent.Render(fmt.Sprintf("%d. %s", i+1, rec.Title)))
		recs.WriteString("\n")
		recs.WriteString(wrap(rec.Description, innerFull-3))
		if i < len(r.Recommendations)-1 {
			recs.WriteString("\n")
		}
	}
	b.WriteString(components.ContentCard("Recommendations", recs.String(), cw))
	return b.String()
}

func scoreColor(score float64) lipgloss.Color {
	t := theme.Active
	switch {
	case score >= 70:
		return t.Green
	case score >= 40:
		return t.Orange
	}
	return t.Red
}

// wrap word-wraps s to width in the muted text color.
func wrap(s string, width int) string {
	return lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Width(max(width, 10)).Render(s)
}
