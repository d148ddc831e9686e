package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	goodStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle = lipgloss.NewStyle().Foreground(ColorOrange)
	badStyle  = lipgloss.NewStyle().Foreground(ColorRed)
)

// Table represents a bordered text table for CLI output.
// The first column is left-aligned, the rest right-aligned unless
// LeftCols marks them otherwise.
type Table struct {
	Title    string
	Headers  []string
	Rows     [][]string
	LeftCols int // number of leading left-aligned columns, defaults to 1
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderSection renders an accent-colored section heading.
func RenderSection(title string) string {
	return "  " + headerStyle.Render(title)
}

// Muted renders secondary text.
func Muted(s string) string { return mutedStyle.Render(s) }

// Warn renders a warning line.
func Warn(s string) string { return warnStyle.Render(s) }

// Good renders positive text.
func Good(s string) string { return goodStyle.Render(s) }

// Bad renders negative text.
func Bad(s string) string { return badStyle.Render(s) }

// Money renders an amount colored by sign.
func Money(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return badStyle.Render(FormatMoney(d))
	case d.IsZero():
		return mutedStyle.Render(FormatMoney(d))
	}
	return goodStyle.Render(FormatMoney(d))
}

// RenderTable renders a bordered table with headers and rows.
// A row holding the single cell "---" renders as a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > numCols && !isSeparator(row) {
			numCols = len(row)
		}
	}
	left := t.LeftCols
	if left <= 0 {
		left = 1
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			continue
		}
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(RenderSection(t.Title))
		b.WriteString("\n")
	}

	rule := func(l, mid, r string) {
		b.WriteString(dimStyle.Render(l))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(r))
		b.WriteString("\n")
	}
	line := func(cells []string, style lipgloss.Style, alignAll bool) {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style.Render(" " + pad(cell, widths[i], alignAll || i < left) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, headerStyle, true)
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			rule("├", "┼", "┤")
			continue
		}
		line(row, valueStyle, false)
	}
	rule("╰", "┴", "╯")

	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == "---"
}

// pad aligns by display width so styled or wide cells line up.
func pad(s string, width int, leftAlign bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if leftAlign {
		return s + strings.Repeat(" ", gap)
	}
	return strings.Repeat(" ", gap) + s
}

// RenderUsageBar renders a bar for a 0-100 percentage. It turns orange past
// 80% and red past 100%, with the percentage appended.
func RenderUsageBar(pct decimal.Decimal, width int) string {
	frac := ClampPercent(pct)
	filled := int(frac * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := goodStyle
	switch {
	case pct.GreaterThan(hundred):
		style = badStyle
	case pct.GreaterThanOrEqual(decimal.NewFromInt(80)):
		style = warnStyle
	}
	return fmt.Sprintf("%s %s", style.Render(bar), mutedStyle.Render(FormatPercent(pct)))
}

// RenderShareBar renders a labelled bar sized relative to maxValue.
func RenderShareBar(label string, value, maxValue decimal.Decimal, labelWidth, maxWidth int) string {
	barLen := 0
	if maxValue.IsPositive() && value.IsPositive() {
		barLen = int(value.Div(maxValue).InexactFloat64() * float64(maxWidth))
	}
	barLen = min(max(barLen, 0), maxWidth)
	return fmt.Sprintf("  %s %s %s",
		pad(Truncate(label, labelWidth), labelWidth, true),
		lipgloss.NewStyle().Foreground(ColorBlue).Render(strings.Repeat("█", barLen)),
		mutedStyle.Render(FormatMoney(value)),
	)
}
