package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := min(max(int(v/peak*float64(len(sparkBlocks)-1)), 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// DailySpendChart draws one bar per day of spend with dollar ticks on the
// y-axis and day-of-month labels along the bottom.
func DailySpendChart(days []model.DayTotal, width, height int) string {
	values := make([]float64, len(days))
	labels := make([]string, len(days))
	for i, d := range days {
		values[i] = d.Total.InexactFloat64()
		labels[i] = fmt.Sprintf("%d/%d", int(d.Date.Month), d.Date.Day)
	}
	return BarChart(values, labels, theme.Active.Orange, width, height)
}

// BarChart renders a vertical bar chart. Narrow or short areas fall back
// to a sparkline; too many bars for the width are sampled down.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	for int(math.Ceil(peak/step)) > max(height/2, 2) {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	ticks := max(int(math.Round(ceiling/step)), 1)
	rowsPerTick := max(height/ticks, 2)
	chartH := rowsPerTick * ticks

	axisW := max(len(formatChartLabel(ceiling))+1, 5)
	tickAt := make(map[int]string, ticks)
	for i := 1; i <= ticks; i++ {
		tickAt[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}

	plotW := max(width-axisW-1, 5)
	values, labels = sampleBars(values, labels, plotW)
	n := len(values)
	gap := 1
	barW := plotW
	if n > 1 {
		barW = (plotW - (n - 1)) / n
	} else {
		gap = 0
	}
	barW = min(max(barW, 1), 6)
	axisLen := n*barW + max(0, n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", axisW, tickAt[row])))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := min(max(int((v-bottom)/(top-bottom)*8), 1), 8) - 1
				b.WriteString(barStyle.Render(strings.Repeat(string(sparkBlocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", axisW, "$0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", axisW+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// sampleBars thins the series so every bar keeps at least one column plus
// a gap.
func sampleBars(values []float64, labels []string, plotW int) ([]float64, []string) {
	n := len(values)
	limit := max((plotW+1)/2, 2)
	if n <= limit {
		return values, labels
	}
	outV := make([]float64, limit)
	var outL []string
	if len(labels) == n {
		outL = make([]string, limit)
	}
	for i := range outV {
		src := i * (n - 1) / (limit - 1)
		outV[i] = values[src]
		if outL != nil {
			outL[i] = labels[src]
		}
	}
	return outV, outL
}

// xAxisLabels places labels under their bars, skipping any that would
// overlap the previous one. The last label is always attempted.
func xAxisLabels(labels []string, pitch, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	lastEnd := -1
	place := func(i int) {
		lbl := labels[i]
		pos := i * pitch
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos < 0 || pos <= lastEnd {
			return
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	for i := range labels[:len(labels)-1] {
		place(i)
	}
	place(len(labels) - 1)
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a round tick interval targeting about five ticks.
func chartTickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel renders a dollar tick, e.g. 1500 -> "$1.5k".
func formatChartLabel(v float64) string {
	scaled := func(div float64, suffix string) string {
		if v == math.Trunc(v/div)*div {
			return fmt.Sprintf("$%.0f%s", v/div, suffix)
		}
		return fmt.Sprintf("$%.1f%s", v/div, suffix)
	}
	switch {
	case v >= 1e6:
		return scaled(1e6, "M")
	case v >= 1e3:
		return scaled(1e3, "k")
	case v >= 1:
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
