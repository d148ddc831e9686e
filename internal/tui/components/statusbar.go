package components

import (
	"strings"

	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar reports on its right-hand side.
type StatusInfo struct {
	Period      string
	DataAge     string
	AutoRefresh bool
	Refreshing  bool
	Message     string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := " [?]help  [p]eriod  [r]efresh  [q]uit"
	if info.Message != "" {
		left += "   " + accent.Render(info.Message)
	}

	var right []string
	if info.Period != "" {
		right = append(right, info.Period)
	}
	switch {
	case info.Refreshing:
		right = append(right, "refreshing…")
	case info.DataAge != "":
		right = append(right, "updated "+info.DataAge)
	}
	if info.AutoRefresh {
		right = append(right, "auto")
	}
	rightStr := strings.Join(right, " · ") + " "

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 1)
	return style.Render(left + strings.Repeat(" ", padding) + rightStr)
}
