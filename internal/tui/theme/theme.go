// Package theme defines the color themes of the fintrack dashboard and
// maps budget semantics (buckets, over-spend, money sign) onto them.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Theme is a named palette. Budget roles color the three allocation
// buckets; status roles mark money that is fine, close, or over.
type Theme struct {
	Name string

	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and bars
	SurfaceHover lipgloss.Color // active tab, selected row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Cyan         lipgloss.Color

	Green       lipgloss.Color
	GreenBright lipgloss.Color
	Orange      lipgloss.Color
	Red         lipgloss.Color

	Needs   lipgloss.Color
	Wants   lipgloss.Color
	Savings lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default, a warm ink-on-paper dark palette.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   "#100F0F",
	Surface:      "#1C1B1A",
	SurfaceHover: "#282726",
	Border:       "#403E3C",
	BorderAccent: "#3AA99F",
	TextDim:      "#575653",
	TextMuted:    "#878580",
	TextPrimary:  "#FFFCF0",
	Accent:       "#3AA99F",
	AccentBright: "#5BC8BE",
	Cyan:         "#24837B",
	Green:        "#879A39",
	GreenBright:  "#A3B859",
	Orange:       "#DA702C",
	Red:          "#D14D41",
	Needs:        "#4385BE",
	Wants:        "#CE5D97",
	Savings:      "#879A39",
}

// FlexokiLight is the same palette on paper.
var FlexokiLight = Theme{
	Name:         "flexoki-light",
	Background:   "#FFFCF0",
	Surface:      "#F2F0E5",
	SurfaceHover: "#E6E4D9",
	Border:       "#CECDC3",
	BorderAccent: "#24837B",
	TextDim:      "#B7B5AC",
	TextMuted:    "#6F6E69",
	TextPrimary:  "#100F0F",
	Accent:       "#24837B",
	AccentBright: "#3AA99F",
	Cyan:         "#24837B",
	Green:        "#66800B",
	GreenBright:  "#879A39",
	Orange:       "#BC5215",
	Red:          "#AF3029",
	Needs:        "#205EA6",
	Wants:        "#A02F6F",
	Savings:      "#66800B",
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Background:   "0",
	Surface:      "0",
	SurfaceHover: "8",
	Border:       "8",
	BorderAccent: "6",
	TextDim:      "8",
	TextMuted:    "7",
	TextPrimary:  "15",
	Accent:       "6",
	AccentBright: "14",
	Cyan:         "6",
	Green:        "2",
	GreenBright:  "10",
	Orange:       "3",
	Red:          "1",
	Needs:        "4",
	Wants:        "5",
	Savings:      "2",
}

// All available themes.
var All = []Theme{FlexokiDark, FlexokiLight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// BucketColor is the series color of an allocation bucket.
func (t Theme) BucketColor(b model.Bucket) lipgloss.Color {
	switch b {
	case model.BucketNeeds:
		return t.Needs
	case model.BucketWants:
		return t.Wants
	case model.BucketSavingsDebt:
		return t.Savings
	}
	return t.TextMuted
}

// AmountColor colors money by sign: inflow green, outflow red, zero muted.
func (t Theme) AmountColor(d decimal.Decimal) lipgloss.Color {
	switch {
	case d.IsNegative():
		return t.Red
	case d.IsZero():
		return t.TextMuted
	}
	return t.Green
}

// UsageColor colors a spent/allocated fraction: orange from 0.8, red past 1.
func (t Theme) UsageColor(frac float64) lipgloss.Color {
	switch {
	case frac > 1:
		return t.Red
	case frac >= 0.8:
		return t.Orange
	}
	return t.Green
}
