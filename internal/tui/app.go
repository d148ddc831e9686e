// Package tui provides the interactive Bubble Tea dashboard for fintrack.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/insights"
	"github.com/theirongolddev/fintrack/internal/ledger"
	flog "github.com/theirongolddev/fintrack/internal/log"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the initial load from the store finishes.
type DataLoadedMsg struct {
	Ledger   *ledger.Ledger
	Err      error
	LoadTime time.Duration
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct {
	Ledger   *ledger.Ledger
	Err      error
	LoadTime time.Duration
}

// PeriodSavedMsg reports the result of persisting a period change.
type PeriodSavedMsg struct {
	Period model.Period
	Err    error
}

// FixedToggledMsg reports the result of flipping a bill's status.
type FixedToggledMsg struct {
	Fixed model.FixedExpense
	Err   error
}

// InsightsMsg carries a generated report or the reason it failed.
type InsightsMsg struct {
	Report *insights.Report
	Err    error
}

// SetupSavedMsg reports the result of applying the setup answers.
type SetupSavedMsg struct {
	Err error
}

// Options configures the dashboard.
type Options struct {
	Store  ledger.Store
	Config config.Config
	// Period overrides the persisted period for this session when valid.
	Period    model.Period
	NeedSetup bool
	// Now replaces time.Now for the budget clock.
	Now func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	store ledger.Store
	cfg   config.Config
	now   func() time.Time

	// Data
	led      *ledger.Ledger
	budget   model.Budget
	period   model.Period
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	message   string

	// Per-tab state
	bills    billsState
	insights insightsState

	// First-run setup (huh form). setupVals is a pointer because the
	// form writes into it while App is passed by value.
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	loadTimeout      = 10 * time.Second
	minRefresh       = 10 * time.Second
)

// Tab indices, matching components.Tabs.
const (
	tabDashboard = iota
	tabSpending
	tabGoals
	tabBills
	tabInsights
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	refreshInterval := time.Duration(opts.Config.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < minRefresh {
		refreshInterval = 30 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	period := opts.Period
	if !period.Valid() {
		period = ""
	}

	return App{
		store:           opts.Store,
		cfg:             opts.Config,
		now:             now,
		period:          period,
		needSetup:       opts.NeedSetup,
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.store, a.now),
		a.spinner.Tick,
		tickCmd(),
	)
}

// recompute derives the budget for the active period from the ledger.
func (a *App) recompute() {
	if a.led == nil {
		return
	}
	if a.period == "" {
		a.period = a.led.Period()
	}
	a.budget = a.led.BudgetFor(a.period)

	n := len(a.billRows())
	if a.bills.cursor >= n {
		a.bills.cursor = n - 1
	}
	if a.bills.cursor < 0 {
		a.bills.cursor = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabBills {
				a.bills.up()
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabBills {
				a.bills.down(len(a.billRows()))
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = a.now()
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.led = msg.Ledger
		a.recompute()

		if a.needSetup {
			vals := NewSetupValues(a.cfg, a.led.Snapshot().Settings)
			a.setupVals = &vals
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = a.now()
		if msg.Err != nil {
			a.message = "refresh failed"
			flog.For(flog.ComponentApp).Warn("refresh failed", flog.Err(msg.Err))
			return a, nil
		}
		a.led = msg.Ledger
		a.loadErr = nil
		a.loadTime = msg.LoadTime
		a.recompute()
		return a, nil

	case PeriodSavedMsg:
		if msg.Err != nil {
			a.message = "period not saved"
			flog.For(flog.ComponentApp).Warn("saving period failed", flog.Err(msg.Err))
		}
		return a, nil

	case FixedToggledMsg:
		switch {
		case msg.Err != nil && msg.Fixed.ID == "":
			a.message = "toggle failed"
			flog.For(flog.ComponentApp).Warn("toggle failed", flog.Err(msg.Err))
		case msg.Err != nil:
			a.message = "marked " + msg.Fixed.Status.String() + " (not saved)"
		default:
			a.message = fmt.Sprintf("%s marked %s", msg.Fixed.Description, msg.Fixed.Status)
		}
		a.recompute()
		return a, nil

	case InsightsMsg:
		a.insights.generating = false
		a.insights.err = msg.Err
		if msg.Err == nil {
			a.insights.report = msg.Report
		}
		return a, nil

	case SetupSavedMsg:
		if msg.Err != nil {
			a.message = "setup not fully saved"
			flog.For(flog.ComponentApp).Warn("saving setup failed", flog.Err(msg.Err))
		}
		a.period = ""
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.insights.generating {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && a.setupForm == nil {
			if a.now().Sub(a.lastRefresh) >= a.refreshInterval {
				a.refreshing = true
				cmds = append(cmds, refreshDataCmd(a.store, a.now))
			}
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if key == "q" {
		return a, tea.Quit
	}
	if a.led == nil {
		// Only refresh can recover from a failed load.
		if key == "r" && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.store, a.now)
		}
		return a, nil
	}
	a.message = ""

	switch a.activeTab {
	case tabBills:
		switch key {
		case "j", "down":
			a.bills.down(len(a.billRows()))
			return a, nil
		case "k", "up":
			a.bills.up()
			return a, nil
		case "t", " ", "enter":
			rows := a.billRows()
			if len(rows) == 0 {
				return a, nil
			}
			return a, toggleFixedCmd(a.led, rows[a.bills.cursor].ID)
		}
	case tabInsights:
		if key == "enter" {
			return a.startInsights()
		}
	}

	switch key {
	case "p":
		a.period = a.period.Next()
		a.recompute()
		return a, savePeriodCmd(a.led, a.period)

	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.store, a.now)
		}
		return a, nil

	case "R":
		a.autoRefresh = !a.autoRefresh
		a.cfg.TUI.AutoRefresh = a.autoRefresh
		if err := config.Save(a.cfg); err != nil {
			flog.For(flog.ComponentApp).Warn("saving config failed", flog.Err(err))
		}
		return a, nil

	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// startInsights launches a report request unless one is already running.
func (a App) startInsights() (tea.Model, tea.Cmd) {
	if a.insights.generating {
		return a, nil
	}
	client, err := insights.NewClient(insights.FromConfig(a.cfg))
	if err != nil {
		a.insights.err = err
		return a, nil
	}
	snap := insights.NewSnapshot(a.led.Snapshot())
	if len(snap.Income) == 0 && len(snap.Expenses) == 0 {
		a.insights.err = errNothingToAnalyze
		return a, nil
	}
	a.insights.generating = true
	a.insights.err = nil
	return a, tea.Batch(a.spinner.Tick, generateInsightsCmd(client, snap, a.now()))
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		vals := *a.setupVals
		vals.ApplyConfig(&a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		a.needSetup = false
		a.setupForm = nil
		return a, saveSetupCmd(a.led, a.cfg, vals)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fintrack needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)
	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ fintrack"))
	b.WriteString(subtitleStyle.Render(" · Budget Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading records..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, title string, binds []struct{ key, desc string }) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", []struct{ key, desc string }{
		{"d s g b i", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move through bills"},
	})
	b.WriteString("\n")
	section(&b, "Actions", []struct{ key, desc string }{
		{"p", "Cycle time period"},
		{"t Space", "Toggle bill paid / pending"},
		{"Enter", "Generate insights (Insights tab)"},
		{"r", "Reload data"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar plus a period pill row
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(w)

	pill := pillStyle.Render(" ")
	if a.led != nil {
		pill += pillAccent.Render(a.period.Label())
		if !a.budget.Start.IsZero() {
			pill += pillStyle.Render(" │ since " + model.DateOf(a.budget.Start).String())
		}
	}
	pill += pillStyle.Render(" ")

	header := rowStyle.Render(components.RenderTabBar(a.activeTab, w)) + "\n" + rowStyle.Render(pill)

	// 2. Status bar
	status := components.StatusInfo{
		Period:      a.period.String(),
		AutoRefresh: a.autoRefresh,
		Refreshing:  a.refreshing,
		Message:     a.message,
	}
	if !a.lastRefresh.IsZero() {
		status.DataAge = formatAge(a.now().Sub(a.lastRefresh))
	}
	statusBar := components.RenderStatusBar(w, status)

	// 3. Content zone
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.led == nil:
		content = a.renderLoadError(cw)
	case a.activeTab == tabDashboard:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabSpending:
		content = a.renderBreakdownTab(cw)
	case a.activeTab == tabGoals:
		content = a.renderGoalsTab(cw)
	case a.activeTab == tabBills:
		content = a.renderBillsTab(cw)
	case a.activeTab == tabInsights:
		content = a.renderInsightsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderLoadError(cw int) string {
	t := theme.Active
	warn := lipgloss.NewStyle().Foreground(t.Orange)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	body := warn.Render(fmt.Sprintf("Could not load records: %v", a.loadErr)) + "\n\n" +
		muted.Render("Press r to retry or q to quit.")
	return components.ContentCard("Error", body, cw)
}

// ─── Helpers ────────────────────────────────────────────────────

var errNothingToAnalyze = errors.New("add some income and expenses first")

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func openLedger(store ledger.Store, now func() time.Time) (*ledger.Ledger, time.Duration, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	led, err := ledger.Open(ctx, store, ledger.WithClock(now))
	return led, time.Since(start), err
}

// loadDataCmd opens the ledger in the background.
func loadDataCmd(store ledger.Store, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		led, took, err := openLedger(store, now)
		return DataLoadedMsg{Ledger: led, Err: err, LoadTime: took}
	}
}

// refreshDataCmd reloads from the store so edits made elsewhere show up.
func refreshDataCmd(store ledger.Store, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		led, took, err := openLedger(store, now)
		return RefreshDataMsg{Ledger: led, Err: err, LoadTime: took}
	}
}

func savePeriodCmd(led *ledger.Ledger, p model.Period) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return PeriodSavedMsg{Period: p, Err: led.SetPeriod(ctx, p)}
	}
}

func toggleFixedCmd(led *ledger.Ledger, id model.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		f, err := led.ToggleFixedStatus(ctx, id)
		return FixedToggledMsg{Fixed: f, Err: err}
	}
}

func generateInsightsCmd(client *insights.Client, snap insights.Snapshot, now time.Time) tea.Cmd {
	return func() tea.Msg {
		report, err := client.Generate(context.Background(), snap, now)
		return InsightsMsg{Report: report, Err: err}
	}
}

// saveSetupCmd writes the config and stores the allocation and period
// with the data. Every step runs; the first failure is reported.
func saveSetupCmd(led *ledger.Ledger, cfg config.Config, vals SetupValues) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		errs := []error{config.Save(cfg)}
		if alloc, err := vals.Allocation(); err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, led.SetAllocation(ctx, alloc))
		}
		errs = append(errs, led.SetPeriod(ctx, vals.PeriodValue()))
		return SetupSavedMsg{Err: errors.Join(errs...)}
	}
}

// billRows is the bills-tab list in display order.
func (a App) billRows() []model.FixedExpense {
	if a.led == nil {
		return nil
	}
	w := pipeline.Filter(a.led.Snapshot(), a.period, a.now())
	return pipeline.SortFixedByDueDay(w.FixedExpenses)
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes come from the same geometry RenderTabBar uses.
func (a App) tabAtX(x int) int {
	for i := range components.Tabs {
		start := components.TabStart(i, a.activeTab)
		if x >= start && x < start+components.TabVisualWidth(i, a.activeTab) {
			return i
		}
	}
	return -1
}
