package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/insights"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/components"
)

var testNow = time.Date(2025, time.March, 20, 12, 0, 0, 0, time.Local)

type memStore struct {
	mu  sync.Mutex
	doc model.Document
}

func (m *memStore) Load(context.Context) (model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone(), nil
}

func (m *memStore) Save(_ context.Context, doc model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc.Clone()
	return nil
}

func testDoc() model.Document {
	doc := model.NewDocument()
	doc.Income = []model.Income{
		{ID: "inc1", Date: model.Date{Year: 2025, Month: 3, Day: 1}, Source: "Salary", MainCategory: "Salary", Amount: decimal.NewFromInt(3000)},
	}
	doc.Expenses = []model.Expense{
		{ID: "exp1", Date: model.Date{Year: 2025, Month: 3, Day: 5}, Bucket: model.BucketNeeds, Category: "Groceries", Description: "Market", Amount: decimal.NewFromInt(120)},
		{ID: "exp2", Date: model.Date{Year: 2025, Month: 3, Day: 9}, Bucket: model.BucketWants, Category: "Restaurant", Description: "Dinner", Amount: decimal.NewFromInt(60)},
	}
	doc.FixedExpenses = []model.FixedExpense{
		{ID: "fix1", DueDay: 3, Description: "Rent", Amount: decimal.NewFromInt(1200), Status: model.StatusPending},
	}
	doc.Debts = []model.Debt{
		{ID: "debt1", Creditor: "Card", OriginalAmount: decimal.NewFromInt(500), PaidAmount: decimal.NewFromInt(100)},
	}
	doc.Goals = []model.Goal{
		{ID: "goal1", Title: "Trip", TargetAmount: decimal.NewFromInt(1000), SavedAmount: decimal.NewFromInt(250),
			Contributions: []model.Contribution{{Date: model.Date{Year: 2025, Month: 3, Day: 2}, Amount: decimal.NewFromInt(250)}}},
	}
	return doc
}

// loadedApp returns an App that has received its initial data.
func loadedApp(t *testing.T) (App, *memStore) {
	t.Helper()
	store := &memStore{doc: testDoc()}
	a := NewApp(Options{Store: store, Config: config.DefaultConfig(), Now: func() time.Time { return testNow }})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	msg := loadDataCmd(store, a.now)()
	m, _ = m.Update(msg)
	return m.(App), store
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// drive applies msg and feeds back the message produced by the returned
// command, when it produces exactly one.
func drive(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, cmd := a.Update(msg)
	if cmd != nil {
		if next := cmd(); next != nil {
			if _, batch := next.(tea.BatchMsg); !batch {
				m, _ = m.Update(next)
			}
		}
	}
	return m.(App)
}

func TestTabAtXMatchesTabBar(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		for i := range components.Tabs {
			x := components.TabStart(i, active) + components.TabVisualWidth(i, active)/2
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
		}
		if got := a.tabAtX(0); got != -1 {
			t.Fatalf("leading space hit tab %d", got)
		}
	}
}

func TestLoadUsesPersistedPeriod(t *testing.T) {
	a, _ := loadedApp(t)
	if !a.loaded || a.led == nil {
		t.Fatal("app not loaded")
	}
	if a.period != model.PeriodMonth {
		t.Fatalf("period = %q, want month", a.period)
	}
	if !a.budget.Allocation.TotalIncome.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("income = %s", a.budget.Allocation.TotalIncome)
	}
}

func TestPeriodKeyCyclesAndPersists(t *testing.T) {
	a, store := loadedApp(t)

	a = drive(t, a, runeKey('p'))
	if a.period != model.Period14Days {
		t.Fatalf("period = %q, want 14days", a.period)
	}
	if a.budget.Period != model.Period14Days {
		t.Fatalf("budget period = %q, want 14days", a.budget.Period)
	}
	if got := store.doc.Settings.Period; got != model.Period14Days {
		t.Fatalf("stored period = %q, want 14days", got)
	}
}

func TestTabKeys(t *testing.T) {
	a, _ := loadedApp(t)
	for i, tab := range components.Tabs {
		a = drive(t, a, runeKey(tab.Key))
		if a.activeTab != i {
			t.Fatalf("key %q -> tab %d, want %d", tab.Key, a.activeTab, i)
		}
	}
	a = drive(t, a, tea.KeyMsg{Type: tea.KeyRight})
	if a.activeTab != tabDashboard {
		t.Fatalf("right from last tab = %d, want wrap to 0", a.activeTab)
	}
}

func TestBillsToggle(t *testing.T) {
	a, store := loadedApp(t)
	a = drive(t, a, runeKey('b'))
	a = drive(t, a, runeKey('t'))

	if got := store.doc.FixedExpenses[0].Status; got != model.StatusPaid {
		t.Fatalf("stored status = %q, want paid", got)
	}
	if !a.budget.Fixed.Paid.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("paid total = %s, want 1200", a.budget.Fixed.Paid)
	}
	if !strings.Contains(a.message, "Rent") {
		t.Fatalf("message = %q", a.message)
	}
}

func TestInsightsWithoutKey(t *testing.T) {
	t.Setenv("FINTRACK_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	a, _ := loadedApp(t)
	a = drive(t, a, runeKey('i'))
	a = drive(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	if a.insights.generating {
		t.Fatal("generating without a key")
	}
	if !errors.Is(a.insights.err, insights.ErrNoAPIKey) {
		t.Fatalf("err = %v, want ErrNoAPIKey", a.insights.err)
	}
}

func TestInsightsFailureReenablesAndKeepsReport(t *testing.T) {
	a, _ := loadedApp(t)
	prev := &insights.Report{Model: "m"}
	a.insights = insightsState{report: prev, generating: true}

	m, _ := a.Update(InsightsMsg{Err: errors.New("boom")})
	a = m.(App)
	if a.insights.generating {
		t.Fatal("still generating after failure")
	}
	if a.insights.report != prev {
		t.Fatal("failure dropped the previous report")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a, _ := loadedApp(t)
	for i, tab := range components.Tabs {
		a.activeTab = i
		out := a.View()
		if !strings.Contains(out, tab.Name) {
			t.Fatalf("tab %s view missing its name", tab.Name)
		}
		if lines := strings.Count(out, "\n") + 1; lines != a.height {
			t.Fatalf("tab %s rendered %d lines, want %d", tab.Name, lines, a.height)
		}
	}
}

func TestSetupValuesAllocation(t *testing.T) {
	vals := NewSetupValues(config.DefaultConfig(), model.NewDocument().Settings)
	alloc, err := vals.Allocation()
	if err != nil {
		t.Fatalf("Allocation: %v", err)
	}
	if !alloc.Total().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("default total = %s", alloc.Total())
	}

	vals.Wants = "120"
	if _, err := vals.Allocation(); err == nil {
		t.Fatal("expected error for 120%")
	}

	cfg := config.DefaultConfig()
	cfg.Insights.APIKey = "keep"
	vals.APIKey = "  "
	vals.Theme = "flexoki-light"
	vals.ApplyConfig(&cfg)
	if cfg.Insights.APIKey != "keep" || cfg.Appearance.Theme != "flexoki-light" {
		t.Fatalf("ApplyConfig = %+v", cfg)
	}
}
