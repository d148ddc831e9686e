package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
)

var testNow = time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// populate drives a ledger through every kind of mutation so the saved
// document exercises all tables.
func populate(t *testing.T, l *ledger.Ledger) {
	t.Helper()
	ctx := context.Background()
	if _, err := l.AddIncome(ctx, ledger.IncomeInput{Source: "Salary", MainCategory: "Job", SubCategory: "Base", Amount: amt("2500.50")}); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if _, err := l.AddExpense(ctx, ledger.ExpenseInput{Bucket: model.BucketWants, Category: "Restaurant", Description: "Dinner", Amount: amt("42.10")}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	d, err := l.AddDebt(ctx, ledger.DebtInput{Creditor: "Bank", Description: "Loan", OriginalAmount: amt("500")})
	if err != nil {
		t.Fatalf("AddDebt: %v", err)
	}
	if _, _, err := l.RecordDebtPayment(ctx, d.ID, amt("100")); err != nil {
		t.Fatalf("RecordDebtPayment: %v", err)
	}
	f, err := l.AddFixed(ctx, ledger.FixedInput{DueDay: 3, Description: "Rent", Amount: amt("900")})
	if err != nil {
		t.Fatalf("AddFixed: %v", err)
	}
	if _, err := l.ToggleFixedStatus(ctx, f.ID); err != nil {
		t.Fatalf("ToggleFixedStatus: %v", err)
	}
	g, err := l.AddGoal(ctx, ledger.GoalInput{Title: "Trip", TargetAmount: amt("1000")})
	if err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	if _, _, err := l.Contribute(ctx, g.ID, amt("150")); err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if _, _, err := l.Contribute(ctx, g.ID, amt("250")); err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if err := l.SetHidden(ctx, model.KindExpense, l.Snapshot().Expenses[0].ID, true); err != nil {
		t.Fatalf("SetHidden: %v", err)
	}
	if err := l.AddCategory(ctx, "Pets"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := l.SetPeriod(ctx, model.Period30Days); err != nil {
		t.Fatalf("SetPeriod: %v", err)
	}
}

func assertSameDocument(t *testing.T, want, got model.Document) {
	t.Helper()
	if len(got.Income) != len(want.Income) || len(got.Expenses) != len(want.Expenses) ||
		len(got.Debts) != len(want.Debts) || len(got.FixedExpenses) != len(want.FixedExpenses) ||
		len(got.Goals) != len(want.Goals) {
		t.Fatalf("collection sizes differ:\nwant %+v\ngot  %+v", want, got)
	}
	for i := range want.Expenses {
		w, g := want.Expenses[i], got.Expenses[i]
		if w.ID != g.ID || w.Date != g.Date || w.Bucket != g.Bucket || w.Category != g.Category ||
			!w.Amount.Equal(g.Amount) || w.Hidden != g.Hidden {
			t.Fatalf("expense %d:\nwant %+v\ngot  %+v", i, w, g)
		}
	}
	if !got.Income[0].Amount.Equal(want.Income[0].Amount) || got.Income[0].SubCategory != "Base" {
		t.Fatalf("income = %+v", got.Income[0])
	}
	if !got.Debts[0].PaidAmount.Equal(amt("100")) {
		t.Fatalf("debt paid = %s", got.Debts[0].PaidAmount)
	}
	if got.FixedExpenses[0].Status != model.StatusPaid {
		t.Fatalf("fixed status = %s", got.FixedExpenses[0].Status)
	}
	goal := got.Goals[0]
	if len(goal.Contributions) != 2 || !goal.SavedAmount.Equal(amt("400")) {
		t.Fatalf("goal = %+v", goal)
	}
	if got.Settings.Period != model.Period30Days {
		t.Fatalf("period = %s", got.Settings.Period)
	}
	if !got.Settings.Allocation.Needs.Equal(amt("50")) {
		t.Fatalf("allocation = %+v", got.Settings.Allocation)
	}
	if got.Categories[len(got.Categories)-1] != "Pets" {
		t.Fatalf("categories = %v", got.Categories)
	}
}

func roundTrip(t *testing.T, open func() Backend) {
	t.Helper()
	ctx := context.Background()
	clock := ledger.WithClock(func() time.Time { return testNow })

	b := open()
	l, err := ledger.Open(ctx, b, clock)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	if len(l.Snapshot().Categories) != len(model.DefaultCategories) {
		t.Fatal("fresh store did not yield default categories")
	}
	populate(t, l)
	want := l.Snapshot()
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b = open()
	defer b.Close()
	reopened, err := ledger.Open(ctx, b, clock)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	assertSameDocument(t, want, reopened.Snapshot())
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fintrack.db")
	roundTrip(t, func() Backend {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		return s
	})
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	roundTrip(t, func() Backend {
		f, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		return f
	})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	for range 2 {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		_ = s.Close()
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	b, err := Open("JSON", filepath.Join(dir, "d.json"))
	if err != nil {
		t.Fatalf("Open json: %v", err)
	}
	if _, ok := b.(*File); !ok {
		t.Fatalf("backend = %T, want *File", b)
	}
	if _, err := Open("postgres", ""); err == nil {
		t.Fatal("Open accepted unknown backend")
	}
}
