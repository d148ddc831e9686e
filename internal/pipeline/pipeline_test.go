package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func day(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

var refNow = time.Date(2025, time.March, 20, 15, 30, 0, 0, time.UTC)

func TestComputeAllocation_ZeroExpenses(t *testing.T) {
	income := []model.Income{{Amount: dec(t, "600")}, {Amount: dec(t, "400")}}

	s := ComputeAllocation(income, nil, nil, model.DefaultAllocation())

	assertDec(t, "total income", s.TotalIncome, "1000")
	assertDec(t, "needs.allocated", s.Needs.Allocated, "500")
	assertDec(t, "wants.allocated", s.Wants.Allocated, "300")
	assertDec(t, "savings.allocated", s.SavingsDebt.Allocated, "200")
	for _, b := range s.Buckets() {
		if !b.Remaining.Equal(b.Allocated) {
			t.Fatalf("%s remaining = %s, want %s", b.Bucket, b.Remaining, b.Allocated)
		}
	}
	if !s.Balanced {
		t.Fatal("50/30/20 reported as unbalanced")
	}
}

func TestComputeAllocation_Deficit(t *testing.T) {
	income := []model.Income{{Amount: dec(t, "1000")}}
	expenses := []model.Expense{{Bucket: model.BucketNeeds, Category: "Groceries", Amount: dec(t, "600")}}

	s := ComputeAllocation(income, expenses, nil, model.DefaultAllocation())

	assertDec(t, "needs.remaining", s.Needs.Remaining, "-100")
	assertDec(t, "total.remaining", s.Total.Remaining, "400")
	assertDec(t, "total.spent", s.Total.Spent, "600")
}

func TestComputeAllocation_FixedExpensesCountAsNeeds(t *testing.T) {
	income := []model.Income{{Amount: dec(t, "1000")}}
	fixed := []model.FixedExpense{{DueDay: 1, Amount: dec(t, "200")}, {DueDay: 15, Amount: dec(t, "50")}}
	expenses := []model.Expense{{Bucket: model.BucketWants, Amount: dec(t, "30")}}

	s := ComputeAllocation(income, expenses, fixed, model.DefaultAllocation())

	assertDec(t, "needs.spent", s.Needs.Spent, "250")
	assertDec(t, "wants.spent", s.Wants.Spent, "30")
	assertDec(t, "savings.spent", s.SavingsDebt.Spent, "0")
}

func TestComputeAllocation_ZeroIncomeWithSpend(t *testing.T) {
	expenses := []model.Expense{{Bucket: model.BucketWants, Amount: dec(t, "25")}}

	s := ComputeAllocation(nil, expenses, nil, model.DefaultAllocation())

	for _, b := range s.Buckets() {
		if !b.Allocated.IsZero() {
			t.Fatalf("%s allocated = %s, want 0", b.Bucket, b.Allocated)
		}
	}
	assertDec(t, "wants.remaining", s.Wants.Remaining, "-25")
}

func TestComputeAllocation_UnbalancedPercentages(t *testing.T) {
	alloc := model.Allocation{Needs: dec(t, "60"), Wants: dec(t, "30"), Savings: dec(t, "20")}
	s := ComputeAllocation([]model.Income{{Amount: dec(t, "100")}}, nil, nil, alloc)

	if s.Balanced {
		t.Fatal("60/30/20 reported as balanced")
	}
	assertDec(t, "total percent", s.TotalPercent, "110")
	assertDec(t, "total allocated", s.Total.Allocated, "110")
}

func TestComputeAllocation_SharesSumToIncome(t *testing.T) {
	allocs := []model.Allocation{
		model.DefaultAllocation(),
		{Needs: dec(t, "33.33"), Wants: dec(t, "33.33"), Savings: dec(t, "33.34")},
		{Needs: dec(t, "0"), Wants: dec(t, "0"), Savings: dec(t, "100")},
		{Needs: dec(t, "12.5"), Wants: dec(t, "70"), Savings: dec(t, "17.5")},
	}
	incomes := []string{"0", "0.01", "1234.56", "99999.99"}
	for _, a := range allocs {
		for _, in := range incomes {
			s := ComputeAllocation([]model.Income{{Amount: dec(t, in)}}, nil, nil, a)
			sum := s.Needs.Allocated.Add(s.Wants.Allocated).Add(s.SavingsDebt.Allocated)
			if !sum.Equal(s.TotalIncome) {
				t.Fatalf("alloc %+v income %s: buckets sum to %s", a, in, sum)
			}
		}
	}
}

func TestAvailableSavings(t *testing.T) {
	income := []model.Income{{Amount: dec(t, "1000")}}
	expenses := []model.Expense{
		{Bucket: model.BucketSavingsDebt, Category: model.CategoryGoalSavings, Amount: dec(t, "120")},
		{Bucket: model.BucketNeeds, Amount: dec(t, "500")},
	}

	got := AvailableSavings(income, expenses, model.DefaultAllocation())
	assertDec(t, "available", got, "80")

	expenses = append(expenses, model.Expense{Bucket: model.BucketSavingsDebt, Amount: dec(t, "100")})
	got = AvailableSavings(income, expenses, model.DefaultAllocation())
	assertDec(t, "available after overspend", got, "-20")
}

func TestProgress(t *testing.T) {
	g := model.Goal{
		TargetAmount: dec(t, "1000"),
		SavedAmount:  dec(t, "400"),
		Contributions: []model.Contribution{
			{Amount: dec(t, "150")},
			{Amount: dec(t, "250")},
		},
	}
	p := Progress(g)
	assertDec(t, "percent", p.PercentComplete, "40")
	assertDec(t, "average", p.AverageContribution, "200")
	assertDec(t, "remaining", p.Remaining, "600")
}

func TestProgress_EdgeCases(t *testing.T) {
	over := Progress(model.Goal{TargetAmount: dec(t, "100"), SavedAmount: dec(t, "150"),
		Contributions: []model.Contribution{{Amount: dec(t, "150")}}})
	assertDec(t, "over-saved percent", over.PercentComplete, "150")

	empty := Progress(model.Goal{TargetAmount: dec(t, "100")})
	assertDec(t, "empty percent", empty.PercentComplete, "0")
	assertDec(t, "empty average", empty.AverageContribution, "0")

	noTarget := Progress(model.Goal{SavedAmount: dec(t, "10")})
	assertDec(t, "no target percent", noTarget.PercentComplete, "0")
}

func TestAggregateCategories(t *testing.T) {
	expenses := []model.Expense{
		{Bucket: model.BucketWants, Category: "Restaurant", Amount: dec(t, "30")},
		{Bucket: model.BucketNeeds, Category: "Groceries", Amount: dec(t, "50")},
		{Bucket: model.BucketWants, Category: "Restaurant", Amount: dec(t, "20")},
		// Same category under another bucket must stay separate.
		{Bucket: model.BucketNeeds, Category: "Restaurant", Amount: dec(t, "100")},
	}

	got := AggregateCategories(expenses)

	if len(got.Categories) != 3 {
		t.Fatalf("categories = %d, want 3", len(got.Categories))
	}
	wantLabels := []string{"Wants - Restaurant", "Needs - Groceries", "Needs - Restaurant"}
	for i, want := range wantLabels {
		if got.Categories[i].Label() != want {
			t.Fatalf("categories[%d] = %q, want %q", i, got.Categories[i].Label(), want)
		}
	}
	assertDec(t, "restaurant total", got.Categories[0].Total, "50")
	assertDec(t, "restaurant percent", got.Categories[0].Percent, "25")
	assertDec(t, "total", got.Total, "200")

	sum := decimal.Zero
	for _, c := range got.Categories {
		sum = sum.Add(c.Total)
	}
	if !sum.Equal(got.Total) {
		t.Fatalf("category totals sum to %s, want %s", sum, got.Total)
	}
	assertDec(t, "needs bucket", got.Buckets[0].Total, "150")
	assertDec(t, "wants bucket", got.Buckets[1].Total, "50")
}

func TestAggregateCategories_Empty(t *testing.T) {
	got := AggregateCategories(nil)
	if len(got.Categories) != 0 {
		t.Fatalf("categories = %d, want 0", len(got.Categories))
	}
	for _, b := range got.Buckets {
		if !b.Percent.IsZero() {
			t.Fatalf("%s percent = %s, want 0", b.Bucket, b.Percent)
		}
	}
}

func testDocument(t *testing.T) model.Document {
	t.Helper()
	doc := model.NewDocument()
	doc.Income = []model.Income{
		{ID: "i1", Date: day(t, "2025-03-01"), Source: "Salary", Amount: dec(t, "1000")},
		{ID: "i2", Date: day(t, "2025-02-27"), Source: "Salary", Amount: dec(t, "900")},
		{ID: "i3", Date: day(t, "2025-03-10"), Source: "Side", Amount: dec(t, "50"), Hidden: true},
		{ID: "i4", Date: day(t, "2025-01-05"), Source: "Gift", Amount: dec(t, "100")},
	}
	doc.Expenses = []model.Expense{
		{ID: "e1", Date: day(t, "2025-03-18"), Bucket: model.BucketNeeds, Category: "Groceries", Amount: dec(t, "40")},
		{ID: "e2", Date: day(t, "2025-03-06"), Bucket: model.BucketWants, Category: "Shopping", Amount: dec(t, "60")},
		{ID: "e3", Date: day(t, "2025-02-15"), Bucket: model.BucketWants, Category: "Shopping", Amount: dec(t, "10")},
		{ID: "e4", Date: day(t, "2025-03-25"), Bucket: model.BucketNeeds, Category: "Other", Amount: dec(t, "5")},
	}
	doc.FixedExpenses = []model.FixedExpense{
		{ID: "f1", DueDay: 1, Amount: dec(t, "500"), Status: model.StatusPending},
		{ID: "f2", DueDay: 15, Amount: dec(t, "30"), Status: model.StatusPaid},
		{ID: "f3", DueDay: 28, Amount: dec(t, "10"), Status: model.StatusPending, Hidden: true},
	}
	doc.Debts = []model.Debt{
		{ID: "d1", Creditor: "Bank", OriginalAmount: dec(t, "500"), PaidAmount: dec(t, "200")},
		{ID: "d2", Creditor: "Friend", OriginalAmount: dec(t, "50"), Hidden: true},
	}
	return doc
}

func ids[T any](items []T, id func(T) model.ID) []model.ID {
	out := make([]model.ID, len(items))
	for i, v := range items {
		out[i] = id(v)
	}
	return out
}

func equalIDs(a, b []model.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	doc := testDocument(t)
	incomeID := func(r model.Income) model.ID { return r.ID }
	expenseID := func(r model.Expense) model.ID { return r.ID }
	fixedID := func(r model.FixedExpense) model.ID { return r.ID }

	tests := []struct {
		period   model.Period
		income   []model.ID
		expenses []model.ID
		fixed    []model.ID
	}{
		{model.PeriodAll, []model.ID{"i1", "i2", "i4"}, []model.ID{"e1", "e2", "e3", "e4"}, []model.ID{"f1", "f2"}},
		// Future-dated e4 stays in: the windows have no end bound.
		{model.PeriodMonth, []model.ID{"i1"}, []model.ID{"e1", "e2", "e4"}, []model.ID{"f1", "f2"}},
		// Start is 2025-03-06 15:30, so e2 on 03-06 at midnight falls out.
		{model.Period14Days, nil, []model.ID{"e1", "e4"}, []model.ID{"f2"}},
		{model.Period30Days, []model.ID{"i1", "i2"}, []model.ID{"e1", "e2", "e4"}, []model.ID{"f1", "f2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			w := Filter(doc, tt.period, refNow)
			if got := ids(w.Income, incomeID); !equalIDs(got, tt.income) {
				t.Fatalf("income = %v, want %v", got, tt.income)
			}
			if got := ids(w.Expenses, expenseID); !equalIDs(got, tt.expenses) {
				t.Fatalf("expenses = %v, want %v", got, tt.expenses)
			}
			if got := ids(w.FixedExpenses, fixedID); !equalIDs(got, tt.fixed) {
				t.Fatalf("fixed = %v, want %v", got, tt.fixed)
			}
			if len(w.Debts) != 1 || w.Debts[0].ID != "d1" {
				t.Fatalf("debts = %+v, want only d1", w.Debts)
			}
		})
	}
}

func TestFilter_UnknownPeriodFallsBackToMonth(t *testing.T) {
	w := Filter(testDocument(t), model.Period("weekly"), refNow)
	if w.Period != model.PeriodMonth {
		t.Fatalf("period = %q, want month", w.Period)
	}
}

func TestWindowStart(t *testing.T) {
	if got := WindowStart(model.PeriodMonth, refNow); !got.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("month start = %v", got)
	}
	if got := WindowStart(model.Period30Days, refNow); !got.Equal(time.Date(2025, 2, 18, 15, 30, 0, 0, time.UTC)) {
		t.Fatalf("30 day start = %v", got)
	}
	if got := WindowStart(model.PeriodAll, refNow); !got.IsZero() {
		t.Fatalf("all start = %v, want zero", got)
	}
}

func TestRecentActivity(t *testing.T) {
	doc := testDocument(t)
	w := Filter(doc, model.PeriodAll, refNow)

	got := RecentActivity(w.Income, w.Expenses, 3)
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	want := []model.ID{"e4", "e1", "e2"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("entry[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if got[0].Label != "Needs - Other" {
		t.Fatalf("label = %q", got[0].Label)
	}
	if !got[0].Amount.IsNegative() {
		t.Fatalf("expense amount %s should be negative", got[0].Amount)
	}
}

func TestOverview(t *testing.T) {
	o := Overview(testDocument(t).Income, refNow)
	assertDec(t, "total", o.Total, "2000")
	assertDec(t, "this month", o.ThisMonth, "1000")
	if o.Sources != 2 {
		t.Fatalf("sources = %d, want 2", o.Sources)
	}
}

func TestCompute(t *testing.T) {
	b := Compute(testDocument(t), model.PeriodMonth, refNow)

	assertDec(t, "income", b.Allocation.TotalIncome, "1000")
	// 40 + 5 Needs expenses plus both visible fixed expenses.
	assertDec(t, "needs.spent", b.Allocation.Needs.Spent, "575")
	assertDec(t, "available savings", b.AvailableSavings, "200")
	assertDec(t, "debt remaining", b.Debts.Remaining, "300")
	assertDec(t, "fixed pending", b.Fixed.Pending, "500")
	assertDec(t, "fixed paid", b.Fixed.Paid, "30")
	if len(b.Recent) != 4 {
		t.Fatalf("recent = %d, want 4", len(b.Recent))
	}
}

func TestDailySpending(t *testing.T) {
	w := Filter(testDocument(t), model.PeriodMonth, refNow)
	got := DailySpending(w, refNow)

	if len(got) != 20 {
		t.Fatalf("days = %d, want 20", len(got))
	}
	if got[0].Date != day(t, "2025-03-01") || got[19].Date != day(t, "2025-03-20") {
		t.Fatalf("range = %s..%s", got[0].Date, got[19].Date)
	}
	assertDec(t, "mar 6", got[5].Total, "60")
	assertDec(t, "mar 18", got[17].Total, "40")
	assertDec(t, "mar 2", got[1].Total, "0")
}

func TestDailySpending_AllStartsAtFirstExpense(t *testing.T) {
	w := Filter(testDocument(t), model.PeriodAll, refNow)
	got := DailySpending(w, refNow)
	if len(got) == 0 || got[0].Date != day(t, "2025-02-15") {
		t.Fatalf("first day = %v", got)
	}
	assertDec(t, "feb 15", got[0].Total, "10")

	if got := DailySpending(Window{Period: model.PeriodAll}, refNow); got != nil {
		t.Fatalf("empty window = %v, want nil", got)
	}
}

func TestDailySpending_CapsLongHistory(t *testing.T) {
	today := model.DateOf(refNow)
	w := Window{
		Period: model.PeriodAll,
		Expenses: []model.Expense{
			{ID: "typo", Date: model.Date{Year: 25, Month: 3, Day: 1}, Bucket: model.BucketWants, Category: "Other", Amount: decimal.NewFromInt(5)},
			{ID: "today", Date: today, Bucket: model.BucketNeeds, Category: "Groceries", Amount: decimal.NewFromInt(7)},
		},
	}
	got := DailySpending(w, refNow)
	if len(got) != MaxDailyDays {
		t.Fatalf("len = %d, want %d", len(got), MaxDailyDays)
	}
	if want := model.DateOf(refNow.AddDate(0, 0, -(MaxDailyDays - 1))); got[0].Date != want {
		t.Fatalf("first day = %v, want %v", got[0].Date, want)
	}
	last := got[len(got)-1]
	if last.Date != today {
		t.Fatalf("last day = %v, want %v", last.Date, today)
	}
	assertDec(t, "today", last.Total, "7")
}
