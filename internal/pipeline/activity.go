package pipeline

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// RecentLimit is the number of entries in the activity log.
const RecentLimit = 10

// RecentActivity merges income and expenses, newest first, and keeps
// the first limit entries. Same-day entries keep income before expenses
// and insertion order within each.
func RecentActivity(income []model.Income, expenses []model.Expense, limit int) []model.ActivityEntry {
	entries := make([]model.ActivityEntry, 0, len(income)+len(expenses))
	for _, r := range income {
		entries = append(entries, model.ActivityEntry{
			Kind:        model.KindIncome,
			ID:          r.ID,
			Date:        r.Date,
			Label:       "Income",
			Description: firstNonEmpty(r.Description, r.Source),
			Amount:      r.Amount,
		})
	}
	for _, r := range expenses {
		entries = append(entries, model.ActivityEntry{
			Kind:        model.KindExpense,
			ID:          r.ID,
			Date:        r.Date,
			Label:       r.Label(),
			Description: r.Description,
			Amount:      r.Amount.Neg(),
		})
	}
	slices.SortStableFunc(entries, func(a, b model.ActivityEntry) int {
		return b.Date.Compare(a.Date)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Overview totals visible income across all time and for the calendar
// month of now, and counts distinct sources.
func Overview(income []model.Income, now time.Time) model.IncomeOverview {
	monthStart := WindowStart(model.PeriodMonth, now)
	sources := make(map[string]struct{})
	var o model.IncomeOverview
	for _, r := range income {
		if r.Hidden {
			continue
		}
		o.Total = o.Total.Add(r.Amount)
		if !r.Date.At(now.Location()).Before(monthStart) {
			o.ThisMonth = o.ThisMonth.Add(r.Amount)
		}
		sources[r.Source] = struct{}{}
	}
	o.Sources = len(sources)
	return o
}

// SumDebts totals the given debts.
func SumDebts(debts []model.Debt) model.DebtTotals {
	t := model.DebtTotals{Count: len(debts)}
	for _, d := range debts {
		t.Original = t.Original.Add(d.OriginalAmount)
		t.Paid = t.Paid.Add(d.PaidAmount)
	}
	t.Remaining = t.Original.Sub(t.Paid)
	return t
}

// SumFixed totals the given fixed expenses by status.
func SumFixed(fixed []model.FixedExpense) model.FixedTotals {
	t := model.FixedTotals{Count: len(fixed)}
	for _, f := range fixed {
		switch f.Status {
		case model.StatusPaid:
			t.Paid = t.Paid.Add(f.Amount)
		default:
			t.Pending = t.Pending.Add(f.Amount)
		}
	}
	t.Total = t.Pending.Add(t.Paid)
	return t
}

// SortByDate returns a copy of items ordered newest first.
func SortByDate[T any](items []T, date func(T) model.Date) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return date(b).Compare(date(a))
	})
	return out
}

// SortFixedByDueDay returns a copy of fixed ordered by due day.
func SortFixedByDueDay(fixed []model.FixedExpense) []model.FixedExpense {
	out := slices.Clone(fixed)
	slices.SortStableFunc(out, func(a, b model.FixedExpense) int {
		return cmp.Compare(a.DueDay, b.DueDay)
	})
	return out
}

// TotalAmount sums an amount field across items.
func TotalAmount[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range items {
		total = total.Add(amount(v))
	}
	return total
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
