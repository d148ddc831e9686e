package pipeline

import (
	"time"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Window is the part of a document visible under one period.
type Window struct {
	Period model.Period
	// Start is the inclusive lower bound; zero for PeriodAll.
	Start         time.Time
	Income        []model.Income
	Expenses      []model.Expense
	FixedExpenses []model.FixedExpense
	Debts         []model.Debt
}

// WindowStart returns the inclusive start of period p relative to now.
// The month window starts at local midnight on the 1st; day-count windows
// start exactly N days before now. PeriodAll has no start.
func WindowStart(p model.Period, now time.Time) time.Time {
	switch p {
	case model.PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case model.Period14Days, model.Period30Days:
		return now.AddDate(0, 0, -p.Days())
	case model.PeriodAll:
		return time.Time{}
	}
	return WindowStart(model.PeriodMonth, now)
}

// Filter selects the non-hidden records of doc that fall in period p.
// Income and expenses pass when their date is on or after the window start.
// Fixed expenses all pass for the month window; for day-count windows they
// pass when their due day in the current month is on or after the start.
// Debts are never time-filtered. An unknown period behaves as the month window.
func Filter(doc model.Document, p model.Period, now time.Time) Window {
	if !p.Valid() {
		p = model.PeriodMonth
	}
	start := WindowStart(p, now)
	loc := now.Location()

	inWindow := func(d model.Date) bool {
		return p == model.PeriodAll || !d.At(loc).Before(start)
	}

	w := Window{Period: p, Start: start}
	w.Income = keep(doc.Income, func(r model.Income) bool {
		return !r.Hidden && inWindow(r.Date)
	})
	w.Expenses = keep(doc.Expenses, func(r model.Expense) bool {
		return !r.Hidden && inWindow(r.Date)
	})
	w.FixedExpenses = keep(doc.FixedExpenses, func(r model.FixedExpense) bool {
		if r.Hidden {
			return false
		}
		switch p {
		case model.PeriodAll, model.PeriodMonth:
			return true
		default:
			return !DueDate(r.DueDay, now).Before(start)
		}
	})
	w.Debts = keep(doc.Debts, func(r model.Debt) bool { return !r.Hidden })
	return w
}

// DueDate maps a due day onto the calendar month of now. Days past the
// end of the month roll into the next month the way time.Date normalizes.
func DueDate(day int, now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
}

// VisibleGoals returns the goals that are not hidden.
func VisibleGoals(goals []model.Goal) []model.Goal {
	return keep(goals, func(g model.Goal) bool { return !g.Hidden })
}

func keep[T any](in []T, pred func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}
