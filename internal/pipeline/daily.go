package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// MaxDailyDays bounds the daily series.
const MaxDailyDays = 366

// DailySpending totals expenses per calendar day from the window start
// through now, oldest first, with zero entries for days without spend.
// For the all-time window the series starts at the earliest expense.
// The series never covers more than the last MaxDailyDays days.
func DailySpending(w Window, now time.Time) []model.DayTotal {
	last := model.DateOf(now)
	first := model.DateOf(w.Start)
	if w.Start.IsZero() {
		if len(w.Expenses) == 0 {
			return nil
		}
		first = w.Expenses[0].Date
		for _, e := range w.Expenses[1:] {
			if e.Date.Before(first) {
				first = e.Date
			}
		}
	}
	if floor := model.DateOf(last.At(time.UTC).AddDate(0, 0, -(MaxDailyDays - 1))); first.Before(floor) {
		first = floor
	}
	if last.Before(first) {
		return nil
	}

	byDay := make(map[model.Date]decimal.Decimal, len(w.Expenses))
	for _, e := range w.Expenses {
		byDay[e.Date] = byDay[e.Date].Add(e.Amount)
	}

	var out []model.DayTotal
	for d := first.At(time.UTC); model.DateOf(d).Compare(last) <= 0; d = d.AddDate(0, 0, 1) {
		day := model.DateOf(d)
		out = append(out, model.DayTotal{Date: day, Total: byDay[day]})
	}
	return out
}
