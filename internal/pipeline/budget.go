package pipeline

import (
	"time"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Compute derives the complete render-ready budget of doc for period p.
func Compute(doc model.Document, p model.Period, now time.Time) model.Budget {
	w := Filter(doc, p, now)
	return model.Budget{
		Period:           w.Period,
		Start:            w.Start,
		GeneratedAt:      now,
		Allocation:       AllocationFor(w, doc.Settings.Allocation),
		AvailableSavings: AvailableSavingsFor(w, doc.Settings.Allocation),
		Categories:       AggregateCategories(w.Expenses),
		Goals:            GoalsProgress(doc.Goals),
		Recent:           RecentActivity(w.Income, w.Expenses, RecentLimit),
		Income:           Overview(doc.Income, now),
		Debts:            SumDebts(w.Debts),
		Fixed:            SumFixed(w.FixedExpenses),
		Daily:            DailySpending(w, now),
	}
}
