package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// AvailableSavings is the Savings & Debt allocation of the window minus
// what has already been spent from that bucket. It may be negative.
// Fixed expenses never touch this bucket, so they are not consulted.
func AvailableSavings(income []model.Income, expenses []model.Expense, alloc model.Allocation) decimal.Decimal {
	allocated := Allocated(SumIncome(income), alloc.Savings)
	spent := decimal.Zero
	for _, e := range expenses {
		if e.Bucket == model.BucketSavingsDebt {
			spent = spent.Add(e.Amount)
		}
	}
	return allocated.Sub(spent)
}

// AvailableSavingsFor evaluates AvailableSavings over a filtered window.
func AvailableSavingsFor(w Window, alloc model.Allocation) decimal.Decimal {
	return AvailableSavings(w.Income, w.Expenses, alloc)
}
