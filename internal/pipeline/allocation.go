package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

var hundred = decimal.NewFromInt(100)

// SumIncome totals the income amounts.
func SumIncome(income []model.Income) decimal.Decimal {
	total := decimal.Zero
	for _, r := range income {
		total = total.Add(r.Amount)
	}
	return total
}

// Allocated returns income × pct / 100.
func Allocated(totalIncome, pct decimal.Decimal) decimal.Decimal {
	return totalIncome.Mul(pct).Div(hundred)
}

// SpentByBucket sums expenses per bucket. Every fixed expense counts
// against Needs regardless of its description.
func SpentByBucket(expenses []model.Expense, fixed []model.FixedExpense) map[model.Bucket]decimal.Decimal {
	spent := map[model.Bucket]decimal.Decimal{
		model.BucketNeeds:       decimal.Zero,
		model.BucketWants:       decimal.Zero,
		model.BucketSavingsDebt: decimal.Zero,
	}
	for _, e := range expenses {
		switch e.Bucket {
		case model.BucketNeeds, model.BucketWants, model.BucketSavingsDebt:
			spent[e.Bucket] = spent[e.Bucket].Add(e.Amount)
		}
	}
	for _, f := range fixed {
		spent[model.BucketNeeds] = spent[model.BucketNeeds].Add(f.Amount)
	}
	return spent
}

// ComputeAllocation splits the window's income across the buckets and
// compares each share against what was spent. Remaining may be negative.
// Percentages are used as given; TotalPercent and Balanced let the caller
// warn when they do not add up to 100.
func ComputeAllocation(income []model.Income, expenses []model.Expense, fixed []model.FixedExpense, alloc model.Allocation) model.AllocationSummary {
	totalIncome := SumIncome(income)
	spent := SpentByBucket(expenses, fixed)

	s := model.AllocationSummary{
		TotalIncome:  totalIncome,
		TotalPercent: alloc.Total(),
	}
	s.Balanced = s.TotalPercent.Equal(hundred)

	total := model.BucketSummary{}
	for _, b := range model.Buckets {
		pct := alloc.Percent(b)
		bs := model.BucketSummary{
			Bucket:    b,
			Percent:   pct,
			Allocated: Allocated(totalIncome, pct),
			Spent:     spent[b],
		}
		bs.Remaining = bs.Allocated.Sub(bs.Spent)

		total.Percent = total.Percent.Add(bs.Percent)
		total.Allocated = total.Allocated.Add(bs.Allocated)
		total.Spent = total.Spent.Add(bs.Spent)
		total.Remaining = total.Remaining.Add(bs.Remaining)

		switch b {
		case model.BucketNeeds:
			s.Needs = bs
		case model.BucketWants:
			s.Wants = bs
		case model.BucketSavingsDebt:
			s.SavingsDebt = bs
		}
	}
	s.Total = total
	return s
}

// AllocationFor computes the allocation summary of a filtered window.
func AllocationFor(w Window, alloc model.Allocation) model.AllocationSummary {
	return ComputeAllocation(w.Income, w.Expenses, w.FixedExpenses, alloc)
}
