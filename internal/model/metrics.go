package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BucketSummary is allocated vs. spent vs. remaining for one bucket.
type BucketSummary struct {
	Bucket    Bucket          `json:"bucket,omitempty"`
	Percent   decimal.Decimal `json:"percent"`
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// UsedPercent is Spent as a percentage of Allocated, 0 when nothing is allocated.
func (b BucketSummary) UsedPercent() decimal.Decimal {
	if !b.Allocated.IsPositive() {
		return decimal.Zero
	}
	return b.Spent.Div(b.Allocated).Mul(decimal.NewFromInt(100))
}

// AllocationSummary is the per-bucket budget for one window.
type AllocationSummary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	Needs        BucketSummary   `json:"needs"`
	Wants        BucketSummary   `json:"wants"`
	SavingsDebt  BucketSummary   `json:"savingsAndDebt"`
	Total        BucketSummary   `json:"total"`
	TotalPercent decimal.Decimal `json:"totalPercent"`
	// Balanced is false when the percentages do not add up to 100.
	Balanced bool `json:"balanced"`
}

// For returns the summary of bucket b.
func (s AllocationSummary) For(b Bucket) BucketSummary {
	switch b {
	case BucketNeeds:
		return s.Needs
	case BucketWants:
		return s.Wants
	case BucketSavingsDebt:
		return s.SavingsDebt
	}
	return BucketSummary{}
}

// Buckets returns the three bucket summaries in display order.
func (s AllocationSummary) Buckets() []BucketSummary {
	return []BucketSummary{s.Needs, s.Wants, s.SavingsDebt}
}

// GoalProgress is the derived progress of one goal.
type GoalProgress struct {
	Goal Goal `json:"goal"`
	// PercentComplete is not clamped and exceeds 100 when over-saved.
	PercentComplete     decimal.Decimal `json:"percentComplete"`
	AverageContribution decimal.Decimal `json:"averageContribution"`
	Remaining           decimal.Decimal `json:"remaining"`
}

// CategoryTotal is the spend for one (bucket, category) pair.
type CategoryTotal struct {
	Bucket   Bucket          `json:"bucket"`
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  decimal.Decimal `json:"percent"`
}

// Label is the "bucket - category" display key.
func (c CategoryTotal) Label() string {
	return c.Bucket.String() + " - " + c.Category
}

// CategoryBreakdown groups spend by category, in first-seen order.
type CategoryBreakdown struct {
	Categories []CategoryTotal `json:"categories"`
	Buckets    []BucketTotal   `json:"buckets"`
	Total      decimal.Decimal `json:"total"`
}

// BucketTotal is the spend of one bucket across its categories.
type BucketTotal struct {
	Bucket  Bucket          `json:"bucket"`
	Total   decimal.Decimal `json:"total"`
	Percent decimal.Decimal `json:"percent"`
}

// ActivityEntry is one line of the recent-activity log.
type ActivityEntry struct {
	Kind        Kind            `json:"kind"`
	ID          ID              `json:"id"`
	Date        Date            `json:"date"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeOverview summarizes visible income independent of the window.
type IncomeOverview struct {
	Total     decimal.Decimal `json:"total"`
	ThisMonth decimal.Decimal `json:"thisMonth"`
	Sources   int             `json:"sources"`
}

// DebtTotals sums the visible debts.
type DebtTotals struct {
	Count     int             `json:"count"`
	Original  decimal.Decimal `json:"original"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// FixedTotals sums the fixed expenses in the window by status.
type FixedTotals struct {
	Count   int             `json:"count"`
	Pending decimal.Decimal `json:"pending"`
	Paid    decimal.Decimal `json:"paid"`
	Total   decimal.Decimal `json:"total"`
}

// Budget is the render-ready view of a document for one period.
type Budget struct {
	Period           Period            `json:"period"`
	Start            time.Time         `json:"start"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	Allocation       AllocationSummary `json:"allocation"`
	AvailableSavings decimal.Decimal   `json:"availableSavings"`
	Categories       CategoryBreakdown `json:"categoryBreakdown"`
	Goals            []GoalProgress    `json:"goals"`
	Recent           []ActivityEntry   `json:"recent"`
	Income           IncomeOverview    `json:"incomeOverview"`
	Debts            DebtTotals        `json:"debts"`
	Fixed            FixedTotals       `json:"fixed"`
	Daily            []DayTotal        `json:"daily,omitempty"`
}

// DayTotal is the spend on one calendar day.
type DayTotal struct {
	Date  Date            `json:"date"`
	Total decimal.Decimal `json:"total"`
}
