// Package model defines the finance records, settings and derived metric
// types shared across fintrack.
package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching documents from the browser app.
	decimal.MarshalJSONWithoutQuotes = true
}

// Income is a dated inflow of money.
type Income struct {
	ID           ID              `json:"id"`
	Date         Date            `json:"date"`
	Source       string          `json:"source"`
	MainCategory string          `json:"mainCategory"`
	SubCategory  string          `json:"subCategory,omitempty"`
	Description  string          `json:"description,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Hidden       bool            `json:"isHidden"`
}

// Expense is a dated outflow tagged with an allocation bucket and a
// category from the user's category list.
type Expense struct {
	ID          ID              `json:"id"`
	Date        Date            `json:"date"`
	Bucket      Bucket          `json:"allocationCategory"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Hidden      bool            `json:"isHidden"`
}

// Label is the "bucket - category" display key.
func (e Expense) Label() string {
	return e.Bucket.String() + " - " + e.Category
}

// Debt tracks an amount owed and how much has been repaid.
type Debt struct {
	ID             ID              `json:"id"`
	Creditor       string          `json:"creditor"`
	Description    string          `json:"description"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	Hidden         bool            `json:"isHidden"`
}

// Remaining is OriginalAmount minus PaidAmount. It goes negative when
// the debt is overpaid.
func (d Debt) Remaining() decimal.Decimal {
	return d.OriginalAmount.Sub(d.PaidAmount)
}

// FixedExpense is a recurring monthly obligation keyed by day of month.
type FixedExpense struct {
	ID          ID              `json:"id"`
	DueDay      int             `json:"dueDate"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      FixedStatus     `json:"status"`
	Hidden      bool            `json:"isHidden"`
}

// Contribution is one deposit toward a goal.
type Contribution struct {
	Date   Date            `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Goal is a savings target funded by discrete contributions.
// SavedAmount always equals the sum of Contributions.
type Goal struct {
	ID            ID              `json:"id"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	SavedAmount   decimal.Decimal `json:"savedAmount"`
	Contributions []Contribution  `json:"contributions"`
	Hidden        bool            `json:"isHidden"`
}

// Allocation holds the needs/wants/savings percentages. They are not
// required to sum to 100.
type Allocation struct {
	Needs   decimal.Decimal `json:"needs"`
	Wants   decimal.Decimal `json:"wants"`
	Savings decimal.Decimal `json:"savings"`
}

// DefaultAllocation is the 50/30/20 split.
func DefaultAllocation() Allocation {
	return Allocation{
		Needs:   decimal.NewFromInt(50),
		Wants:   decimal.NewFromInt(30),
		Savings: decimal.NewFromInt(20),
	}
}

// Percent returns the percentage assigned to b.
func (a Allocation) Percent(b Bucket) decimal.Decimal {
	switch b {
	case BucketNeeds:
		return a.Needs
	case BucketWants:
		return a.Wants
	case BucketSavingsDebt:
		return a.Savings
	}
	return decimal.Zero
}

// Total is the raw sum of the three percentages.
func (a Allocation) Total() decimal.Decimal {
	return a.Needs.Add(a.Wants).Add(a.Savings)
}

// Settings holds user preferences stored with the records.
type Settings struct {
	Period     Period     `json:"timePeriod"`
	Allocation Allocation `json:"allocation"`
}

// DefaultCategories is the category list a fresh document starts with.
var DefaultCategories = []string{
	"Transportation", "Groceries", "Restaurant", "Entertainment", "Shopping",
	"Healthcare", "Subscription", CategoryDebtRepayment, CategoryGoalSavings, "Other",
}

// Categories written by debt payments and goal contributions.
const (
	CategoryDebtRepayment = "Debt Repayment"
	CategoryGoalSavings   = "Goal Savings"
)

// DocumentVersion is the current persisted document version.
const DocumentVersion = 1

// Document is the complete persisted state.
type Document struct {
	Version       int            `json:"version"`
	Income        []Income       `json:"income"`
	Expenses      []Expense      `json:"expenses"`
	Debts         []Debt         `json:"debts"`
	FixedExpenses []FixedExpense `json:"fixedExpenses"`
	Goals         []Goal         `json:"goals"`
	Categories    []string       `json:"categories"`
	Settings      Settings       `json:"settings"`
}

// NewDocument returns an empty document with default settings.
func NewDocument() Document {
	return Document{
		Version:       DocumentVersion,
		Income:        []Income{},
		Expenses:      []Expense{},
		Debts:         []Debt{},
		FixedExpenses: []FixedExpense{},
		Goals:         []Goal{},
		Categories:    slices.Clone(DefaultCategories),
		Settings: Settings{
			Period:     PeriodMonth,
			Allocation: DefaultAllocation(),
		},
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	out.Income = slices.Clone(d.Income)
	out.Expenses = slices.Clone(d.Expenses)
	out.Debts = slices.Clone(d.Debts)
	out.FixedExpenses = slices.Clone(d.FixedExpenses)
	out.Categories = slices.Clone(d.Categories)
	out.Goals = make([]Goal, len(d.Goals))
	for i, g := range d.Goals {
		g.Contributions = slices.Clone(g.Contributions)
		out.Goals[i] = g
	}
	return out
}

// HasCategory reports whether name is in the category list.
func (d Document) HasCategory(name string) bool {
	return slices.Contains(d.Categories, name)
}

// Len returns the number of records in the collection k, hidden included.
func (d Document) Len(k Kind) int {
	switch k {
	case KindIncome:
		return len(d.Income)
	case KindExpense:
		return len(d.Expenses)
	case KindDebt:
		return len(d.Debts)
	case KindFixed:
		return len(d.FixedExpenses)
	case KindGoal:
		return len(d.Goals)
	}
	return 0
}
