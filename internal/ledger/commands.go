package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// IncomeInput is the user-supplied part of an income record.
// A zero Date means today.
type IncomeInput struct {
	Date         model.Date
	Source       string
	MainCategory string
	SubCategory  string
	Description  string
	Amount       decimal.Decimal
}

// ExpenseInput is the user-supplied part of an expense record.
type ExpenseInput struct {
	Date        model.Date
	Bucket      model.Bucket
	Category    string
	Description string
	Amount      decimal.Decimal
}

// DebtInput is the user-supplied part of a debt record.
type DebtInput struct {
	Creditor       string
	Description    string
	OriginalAmount decimal.Decimal
}

// FixedInput is the user-supplied part of a fixed expense.
type FixedInput struct {
	DueDay      int
	Description string
	Amount      decimal.Decimal
}

// GoalInput is the user-supplied part of a goal.
type GoalInput struct {
	Title        string
	TargetAmount decimal.Decimal
}

func validateIncome(r model.Income) error {
	if !r.Amount.IsPositive() {
		return invalidAmount("amount", r.Amount)
	}
	if strings.TrimSpace(r.Source) == "" {
		return invalid("source", "required")
	}
	if r.Date.IsZero() {
		return invalid("date", "required")
	}
	return nil
}

func validateExpense(doc model.Document, r model.Expense, checkCategory bool) error {
	if !r.Amount.IsPositive() {
		return invalidAmount("amount", r.Amount)
	}
	if !r.Bucket.Valid() {
		return invalid("bucket", fmt.Sprintf("unknown bucket %q", r.Bucket))
	}
	if strings.TrimSpace(r.Category) == "" {
		return invalid("category", "required")
	}
	if checkCategory && !doc.HasCategory(r.Category) {
		return fmt.Errorf("%q: %w", r.Category, ErrUnknownCategory)
	}
	if r.Date.IsZero() {
		return invalid("date", "required")
	}
	return nil
}

func validateDebt(r model.Debt) error {
	if strings.TrimSpace(r.Creditor) == "" {
		return invalid("creditor", "required")
	}
	if r.OriginalAmount.IsNegative() {
		return invalid("originalAmount", "must not be negative")
	}
	return nil
}

func validateFixed(r model.FixedExpense) error {
	if !r.Amount.IsPositive() {
		return invalidAmount("amount", r.Amount)
	}
	if r.DueDay < 1 || r.DueDay > 31 {
		return invalid("dueDay", fmt.Sprintf("%d is not between 1 and 31", r.DueDay))
	}
	return nil
}

func validateGoal(r model.Goal) error {
	if strings.TrimSpace(r.Title) == "" {
		return invalid("title", "required")
	}
	if !r.TargetAmount.IsPositive() {
		return invalidAmount("targetAmount", r.TargetAmount)
	}
	return nil
}

// AddIncome records a new income entry.
func (l *Ledger) AddIncome(ctx context.Context, in IncomeInput) (model.Income, error) {
	r := model.Income{
		Date:         in.Date,
		Source:       strings.TrimSpace(in.Source),
		MainCategory: strings.TrimSpace(in.MainCategory),
		SubCategory:  strings.TrimSpace(in.SubCategory),
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
	}
	if r.Date.IsZero() {
		r.Date = l.today()
	}
	if err := validateIncome(r); err != nil {
		return model.Income{}, err
	}
	r.ID = l.newID()
	err := l.update(ctx, "add_income", func(doc *model.Document) error {
		doc.Income = append(doc.Income, r)
		return nil
	})
	return r, err
}

// AddExpense records a new expense. The category must be in the list.
func (l *Ledger) AddExpense(ctx context.Context, in ExpenseInput) (model.Expense, error) {
	r := model.Expense{
		Date:        in.Date,
		Bucket:      in.Bucket,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
	}
	if r.Date.IsZero() {
		r.Date = l.today()
	}
	err := l.update(ctx, "add_expense", func(doc *model.Document) error {
		if err := validateExpense(*doc, r, true); err != nil {
			return err
		}
		r.ID = l.newID()
		doc.Expenses = append(doc.Expenses, r)
		return nil
	})
	if err != nil && r.ID == "" {
		return model.Expense{}, err
	}
	return r, err
}

// AddDebt records a new debt with nothing paid.
func (l *Ledger) AddDebt(ctx context.Context, in DebtInput) (model.Debt, error) {
	r := model.Debt{
		Creditor:       strings.TrimSpace(in.Creditor),
		Description:    strings.TrimSpace(in.Description),
		OriginalAmount: in.OriginalAmount,
		PaidAmount:     decimal.Zero,
	}
	if err := validateDebt(r); err != nil {
		return model.Debt{}, err
	}
	r.ID = l.newID()
	err := l.update(ctx, "add_debt", func(doc *model.Document) error {
		doc.Debts = append(doc.Debts, r)
		return nil
	})
	return r, err
}

// AddFixed records a new pending fixed expense.
func (l *Ledger) AddFixed(ctx context.Context, in FixedInput) (model.FixedExpense, error) {
	r := model.FixedExpense{
		DueDay:      in.DueDay,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Status:      model.StatusPending,
	}
	if err := validateFixed(r); err != nil {
		return model.FixedExpense{}, err
	}
	r.ID = l.newID()
	err := l.update(ctx, "add_fixed", func(doc *model.Document) error {
		doc.FixedExpenses = append(doc.FixedExpenses, r)
		return nil
	})
	return r, err
}

// AddGoal records a new goal with nothing saved.
func (l *Ledger) AddGoal(ctx context.Context, in GoalInput) (model.Goal, error) {
	r := model.Goal{
		Title:         strings.TrimSpace(in.Title),
		TargetAmount:  in.TargetAmount,
		SavedAmount:   decimal.Zero,
		Contributions: []model.Contribution{},
	}
	if err := validateGoal(r); err != nil {
		return model.Goal{}, err
	}
	r.ID = l.newID()
	err := l.update(ctx, "add_goal", func(doc *model.Document) error {
		doc.Goals = append(doc.Goals, r)
		return nil
	})
	return r, err
}

// RecordDebtPayment raises the debt's paid amount and writes the matching
// "Debt Repayment" expense in one step. Payments are not limited by the
// savings gate.
func (l *Ledger) RecordDebtPayment(ctx context.Context, id model.ID, amount decimal.Decimal) (model.Debt, model.Expense, error) {
	if !amount.IsPositive() {
		return model.Debt{}, model.Expense{}, invalidAmount("amount", amount)
	}
	var debt model.Debt
	var exp model.Expense
	err := l.update(ctx, "debt_payment", func(doc *model.Document) error {
		i := indexOf(doc.Debts, id, func(r model.Debt) model.ID { return r.ID })
		if i < 0 {
			return fmt.Errorf("debt %s: %w", id, ErrNotFound)
		}
		doc.Debts[i].PaidAmount = doc.Debts[i].PaidAmount.Add(amount)
		debt = doc.Debts[i]

		exp = model.Expense{
			ID:          l.newID(),
			Date:        l.today(),
			Bucket:      model.BucketSavingsDebt,
			Category:    model.CategoryDebtRepayment,
			Description: "Payment to " + debt.Creditor,
			Amount:      amount,
		}
		doc.Expenses = append(doc.Expenses, exp)
		return nil
	})
	if err != nil && debt.ID == "" {
		return model.Debt{}, model.Expense{}, err
	}
	return debt, exp, err
}

// Contribute adds a contribution to a goal and writes the matching
// "Goal Savings" expense in one step. The amount must not exceed the
// savings available in the saved period's window at the time of the call.
func (l *Ledger) Contribute(ctx context.Context, id model.ID, amount decimal.Decimal) (model.Goal, model.Expense, error) {
	return l.ContributeIn(ctx, "", id, amount)
}

// ContributeIn is Contribute gated against window p instead of the saved
// period. An empty p means the saved period.
func (l *Ledger) ContributeIn(ctx context.Context, p model.Period, id model.ID, amount decimal.Decimal) (model.Goal, model.Expense, error) {
	if !amount.IsPositive() {
		return model.Goal{}, model.Expense{}, invalidAmount("amount", amount)
	}
	var goal model.Goal
	var exp model.Expense
	err := l.update(ctx, "goal_contribution", func(doc *model.Document) error {
		i := indexOf(doc.Goals, id, func(r model.Goal) model.ID { return r.ID })
		if i < 0 {
			return fmt.Errorf("goal %s: %w", id, ErrNotFound)
		}
		period := l.periodOr(p)
		if available := l.availableSavingsLocked(period); amount.GreaterThan(available) {
			return &InsufficientSavingsError{Requested: amount, Available: available, Period: period}
		}

		today := l.today()
		g := &doc.Goals[i]
		g.Contributions = append(g.Contributions, model.Contribution{Date: today, Amount: amount})
		g.SavedAmount = g.SavedAmount.Add(amount)
		goal = *g

		exp = model.Expense{
			ID:          l.newID(),
			Date:        today,
			Bucket:      model.BucketSavingsDebt,
			Category:    model.CategoryGoalSavings,
			Description: "Contribution to " + g.Title,
			Amount:      amount,
		}
		doc.Expenses = append(doc.Expenses, exp)
		return nil
	})
	if err != nil && goal.ID == "" {
		return model.Goal{}, model.Expense{}, err
	}
	return goal, exp, err
}

// ToggleFixedStatus flips a fixed expense between pending and paid.
func (l *Ledger) ToggleFixedStatus(ctx context.Context, id model.ID) (model.FixedExpense, error) {
	var out model.FixedExpense
	err := l.update(ctx, "toggle_fixed", func(doc *model.Document) error {
		i := indexOf(doc.FixedExpenses, id, func(r model.FixedExpense) model.ID { return r.ID })
		if i < 0 {
			return fmt.Errorf("fixed expense %s: %w", id, ErrNotFound)
		}
		doc.FixedExpenses[i].Status = doc.FixedExpenses[i].Status.Toggle()
		out = doc.FixedExpenses[i]
		return nil
	})
	if err != nil && out.ID == "" {
		return model.FixedExpense{}, err
	}
	return out, err
}

// SetPeriod persists the active time window.
func (l *Ledger) SetPeriod(ctx context.Context, p model.Period) error {
	if !p.Valid() {
		return invalid("period", fmt.Sprintf("unknown period %q", p))
	}
	return l.update(ctx, "set_period", func(doc *model.Document) error {
		doc.Settings.Period = p
		return nil
	})
}

// SetAllocation replaces the bucket percentages. They need not sum to 100.
func (l *Ledger) SetAllocation(ctx context.Context, a model.Allocation) error {
	for _, b := range model.Buckets {
		if a.Percent(b).IsNegative() {
			return invalid(b.String(), "percentage must not be negative")
		}
	}
	return l.update(ctx, "set_allocation", func(doc *model.Document) error {
		doc.Settings.Allocation = a
		return nil
	})
}

func indexOf[T any](items []T, id model.ID, key func(T) model.ID) int {
	for i, v := range items {
		if key(v) == id {
			return i
		}
	}
	return -1
}
