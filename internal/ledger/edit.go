package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// IncomePatch holds the income fields to change. Nil fields are kept.
type IncomePatch struct {
	Date         *model.Date
	Source       *string
	MainCategory *string
	SubCategory  *string
	Description  *string
	Amount       *decimal.Decimal
}

// ExpensePatch holds the expense fields to change.
type ExpensePatch struct {
	Date        *model.Date
	Bucket      *model.Bucket
	Category    *string
	Description *string
	Amount      *decimal.Decimal
}

// DebtPatch holds the debt fields to change. PaidAmount only moves
// through RecordDebtPayment.
type DebtPatch struct {
	Creditor       *string
	Description    *string
	OriginalAmount *decimal.Decimal
}

// FixedPatch holds the fixed expense fields to change.
type FixedPatch struct {
	DueDay      *int
	Description *string
	Amount      *decimal.Decimal
}

// GoalPatch holds the goal fields to change. Saved amounts only move
// through Contribute.
type GoalPatch struct {
	Title        *string
	TargetAmount *decimal.Decimal
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// EditIncome applies p to an income record.
func (l *Ledger) EditIncome(ctx context.Context, id model.ID, p IncomePatch) (model.Income, error) {
	var out model.Income
	err := l.update(ctx, "edit_income", func(doc *model.Document) error {
		i := indexOf(doc.Income, id, func(r model.Income) model.ID { return r.ID })
		if i < 0 {
			return fmt.Errorf("income %s: %w", id, ErrNotFound)
		}
		r := doc.Income[i]
		set(&r.Date, p.Date)
		setTrimmed(&r.Source, p.Source)
		setTrimmed(&r.MainCategory, p.MainCategory)
		setTrimmed(&r.SubCategory, p.SubCategory)
		setTrimmed(&r.Description, p.Description)
		set(&r.Amount, p.Amount)
		if err := validateIncome(r); err != nil {
			return err
		}
		doc.Income[i] = r
		out = r
		return nil
	})
	return out, err
}

// EditExpense applies p to an expense. A changed category must be in the
// list; an unchanged one is kept even if it was deleted since.
func (l *Ledger) EditExpense(ctx context.Context, id model.ID, p ExpensePatch) (model.Expense, error) {
	var out model.Expense
	err := l.update(ctx, "edit_expense", func(doc *model.Document) error {
		i := indexOf(doc.Expenses, id, func(r model.Expense) model.ID { return r.ID })
		if i < 0 {
			return fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		r := doc.Expenses[i]
		prevCategory := r.Category
		set(&r.Date, p.Date)
		set(&r.Bucket, p.Bucket)
		setTrimmed(&r.Category, p.Category)
		setTrimmed(&r.Description, p.Description)
		set(&r.Amount, p.Amount)
		if err := validateExpense(*doc, r, r.Category != prevCategory); err != nil {
			return err
		}
		doc.Expenses[i] = r
		out = r
		return nil
	})
	return out, err
}

// EditDebt applies p to a debt.
func (l *Ledger) EditDebt(ctx context.Context, id model.ID, p DebtPatch) (model.Debt, error) {
	var out model.Debt
	err := l.update(ctx, "edit_debt", func(doc *model.Document) error {
		i := indexOf(doc.Debts, id, func(r model.Debt) model.ID { return r.ID })
		if i < 0 {
			return fmt.Errorf("debt %s: %w", id, ErrNotFound)
		}
		r := doc.Debts[i]
		setTrimmed(&r.Creditor, p.Creditor)
		setTrimmed(&r.Description, p.Description)
		set(&r.OriginalAmount, p.OriginalAmount)
		if err := validateDebt(r); err != nil {
			return err
		}
		doc.Debts[i] = r
		out = r
		return nil
	})
	return out, err
}

// EditFixed applies p to a fixed expense.
func (l *Ledger) EditFixed(ctx context.Context, id model.ID, p FixedPatch) (model.FixedExpense, error) {
	var out model.FixedExpense
	err := l.update(ctx, "edit_fixed", func(doc *model.Document) error {
		i := indexOf(doc.FixedExpenses, id, func(r model.FixedExpense) model.ID { return r.ID })
		if i < 0 {
			return fmt.Errorf("fixed expense %s: %w", id, ErrNotFound)
		}
		r := doc.FixedExpenses[i]
		set(&r.DueDay, p.DueDay)
		setTrimmed(&r.Description, p.Description)
		set(&r.Amount, p.Amount)
		if err := validateFixed(r); err != nil {
			return err
		}
		doc.FixedExpenses[i] = r
		out = r
		return nil
	})
	return out, err
}

// EditGoal applies p to a goal.
func (l *Ledger) EditGoal(ctx context.Context, id model.ID, p GoalPatch) (model.Goal, error) {
	var out model.Goal
	err := l.update(ctx, "edit_goal", func(doc *model.Document) error {
		i := indexOf(doc.Goals, id, func(r model.Goal) model.ID { return r.ID })
		if i < 0 {
			return fmt.Errorf("goal %s: %w", id, ErrNotFound)
		}
		r := doc.Goals[i]
		setTrimmed(&r.Title, p.Title)
		set(&r.TargetAmount, p.TargetAmount)
		if err := validateGoal(r); err != nil {
			return err
		}
		doc.Goals[i] = r
		out = r
		return nil
	})
	return out, err
}

// SetHidden hides or unhides a record. Hidden records drop out of every
// aggregate but stay addressable.
func (l *Ledger) SetHidden(ctx context.Context, k model.Kind, id model.ID, hidden bool) error {
	return l.update(ctx, "set_hidden", func(doc *model.Document) error {
		found := false
		switch k {
		case model.KindIncome:
			found = setHidden(doc.Income, id, hidden, func(r *model.Income) (*model.ID, *bool) { return &r.ID, &r.Hidden })
		case model.KindExpense:
			found = setHidden(doc.Expenses, id, hidden, func(r *model.Expense) (*model.ID, *bool) { return &r.ID, &r.Hidden })
		case model.KindDebt:
			found = setHidden(doc.Debts, id, hidden, func(r *model.Debt) (*model.ID, *bool) { return &r.ID, &r.Hidden })
		case model.KindFixed:
			found = setHidden(doc.FixedExpenses, id, hidden, func(r *model.FixedExpense) (*model.ID, *bool) { return &r.ID, &r.Hidden })
		case model.KindGoal:
			found = setHidden(doc.Goals, id, hidden, func(r *model.Goal) (*model.ID, *bool) { return &r.ID, &r.Hidden })
		default:
			return fmt.Errorf("unknown record kind %q", k)
		}
		if !found {
			return fmt.Errorf("%s %s: %w", k.Label(), id, ErrNotFound)
		}
		return nil
	})
}

func setHidden[T any](items []T, id model.ID, hidden bool, fields func(*T) (*model.ID, *bool)) bool {
	for i := range items {
		rid, h := fields(&items[i])
		if *rid == id {
			*h = hidden
			return true
		}
	}
	return false
}

// Delete removes a record permanently. Expenses created by payments or
// contributions are left in place.
func (l *Ledger) Delete(ctx context.Context, k model.Kind, id model.ID) error {
	return l.update(ctx, "delete", func(doc *model.Document) error {
		before := doc.Len(k)
		switch k {
		case model.KindIncome:
			doc.Income = slices.DeleteFunc(doc.Income, func(r model.Income) bool { return r.ID == id })
		case model.KindExpense:
			doc.Expenses = slices.DeleteFunc(doc.Expenses, func(r model.Expense) bool { return r.ID == id })
		case model.KindDebt:
			doc.Debts = slices.DeleteFunc(doc.Debts, func(r model.Debt) bool { return r.ID == id })
		case model.KindFixed:
			doc.FixedExpenses = slices.DeleteFunc(doc.FixedExpenses, func(r model.FixedExpense) bool { return r.ID == id })
		case model.KindGoal:
			doc.Goals = slices.DeleteFunc(doc.Goals, func(r model.Goal) bool { return r.ID == id })
		default:
			return fmt.Errorf("unknown record kind %q", k)
		}
		if doc.Len(k) == before {
			return fmt.Errorf("%s %s: %w", k.Label(), id, ErrNotFound)
		}
		return nil
	})
}

// Clear removes every record of collection k and reports how many went.
func (l *Ledger) Clear(ctx context.Context, k model.Kind) (int, error) {
	var n int
	err := l.update(ctx, "clear", func(doc *model.Document) error {
		n = doc.Len(k)
		switch k {
		case model.KindIncome:
			doc.Income = []model.Income{}
		case model.KindExpense:
			doc.Expenses = []model.Expense{}
		case model.KindDebt:
			doc.Debts = []model.Debt{}
		case model.KindFixed:
			doc.FixedExpenses = []model.FixedExpense{}
		case model.KindGoal:
			doc.Goals = []model.Goal{}
		default:
			return fmt.Errorf("unknown record kind %q", k)
		}
		return nil
	})
	return n, err
}

// Reset replaces everything with a fresh document.
func (l *Ledger) Reset(ctx context.Context) error {
	return l.update(ctx, "reset", func(doc *model.Document) error {
		*doc = model.NewDocument()
		return nil
	})
}

// Replace swaps in an imported document after normalizing it.
func (l *Ledger) Replace(ctx context.Context, next model.Document) error {
	if err := Normalize(&next, l.newID, l.now()); err != nil {
		return err
	}
	return l.update(ctx, "replace", func(doc *model.Document) error {
		*doc = next
		return nil
	})
}
