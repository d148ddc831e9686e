package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// presence records which optional top-level fields a document carried.
type presence struct {
	Categories *[]string `json:"categories"`
	Settings   *struct {
		Period     *string `json:"timePeriod"`
		Allocation *struct {
			Needs   *decimal.Decimal `json:"needs"`
			Wants   *decimal.Decimal `json:"wants"`
			Savings *decimal.Decimal `json:"savings"`
		} `json:"allocation"`
	} `json:"settings"`
}

// Decode reads a JSON document, defaulting missing optional fields and
// rejecting structurally invalid records. Documents exported by the
// browser version (no version field, numeric ids, unknown settings keys)
// are accepted.
func Decode(r io.Reader, newID func() model.ID, now time.Time) (model.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return model.Document{}, fmt.Errorf("reading document: %w", err)
	}

	var p presence
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Document{}, fmt.Errorf("parsing document: %w", err)
	}

	// Settings.timePeriod is decoded by hand so an unknown value falls back
	// to the default instead of failing the whole load.
	var doc struct {
		model.Document
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Document{}, fmt.Errorf("parsing document: %w", err)
	}
	out := doc.Document

	def := model.NewDocument()
	if p.Categories == nil {
		out.Categories = def.Categories
	}
	out.Settings.Period = def.Settings.Period
	if p.Settings != nil && p.Settings.Period != nil {
		if period, err := model.ParsePeriod(*p.Settings.Period); err == nil {
			out.Settings.Period = period
		}
	}
	a := def.Settings.Allocation
	if p.Settings != nil && p.Settings.Allocation != nil {
		pa := p.Settings.Allocation
		if pa.Needs != nil {
			a.Needs = *pa.Needs
		}
		if pa.Wants != nil {
			a.Wants = *pa.Wants
		}
		if pa.Savings != nil {
			a.Savings = *pa.Savings
		}
	}
	out.Settings.Allocation = a

	if err := Normalize(&out, newID, now); err != nil {
		return model.Document{}, err
	}
	return out, nil
}

// Encode writes doc as indented JSON, hidden records included.
func Encode(w io.Writer, doc model.Document) error {
	doc.Version = model.DocumentVersion
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// Normalize brings a loaded document up to the current version: nil
// collections become empty, missing or duplicate ids are re-stamped,
// categories are trimmed and de-duplicated, and each goal's saved amount
// is reconciled with its contributions. Records missing a required field
// fail the load.
func Normalize(doc *model.Document, newID func() model.ID, now time.Time) error {
	if doc.Version > model.DocumentVersion {
		return fmt.Errorf("document version %d: %w", doc.Version, ErrUnsupportedVersion)
	}
	doc.Version = model.DocumentVersion

	if doc.Income == nil {
		doc.Income = []model.Income{}
	}
	if doc.Expenses == nil {
		doc.Expenses = []model.Expense{}
	}
	if doc.Debts == nil {
		doc.Debts = []model.Debt{}
	}
	if doc.FixedExpenses == nil {
		doc.FixedExpenses = []model.FixedExpense{}
	}
	if doc.Goals == nil {
		doc.Goals = []model.Goal{}
	}
	if !doc.Settings.Period.Valid() {
		doc.Settings.Period = model.PeriodMonth
	}

	seen := make(map[model.ID]struct{})
	stamp := func(id *model.ID) {
		_, dup := seen[*id]
		if *id == "" || dup {
			*id = newID()
		}
		seen[*id] = struct{}{}
	}

	for i := range doc.Income {
		r := &doc.Income[i]
		stamp(&r.ID)
		if r.Date.IsZero() {
			return recordErr(model.KindIncome, i, "date", "missing")
		}
		if r.Amount.IsNegative() {
			return recordErr(model.KindIncome, i, "amount", "negative")
		}
	}
	for i := range doc.Expenses {
		r := &doc.Expenses[i]
		stamp(&r.ID)
		if r.Date.IsZero() {
			return recordErr(model.KindExpense, i, "date", "missing")
		}
		if !r.Bucket.Valid() {
			return recordErr(model.KindExpense, i, "allocationCategory", "missing")
		}
		if r.Amount.IsNegative() {
			return recordErr(model.KindExpense, i, "amount", "negative")
		}
	}
	for i := range doc.Debts {
		r := &doc.Debts[i]
		stamp(&r.ID)
		if r.OriginalAmount.IsNegative() || r.PaidAmount.IsNegative() {
			return recordErr(model.KindDebt, i, "amount", "negative")
		}
	}
	for i := range doc.FixedExpenses {
		r := &doc.FixedExpenses[i]
		stamp(&r.ID)
		if r.DueDay < 1 || r.DueDay > 31 {
			return recordErr(model.KindFixed, i, "dueDate", fmt.Sprintf("%d out of range", r.DueDay))
		}
		if r.Status == "" {
			r.Status = model.StatusPending
		}
	}
	for i := range doc.Goals {
		r := &doc.Goals[i]
		stamp(&r.ID)
		if r.Contributions == nil {
			r.Contributions = []model.Contribution{}
		}
		sum := decimal.Zero
		for _, c := range r.Contributions {
			sum = sum.Add(c.Amount)
		}
		switch {
		case len(r.Contributions) == 0 && r.SavedAmount.IsPositive():
			// Older documents tracked a balance without contributions.
			r.Contributions = append(r.Contributions, model.Contribution{
				Date:   model.DateOf(now),
				Amount: r.SavedAmount,
			})
		default:
			r.SavedAmount = sum
		}
	}

	if doc.Categories == nil {
		doc.Categories = slices.Clone(model.DefaultCategories)
	}
	cats := make([]string, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		c = strings.TrimSpace(c)
		if c != "" && !slices.Contains(cats, c) {
			cats = append(cats, c)
		}
	}
	doc.Categories = cats
	return nil
}

func recordErr(k model.Kind, i int, field, reason string) error {
	return &ValidationError{
		Field:  fmt.Sprintf("%s[%d].%s", k, i, field),
		Reason: reason,
	}
}
