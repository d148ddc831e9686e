// Package ledger holds the record store: a single in-memory document
// guarded by a narrow command API. Every command validates its input,
// applies the change to a copy, swaps the copy in and then persists it.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	flog "github.com/theirongolddev/fintrack/internal/log"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

// Store loads and saves the whole document.
type Store interface {
	Load(ctx context.Context) (model.Document, error)
	Save(ctx context.Context, doc model.Document) error
}

// Ledger is the record store. It is safe for concurrent use.
type Ledger struct {
	mu    sync.Mutex
	doc   model.Document
	store Store
	now   func() time.Time
	newID func() model.ID
	log   *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDs replaces the ID generator.
func WithIDs(gen func() model.ID) Option {
	return func(l *Ledger) { l.newID = gen }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// New wraps doc. A nil store keeps the ledger memory-only.
func New(doc model.Document, store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
		newID: NewID,
		log:   flog.For(flog.ComponentLedger),
	}
	for _, o := range opts {
		o(l)
	}
	l.doc = doc.Clone()
	return l
}

// Open loads the document from store and normalizes it.
func Open(ctx context.Context, store Store, opts ...Option) (*Ledger, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}
	l := New(model.Document{}, store, opts...)
	if err := Normalize(&doc, l.newID, l.now()); err != nil {
		return nil, err
	}
	l.doc = doc
	return l, nil
}

// Snapshot returns a deep copy of the current document.
func (l *Ledger) Snapshot() model.Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Clone()
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time { return l.now() }

// Period returns the persisted active period.
func (l *Ledger) Period() model.Period {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Settings.Period
}

// Budget computes the budget for the persisted period.
func (l *Ledger) Budget() model.Budget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return pipeline.Compute(l.doc, l.doc.Settings.Period, l.now())
}

// BudgetFor computes the budget for period p without changing settings.
func (l *Ledger) BudgetFor(p model.Period) model.Budget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return pipeline.Compute(l.doc, p, l.now())
}

// AvailableSavings evaluates the savings gate for the persisted period.
func (l *Ledger) AvailableSavings() decimal.Decimal {
	return l.AvailableSavingsIn("")
}

// AvailableSavingsIn is AvailableSavings for window p. An empty p means
// the saved period.
func (l *Ledger) AvailableSavingsIn(p model.Period) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.availableSavingsLocked(l.periodOr(p))
}

func (l *Ledger) availableSavingsLocked(p model.Period) decimal.Decimal {
	w := pipeline.Filter(l.doc, p, l.now())
	return pipeline.AvailableSavingsFor(w, l.doc.Settings.Allocation)
}

// periodOr returns p, or the saved period when p is empty. Callers hold mu.
func (l *Ledger) periodOr(p model.Period) model.Period {
	if p == "" {
		return l.doc.Settings.Period
	}
	return p
}

// update runs fn against a copy of the document. When fn succeeds the
// copy replaces the current document and is persisted. A failed save
// leaves the new state in memory and returns an error wrapping ErrPersist.
func (l *Ledger) update(ctx context.Context, op string, fn func(doc *model.Document) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	l.doc = next

	if l.store == nil {
		return nil
	}
	if err := l.store.Save(ctx, next.Clone()); err != nil {
		l.log.Warn("persist failed", flog.FieldOperation, op, flog.Err(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Resolve maps an exact id or a unique id prefix in collection k to the
// full id. Hidden records are addressable.
func (l *Ledger) Resolve(k model.Kind, ref string) (model.ID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return resolve(l.doc, k, ref)
}

func resolve(doc model.Document, k model.Kind, ref string) (model.ID, error) {
	all, err := idsOf(doc, k)
	if err != nil {
		return "", err
	}

	var matches []model.ID
	for _, id := range all {
		if string(id) == ref {
			return id, nil
		}
		if id.HasPrefix(ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", k.Label(), ref, ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%s %q matches %d records: %w", k.Label(), ref, len(matches), ErrAmbiguousID)
}

// ShortIDs returns the display form of every id in collection k: the
// shortest prefix that Resolve maps back to that record alone.
func (l *Ledger) ShortIDs(k model.Kind) map[model.ID]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	all, err := idsOf(l.doc, k)
	if err != nil {
		return map[model.ID]string{}
	}
	return model.ShortIDs(all)
}

// ShortID is the display form of id within collection k.
func (l *Ledger) ShortID(k model.Kind, id model.ID) string {
	if s, ok := l.ShortIDs(k)[id]; ok {
		return s
	}
	return string(id)
}

func idsOf(doc model.Document, k model.Kind) ([]model.ID, error) {
	var all []model.ID
	switch k {
	case model.KindIncome:
		for _, r := range doc.Income {
			all = append(all, r.ID)
		}
	case model.KindExpense:
		for _, r := range doc.Expenses {
			all = append(all, r.ID)
		}
	case model.KindDebt:
		for _, r := range doc.Debts {
			all = append(all, r.ID)
		}
	case model.KindFixed:
		for _, r := range doc.FixedExpenses {
			all = append(all, r.ID)
		}
	case model.KindGoal:
		for _, r := range doc.Goals {
			all = append(all, r.ID)
		}
	default:
		return nil, fmt.Errorf("unknown record kind %q", k)
	}
	return all, nil
}

func (l *Ledger) today() model.Date {
	return model.DateOf(l.now())
}
