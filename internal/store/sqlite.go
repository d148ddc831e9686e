// Package store implements the document load/save port over SQLite and
// over a plain JSON file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const (
	settingPeriod      = "time_period"
	settingNeeds       = "allocation_needs"
	settingWants       = "allocation_wants"
	settingSavings     = "allocation_savings"
	settingInitialized = "initialized"
)

// SQLite stores the document in normalized tables.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at dbPath and migrates it.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &SQLite{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads the whole document. A database that was never saved to
// yields a fresh document.
func (s *SQLite) Load(ctx context.Context) (model.Document, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return model.Document{}, err
	}
	if _, ok := settings[settingInitialized]; !ok {
		return model.NewDocument(), nil
	}

	doc := model.Document{Version: model.DocumentVersion}
	doc.Settings.Period, _ = model.ParsePeriod(settings[settingPeriod])
	doc.Settings.Allocation = model.Allocation{
		Needs:   decimalOrZero(settings[settingNeeds]),
		Wants:   decimalOrZero(settings[settingWants]),
		Savings: decimalOrZero(settings[settingSavings]),
	}

	loaders := []func(context.Context, *model.Document) error{
		s.loadIncome, s.loadExpenses, s.loadDebts, s.loadFixed, s.loadGoals, s.loadCategories,
	}
	for _, load := range loaders {
		if err := load(ctx, &doc); err != nil {
			return model.Document{}, err
		}
	}
	return doc, nil
}

func decimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (s *SQLite) loadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func scanDate(s string) (model.Date, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("stored date: %w", err)
	}
	return d, nil
}

func (s *SQLite) loadIncome(ctx context.Context, doc *model.Document) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, source, main_category, sub_category,
		description, amount, hidden FROM income ORDER BY position`)
	if err != nil {
		return fmt.Errorf("loading income: %w", err)
	}
	defer func() { _ = rows.Close() }()

	doc.Income = []model.Income{}
	for rows.Next() {
		var r model.Income
		var date string
		if err := rows.Scan(&r.ID, &date, &r.Source, &r.MainCategory, &r.SubCategory,
			&r.Description, &r.Amount, &r.Hidden); err != nil {
			return fmt.Errorf("scanning income: %w", err)
		}
		if r.Date, err = scanDate(date); err != nil {
			return err
		}
		doc.Income = append(doc.Income, r)
	}
	return rows.Err()
}

func (s *SQLite) loadExpenses(ctx context.Context, doc *model.Document) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, bucket, category, description,
		amount, hidden FROM expenses ORDER BY position`)
	if err != nil {
		return fmt.Errorf("loading expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	doc.Expenses = []model.Expense{}
	for rows.Next() {
		var r model.Expense
		var date, bucket string
		if err := rows.Scan(&r.ID, &date, &bucket, &r.Category, &r.Description,
			&r.Amount, &r.Hidden); err != nil {
			return fmt.Errorf("scanning expense: %w", err)
		}
		if r.Date, err = scanDate(date); err != nil {
			return err
		}
		if r.Bucket, err = model.ParseBucket(bucket); err != nil {
			return fmt.Errorf("expense %s: %w", r.ID, err)
		}
		doc.Expenses = append(doc.Expenses, r)
	}
	return rows.Err()
}

func (s *SQLite) loadDebts(ctx context.Context, doc *model.Document) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, creditor, description, original_amount,
		paid_amount, hidden FROM debts ORDER BY position`)
	if err != nil {
		return fmt.Errorf("loading debts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	doc.Debts = []model.Debt{}
	for rows.Next() {
		var r model.Debt
		if err := rows.Scan(&r.ID, &r.Creditor, &r.Description, &r.OriginalAmount,
			&r.PaidAmount, &r.Hidden); err != nil {
			return fmt.Errorf("scanning debt: %w", err)
		}
		doc.Debts = append(doc.Debts, r)
	}
	return rows.Err()
}

func (s *SQLite) loadFixed(ctx context.Context, doc *model.Document) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, due_day, description, amount, status,
		hidden FROM fixed_expenses ORDER BY position`)
	if err != nil {
		return fmt.Errorf("loading fixed expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	doc.FixedExpenses = []model.FixedExpense{}
	for rows.Next() {
		var r model.FixedExpense
		var status string
		if err := rows.Scan(&r.ID, &r.DueDay, &r.Description, &r.Amount, &status, &r.Hidden); err != nil {
			return fmt.Errorf("scanning fixed expense: %w", err)
		}
		if r.Status, err = model.ParseFixedStatus(status); err != nil {
			return fmt.Errorf("fixed expense %s: %w", r.ID, err)
		}
		doc.FixedExpenses = append(doc.FixedExpenses, r)
	}
	return rows.Err()
}

func (s *SQLite) loadGoals(ctx context.Context, doc *model.Document) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, target_amount, saved_amount, hidden
		FROM goals ORDER BY position`)
	if err != nil {
		return fmt.Errorf("loading goals: %w", err)
	}
	doc.Goals = []model.Goal{}
	index := make(map[model.ID]int)
	for rows.Next() {
		var r model.Goal
		if err := rows.Scan(&r.ID, &r.Title, &r.TargetAmount, &r.SavedAmount, &r.Hidden); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning goal: %w", err)
		}
		r.Contributions = []model.Contribution{}
		index[r.ID] = len(doc.Goals)
		doc.Goals = append(doc.Goals, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	crows, err := s.db.QueryContext(ctx, `SELECT goal_id, date, amount FROM goal_contributions
		ORDER BY goal_id, seq`)
	if err != nil {
		return fmt.Errorf("loading contributions: %w", err)
	}
	defer func() { _ = crows.Close() }()
	for crows.Next() {
		var goalID model.ID
		var date string
		var c model.Contribution
		if err := crows.Scan(&goalID, &date, &c.Amount); err != nil {
			return fmt.Errorf("scanning contribution: %w", err)
		}
		if c.Date, err = scanDate(date); err != nil {
			return err
		}
		if i, ok := index[goalID]; ok {
			doc.Goals[i].Contributions = append(doc.Goals[i].Contributions, c)
		}
	}
	return crows.Err()
}

func (s *SQLite) loadCategories(ctx context.Context, doc *model.Document) error {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM categories ORDER BY position")
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	doc.Categories = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		doc.Categories = append(doc.Categories, name)
	}
	return rows.Err()
}

// Save replaces the stored document in a single transaction.
func (s *SQLite) Save(ctx context.Context, doc model.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"goal_contributions", "goals", "income", "expenses", "debts", "fixed_expenses", "categories", "settings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, r := range doc.Income {
		if _, err := tx.ExecContext(ctx, `INSERT INTO income
			(id, position, date, source, main_category, sub_category, description, amount, hidden)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, r.Date.String(), r.Source, r.MainCategory, r.SubCategory, r.Description,
			r.Amount.String(), boolInt(r.Hidden)); err != nil {
			return fmt.Errorf("saving income %s: %w", r.ID, err)
		}
	}
	for i, r := range doc.Expenses {
		if _, err := tx.ExecContext(ctx, `INSERT INTO expenses
			(id, position, date, bucket, category, description, amount, hidden)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, r.Date.String(), r.Bucket.String(), r.Category, r.Description,
			r.Amount.String(), boolInt(r.Hidden)); err != nil {
			return fmt.Errorf("saving expense %s: %w", r.ID, err)
		}
	}
	for i, r := range doc.Debts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO debts
			(id, position, creditor, description, original_amount, paid_amount, hidden)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, r.Creditor, r.Description, r.OriginalAmount.String(), r.PaidAmount.String(),
			boolInt(r.Hidden)); err != nil {
			return fmt.Errorf("saving debt %s: %w", r.ID, err)
		}
	}
	for i, r := range doc.FixedExpenses {
		if _, err := tx.ExecContext(ctx, `INSERT INTO fixed_expenses
			(id, position, due_day, description, amount, status, hidden)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, r.DueDay, r.Description, r.Amount.String(), r.Status.String(),
			boolInt(r.Hidden)); err != nil {
			return fmt.Errorf("saving fixed expense %s: %w", r.ID, err)
		}
	}
	for i, r := range doc.Goals {
		if _, err := tx.ExecContext(ctx, `INSERT INTO goals
			(id, position, title, target_amount, saved_amount, hidden)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, i, r.Title, r.TargetAmount.String(), r.SavedAmount.String(),
			boolInt(r.Hidden)); err != nil {
			return fmt.Errorf("saving goal %s: %w", r.ID, err)
		}
		for seq, c := range r.Contributions {
			if _, err := tx.ExecContext(ctx, `INSERT INTO goal_contributions
				(goal_id, seq, date, amount) VALUES (?, ?, ?, ?)`,
				r.ID, seq, c.Date.String(), c.Amount.String()); err != nil {
				return fmt.Errorf("saving contribution for goal %s: %w", r.ID, err)
			}
		}
	}
	for i, name := range doc.Categories {
		if _, err := tx.ExecContext(ctx, "INSERT INTO categories (position, name) VALUES (?, ?)", i, name); err != nil {
			return fmt.Errorf("saving category %q: %w", name, err)
		}
	}

	a := doc.Settings.Allocation
	settings := map[string]string{
		settingInitialized: "1",
		settingPeriod:      doc.Settings.Period.String(),
		settingNeeds:       a.Needs.String(),
		settingWants:       a.Wants.String(),
		settingSavings:     a.Savings.String(),
	}
	for k, v := range settings {
		if _, err := tx.ExecContext(ctx, "INSERT INTO settings (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("saving setting %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
