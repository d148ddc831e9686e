// Package export writes records as CSV and the full document as a JSON
// backup.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
)

// IncomeHeader is the header row of the income CSV.
var IncomeHeader = []string{"Date", "Source", "Main Category", "Sub-Category", "Description", "Amount"}

// ExpenseHeader is the header row of the expense CSV.
var ExpenseHeader = []string{"Date", "Allocation", "Category", "Description", "Amount"}

// IncomeCSV writes the visible income records.
func IncomeCSV(w io.Writer, income []model.Income) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(IncomeHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range income {
		if r.Hidden {
			continue
		}
		row := []string{
			r.Date.String(),
			r.Source,
			orDefault(r.MainCategory, "Uncategorized"),
			r.SubCategory,
			r.Description,
			r.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing income %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExpensesCSV writes the visible expense records.
func ExpensesCSV(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExpenseHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range expenses {
		if r.Hidden {
			continue
		}
		row := []string{
			r.Date.String(),
			r.Bucket.String(),
			r.Category,
			r.Description,
			r.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing expense %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes the complete document, hidden records included, so a
// restore brings hidden records back as hidden.
func JSON(w io.Writer, doc model.Document) error {
	return ledger.Encode(w, doc)
}

// BackupName returns the file name used for a backup taken at t.
func BackupName(t time.Time) string {
	return "fintrack-backup-" + t.Format("20060102-150405") + ".json"
}

// WriteBackup writes a JSON backup of doc into dir and returns its path.
func WriteBackup(dir string, doc model.Document, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}
	path := filepath.Join(dir, BackupName(t))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}
	if err := JSON(f, doc); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing backup: %w", err)
	}
	return path, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
