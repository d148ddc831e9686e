package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/fintrack/internal/model"
)

// AddCategory appends a trimmed, unique category name.
func (l *Ledger) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("category", "required")
	}
	return l.update(ctx, "add_category", func(doc *model.Document) error {
		if doc.HasCategory(name) {
			return fmt.Errorf("%q: %w", name, ErrDuplicateCategory)
		}
		doc.Categories = append(doc.Categories, name)
		return nil
	})
}

// DeleteCategory removes a category. Existing expenses keep it.
func (l *Ledger) DeleteCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	return l.update(ctx, "delete_category", func(doc *model.Document) error {
		i := slices.Index(doc.Categories, name)
		if i < 0 {
			return fmt.Errorf("category %q: %w", name, ErrNotFound)
		}
		doc.Categories = slices.Delete(doc.Categories, i, i+1)
		return nil
	})
}

// Categories returns the category list.
func (l *Ledger) Categories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.doc.Categories)
}

type categoryHint struct {
	keywords []string
	bucket   model.Bucket
	category string
}

var categoryHints = []categoryHint{
	{[]string{"grocery", "groceries", "supermarket", "market"}, model.BucketNeeds, "Groceries"},
	{[]string{"gas", "fuel", "uber", "taxi", "bus", "metro", "train", "parking"}, model.BucketNeeds, "Transportation"},
	{[]string{"netflix", "spotify", "prime", "subscription", "icloud"}, model.BucketNeeds, "Subscription"},
	{[]string{"pharmacy", "doctor", "dentist", "clinic", "hospital"}, model.BucketNeeds, "Healthcare"},
	{[]string{"restaurant", "cafe", "coffee", "pizza", "burger", "lunch", "dinner"}, model.BucketWants, "Restaurant"},
	{[]string{"movie", "cinema", "concert", "bar", "game"}, model.BucketWants, "Entertainment"},
	{[]string{"shopping", "clothes", "shoes", "amazon", "mall"}, model.BucketWants, "Shopping"},
}

// GuessCategory suggests a bucket and category for an expense description.
// Only categories present in the list are suggested.
func GuessCategory(description string, categories []string) (model.Bucket, string, bool) {
	words := strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, h := range categoryHints {
		if !slices.Contains(categories, h.category) {
			continue
		}
		for _, w := range words {
			if slices.Contains(h.keywords, w) {
				return h.bucket, h.category, true
			}
		}
	}
	return "", "", false
}
