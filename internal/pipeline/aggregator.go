// Package pipeline derives budget metrics from a document: the period
// window, bucket allocation, savings capacity, goal progress and
// category totals. Every function here is pure.
package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

type categoryKey struct {
	bucket   model.Bucket
	category string
}

// AggregateCategories groups expenses by (bucket, category) in order of
// first occurrence and computes each group's share of total spend.
// Shares are 0 when nothing was spent.
func AggregateCategories(expenses []model.Expense) model.CategoryBreakdown {
	index := make(map[categoryKey]int)
	var out model.CategoryBreakdown
	out.Categories = []model.CategoryTotal{}

	bucketTotals := make(map[model.Bucket]decimal.Decimal, len(model.Buckets))
	for _, e := range expenses {
		k := categoryKey{bucket: e.Bucket, category: e.Category}
		i, ok := index[k]
		if !ok {
			i = len(out.Categories)
			index[k] = i
			out.Categories = append(out.Categories, model.CategoryTotal{
				Bucket:   e.Bucket,
				Category: e.Category,
			})
		}
		out.Categories[i].Total = out.Categories[i].Total.Add(e.Amount)
		bucketTotals[e.Bucket] = bucketTotals[e.Bucket].Add(e.Amount)
		out.Total = out.Total.Add(e.Amount)
	}

	for i := range out.Categories {
		out.Categories[i].Percent = share(out.Categories[i].Total, out.Total)
	}
	for _, b := range model.Buckets {
		out.Buckets = append(out.Buckets, model.BucketTotal{
			Bucket:  b,
			Total:   bucketTotals[b],
			Percent: share(bucketTotals[b], out.Total),
		})
	}
	return out
}

func share(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
