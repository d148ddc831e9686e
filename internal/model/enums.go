package model

import (
	"fmt"
	"strings"
)

// Bucket is one of the three allocation buckets income is split across.
type Bucket string

const (
	BucketNeeds       Bucket = "Needs"
	BucketWants       Bucket = "Wants"
	BucketSavingsDebt Bucket = "Savings & Debt"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{BucketNeeds, BucketWants, BucketSavingsDebt}

func (b Bucket) String() string { return string(b) }

// Valid reports whether b is one of the known buckets.
func (b Bucket) Valid() bool {
	switch b {
	case BucketNeeds, BucketWants, BucketSavingsDebt:
		return true
	}
	return false
}

// ParseBucket accepts the display label or a short alias
// (needs, wants, savings, debt, savings-debt).
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "needs", "need":
		return BucketNeeds, nil
	case "wants", "want":
		return BucketWants, nil
	case "savings & debt", "savings", "debt", "savings-debt", "savingsdebt", "savings_debt", "savingsanddebt":
		return BucketSavingsDebt, nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

func (b Bucket) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("unknown bucket %q", string(b))
	}
	return []byte(b), nil
}

func (b *Bucket) UnmarshalText(text []byte) error {
	v, err := ParseBucket(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Period selects the time window applied to dated records.
type Period string

const (
	PeriodAll    Period = "all"
	PeriodMonth  Period = "month"
	Period14Days Period = "14days"
	Period30Days Period = "30days"
)

// Periods lists every period in the order the UI cycles through them.
var Periods = []Period{PeriodMonth, Period14Days, Period30Days, PeriodAll}

func (p Period) String() string { return string(p) }

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodAll, PeriodMonth, Period14Days, Period30Days:
		return true
	}
	return false
}

// Label returns a human-readable name for the period.
func (p Period) Label() string {
	switch p {
	case PeriodAll:
		return "All Time"
	case PeriodMonth:
		return "This Month"
	case Period14Days:
		return "Last 14 Days"
	case Period30Days:
		return "Last 30 Days"
	}
	return string(p)
}

// Days returns the trailing day count for day-count windows and 0 otherwise.
func (p Period) Days() int {
	switch p {
	case Period14Days:
		return 14
	case Period30Days:
		return 30
	}
	return 0
}

// Next returns the period after p in Periods, wrapping around.
func (p Period) Next() Period {
	for i, v := range Periods {
		if v == p {
			return Periods[(i+1)%len(Periods)]
		}
	}
	return PeriodMonth
}

// ParsePeriod accepts the stored key plus a few aliases (14d, 30, all-time).
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "all-time", "alltime":
		return PeriodAll, nil
	case "month", "this-month", "m":
		return PeriodMonth, nil
	case "14days", "14d", "14":
		return Period14Days, nil
	case "30days", "30d", "30":
		return Period30Days, nil
	}
	return "", fmt.Errorf("unknown period %q (want all, month, 14days or 30days)", s)
}

func (p Period) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown period %q", string(p))
	}
	return []byte(p), nil
}

func (p *Period) UnmarshalText(text []byte) error {
	v, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// FixedStatus is the two-state payment status of a fixed expense.
type FixedStatus string

const (
	StatusPending FixedStatus = "pending"
	StatusPaid    FixedStatus = "paid"
)

func (s FixedStatus) String() string { return string(s) }

// Toggle flips pending and paid.
func (s FixedStatus) Toggle() FixedStatus {
	if s == StatusPaid {
		return StatusPending
	}
	return StatusPaid
}

// ParseFixedStatus parses "pending" or "paid".
func ParseFixedStatus(s string) (FixedStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "":
		return StatusPending, nil
	case "paid":
		return StatusPaid, nil
	}
	return "", fmt.Errorf("unknown fixed expense status %q", s)
}

func (s FixedStatus) MarshalText() ([]byte, error) {
	switch s {
	case StatusPending, StatusPaid:
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown fixed expense status %q", string(s))
}

func (s *FixedStatus) UnmarshalText(text []byte) error {
	v, err := ParseFixedStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Kind names one of the five record collections.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expenses"
	KindDebt    Kind = "debts"
	KindFixed   Kind = "fixedExpenses"
	KindGoal    Kind = "goals"
)

// Kinds lists every collection in document order.
var Kinds = []Kind{KindIncome, KindExpense, KindDebt, KindFixed, KindGoal}

func (k Kind) String() string { return string(k) }

// Label returns the singular display name for the collection.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "income"
	case KindExpense:
		return "expense"
	case KindDebt:
		return "debt"
	case KindFixed:
		return "fixed expense"
	case KindGoal:
		return "goal"
	}
	return string(k)
}

// ParseKind accepts singular or plural collection names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "incomes":
		return KindIncome, nil
	case "expense", "expenses":
		return KindExpense, nil
	case "debt", "debts":
		return KindDebt, nil
	case "fixed", "fixedexpense", "fixedexpenses", "fixed-expense", "fixed-expenses":
		return KindFixed, nil
	case "goal", "goals":
		return KindGoal, nil
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}
