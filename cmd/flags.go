package cmd

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Edit commands only touch fields whose flags were set; these helpers
// turn a changed flag into a patch pointer.

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func changedAmount(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	s := changedString(cmd, name)
	if s == nil {
		return nil, nil
	}
	d, err := parseAmount(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func changedDate(cmd *cobra.Command, name string) (*model.Date, error) {
	s := changedString(cmd, name)
	if s == nil {
		return nil, nil
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func changedBucket(cmd *cobra.Command, name string) (*model.Bucket, error) {
	s := changedString(cmd, name)
	if s == nil {
		return nil, nil
	}
	b, err := model.ParseBucket(*s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// decimalPercent is part as a percentage of whole, 0 when whole is not positive.
func decimalPercent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}
