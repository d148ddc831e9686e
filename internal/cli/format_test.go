package cli

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":          "$0.00",
		"5.5":        "$5.50",
		"999.999":    "$1,000.00",
		"1234567.8":  "$1,234,567.80",
		"-100":       "-$100.00",
		"-1234.005":  "-$1,234.01",
	}
	for in, want := range tests {
		if got := FormatMoney(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatMoney(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatSignedAndPercent(t *testing.T) {
	if got := FormatSigned(decimal.NewFromInt(50)); got != "+$50.00" {
		t.Errorf("FormatSigned = %q", got)
	}
	if got := FormatPercent(decimal.NewFromInt(40)); got != "40.0%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercentWhole(decimal.RequireFromString("33.5")); got != "33.5%" {
		t.Errorf("FormatPercentWhole = %q", got)
	}
	if got := FormatPercentWhole(decimal.NewFromInt(50)); got != "50%" {
		t.Errorf("FormatPercentWhole = %q", got)
	}
}

func TestOrdinal(t *testing.T) {
	for n, want := range map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 21: "21st", 31: "31st"} {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestClampPercent(t *testing.T) {
	if got := ClampPercent(decimal.NewFromInt(150)); got != 1 {
		t.Errorf("ClampPercent(150) = %v", got)
	}
	if got := ClampPercent(decimal.NewFromInt(-5)); got != 0 {
		t.Errorf("ClampPercent(-5) = %v", got)
	}
	if got := ClampPercent(decimal.NewFromInt(25)); got != 0.25 {
		t.Errorf("ClampPercent(25) = %v", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Bucket", "Spent"},
		Rows:    [][]string{{"Needs", "$1.00"}, {"---"}, {"Total", "$1.00"}},
	})
	if out == "" {
		t.Fatal("RenderTable returned empty output")
	}
}
