package components

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		0.5:     "$0.50",
		20:      "$20",
		1000:    "$1k",
		1500:    "$1.5k",
		2000000: "$2M",
	}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestChartTickStep(t *testing.T) {
	cases := map[float64]float64{0: 1, 50: 10, 120: 20, 900: 200}
	for in, want := range cases {
		if got := chartTickStep(in); got != want {
			t.Errorf("chartTickStep(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSampleBarsKeepsEnds(t *testing.T) {
	values := make([]float64, 100)
	labels := make([]string, 100)
	for i := range values {
		values[i] = float64(i)
		labels[i] = "x"
	}
	gotV, gotL := sampleBars(values, labels, 21)
	if len(gotV) != 11 || len(gotL) != 11 {
		t.Fatalf("sampled to %d/%d, want 11", len(gotV), len(gotL))
	}
	if gotV[0] != 0 || gotV[10] != 99 {
		t.Fatalf("ends = %v, %v", gotV[0], gotV[10])
	}
}

func TestDailySpendChart(t *testing.T) {
	days := []model.DayTotal{
		{Date: model.Date{Year: 2025, Month: 3, Day: 1}, Total: decimal.NewFromInt(40)},
		{Date: model.Date{Year: 2025, Month: 3, Day: 2}, Total: decimal.Zero},
		{Date: model.Date{Year: 2025, Month: 3, Day: 3}, Total: decimal.NewFromInt(120)},
	}
	out := DailySpendChart(days, 40, 8)
	if !strings.Contains(out, "$0") || !strings.Contains(out, "3/1") {
		t.Fatalf("chart missing axis or labels:\n%s", out)
	}
	if DailySpendChart(nil, 40, 8) != "" {
		t.Fatal("empty series should render nothing")
	}
}
