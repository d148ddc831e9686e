package theme

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("flexoki-light"); got.Name != "flexoki-light" {
		t.Fatalf("ByName(flexoki-light) = %q", got.Name)
	}
	if got := ByName("nope"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName(nope) = %q, want %q", got.Name, FlexokiDark.Name)
	}
	if len(Names()) != len(All) {
		t.Fatalf("Names() = %v", Names())
	}
}

func TestUsageColor(t *testing.T) {
	th := FlexokiDark
	cases := []struct {
		frac float64
		want string
	}{
		{0.2, string(th.Green)},
		{0.8, string(th.Orange)},
		{1.0, string(th.Orange)},
		{1.01, string(th.Red)},
	}
	for _, tc := range cases {
		if got := th.UsageColor(tc.frac); string(got) != tc.want {
			t.Errorf("UsageColor(%v) = %s, want %s", tc.frac, got, tc.want)
		}
	}
}

func TestSemanticColors(t *testing.T) {
	th := Terminal
	if th.AmountColor(decimal.NewFromInt(-5)) != th.Red {
		t.Error("negative amount should be red")
	}
	if th.AmountColor(decimal.Zero) != th.TextMuted {
		t.Error("zero amount should be muted")
	}
	if th.BucketColor(model.BucketSavingsDebt) != th.Savings {
		t.Error("savings bucket should use the savings role")
	}
	if th.BucketColor(model.BucketNeeds) == th.BucketColor(model.BucketWants) {
		t.Error("needs and wants share a color")
	}
	if th.BucketColor(model.Bucket("other")) != th.TextMuted {
		t.Error("unknown bucket should be muted")
	}
}
