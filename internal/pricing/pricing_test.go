package pricing

import (
	"testing"
	"time"

	"parkezy/internal/models"
)

func TestRunningCostIncludesTax(t *testing.T) {
	// ₹50/h for one hour at 18% tax is exactly ₹59.
	got := RunningCost(5000, time.Hour, TaxRateBps)
	if got != 5900 {
		t.Fatalf("expected 5900 paise, got %d", got)
	}
}

func TestRunningCostPartialHour(t *testing.T) {
	// ₹50/h for 30 minutes: 2500 * 1.18 = 2950.
	got := RunningCost(5000, 30*time.Minute, TaxRateBps)
	if got != 2950 {
		t.Fatalf("expected 2950 paise, got %d", got)
	}
}

func TestRunningCostZeroAndNegative(t *testing.T) {
	if got := RunningCost(5000, 0, TaxRateBps); got != 0 {
		t.Fatalf("expected 0 for zero elapsed, got %d", got)
	}
	if got := RunningCost(5000, -time.Hour, TaxRateBps); got != 0 {
		t.Fatalf("expected 0 for negative elapsed, got %d", got)
	}
	if got := RunningCost(0, time.Hour, TaxRateBps); got != 0 {
		t.Fatalf("expected 0 for zero rate, got %d", got)
	}
}

func TestRunningCostMonotonic(t *testing.T) {
	// Cost must never decrease as time passes, tick by tick.
	var prev models.Amount
	for secs := int64(0); secs <= 4*3600; secs += 7 {
		cost := RunningCost(4070, time.Duration(secs)*time.Second, TaxRateBps)
		if cost < prev {
			t.Fatalf("cost decreased at %ds: %d < %d", secs, cost, prev)
		}
		prev = cost
	}
}

func TestOverstayFeeBlocks(t *testing.T) {
	cases := []struct {
		over time.Duration
		want models.Amount
	}{
		{0, 0},
		{-time.Minute, 0},
		{time.Second, 2000},
		{15 * time.Minute, 2000},
		{15*time.Minute + time.Second, 4000},
		{16 * time.Minute, 4000},
		{30 * time.Minute, 4000},
		{31 * time.Minute, 6000},
		{2 * time.Hour, 16000},
	}
	for _, tc := range cases {
		if got := OverstayFee(tc.over); got != tc.want {
			t.Fatalf("OverstayFee(%s): expected %d, got %d", tc.over, tc.want, got)
		}
	}
}

func TestExtensionCostMatchesRunningCost(t *testing.T) {
	if got, want := ExtensionCost(5000, time.Hour, TaxRateBps), RunningCost(5000, time.Hour, TaxRateBps); got != want {
		t.Fatalf("extension cost %d != running cost %d", got, want)
	}
}
