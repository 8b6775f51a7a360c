package engine

import (
	"math"
	"testing"

	"AgriPulse/internal/domain/models"
)

func TestHorizonDeviationGrowsWithHorizon(t *testing.T) {
	cal := DefaultCalibration()
	anchor := 1050.0
	prices := ProjectHorizonPrices(cal, 0.8, models.RegimeMixedSignals, anchor)
	prev := -1.0
	for _, h := range models.AllHorizons() {
		dev := math.Abs(prices[h] - anchor)
		if dev < prev {
			t.Fatalf("deviation shrank at %s: %v < %v", h, dev, prev)
		}
		prev = dev
	}
}

func TestBearishCompositeProjectsBelowAnchor(t *testing.T) {
	cal := DefaultCalibration()
	anchor := 1000.0
	prices := ProjectHorizonPrices(cal, 0.2, models.RegimeVolatilityShock, anchor)
	for h, p := range prices {
		if p >= anchor {
			t.Fatalf("bearish composite should project below anchor at %s: %v", h, p)
		}
	}
}

func TestNeutralCompositeProjectsAnchor(t *testing.T) {
	cal := DefaultCalibration()
	anchor := 985.25
	prices := ProjectHorizonPrices(cal, 0.5, models.RegimeMixedSignals, anchor)
	for h, p := range prices {
		if math.Abs(p-anchor) > 1e-9 {
			t.Fatalf("neutral composite should project the anchor at %s: %v", h, p)
		}
	}
}

func TestRegimeMultipliersInRange(t *testing.T) {
	cal := DefaultCalibration()
	if len(cal.RegimeMultipliers) != 13 {
		t.Fatalf("expected 13 regime multipliers, got %d", len(cal.RegimeMultipliers))
	}
	for r, m := range cal.RegimeMultipliers {
		if m < 0.85 || m > 1.3 {
			t.Fatalf("multiplier for %s out of range: %v", r, m)
		}
	}
}

func TestRecommendBands(t *testing.T) {
	cases := []struct {
		composite float64
		intensity float64
		want      models.Recommendation
	}{
		{0.80, 10, models.RecommendStrongBuy},
		{0.65, 10, models.RecommendBuy},
		{0.50, 10, models.RecommendHold},
		{0.35, 10, models.RecommendWeakSell},
		{0.10, 10, models.RecommendSell},
		{0.80, 60, models.RecommendBuy},  // strong buy blocked by intensity
		{0.30, 80, models.RecommendSell}, // crisis override
	}
	for _, c := range cases {
		got, action := Recommend(c.composite, c.intensity)
		if got != c.want {
			t.Fatalf("recommend(%v, %v): got %s want %s", c.composite, c.intensity, got, c.want)
		}
		if action == "" {
			t.Fatalf("recommend(%v, %v): empty action text", c.composite, c.intensity)
		}
	}
}

func TestConfidenceBands(t *testing.T) {
	cases := []struct {
		intensity float64
		want      int
	}{
		{0, 85}, {24.9, 85}, {25, 70}, {49, 70}, {50, 55}, {74, 55}, {75, 40}, {100, 40},
	}
	for _, c := range cases {
		if got := ConfidencePct(c.intensity); got != c.want {
			t.Fatalf("confidence(%v): got %d want %d", c.intensity, got, c.want)
		}
	}
}

func TestPrimaryDriverPicksLargestDeviation(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	set = withScore(set, models.SignalTariffThreat, 2.0, true)
	set = withScore(set, models.SignalVixStress, 2.9, true) // deviates further
	got := PrimaryDriver(cal, set)
	if got == balancedDriver {
		t.Fatalf("crisis signals present but got balanced driver")
	}
	if want := "vix_stress"; len(got) < len(want) || got[:len(want)] != want {
		t.Fatalf("primary driver should be vix_stress, got %q", got)
	}
}

func TestPrimaryDriverBalancedWhenNoCrisis(t *testing.T) {
	cal := DefaultCalibration()
	if got := PrimaryDriver(cal, neutralSignals(cal)); got != balancedDriver {
		t.Fatalf("no crisis flags should give balanced driver, got %q", got)
	}
}
