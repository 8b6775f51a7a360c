package engine

import (
	"math"
	"testing"
)

func TestVolStressScoreLowZone(t *testing.T) {
	got := volStressScore(10)
	want := 10.0 / 17.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("vol score at 10: got %v want %v", got, want)
	}
}

func TestVolStressScoreBreakpoints(t *testing.T) {
	cases := []struct {
		level float64
		want  float64
	}{
		{0, 0},
		{17, 1.0},
		{25, 1.5},
		{35, 2.5},
		{45, 3.0},
		{60, 3.0},
	}
	for _, c := range cases {
		got := volStressScore(c.level)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("vol score at %v: got %v want %v", c.level, got, c.want)
		}
	}
}

func TestVolStressScoreMonotonic(t *testing.T) {
	prev := -1.0
	for level := 0.0; level <= 50; level += 0.5 {
		got := volStressScore(level)
		if got < prev {
			t.Fatalf("vol score decreased at level %v: %v < %v", level, got, prev)
		}
		prev = got
	}
}

func TestVixCrisisThreshold(t *testing.T) {
	cal := DefaultCalibration()
	sc := cal.Signals["vix_stress"]
	if sc.InCrisis(volStressScore(10)) {
		t.Fatalf("level 10 should not be a crisis")
	}
	if !sc.InCrisis(volStressScore(45)) {
		t.Fatalf("level 45 should be a crisis")
	}
}

func TestHarvestCrisisFiresBelowThreshold(t *testing.T) {
	cal := DefaultCalibration()
	sc := cal.Signals["harvest_pace"]
	if !sc.InCrisis(0.5) {
		t.Fatalf("low harvest pace should be a crisis")
	}
	if sc.InCrisis(1.5) {
		t.Fatalf("normal harvest pace should not be a crisis")
	}
}

func TestHiddenCorrelationCrisisIsAbsolute(t *testing.T) {
	cal := DefaultCalibration()
	sc := cal.Signals["hidden_correlation"]
	if !sc.InCrisis(-0.9) {
		t.Fatalf("strong negative correlation should be a crisis")
	}
	if !sc.InCrisis(0.9) {
		t.Fatalf("strong positive correlation should be a crisis")
	}
	if sc.InCrisis(0.5) {
		t.Fatalf("moderate correlation should not be a crisis")
	}
}

func TestNormalizeRanges(t *testing.T) {
	cal := DefaultCalibration()
	if got := cal.Signals["vix_stress"].Normalize(1.5); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("midpoint of [0,3] should normalize to 0.5, got %v", got)
	}
	if got := cal.Signals["hidden_correlation"].Normalize(0); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("zero correlation should normalize to 0.5, got %v", got)
	}
	if got := cal.Signals["hidden_correlation"].Normalize(-1); got != 0 {
		t.Fatalf("correlation -1 should normalize to 0, got %v", got)
	}
	if got := cal.Signals["geopolitical_volatility"].Normalize(0.4); math.Abs(got-0.4) > 1e-9 {
		t.Fatalf("[0,1] signal should normalize by identity, got %v", got)
	}
}

func TestCrisisPointTableSumsTo100(t *testing.T) {
	cal := DefaultCalibration()
	total := 0.0
	for _, sc := range cal.Signals {
		total += sc.CrisisPoints
	}
	if total != 100 {
		t.Fatalf("crisis point table must sum to 100, got %v", total)
	}
}

func TestNeutralDefaultsDoNotTripCrisis(t *testing.T) {
	cal := DefaultCalibration()
	for name, sc := range cal.Signals {
		if sc.Tier == 1 {
			continue
		}
		if sc.InCrisis(sc.NeutralDefault) {
			t.Fatalf("neutral default for %s trips its own crisis threshold", name)
		}
	}
}
