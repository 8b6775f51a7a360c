package engine

import (
	"testing"

	"AgriPulse/internal/domain/models"
)

func neutralSignals(cal Calibration) models.SignalSet {
	set := make(models.SignalSet)
	for _, name := range models.AllSignals() {
		sc := cal.Signals[name]
		set[name] = models.Signal{Name: name, Score: (sc.Min + sc.Max) / 2}
	}
	return set
}

func withScore(set models.SignalSet, name models.SignalName, score float64, crisis bool) models.SignalSet {
	out := make(models.SignalSet, len(set))
	for k, v := range set {
		out[k] = v
	}
	out[name] = models.Signal{Name: name, Score: score, CrisisFlag: crisis}
	return out
}

func TestNeutralMidpointsAreMixedSignals(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	if got := ClassifyRegime(cal, set); got != models.RegimeMixedSignals {
		t.Fatalf("neutral midpoints should classify as mixed signals, got %s", got)
	}
	if cs := CompositeScore(cal, set); cs < 0.49 || cs > 0.51 {
		t.Fatalf("neutral composite should be ~0.5, got %v", cs)
	}
}

func TestVolatilityCrisisShortCircuits(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	// Trip everything; volatility is first in the priority order and wins.
	for _, name := range models.AllSignals() {
		s := set[name]
		s.CrisisFlag = true
		set[name] = s
	}
	if got := ClassifyRegime(cal, set); got != models.RegimeVolatilityShock {
		t.Fatalf("volatility crisis must win the cascade, got %s", got)
	}
}

func TestSingleFactorRegimeOrder(t *testing.T) {
	cal := DefaultCalibration()
	cases := []struct {
		name models.SignalName
		want models.Regime
	}{
		{models.SignalVixStress, models.RegimeVolatilityShock},
		{models.SignalHarvestPace, models.RegimeHarvestFailure},
		{models.SignalChinaRelations, models.RegimeTradeRelationsCrisis},
		{models.SignalTariffThreat, models.RegimeTariffEscalation},
		{models.SignalGeopoliticalVolatility, models.RegimeGeopoliticalShock},
		{models.SignalBiofuelCascade, models.RegimeBiofuelDisruption},
		{models.SignalHiddenCorrelation, models.RegimeCorrelationBreakdown},
	}
	for _, c := range cases {
		set := withScore(neutralSignals(cal), c.name, neutralSignals(cal)[c.name].Score, true)
		if got := ClassifyRegime(cal, set); got != c.want {
			t.Fatalf("crisis on %s: got %s want %s", c.name, got, c.want)
		}
	}
}

func TestTradeWarStressPair(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	set = withScore(set, models.SignalChinaRelations, 1.9, false)
	set = withScore(set, models.SignalTariffThreat, 1.7, false)
	if got := ClassifyRegime(cal, set); got != models.RegimeTradeWarStress {
		t.Fatalf("elevated china+tariff should be trade war stress, got %s", got)
	}
}

func TestSupplyStressPair(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	set = withScore(set, models.SignalHarvestPace, 0.95, false)
	set = withScore(set, models.SignalVixStress, 1.9, false)
	if got := ClassifyRegime(cal, set); got != models.RegimeSupplyStress {
		t.Fatalf("slow harvest + high vol should be supply stress, got %s", got)
	}
}

func TestCalmFundamentals(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	set = withScore(set, models.SignalVixStress, 0.6, false)
	set = withScore(set, models.SignalHarvestPace, 1.8, false)
	set = withScore(set, models.SignalChinaRelations, 0.8, false)
	set = withScore(set, models.SignalTariffThreat, 0.5, false)
	if got := ClassifyRegime(cal, set); got != models.RegimeCalmFundamentals {
		t.Fatalf("quiet signals should be calm fundamentals, got %s", got)
	}
}

func TestClassifierIsDeterministic(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	set = withScore(set, models.SignalTariffThreat, 2.5, true)
	first := ClassifyRegime(cal, set)
	for i := 0; i < 50; i++ {
		if got := ClassifyRegime(cal, set); got != first {
			t.Fatalf("classifier not deterministic: %s then %s", first, got)
		}
	}
}

func TestCrisisIntensityMonotonicAndCapped(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	prev := CrisisIntensity(cal, set)
	if prev != 0 {
		t.Fatalf("no flags should score 0, got %v", prev)
	}
	for _, name := range models.AllSignals() {
		s := set[name]
		s.CrisisFlag = true
		set[name] = s
		got := CrisisIntensity(cal, set)
		if got < prev {
			t.Fatalf("intensity decreased after flagging %s: %v < %v", name, got, prev)
		}
		prev = got
	}
	if prev != 100 {
		t.Fatalf("all flags should score exactly 100, got %v", prev)
	}
}

func TestCompositeExcludesMissingSignalBothSides(t *testing.T) {
	cal := DefaultCalibration()
	set := neutralSignals(cal)
	delete(set, models.SignalHiddenCorrelation)
	// Remaining signals all sit at their midpoints, so the weighted mean
	// must stay 0.5 when the weight leaves numerator and denominator.
	if cs := CompositeScore(cal, set); cs < 0.499 || cs > 0.501 {
		t.Fatalf("degraded composite should remain ~0.5, got %v", cs)
	}
}

func TestCompositeBounds(t *testing.T) {
	cal := DefaultCalibration()
	set := make(models.SignalSet)
	for _, name := range models.AllSignals() {
		sc := cal.Signals[name]
		set[name] = models.Signal{Name: name, Score: sc.Max}
	}
	if cs := CompositeScore(cal, set); cs != 1 {
		t.Fatalf("all-max composite should be 1, got %v", cs)
	}
	for _, name := range models.AllSignals() {
		sc := cal.Signals[name]
		set[name] = models.Signal{Name: name, Score: sc.Min}
	}
	if cs := CompositeScore(cal, set); cs != 0 {
		t.Fatalf("all-min composite should be 0, got %v", cs)
	}
}
