package engine

import (
	"math"

	"AgriPulse/internal/domain/models"
)

// singleFactorRegime maps each signal's crisis flag to its dedicated regime.
func singleFactorRegime(name models.SignalName) models.Regime {
	switch name {
	case models.SignalVixStress:
		return models.RegimeVolatilityShock
	case models.SignalHarvestPace:
		return models.RegimeHarvestFailure
	case models.SignalChinaRelations:
		return models.RegimeTradeRelationsCrisis
	case models.SignalTariffThreat:
		return models.RegimeTariffEscalation
	case models.SignalGeopoliticalVolatility:
		return models.RegimeGeopoliticalShock
	case models.SignalBiofuelCascade:
		return models.RegimeBiofuelDisruption
	case models.SignalHiddenCorrelation:
		return models.RegimeCorrelationBreakdown
	default:
		return models.RegimeMixedSignals
	}
}

func pairSideMet(score, cut float64, below, abs bool) bool {
	if abs {
		score = math.Abs(score)
	}
	if below {
		return score <= cut
	}
	return score >= cut
}

// ClassifyRegime runs the priority cascade: individual crisis flags in
// enumeration order (first trip wins), then the four multi-factor stress
// pairs in rule order, then the calm condition, then the mixed default.
// Pure function of the signal set; no state survives between calls.
func ClassifyRegime(cal Calibration, signals models.SignalSet) models.Regime {
	for _, name := range models.AllSignals() {
		s, ok := signals[name]
		if !ok {
			continue
		}
		if s.CrisisFlag {
			return singleFactorRegime(name)
		}
	}

	for _, rule := range cal.StressRules {
		a, okA := signals[rule.A]
		b, okB := signals[rule.B]
		if !okA || !okB {
			continue
		}
		if pairSideMet(a.Score, rule.ACut, rule.ABelow, rule.AAbs) &&
			pairSideMet(b.Score, rule.BCut, rule.BBelow, rule.BAbs) {
			return rule.Regime
		}
	}

	vix, okV := signals[models.SignalVixStress]
	harvest, okH := signals[models.SignalHarvestPace]
	china, okC := signals[models.SignalChinaRelations]
	tariff, okT := signals[models.SignalTariffThreat]
	if okV && okH && okC && okT &&
		vix.Score < cal.Calm.VixBelow &&
		harvest.Score > cal.Calm.HarvestAbove &&
		china.Score < cal.Calm.ChinaBelow &&
		tariff.Score < cal.Calm.TariffBelow {
		return models.RegimeCalmFundamentals
	}

	return models.RegimeMixedSignals
}
