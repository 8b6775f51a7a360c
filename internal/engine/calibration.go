package engine

import (
	"AgriPulse/internal/domain/models"
)

// CrisisCompare is the direction of a signal's crisis threshold check.
type CrisisCompare int

const (
	CompareAbove CrisisCompare = iota // score > threshold
	CompareBelow                      // score < threshold
	CompareAbs                        // |score| > threshold
)

// SignalCalibration is the static per-signal parameter record. Adding or
// removing a signal is a compile-time change here, not a map-key edit.
type SignalCalibration struct {
	Tier            models.Tier
	Weight          float64
	CrisisPoints    float64
	Min             float64
	Max             float64
	CrisisThreshold float64
	Compare         CrisisCompare
	NeutralDefault  float64 // substituted when a non-primary query is empty
}

// Primary reports whether an empty read for this signal aborts the evaluation.
func (c SignalCalibration) Primary() bool { return c.Tier == models.Tier1 }

// InCrisis applies the calibrated threshold comparison to a score.
func (c SignalCalibration) InCrisis(score float64) bool {
	switch c.Compare {
	case CompareBelow:
		return score < c.CrisisThreshold
	case CompareAbs:
		if score < 0 {
			score = -score
		}
		return score > c.CrisisThreshold
	default:
		return score > c.CrisisThreshold
	}
}

// Normalize maps a clamped score onto [0,1] by its declared range.
func (c SignalCalibration) Normalize(score float64) float64 {
	if c.Max <= c.Min {
		return 0
	}
	return (score - c.Min) / (c.Max - c.Min)
}

// PairCondition is one multi-factor stress rule: both signals at or above
// (below, for inverted) their secondary cutoffs.
type PairCondition struct {
	Regime models.Regime
	A      models.SignalName
	ACut   float64
	ABelow bool
	AAbs   bool
	B      models.SignalName
	BCut   float64
	BBelow bool
	BAbs   bool
}

// CalmCondition is the all-quiet rule checked after crisis and stress rules.
type CalmCondition struct {
	VixBelow     float64
	HarvestAbove float64
	ChinaBelow   float64
	TariffBelow  float64
}

// Calibration bundles every static table the engine consumes. It is
// immutable for the lifetime of one evaluation.
type Calibration struct {
	Signals           map[models.SignalName]SignalCalibration
	StressRules       []PairCondition
	Calm              CalmCondition
	RegimeMultipliers map[models.Regime]float64
	HorizonFactors    map[models.Horizon]float64
}

// Volatility piecewise zone breakpoints (raw index level). The low zone is
// level/17 so a reading of 10 scores ~0.588; above 45 the score caps at 3.0.
const (
	volBreakLow      = 17.0
	volBreakElevated = 25.0
	volBreakHigh     = 35.0
	volBreakExtreme  = 45.0
)

// DefaultCalibration returns the production calibration. Crisis point values
// are 4x17 + 2x12 + 8 = 100 by construction; keep that identity intact.
func DefaultCalibration() Calibration {
	return Calibration{
		Signals: map[models.SignalName]SignalCalibration{
			models.SignalVixStress: {
				Tier: models.Tier1, Weight: 2.5, CrisisPoints: 17,
				Min: 0, Max: 3, CrisisThreshold: 2.0, Compare: CompareAbove,
			},
			models.SignalHarvestPace: {
				Tier: models.Tier1, Weight: 2.5, CrisisPoints: 17,
				Min: 0, Max: 3, CrisisThreshold: 0.9, Compare: CompareBelow,
			},
			models.SignalChinaRelations: {
				Tier: models.Tier1, Weight: 2.5, CrisisPoints: 17,
				Min: 0, Max: 3, CrisisThreshold: 2.2, Compare: CompareAbove,
			},
			models.SignalTariffThreat: {
				Tier: models.Tier1, Weight: 2.5, CrisisPoints: 17,
				Min: 0, Max: 3, CrisisThreshold: 1.8, Compare: CompareAbove,
			},
			models.SignalGeopoliticalVolatility: {
				Tier: models.Tier2, Weight: 1.5, CrisisPoints: 12,
				Min: 0, Max: 1, CrisisThreshold: 0.7, Compare: CompareAbove,
				NeutralDefault: 0.4,
			},
			models.SignalBiofuelCascade: {
				Tier: models.Tier2, Weight: 1.5, CrisisPoints: 12,
				Min: 0, Max: 1, CrisisThreshold: 0.65, Compare: CompareAbove,
				NeutralDefault: 0.4,
			},
			models.SignalHiddenCorrelation: {
				Tier: models.Tier3, Weight: 1.0, CrisisPoints: 8,
				Min: -1, Max: 1, CrisisThreshold: 0.8, Compare: CompareAbs,
				NeutralDefault: 0.0,
			},
		},
		StressRules: []PairCondition{
			{
				Regime: models.RegimeTradeWarStress,
				A:      models.SignalChinaRelations, ACut: 1.8,
				B: models.SignalTariffThreat, BCut: 1.6,
			},
			{
				Regime: models.RegimeSupplyStress,
				A:      models.SignalHarvestPace, ACut: 1.0, ABelow: true,
				B: models.SignalVixStress, BCut: 1.8,
			},
			{
				Regime: models.RegimeMacroStress,
				A:      models.SignalVixStress, ACut: 1.8,
				B: models.SignalHiddenCorrelation, BCut: 0.55, BAbs: true,
			},
			{
				Regime: models.RegimePolicyStress,
				A:      models.SignalBiofuelCascade, ACut: 0.55,
				B: models.SignalGeopoliticalVolatility, BCut: 0.6,
			},
		},
		Calm: CalmCondition{
			VixBelow:     1.0,
			HarvestAbove: 1.2,
			ChinaBelow:   1.0,
			TariffBelow:  0.8,
		},
		RegimeMultipliers: map[models.Regime]float64{
			models.RegimeVolatilityShock:      1.30,
			models.RegimeHarvestFailure:       1.25,
			models.RegimeTradeRelationsCrisis: 0.90,
			models.RegimeTariffEscalation:     0.85,
			models.RegimeGeopoliticalShock:    1.15,
			models.RegimeBiofuelDisruption:    1.10,
			models.RegimeCorrelationBreakdown: 1.05,
			models.RegimeTradeWarStress:       0.88,
			models.RegimeSupplyStress:         1.20,
			models.RegimeMacroStress:          1.12,
			models.RegimePolicyStress:         1.08,
			models.RegimeCalmFundamentals:     0.95,
			models.RegimeMixedSignals:         1.00,
		},
		HorizonFactors: map[models.Horizon]float64{
			models.Horizon1Week:   0.02,
			models.Horizon1Month:  0.05,
			models.Horizon3Month:  0.12,
			models.Horizon6Month:  0.18,
			models.Horizon12Month: 0.25,
		},
	}
}

// ApplyThresholdOverrides replaces crisis thresholds from configuration.
// Unknown names are ignored; the comparison direction never changes.
func (c *Calibration) ApplyThresholdOverrides(overrides map[string]float64) {
	for name, v := range overrides {
		sc, ok := c.Signals[models.SignalName(name)]
		if !ok {
			continue
		}
		sc.CrisisThreshold = v
		c.Signals[models.SignalName(name)] = sc
	}
}

// ApplyMultiplierOverrides replaces regime multipliers from configuration.
func (c *Calibration) ApplyMultiplierOverrides(overrides map[string]float64) {
	for name, v := range overrides {
		r := models.Regime(name)
		if _, ok := c.RegimeMultipliers[r]; !ok {
			continue
		}
		c.RegimeMultipliers[r] = v
	}
}
