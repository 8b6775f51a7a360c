package engine

import (
	"AgriPulse/internal/domain/models"
)

// ProjectHorizonPrices anchors the forecast on the latest known price and
// scales the regime-adjusted composite deviation out across the horizons.
// Longer horizons always move further from the anchor for the same inputs.
func ProjectHorizonPrices(cal Calibration, composite float64, regime models.Regime, anchor float64) map[models.Horizon]float64 {
	mult, ok := cal.RegimeMultipliers[regime]
	if !ok {
		mult = 1.0
	}
	impact := (composite - 0.5) * mult

	out := make(map[models.Horizon]float64, len(cal.HorizonFactors))
	for _, h := range models.AllHorizons() {
		out[h] = anchor * (1 + impact*cal.HorizonFactors[h])
	}
	return out
}
