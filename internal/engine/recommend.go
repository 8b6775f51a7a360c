package engine

import (
	"fmt"
	"math"

	"AgriPulse/internal/domain/models"
)

// balancedDriver is reported when no signal is in crisis.
const balancedDriver = "balanced fundamentals"

// Recommend maps composite score and crisis intensity to an action label.
// Extreme crisis intensity blocks buy-side labels regardless of score.
func Recommend(composite, intensity float64) (models.Recommendation, string) {
	switch {
	case intensity >= 75 && composite < 0.5:
		return models.RecommendSell, "Exit long exposure; systemic crisis conditions dominate the signal set."
	case composite >= 0.72 && intensity < 50:
		return models.RecommendStrongBuy, "Add to long positions; fundamentals and sentiment align bullishly."
	case composite >= 0.58 && intensity < 75:
		return models.RecommendBuy, "Accumulate on weakness; composite signal leans bullish."
	case composite >= 0.42:
		return models.RecommendHold, "Hold current exposure; signals are balanced."
	case composite >= 0.28:
		return models.RecommendWeakSell, "Trim long exposure; composite signal leans bearish."
	default:
		return models.RecommendSell, "Reduce exposure; bearish signals dominate."
	}
}

// ConfidencePct is a step function of crisis intensity: the noisier the
// crisis picture, the less the point forecast is worth.
func ConfidencePct(intensity float64) int {
	switch {
	case intensity < 25:
		return 85
	case intensity < 50:
		return 70
	case intensity < 75:
		return 55
	default:
		return 40
	}
}

// PrimaryDriver picks the crisis-flagged signal whose normalized score sits
// furthest from the 0.5 midpoint, or the balanced label if nothing tripped.
func PrimaryDriver(cal Calibration, signals models.SignalSet) string {
	var best models.SignalName
	bestDev := -1.0
	for _, name := range models.AllSignals() {
		s, ok := signals[name]
		if !ok || !s.CrisisFlag {
			continue
		}
		dev := math.Abs(cal.Signals[name].Normalize(s.Score) - 0.5)
		if dev > bestDev {
			bestDev = dev
			best = name
		}
	}
	if bestDev < 0 {
		return balancedDriver
	}
	return fmt.Sprintf("%s (score %.2f, crisis)", best, signals[best].Score)
}
