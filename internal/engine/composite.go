package engine

import (
	"AgriPulse/internal/domain/models"
)

// CompositeScore computes the tier-weighted mean of the normalized signals.
// A missing signal is excluded from numerator AND denominator together;
// weights are never dropped from just one side.
func CompositeScore(cal Calibration, signals models.SignalSet) float64 {
	var num, den float64
	for _, name := range models.AllSignals() {
		s, ok := signals[name]
		if !ok {
			continue
		}
		sc := cal.Signals[name]
		num += sc.Normalize(s.Score) * sc.Weight
		den += sc.Weight
	}
	if den == 0 {
		return 0
	}
	return clamp(num/den, 0, 1)
}

// CrisisIntensity converts crisis flags into a 0-100 severity score by the
// tier point table (4x17 + 2x12 + 8 = 100 when everything is on fire).
func CrisisIntensity(cal Calibration, signals models.SignalSet) float64 {
	var total float64
	for _, name := range models.AllSignals() {
		s, ok := signals[name]
		if !ok || !s.CrisisFlag {
			continue
		}
		total += cal.Signals[name].CrisisPoints
	}
	return clamp(total, 0, 100)
}
