package engine

import (
	"context"
	"errors"
	"fmt"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
)

// volStressScore maps the raw volatility index level into the [0,3] stress
// score through five linear zones. The zone slopes are calibrated, not a
// single ratio: below 17 the score is level/17, then each zone compresses
// or stretches differently up to the 3.0 cap at 45.
func volStressScore(level float64) float64 {
	switch {
	case level <= 0:
		return 0
	case level < volBreakLow:
		return level / volBreakLow
	case level < volBreakElevated:
		return 1.0 + (level-volBreakLow)/(volBreakElevated-volBreakLow)*0.5
	case level < volBreakHigh:
		return 1.5 + (level-volBreakElevated)/(volBreakHigh-volBreakElevated)*1.0
	case level < volBreakExtreme:
		return 2.5 + (level-volBreakHigh)/(volBreakExtreme-volBreakHigh)*0.5
	default:
		return 3.0
	}
}

func volZone(level float64) float64 {
	switch {
	case level < volBreakLow:
		return 1
	case level < volBreakElevated:
		return 2
	case level < volBreakHigh:
		return 3
	case level < volBreakExtreme:
		return 4
	default:
		return 5
	}
}

func (e *Evaluator) computeVixStress(ctx context.Context, repo domrepo.MetricsRepository) (models.Signal, error) {
	name := models.SignalVixStress
	sc := e.cal.Signals[name]

	level, err := repo.LatestIndexValue(ctx, e.opts.VolIndexSeries)
	if err != nil {
		if errors.Is(err, domrepo.ErrNoRows) {
			return models.Signal{}, &DataUnavailableError{Signal: name}
		}
		return models.Signal{}, fmt.Errorf("vix stress: %w", err)
	}

	score := clamp(volStressScore(level), sc.Min, sc.Max)
	return models.Signal{
		Name:       name,
		Score:      score,
		CrisisFlag: sc.InCrisis(score),
		Breakdown: map[string]float64{
			"raw_level": level,
			"zone":      volZone(level),
		},
	}, nil
}
