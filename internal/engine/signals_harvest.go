package engine

import (
	"context"
	"errors"
	"fmt"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
)

func (e *Evaluator) computeHarvestPace(ctx context.Context, repo domrepo.MetricsRepository) (models.Signal, error) {
	name := models.SignalHarvestPace
	sc := e.cal.Signals[name]

	regions, err := repo.RegionalConditionScores(ctx, domrepo.Window30d)
	if err != nil && !errors.Is(err, domrepo.ErrNoRows) {
		return models.Signal{}, fmt.Errorf("harvest pace: %w", err)
	}
	if len(regions) == 0 {
		return models.Signal{}, &DataUnavailableError{Signal: name}
	}

	// Production-weighted condition index across regions, mapped onto [0,3]
	// where 1.5 is the long-run normal (condition index 50).
	var sum, wsum float64
	breakdown := make(map[string]float64, len(regions)+1)
	for _, r := range regions {
		w := r.Weight
		if w <= 0 {
			w = 1
		}
		sum += r.Score * w
		wsum += w
		breakdown["region_"+r.Region] = r.Score
	}
	weighted := sum / wsum
	breakdown["weighted_condition"] = weighted

	score := clamp(weighted/100.0*3.0, sc.Min, sc.Max)
	return models.Signal{
		Name:       name,
		Score:      score,
		CrisisFlag: sc.InCrisis(score), // crisis when pace drops BELOW threshold
		Breakdown:  breakdown,
	}, nil
}
