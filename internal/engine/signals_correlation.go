package engine

import (
	"context"
	"errors"
	"fmt"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
)

func (e *Evaluator) computeHiddenCorrelation(ctx context.Context, repo domrepo.MetricsRepository) (models.Signal, error) {
	name := models.SignalHiddenCorrelation
	sc := e.cal.Signals[name]

	corr, err := repo.RollingCorrelation(ctx, e.opts.PriceSeries, e.opts.CrossAssetSeries, e.opts.CorrelationDays)
	if err != nil {
		if errors.Is(err, domrepo.ErrNoRows) {
			return e.degradedSignal(name, "insufficient overlapping closes"), nil
		}
		return models.Signal{}, fmt.Errorf("hidden correlation: %w", err)
	}

	score := clamp(corr, sc.Min, sc.Max)
	return models.Signal{
		Name:       name,
		Score:      score,
		CrisisFlag: sc.InCrisis(score), // |corr| above threshold
		Breakdown: map[string]float64{
			"raw_correlation": corr,
			"window_days":     float64(e.opts.CorrelationDays),
		},
	}, nil
}
