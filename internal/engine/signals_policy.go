package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
)

// biofuelProgram is the policy program key the cascade signal tracks.
const biofuelProgram = "biofuel_mandate"

func (e *Evaluator) computeBiofuelCascade(ctx context.Context, repo domrepo.MetricsRepository) (models.Signal, error) {
	name := models.SignalBiofuelCascade
	sc := e.cal.Signals[name]

	stat, err := repo.PolicyStats(ctx, biofuelProgram, domrepo.Window30d)
	if err != nil && !errors.Is(err, domrepo.ErrNoRows) {
		return models.Signal{}, fmt.Errorf("biofuel cascade: %w", err)
	}
	if stat.Events == 0 {
		return e.degradedSignal(name, "no biofuel policy events"), nil
	}

	// Mandate cuts (negative net delta) are the demand-shock direction;
	// large swings in either direction add cascade risk.
	cut := 0.0
	if stat.NetDelta < 0 {
		cut = -stat.NetDelta
	}
	swing := math.Abs(stat.NetDelta)

	score := clamp(0.4+cut*0.08+swing*0.02, sc.Min, sc.Max)
	return models.Signal{
		Name:       name,
		Score:      score,
		CrisisFlag: sc.InCrisis(score),
		Breakdown: map[string]float64{
			"events":    float64(stat.Events),
			"net_delta": stat.NetDelta,
			"max_delta": stat.MaxDelta,
		},
	}, nil
}
