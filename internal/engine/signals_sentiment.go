package engine

import (
	"context"
	"errors"
	"fmt"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
)

// Keyword sets for the sentiment-derived signals. Records are tagged by the
// collectors; matching here is tag containment, not text search.
var (
	chinaKeywords = []string{
		"china", "beijing", "trade_deal", "soybean_purchase", "phase_one", "export_ban",
	}
	tariffKeywords = []string{
		"tariff", "duty", "retaliation", "section_301", "trade_war", "quota",
	}
	geopoliticalKeywords = []string{
		"conflict", "sanctions", "shipping_lane", "black_sea", "strait", "embargo",
	}
)

func (e *Evaluator) computeChinaRelations(ctx context.Context, repo domrepo.MetricsRepository) (models.Signal, error) {
	name := models.SignalChinaRelations
	sc := e.cal.Signals[name]

	agg, err := repo.SentimentAggregate(ctx, chinaKeywords, domrepo.Window7d)
	if err != nil && !errors.Is(err, domrepo.ErrNoRows) {
		return models.Signal{}, fmt.Errorf("china relations: %w", err)
	}
	if agg.Mentions == 0 {
		return models.Signal{}, &DataUnavailableError{Signal: name}
	}

	escShare := float64(agg.EscalationMentions) / float64(agg.Mentions)

	// Neutral tone sits at the 1.5 midpoint; bearish tone and escalation
	// language push the score toward the 3.0 cap.
	score := clamp(1.5-agg.AvgTone*1.5+escShare*0.8, sc.Min, sc.Max)
	return models.Signal{
		Name:       name,
		Score:      score,
		CrisisFlag: sc.InCrisis(score),
		Breakdown: map[string]float64{
			"mentions":         float64(agg.Mentions),
			"avg_tone":         agg.AvgTone,
			"escalation_share": escShare,
		},
	}, nil
}

func (e *Evaluator) computeTariffThreat(ctx context.Context, repo domrepo.MetricsRepository) (models.Signal, error) {
	name := models.SignalTariffThreat
	sc := e.cal.Signals[name]

	agg, err := repo.SentimentAggregate(ctx, tariffKeywords, domrepo.Window7d)
	if err != nil && !errors.Is(err, domrepo.ErrNoRows) {
		return models.Signal{}, fmt.Errorf("tariff threat: %w", err)
	}
	if agg.Mentions == 0 {
		return models.Signal{}, &DataUnavailableError{Signal: name}
	}

	days := float64(domrepo.Window7d.Days())
	velocity := float64(agg.Mentions) / days
	escShare := float64(agg.EscalationMentions) / float64(agg.Mentions)
	negTone := 0.0
	if agg.AvgTone < 0 {
		negTone = -agg.AvgTone
	}

	score := clamp(velocity/4.0+escShare*1.5+negTone*1.2, sc.Min, sc.Max)
	return models.Signal{
		Name:       name,
		Score:      score,
		CrisisFlag: sc.InCrisis(score),
		Breakdown: map[string]float64{
			"mentions":         float64(agg.Mentions),
			"mention_velocity": velocity,
			"escalation_share": escShare,
			"neg_tone":         negTone,
		},
	}, nil
}

func (e *Evaluator) computeGeopoliticalVolatility(ctx context.Context, repo domrepo.MetricsRepository) (models.Signal, error) {
	name := models.SignalGeopoliticalVolatility
	sc := e.cal.Signals[name]

	agg, err := repo.SentimentAggregate(ctx, geopoliticalKeywords, domrepo.Window7d)
	if err != nil && !errors.Is(err, domrepo.ErrNoRows) {
		return models.Signal{}, fmt.Errorf("geopolitical volatility: %w", err)
	}
	if agg.Mentions == 0 {
		// Non-primary: neutral default instead of failing the cycle.
		return e.degradedSignal(name, "no geopolitical sentiment rows"), nil
	}

	days := float64(domrepo.Window7d.Days())
	velocity := float64(agg.Mentions) / days
	escShare := float64(agg.EscalationMentions) / float64(agg.Mentions)
	negTone := 0.0
	if agg.AvgTone < 0 {
		negTone = -agg.AvgTone
	}

	score := clamp(0.4+velocity/10.0*0.3+negTone*0.45+escShare*0.25, sc.Min, sc.Max)
	return models.Signal{
		Name:       name,
		Score:      score,
		CrisisFlag: sc.InCrisis(score),
		Breakdown: map[string]float64{
			"mentions":         float64(agg.Mentions),
			"mention_velocity": velocity,
			"escalation_share": escShare,
			"neg_tone":         negTone,
		},
	}, nil
}
