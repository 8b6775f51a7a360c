package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
)

// fakeMetricsRepo returns canned values per query; zero-value fields mean
// "no rows" so tests can exercise the degraded and fatal paths.
type fakeMetricsRepo struct {
	indexLevel    float64
	noIndex       bool
	regions       []domrepo.RegionScore
	sentiment     map[string]domrepo.SentimentAggregate // keyed by first keyword
	policy        domrepo.PolicyStat
	correlation   float64
	noCorrelation bool
	price         float64
	noPrice       bool
}

func (f *fakeMetricsRepo) LatestIndexValue(ctx context.Context, series string) (float64, error) {
	if f.noIndex {
		return 0, domrepo.ErrNoRows
	}
	return f.indexLevel, nil
}

func (f *fakeMetricsRepo) RegionalConditionScores(ctx context.Context, w domrepo.Window) ([]domrepo.RegionScore, error) {
	if len(f.regions) == 0 {
		return nil, domrepo.ErrNoRows
	}
	return f.regions, nil
}

func (f *fakeMetricsRepo) SentimentAggregate(ctx context.Context, keywords []string, w domrepo.Window) (domrepo.SentimentAggregate, error) {
	if agg, ok := f.sentiment[keywords[0]]; ok {
		return agg, nil
	}
	return domrepo.SentimentAggregate{}, nil
}

func (f *fakeMetricsRepo) PolicyStats(ctx context.Context, program string, w domrepo.Window) (domrepo.PolicyStat, error) {
	return f.policy, nil
}

func (f *fakeMetricsRepo) RollingCorrelation(ctx context.Context, a, b string, days int) (float64, error) {
	if f.noCorrelation {
		return 0, domrepo.ErrNoRows
	}
	return f.correlation, nil
}

func (f *fakeMetricsRepo) LatestPrice(ctx context.Context, symbol string) (float64, time.Time, error) {
	if f.noPrice {
		return 0, time.Time{}, domrepo.ErrNoRows
	}
	return f.price, time.Now(), nil
}

func healthyRepo() *fakeMetricsRepo {
	return &fakeMetricsRepo{
		indexLevel: 15,
		regions: []domrepo.RegionScore{
			{Region: "us_midwest", Score: 62, Weight: 0.5},
			{Region: "brazil", Score: 58, Weight: 0.35},
			{Region: "argentina", Score: 55, Weight: 0.15},
		},
		sentiment: map[string]domrepo.SentimentAggregate{
			"china":    {Mentions: 21, EscalationMentions: 2, AvgTone: 0.1},
			"tariff":   {Mentions: 14, EscalationMentions: 1, AvgTone: -0.1},
			"conflict": {Mentions: 7, EscalationMentions: 0, AvgTone: -0.05},
		},
		policy:      domrepo.PolicyStat{Events: 2, NetDelta: 0.5, MaxDelta: 0.5},
		correlation: 0.3,
		price:       1042.50,
	}
}

func newTestEvaluator(repo domrepo.MetricsRepository) *Evaluator {
	return NewEvaluator(repo, DefaultCalibration(), Options{Commodity: "ZS"}, nil)
}

func TestEvaluateProducesCompleteReport(t *testing.T) {
	ev := newTestEvaluator(healthyRepo())
	report, err := ev.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(report.Signals) != 7 {
		t.Fatalf("expected 7 signals, got %d", len(report.Signals))
	}
	if report.CompositeScore < 0 || report.CompositeScore > 1 {
		t.Fatalf("composite out of range: %v", report.CompositeScore)
	}
	if report.CrisisIntensity < 0 || report.CrisisIntensity > 100 {
		t.Fatalf("intensity out of range: %v", report.CrisisIntensity)
	}
	if report.Regime == "" {
		t.Fatalf("regime missing")
	}
	if len(report.HorizonPrices) != 5 {
		t.Fatalf("expected 5 horizon prices, got %d", len(report.HorizonPrices))
	}
	if report.Recommendation == "" || report.Action == "" || report.PrimaryDriver == "" {
		t.Fatalf("incomplete recommendation fields: %+v", report)
	}
	if report.AnchorPrice != 1042.50 {
		t.Fatalf("anchor price not carried: %v", report.AnchorPrice)
	}
}

func TestEvaluateExtremeVolClassifiesVolatilityShock(t *testing.T) {
	repo := healthyRepo()
	repo.indexLevel = 45
	ev := newTestEvaluator(repo)
	report, err := ev.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	snap := report.Signals[models.SignalVixStress]
	if snap.Score != 3.0 {
		t.Fatalf("extreme vol should cap at 3.0, got %v", snap.Score)
	}
	if !snap.CrisisFlag {
		t.Fatalf("extreme vol should flag a crisis")
	}
	if report.Regime != models.RegimeVolatilityShock {
		t.Fatalf("extreme vol should classify volatility shock, got %s", report.Regime)
	}
}

func TestEvaluatePrimarySignalFailureAborts(t *testing.T) {
	repo := healthyRepo()
	repo.noIndex = true
	ev := newTestEvaluator(repo)
	report, err := ev.Evaluate(context.Background())
	if report != nil {
		t.Fatalf("no partial report on primary failure")
	}
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
	var due *DataUnavailableError
	if !errors.As(err, &due) || due.Signal != models.SignalVixStress {
		t.Fatalf("expected failing signal vix_stress, got %v", err)
	}
}

func TestEvaluateEmptySentimentAbortsForPrimary(t *testing.T) {
	repo := healthyRepo()
	delete(repo.sentiment, "china")
	ev := newTestEvaluator(repo)
	if _, err := ev.Evaluate(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("missing china sentiment should abort, got %v", err)
	}
}

func TestEvaluateMissingAnchorPriceAborts(t *testing.T) {
	repo := healthyRepo()
	repo.noPrice = true
	ev := newTestEvaluator(repo)
	if _, err := ev.Evaluate(context.Background()); !errors.Is(err, ErrNoAnchorPrice) {
		t.Fatalf("expected no anchor price, got %v", err)
	}
}

func TestEvaluateDegradesNonPrimarySignals(t *testing.T) {
	repo := healthyRepo()
	delete(repo.sentiment, "conflict") // geopolitical (Tier 2)
	repo.policy = domrepo.PolicyStat{} // biofuel (Tier 2)
	repo.noCorrelation = true          // hidden correlation (Tier 3)
	ev := newTestEvaluator(repo)
	report, err := ev.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("degraded secondaries must not abort: %v", err)
	}
	for _, name := range []models.SignalName{
		models.SignalGeopoliticalVolatility,
		models.SignalBiofuelCascade,
		models.SignalHiddenCorrelation,
	} {
		snap := report.Signals[name]
		if !snap.Degraded {
			t.Fatalf("%s should be marked degraded", name)
		}
	}
	if report.Signals[models.SignalGeopoliticalVolatility].Score != 0.4 {
		t.Fatalf("degraded tier-2 should use the 0.4 neutral default")
	}
	if report.Signals[models.SignalHiddenCorrelation].Score != 0 {
		t.Fatalf("degraded correlation should default to 0")
	}
}

func TestEvaluateIsReferentiallyTransparent(t *testing.T) {
	repo := healthyRepo()
	ev := newTestEvaluator(repo)
	first, err := ev.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ev.Evaluate(context.Background())
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if again.Regime != first.Regime || again.CompositeScore != first.CompositeScore ||
			again.CrisisIntensity != first.CrisisIntensity {
			t.Fatalf("identical inputs produced different outputs: %+v vs %+v", first, again)
		}
	}
}
