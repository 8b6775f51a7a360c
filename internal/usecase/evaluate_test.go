package usecase

import (
	"context"
	"testing"
	"time"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
	"AgriPulse/internal/engine"
	pkgcache "AgriPulse/pkg/cache"
)

// healthyMetricsRepo serves canned warehouse reads and counts price lookups
// so tests can tell whether an evaluation actually ran.
type healthyMetricsRepo struct {
	priceReads int
}

func (f *healthyMetricsRepo) LatestIndexValue(ctx context.Context, series string) (float64, error) {
	return 15, nil
}

func (f *healthyMetricsRepo) RegionalConditionScores(ctx context.Context, w domrepo.Window) ([]domrepo.RegionScore, error) {
	return []domrepo.RegionScore{
		{Region: "us_midwest", Score: 62, Weight: 0.5},
		{Region: "brazil", Score: 58, Weight: 0.35},
		{Region: "argentina", Score: 55, Weight: 0.15},
	}, nil
}

func (f *healthyMetricsRepo) SentimentAggregate(ctx context.Context, keywords []string, w domrepo.Window) (domrepo.SentimentAggregate, error) {
	return domrepo.SentimentAggregate{Mentions: 12, EscalationMentions: 1, AvgTone: -0.05}, nil
}

func (f *healthyMetricsRepo) PolicyStats(ctx context.Context, program string, w domrepo.Window) (domrepo.PolicyStat, error) {
	return domrepo.PolicyStat{Events: 2, NetDelta: 0.5, MaxDelta: 0.5}, nil
}

func (f *healthyMetricsRepo) RollingCorrelation(ctx context.Context, a, b string, days int) (float64, error) {
	return 0.3, nil
}

func (f *healthyMetricsRepo) LatestPrice(ctx context.Context, symbol string) (float64, time.Time, error) {
	f.priceReads++
	return 1042.50, time.Now(), nil
}

type fakeReportStore struct {
	saved     []*models.ForecastReport
	latest    *models.ForecastReport
	latestTS  time.Time
	lastLimit int
}

func (s *fakeReportStore) SaveReport(ctx context.Context, r *models.ForecastReport) error {
	s.saved = append(s.saved, r)
	return nil
}

func (s *fakeReportStore) LatestReport(ctx context.Context, commodity string) (*models.ForecastReport, time.Time, error) {
	if s.latest == nil {
		return nil, time.Time{}, domrepo.ErrNoRows
	}
	return s.latest, s.latestTS, nil
}

func (s *fakeReportStore) ListReports(ctx context.Context, commodity string, from, to time.Time, limit int) ([]*models.ReportSummary, error) {
	s.lastLimit = limit
	return nil, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordMessageSent(backend, symbol string)     {}
func (noopMetrics) RecordError(kind string)                      {}
func (noopMetrics) RecordLastPrice(symbol string, price float64) {}
func (noopMetrics) RecordLatency(op string, seconds float64)     {}

func newTestUseCase(repo *healthyMetricsRepo, store *fakeReportStore, cache pkgcache.Service) *EvaluateUseCase {
	ev := engine.NewEvaluator(repo, engine.DefaultCalibration(), engine.Options{Commodity: "ZS"}, nil)
	return NewEvaluateUseCase(ev, store, cache, noopMetrics{}, 5*time.Minute, nil)
}

func TestRunPersistsAndCachesReport(t *testing.T) {
	repo := &healthyMetricsRepo{}
	store := &fakeReportStore{}
	uc := newTestUseCase(repo, store, pkgcache.NewMemoryCache())

	report, err := uc.Run(context.Background(), "ZS")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 saved report, got %d", len(store.saved))
	}
	if report.AnchorPrice != 1042.50 {
		t.Fatalf("unexpected anchor price %v", report.AnchorPrice)
	}

	// Second read must come from cache, not a fresh evaluation.
	reads := repo.priceReads
	got, err := uc.CurrentReport(context.Background(), "ZS")
	if err != nil {
		t.Fatalf("current report: %v", err)
	}
	if repo.priceReads != reads {
		t.Fatalf("expected cache hit, evaluation ran again")
	}
	if got.Regime != report.Regime {
		t.Fatalf("cached report mismatch: %v vs %v", got.Regime, report.Regime)
	}
}

func TestCurrentReportUsesFreshStoredReport(t *testing.T) {
	repo := &healthyMetricsRepo{}
	store := &fakeReportStore{
		latest:   &models.ForecastReport{Commodity: "ZS", Regime: models.RegimeMixedSignals},
		latestTS: time.Now(),
	}
	uc := newTestUseCase(repo, store, nil)

	got, err := uc.CurrentReport(context.Background(), "ZS")
	if err != nil {
		t.Fatalf("current report: %v", err)
	}
	if repo.priceReads != 0 {
		t.Fatalf("expected stored report, evaluation ran")
	}
	if got.Regime != models.RegimeMixedSignals {
		t.Fatalf("unexpected regime %v", got.Regime)
	}
}

func TestCurrentReportRejectsEmptyCommodity(t *testing.T) {
	uc := newTestUseCase(&healthyMetricsRepo{}, &fakeReportStore{}, nil)
	if _, err := uc.CurrentReport(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty commodity")
	}
}

func TestHistoryClampsLimit(t *testing.T) {
	store := &fakeReportStore{}
	uc := newTestUseCase(&healthyMetricsRepo{}, store, nil)

	now := time.Now()
	if _, err := uc.History(context.Background(), "ZS", now.Add(-time.Hour), now, 0); err != nil {
		t.Fatalf("history: %v", err)
	}
	if store.lastLimit != 100 {
		t.Fatalf("expected limit clamp to 100, got %d", store.lastLimit)
	}
	if _, err := uc.History(context.Background(), "ZS", now.Add(-time.Hour), now, 5000); err != nil {
		t.Fatalf("history: %v", err)
	}
	if store.lastLimit != 100 {
		t.Fatalf("expected oversized limit clamp to 100, got %d", store.lastLimit)
	}
}
