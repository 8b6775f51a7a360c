package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
	"AgriPulse/internal/engine"
	pkgcache "AgriPulse/pkg/cache"
	applogger "AgriPulse/pkg/logger"
)

const evalLockTTL = 30 * time.Second

// EvaluateUseCase runs full evaluation cycles and serves the latest report.
// Reports are cached in Redis and persisted to the warehouse; a cache lock
// keeps concurrent callers from running duplicate evaluations.
type EvaluateUseCase struct {
	eval    *engine.Evaluator
	reports domrepo.ReportStore
	cache   pkgcache.Service
	metrics domrepo.Metrics
	ttl     time.Duration
	l       *applogger.Logger
}

func NewEvaluateUseCase(
	eval *engine.Evaluator,
	reports domrepo.ReportStore,
	cache pkgcache.Service,
	metrics domrepo.Metrics,
	ttl time.Duration,
	l *applogger.Logger,
) *EvaluateUseCase {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &EvaluateUseCase{
		eval:    eval,
		reports: reports,
		cache:   cache,
		metrics: metrics,
		ttl:     ttl,
		l:       l,
	}
}

func reportCacheKey(commodity string) string {
	return "forecast:" + commodity
}

// Run performs one evaluation cycle, persists the report and refreshes the
// cache. Persistence failures are logged, not fatal: a report the caller
// can act on beats a durable one.
func (uc *EvaluateUseCase) Run(ctx context.Context, commodity string) (*models.ForecastReport, error) {
	start := time.Now()
	report, err := uc.eval.Evaluate(ctx)
	if err != nil {
		uc.metrics.RecordError("evaluate")
		return nil, err
	}
	uc.metrics.RecordLatency("evaluate", time.Since(start).Seconds())

	if uc.reports != nil {
		if err := uc.reports.SaveReport(ctx, report); err != nil {
			uc.metrics.RecordError("report_save")
			if uc.l != nil {
				uc.l.Error("report save failed", applogger.Error(err))
			}
		}
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, reportCacheKey(commodity), report, uc.ttl); err != nil {
			uc.metrics.RecordError("report_cache_set")
			if uc.l != nil {
				uc.l.Warn("report cache set failed", applogger.Error(err))
			}
		}
	}
	return report, nil
}

// CurrentReport returns the freshest available report: cache first, then
// the warehouse if recent enough, then a fresh evaluation under a lock.
func (uc *EvaluateUseCase) CurrentReport(ctx context.Context, commodity string) (*models.ForecastReport, error) {
	if commodity == "" {
		return nil, fmt.Errorf("commodity required")
	}
	key := reportCacheKey(commodity)

	if uc.cache != nil {
		var cached models.ForecastReport
		err := uc.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, pkgcache.ErrCacheMiss) {
			uc.metrics.RecordError("report_cache_get")
			if uc.l != nil {
				uc.l.Warn("report cache get failed", applogger.Error(err))
			}
		}
	}

	if uc.reports != nil {
		report, ts, err := uc.reports.LatestReport(ctx, commodity)
		if err == nil && time.Since(ts) <= uc.ttl {
			if uc.cache != nil {
				_ = uc.cache.Set(ctx, key, report, uc.ttl)
			}
			return report, nil
		}
		if err != nil && !errors.Is(err, domrepo.ErrNoRows) {
			uc.metrics.RecordError("report_load")
			if uc.l != nil {
				uc.l.Warn("stored report load failed", applogger.Error(err))
			}
		}
	}

	return uc.runLocked(ctx, commodity)
}

// History lists stored report summaries for accuracy review, newest first.
func (uc *EvaluateUseCase) History(ctx context.Context, commodity string, from, to time.Time, limit int) ([]*models.ReportSummary, error) {
	if commodity == "" {
		return nil, fmt.Errorf("commodity required")
	}
	if uc.reports == nil {
		return nil, fmt.Errorf("report store not configured")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := uc.reports.ListReports(ctx, commodity, from, to, limit)
	if err != nil {
		uc.metrics.RecordError("report_list")
		return nil, err
	}
	return rows, nil
}

// runLocked serializes evaluations behind the cache lock; a loser of the
// race re-reads the winner's cached report.
func (uc *EvaluateUseCase) runLocked(ctx context.Context, commodity string) (*models.ForecastReport, error) {
	if uc.cache == nil {
		return uc.Run(ctx, commodity)
	}
	lockKey := "lock:" + reportCacheKey(commodity)
	ok, err := uc.cache.TryLock(ctx, lockKey, evalLockTTL)
	if err != nil || ok {
		if ok {
			defer func() { _ = uc.cache.Unlock(ctx, lockKey) }()
		}
		return uc.Run(ctx, commodity)
	}

	// Another caller is evaluating; poll briefly for its result.
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.Now().Add(evalLockTTL)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			var cached models.ForecastReport
			if err := uc.cache.Get(ctx, reportCacheKey(commodity), &cached); err == nil {
				return &cached, nil
			}
		}
	}
	return uc.Run(ctx, commodity)
}
