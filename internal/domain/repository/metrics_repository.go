package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNoRows is returned by MetricsRepository reads that matched nothing.
// The engine decides per signal whether that is fatal or a degraded default.
var ErrNoRows = errors.New("metrics: no rows")

// RegionScore is one region's crop-condition aggregate over a window.
type RegionScore struct {
	Region string
	Score  float64 // condition index [0, 100]
	Weight float64 // production share
}

// SentimentAggregate summarizes keyword-tagged sentiment rows over a window.
type SentimentAggregate struct {
	Mentions           int
	EscalationMentions int
	AvgTone            float64 // [-1, 1]
}

// PolicyStat summarizes policy events for a program over a window.
type PolicyStat struct {
	Events   int
	NetDelta float64
	MaxDelta float64
}

// MetricsRepository is the engine's read-only view of the warehouse.
// All reads are keyed by calendar date; retries and timeouts are this
// collaborator's concern, not the engine's.
type MetricsRepository interface {
	// LatestIndexValue returns the most recent value of a named scalar
	// series (e.g. the volatility index level).
	LatestIndexValue(ctx context.Context, series string) (float64, error)

	// RegionalConditionScores returns per-region crop condition aggregates
	// over the window.
	RegionalConditionScores(ctx context.Context, window Window) ([]RegionScore, error)

	// SentimentAggregate aggregates sentiment rows tagged with any of the
	// keywords over the window.
	SentimentAggregate(ctx context.Context, keywords []string, window Window) (SentimentAggregate, error)

	// PolicyStats aggregates policy events for a program over the window.
	PolicyStats(ctx context.Context, program string, window Window) (PolicyStat, error)

	// RollingCorrelation computes the trailing daily-close correlation
	// between two price series over the last `days` aligned days.
	RollingCorrelation(ctx context.Context, seriesA, seriesB string, days int) (float64, error)

	// LatestPrice returns the most recent price of a symbol and its
	// observation time.
	LatestPrice(ctx context.Context, symbol string) (float64, time.Time, error)
}
