package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	domrepo "AgriPulse/internal/domain/repository"
	pkgch "AgriPulse/pkg/clickhouse"
	applogger "AgriPulse/pkg/logger"
)

// minCorrelationPoints is the fewest aligned daily closes the rolling
// correlation accepts; fewer and the estimate is noise.
const minCorrelationPoints = 10

// CHMetricsStore implements MetricsRepository backed by ClickHouse.
type CHMetricsStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHMetricsStore(ch *pkgch.Client) *CHMetricsStore {
	return &CHMetricsStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHMetricsStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHMetricsStore) LatestIndexValue(ctx context.Context, series string) (float64, error) {
	const q = `
        SELECT price
        FROM agripulse.market_ticks
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT 1
    `
	var v float64
	err := s.db.QueryRowContext(ctx, q, series).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, domrepo.ErrNoRows
	}
	if err != nil {
		s.logQueryError("latest_index_value", series, err)
		return 0, fmt.Errorf("latest index value: %w", err)
	}
	return v, nil
}

func (s *CHMetricsStore) RegionalConditionScores(ctx context.Context, window domrepo.Window) ([]domrepo.RegionScore, error) {
	start := time.Now()
	const q = `
        SELECT region, avg(score) AS score, any(weight) AS weight
        FROM agripulse.weather_daily
        WHERE day >= today() - ?
        GROUP BY region
        ORDER BY region
    `
	rows, err := s.db.QueryContext(ctx, q, window.Days())
	if err != nil {
		s.logQueryError("regional_conditions", string(window), err)
		return nil, fmt.Errorf("regional conditions: %w", err)
	}
	defer rows.Close()

	out := make([]domrepo.RegionScore, 0, 8)
	for rows.Next() {
		var r domrepo.RegionScore
		if err := rows.Scan(&r.Region, &r.Score, &r.Weight); err != nil {
			s.logQueryError("regional_conditions scan", string(window), err)
			return nil, fmt.Errorf("scan region score: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		s.logQueryError("regional_conditions rows", string(window), err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(out) == 0 {
		return nil, domrepo.ErrNoRows
	}
	if s.l != nil {
		s.l.Info("clickhouse regional_conditions ok",
			applogger.String("window", string(window)),
			applogger.Int("regions", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHMetricsStore) SentimentAggregate(ctx context.Context, keywords []string, window domrepo.Window) (domrepo.SentimentAggregate, error) {
	const q = `
        SELECT count() AS mentions,
               countIf(escalation = 1) AS escalations,
               avg(tone) AS avg_tone
        FROM agripulse.sentiment_records
        WHERE ts >= now() - INTERVAL ? DAY
          AND hasAny(tags, ?)
    `
	var agg domrepo.SentimentAggregate
	var avgTone sql.NullFloat64
	err := s.db.QueryRowContext(ctx, q, window.Days(), keywords).
		Scan(&agg.Mentions, &agg.EscalationMentions, &avgTone)
	if err != nil {
		s.logQueryError("sentiment_aggregate", fmt.Sprintf("%v", keywords), err)
		return domrepo.SentimentAggregate{}, fmt.Errorf("sentiment aggregate: %w", err)
	}
	// avg() over zero rows is NULL; mentions stays 0 and the engine
	// treats that as missing data.
	if avgTone.Valid {
		agg.AvgTone = avgTone.Float64
	}
	return agg, nil
}

func (s *CHMetricsStore) PolicyStats(ctx context.Context, program string, window domrepo.Window) (domrepo.PolicyStat, error) {
	const q = `
        SELECT count() AS events,
               sum(delta) AS net_delta,
               max(abs(delta)) AS max_delta
        FROM agripulse.policy_events
        WHERE ts >= now() - INTERVAL ? DAY
          AND program = ?
    `
	var st domrepo.PolicyStat
	var net, maxAbs sql.NullFloat64
	err := s.db.QueryRowContext(ctx, q, window.Days(), program).
		Scan(&st.Events, &net, &maxAbs)
	if err != nil {
		s.logQueryError("policy_stats", program, err)
		return domrepo.PolicyStat{}, fmt.Errorf("policy stats: %w", err)
	}
	if net.Valid {
		st.NetDelta = net.Float64
	}
	if maxAbs.Valid {
		st.MaxDelta = maxAbs.Float64
	}
	return st, nil
}

func (s *CHMetricsStore) RollingCorrelation(ctx context.Context, seriesA, seriesB string, days int) (float64, error) {
	start := time.Now()
	closesA, err := s.dailyCloses(ctx, seriesA, days)
	if err != nil {
		return 0, err
	}
	closesB, err := s.dailyCloses(ctx, seriesB, days)
	if err != nil {
		return 0, err
	}

	// Align on calendar day; either side can have gaps.
	xs := make([]float64, 0, days)
	ys := make([]float64, 0, days)
	for day, a := range closesA {
		if b, ok := closesB[day]; ok {
			xs = append(xs, a)
			ys = append(ys, b)
		}
	}
	if len(xs) < minCorrelationPoints {
		return 0, domrepo.ErrNoRows
	}

	corr := stat.Correlation(xs, ys, nil)
	if s.l != nil {
		s.l.Info("clickhouse rolling_correlation ok",
			applogger.String("series_a", seriesA),
			applogger.String("series_b", seriesB),
			applogger.Int("points", len(xs)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return corr, nil
}

func (s *CHMetricsStore) LatestPrice(ctx context.Context, symbol string) (float64, time.Time, error) {
	const q = `
        SELECT price, ts
        FROM agripulse.market_ticks
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT 1
    `
	var price float64
	var ts time.Time
	err := s.db.QueryRowContext(ctx, q, symbol).Scan(&price, &ts)
	if err == sql.ErrNoRows {
		return 0, time.Time{}, domrepo.ErrNoRows
	}
	if err != nil {
		s.logQueryError("latest_price", symbol, err)
		return 0, time.Time{}, fmt.Errorf("latest price: %w", err)
	}
	return price, ts, nil
}

// dailyCloses returns the last tick price per calendar day, keyed by day
// as yyyy-mm-dd.
func (s *CHMetricsStore) dailyCloses(ctx context.Context, symbol string, days int) (map[string]float64, error) {
	const q = `
        SELECT toString(toDate(ts)) AS day, argMax(price, ts) AS close
        FROM agripulse.market_ticks
        WHERE symbol = ? AND ts >= now() - INTERVAL ? DAY
        GROUP BY day
        ORDER BY day
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, days)
	if err != nil {
		s.logQueryError("daily_closes", symbol, err)
		return nil, fmt.Errorf("daily closes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, days)
	for rows.Next() {
		var day string
		var closePrice float64
		if err := rows.Scan(&day, &closePrice); err != nil {
			s.logQueryError("daily_closes scan", symbol, err)
			return nil, fmt.Errorf("scan daily close: %w", err)
		}
		out[day] = closePrice
	}
	if err := rows.Err(); err != nil {
		s.logQueryError("daily_closes rows", symbol, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHMetricsStore) logQueryError(op, key string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("clickhouse "+op+" error",
		applogger.String("key", key),
		applogger.Error(err),
	)
}
