package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"AgriPulse/internal/domain/models"
	"AgriPulse/internal/domain/repository"
)

// CHIntelStore implements IntelStore backed by ClickHouse. Each write is a
// single-row insert; intel volumes are tiny next to the tick stream.
type CHIntelStore struct {
	db *sql.DB
}

func NewCHIntelStore(db *sql.DB) repository.IntelStore {
	return &CHIntelStore{db: db}
}

func (s *CHIntelStore) StoreSentiment(ctx context.Context, r *models.SentimentRecord) error {
	const q = `
        INSERT INTO agripulse.sentiment_records (ts, source, tags, tone, escalation)
        VALUES (?, ?, ?, ?, ?)
    `
	escalation := uint8(0)
	if r.Escalation {
		escalation = 1
	}
	if _, err := s.db.ExecContext(ctx, q,
		time.Unix(r.Timestamp, 0),
		r.Source,
		r.Tags,
		r.Tone,
		escalation,
	); err != nil {
		return fmt.Errorf("store sentiment: %w", err)
	}
	return nil
}

func (s *CHIntelStore) StoreWeather(ctx context.Context, o *models.WeatherObservation) error {
	const q = `
        INSERT INTO agripulse.weather_daily (day, region, score, weight)
        VALUES (?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		time.Unix(o.Day, 0),
		o.Region,
		o.Score,
		o.Weight,
	); err != nil {
		return fmt.Errorf("store weather: %w", err)
	}
	return nil
}

func (s *CHIntelStore) StorePolicy(ctx context.Context, e *models.PolicyEvent) error {
	const q = `
        INSERT INTO agripulse.policy_events (ts, program, delta)
        VALUES (?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		time.Unix(e.Timestamp, 0),
		e.Program,
		e.Delta,
	); err != nil {
		return fmt.Errorf("store policy: %w", err)
	}
	return nil
}
