package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
)

// CHReportStore implements ReportStore backed by ClickHouse. Reports are
// stored whole as JSON alongside the columns the accuracy audits filter on.
type CHReportStore struct {
	db *sql.DB
}

func NewCHReportStore(db *sql.DB) domrepo.ReportStore {
	return &CHReportStore{db: db}
}

func (s *CHReportStore) SaveReport(ctx context.Context, r *models.ForecastReport) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	const q = `
        INSERT INTO agripulse.forecast_reports
            (ts, commodity, regime, composite_score, crisis_intensity, anchor_price, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		r.Timestamp,
		r.Commodity,
		string(r.Regime),
		r.CompositeScore,
		r.CrisisIntensity,
		r.AnchorPrice,
		string(payload),
	); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *CHReportStore) LatestReport(ctx context.Context, commodity string) (*models.ForecastReport, time.Time, error) {
	const q = `
        SELECT ts, payload
        FROM agripulse.forecast_reports
        WHERE commodity = ?
        ORDER BY ts DESC
        LIMIT 1
    `
	var ts time.Time
	var payload string
	err := s.db.QueryRowContext(ctx, q, commodity).Scan(&ts, &payload)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, domrepo.ErrNoRows
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("latest report: %w", err)
	}
	var r models.ForecastReport
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, time.Time{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, ts, nil
}

func (s *CHReportStore) ListReports(ctx context.Context, commodity string, from, to time.Time, limit int) ([]*models.ReportSummary, error) {
	const q = `
        SELECT ts, commodity, regime, composite_score, crisis_intensity, anchor_price
        FROM agripulse.forecast_reports
        WHERE commodity = ? AND ts >= ? AND ts <= ?
        ORDER BY ts DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, commodity, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*models.ReportSummary
	for rows.Next() {
		var r models.ReportSummary
		var regime string
		if err := rows.Scan(&r.Timestamp, &r.Commodity, &regime, &r.CompositeScore, &r.CrisisIntensity, &r.AnchorPrice); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		r.Regime = models.Regime(regime)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}
