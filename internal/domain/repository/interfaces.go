package repository

import (
	"context"
	"time"

	"AgriPulse/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.MetricTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, t *models.MetricTick) error
	PublishBatch(ctx context.Context, ticks []*models.MetricTick) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, t *models.MetricTick) error
	StoreBatch(ctx context.Context, ticks []*models.MetricTick) error
	Health(ctx context.Context) error // ping
	Close() error
}

// IntelStore persists non-price observations ingested from Kafka.
type IntelStore interface {
	StoreSentiment(ctx context.Context, r *models.SentimentRecord) error
	StoreWeather(ctx context.Context, o *models.WeatherObservation) error
	StorePolicy(ctx context.Context, e *models.PolicyEvent) error
}

// ReportStore persists evaluation results for later accuracy audit.
type ReportStore interface {
	SaveReport(ctx context.Context, r *models.ForecastReport) error
	LatestReport(ctx context.Context, commodity string) (*models.ForecastReport, time.Time, error)
	ListReports(ctx context.Context, commodity string, from, to time.Time, limit int) ([]*models.ReportSummary, error)
}

type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
