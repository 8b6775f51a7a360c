package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"AgriPulse/internal/domain/models"
	"AgriPulse/internal/domain/repository"
	pkgkafka "AgriPulse/pkg/kafka"
)

// ClickHouseTickStorage implements Storage for ClickHouse.
type ClickHouseTickStorage struct {
	db     *sql.DB
	table  string
	source string
}

// NewClickHouseTickStorage creates ClickHouse tick storage.
func NewClickHouseTickStorage(db *sql.DB, table, source string) repository.Storage {
	return &ClickHouseTickStorage{db: db, table: table, source: source}
}

func (s *ClickHouseTickStorage) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseTickStorage) Store(ctx context.Context, t *models.MetricTick) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume, source, event_id) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	eventID := fmt.Sprintf("%s-%d", t.Symbol, t.Timestamp)
	_, err := s.db.ExecContext(ctx, q,
		time.Unix(t.Timestamp, 0),
		t.Symbol,
		t.Price,
		t.Volume,
		s.source,
		eventID,
	)
	return err
}

func (s *ClickHouseTickStorage) StoreBatch(ctx context.Context, ticks []*models.MetricTick) error {
	if len(ticks) == 0 {
		return nil
	}
	// Multi-row VALUES insert, chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(ticks); start += chunkSize {
		end := start + chunkSize
		if end > len(ticks) {
			end = len(ticks)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, t := range ticks[start:end] {
			if t == nil || t.Symbol == "" || t.Timestamp == 0 {
				continue
			}
			eventID := fmt.Sprintf("%s-%d", t.Symbol, t.Timestamp)
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(t.Timestamp, 0),
				t.Symbol,
				t.Price,
				t.Volume,
				s.source,
				eventID,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume, source, event_id) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseTickStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseTickStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaTickPublisher implements Publisher for Kafka.
type KafkaTickPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTickPublisher creates Kafka publisher.
func NewKafkaTickPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaTickPublisher{producer: producer, topic: topic}
}

func (p *KafkaTickPublisher) Publish(ctx context.Context, t *models.MetricTick) error {
	return p.producer.Publish(ctx, p.topic, []byte(t.Symbol), map[string]interface{}{
		"symbol": t.Symbol,
		"t":      t.Timestamp,
		"c":      t.Price,
		"v":      t.Volume,
	})
}

func (p *KafkaTickPublisher) PublishBatch(ctx context.Context, ticks []*models.MetricTick) error {
	if len(ticks) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(ticks))
	for i, t := range ticks {
		msgs[i] = pkgkafka.Message{
			Key: []byte(t.Symbol),
			Value: map[string]interface{}{
				"symbol": t.Symbol,
				"t":      t.Timestamp,
				"c":      t.Price,
				"v":      t.Volume,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaTickPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
