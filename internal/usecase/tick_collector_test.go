package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"AgriPulse/internal/domain/models"
)

// reconnectingStream fails its first read session the way the websocket
// client does: error delivered, then both channels closed. After a
// reconnect it serves one tick.
type reconnectingStream struct {
	mu         sync.Mutex
	reconnects int
	connected  bool
}

func (s *reconnectingStream) Connect(ctx context.Context) error {
	s.connected = true
	return nil
}

func (s *reconnectingStream) Subscribe(ctx context.Context) error { return nil }

func (s *reconnectingStream) Read(ctx context.Context) (<-chan *models.MetricTick, <-chan error) {
	ticks := make(chan *models.MetricTick, 1)
	errs := make(chan error, 1)

	s.mu.Lock()
	first := s.reconnects == 0
	s.mu.Unlock()

	if first {
		errs <- fmt.Errorf("stream reset")
		close(ticks)
		close(errs)
	} else {
		ticks <- &models.MetricTick{Symbol: "ZS", Timestamp: 1700000000, Price: 1042.50, Volume: 10}
	}
	return ticks, errs
}

func (s *reconnectingStream) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	s.reconnects++
	s.mu.Unlock()
	return nil
}

func (s *reconnectingStream) Close() error {
	s.connected = false
	return nil
}

func (s *reconnectingStream) IsConnected() bool { return s.connected }

func (s *reconnectingStream) reconnectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconnects
}

type captureStorage struct {
	stored chan *models.MetricTick
}

func (c *captureStorage) Init(ctx context.Context) error { return nil }

func (c *captureStorage) Store(ctx context.Context, t *models.MetricTick) error {
	c.stored <- t
	return nil
}

func (c *captureStorage) StoreBatch(ctx context.Context, ticks []*models.MetricTick) error {
	for _, t := range ticks {
		c.stored <- t
	}
	return nil
}

func (c *captureStorage) Health(ctx context.Context) error { return nil }

func (c *captureStorage) Close() error { return nil }

func TestCollectorResubscribesAfterStreamError(t *testing.T) {
	stream := &reconnectingStream{}
	storage := &captureStorage{stored: make(chan *models.MetricTick, 4)}
	proc := NewTickProcessor(nil, storage, noopMetrics{}, "clickhouse", 1, time.Second)
	collector := NewTickCollector(stream, proc, noopMetrics{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := collector.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer collector.Stop()

	select {
	case tick := <-storage.stored:
		if tick.Symbol != "ZS" {
			t.Fatalf("unexpected tick %+v", tick)
		}
	case <-ctx.Done():
		t.Fatalf("tick not processed after stream error")
	}
	if stream.reconnectCount() == 0 {
		t.Fatalf("expected a reconnect before the tick")
	}
}
