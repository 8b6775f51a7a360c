package usecase

import (
	"context"

	"AgriPulse/internal/domain/models"
	drepo "AgriPulse/internal/domain/repository"
	mid "AgriPulse/internal/middleware"
)

// SnapshotSource is implemented by streams that can serve an initial quote
// snapshot before streaming begins.
type SnapshotSource interface {
	Snapshot(ctx context.Context) ([]*models.MetricTick, error)
}

// TickCollector collects ticks from the market stream and processes them.
type TickCollector struct {
	stream  drepo.MarketStream
	proc    *TickProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

// NewTickCollector creates a new TickCollector instance.
func NewTickCollector(stream drepo.MarketStream, proc *TickProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *TickCollector {
	return &TickCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	if src, ok := c.stream.(SnapshotSource); ok {
		if ticks, err := src.Snapshot(ctx); err != nil {
			c.metrics.RecordError("snapshot")
		} else {
			for _, t := range ticks {
				_ = c.proc.Process(ctx, t)
				c.metrics.RecordLastPrice(t.Symbol, t.Price)
			}
		}
	}
	tkCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tkCh, errCh)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, tkCh <-chan *models.MetricTick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			// The read loop closes both channels after an error, so a
			// reconnect must resubscribe to fresh ones.
			if err != nil {
				c.metrics.RecordError("stream")
			}
			if ctx.Err() != nil {
				return
			}
			if rerr := c.stream.Reconnect(ctx); rerr != nil {
				c.metrics.RecordError("reconnect")
			}
			tkCh, errCh = c.stream.Read(ctx)
		case t, ok := <-tkCh:
			if !ok {
				// Drained after close; the errCh branch handles resubscribe.
				tkCh = nil
				continue
			}
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
			c.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
	}
}

func (c *TickCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying TickProcessor for lifecycle management.
func (c *TickCollector) Processor() *TickProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
