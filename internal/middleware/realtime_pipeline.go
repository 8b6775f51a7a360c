package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
	"AgriPulse/internal/service/ratelimit"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, t *models.MetricTick) error
}

// RealtimePipeline sits between the market stream and the backend.
// It validates, throttles per symbol, optionally transforms, and buffers
// when downstream is unavailable.
type RealtimePipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	bufCh   chan *models.MetricTick
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	limiter *ratelimit.Limiter
	// simple format transform hook (optional)
	transform func(*models.MetricTick) *models.MetricTick
	// metrics
	bufDepthGauge func(int)
	throttleWarn  func(string)
}

type PipelineOption func(*RealtimePipeline)

// WithMaxRPS sets the max ticks per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a transformation hook to modify tick format.
func WithTransform(fn func(*models.MetricTick) *models.MetricTick) PipelineOption {
	return func(p *RealtimePipeline) { p.transform = fn }
}

// NewRealtimePipeline creates a new pipeline.
func NewRealtimePipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *RealtimePipeline {
	p := &RealtimePipeline{
		proc:    proc,
		metrics: metrics,
		maxRPS:  20,   // default throttle per symbol
		bufSize: 1000, // default buffer
		bufCh:   make(chan *models.MetricTick, 1000),
		stopCh:  make(chan struct{}),
		limiter: ratelimit.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.MetricTick, p.bufSize)
	}
	// metrics hooks using domain metrics if available
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(sym string) { p.metrics.RecordError("pipeline_throttle_" + sym) }
	return p
}

// Start launches background flushing of buffered ticks.
func (p *RealtimePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case t := <-p.bufCh:
				if t == nil {
					continue
				}
				if err := p.proc.Process(ctx, t); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- t:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *RealtimePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a tick downstream, buffering on errors.
func (p *RealtimePipeline) Process(ctx context.Context, t *models.MetricTick) error {
	start := time.Now()
	if err := validateTick(t); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		t = p.transform(t)
		if err := validateTick(t); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if p.maxRPS > 0 && !p.limiter.Allow(t.Symbol, float64(p.maxRPS), float64(p.maxRPS)) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		if p.throttleWarn != nil {
			p.throttleWarn(t.Symbol)
		}
		return nil
	}

	if err := p.proc.Process(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- t:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateTick(t *models.MetricTick) error {
	if t == nil {
		return fmt.Errorf("tick nil")
	}
	if t.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if t.Price < 0 || t.Volume < 0 {
		return fmt.Errorf("negative price/volume")
	}
	return nil
}
