package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	svcmetrics "AgriPulse/internal/service/metrics"
	"AgriPulse/internal/usecase"
	applogger "AgriPulse/pkg/logger"
	"AgriPulse/pkg/queue"
)

// Scheduler drives periodic evaluation cycles on a cron schedule. With a
// queue attached it enqueues evaluation requests for the workers; without
// one it runs the evaluation inline. A failed cycle is logged and the next
// tick proceeds normally.
type Scheduler struct {
	cron      *cron.Cron
	uc        *usecase.EvaluateUseCase
	publisher queue.QueueService
	commodity string
	schedule  string
	l         *applogger.Logger
}

func New(uc *usecase.EvaluateUseCase, commodity, schedule string, l *applogger.Logger) *Scheduler {
	if schedule == "" {
		schedule = "*/5 * * * *"
	}
	return &Scheduler{
		cron:      cron.New(),
		uc:        uc,
		commodity: commodity,
		schedule:  schedule,
		l:         l,
	}
}

// SetQueue switches the scheduler to async mode: ticks enqueue instead of
// evaluating inline.
func (s *Scheduler) SetQueue(publisher queue.QueueService) { s.publisher = publisher }

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.tick); err != nil {
		return fmt.Errorf("cron schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.l.Info("scheduler started",
		applogger.String("schedule", s.schedule),
		applogger.String("commodity", s.commodity),
	)
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		s.l.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if s.publisher != nil {
		err := s.publisher.PublishMessage(ctx, "evaluation.request", usecase.EvaluationRequest{Commodity: s.commodity})
		if err != nil {
			s.l.Error("scheduled evaluation enqueue failed", applogger.Error(err))
		}
		return
	}

	start := time.Now()
	report, err := s.uc.Run(ctx, s.commodity)
	if err != nil {
		s.l.Error("scheduled evaluation failed",
			applogger.String("commodity", s.commodity),
			applogger.Error(err),
		)
		return
	}
	svcmetrics.ObserveReport(report)
	s.l.Info("scheduled evaluation complete",
		applogger.String("commodity", s.commodity),
		applogger.String("regime", string(report.Regime)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
}
