package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"AgriPulse/internal/scheduler"
	"AgriPulse/internal/usecase"
	pkgch "AgriPulse/pkg/clickhouse"
	"AgriPulse/pkg/config"
	xhttp "AgriPulse/pkg/http"
	pkgkafka "AgriPulse/pkg/kafka"
	applogger "AgriPulse/pkg/logger"
	"AgriPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.TickCollector
	consumer    *pkgkafka.Consumer
	handlers    []pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	sched       *scheduler.Scheduler
	jobQueue    *queue.RedisQueue
	TickProc    *usecase.TickProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	handlers []pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		handlers:  handlers,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetScheduler allows DI to inject the evaluation scheduler.
func (a *App) SetScheduler(s *scheduler.Scheduler) { a.sched = s }

// SetJobQueue allows DI to inject the Redis evaluation queue.
func (a *App) SetJobQueue(q *queue.RedisQueue) { a.jobQueue = q }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("symbols", a.cfg.Barchart.Symbols))
	}

	// Start consumer if configured
	if a.consumer != nil && len(a.handlers) > 0 {
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
			l.Info("kafka handler registered", applogger.String("topic", h.Topic()))
		}
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
	}

	// Start evaluation job queue workers
	if a.jobQueue != nil {
		if err := a.jobQueue.Start(); err != nil {
			l.Error("job queue start error", applogger.Error(err))
		}
	}

	// Start evaluation scheduler
	if a.sched != nil {
		if err := a.sched.Start(); err != nil {
			l.Error("scheduler start error", applogger.Error(err))
			return err
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// best-effort logging via stdout
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop scheduler first so no new cycles start mid-shutdown
	if a.sched != nil {
		if err := a.sched.Stop(shutdownCtx); err != nil {
			l.Warn("scheduler stop error", applogger.Error(err))
		}
	}

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop job queue workers
	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close tick processor resources (publisher/storage)
	if a.TickProc != nil {
		a.TickProc.Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
