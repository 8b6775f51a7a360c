package di

import (
	"context"
	"fmt"
	"net"
	"time"

	"AgriPulse/internal/domain/repository"
	"AgriPulse/internal/engine"
	"AgriPulse/internal/handler/api"
	mid "AgriPulse/internal/middleware"
	internalrepo "AgriPulse/internal/repository"
	"AgriPulse/internal/scheduler"
	"AgriPulse/internal/service/barchart"
	icache "AgriPulse/internal/service/cache"
	"AgriPulse/internal/usecase"
	pkgcache "AgriPulse/pkg/cache"
	pkgch "AgriPulse/pkg/clickhouse"
	"AgriPulse/pkg/config"
	pkgkafka "AgriPulse/pkg/kafka"
	applogger "AgriPulse/pkg/logger"
	"AgriPulse/pkg/metrics"
	"AgriPulse/pkg/queue"
	"AgriPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS agripulse",
		"CREATE TABLE IF NOT EXISTS agripulse.market_ticks (ts DateTime, symbol String, price Float64, volume Float64, source String, event_id String) ENGINE=MergeTree ORDER BY (symbol, ts)",
		"CREATE TABLE IF NOT EXISTS agripulse.weather_daily (day Date, region String, score Float64, weight Float64) ENGINE=ReplacingMergeTree ORDER BY (region, day)",
		"CREATE TABLE IF NOT EXISTS agripulse.sentiment_records (ts DateTime, source String, tags Array(String), tone Float64, escalation UInt8) ENGINE=MergeTree ORDER BY ts",
		"CREATE TABLE IF NOT EXISTS agripulse.policy_events (ts DateTime, program String, delta Float64) ENGINE=MergeTree ORDER BY (program, ts)",
		"CREATE TABLE IF NOT EXISTS agripulse.forecast_reports (ts DateTime, commodity String, regime String, composite_score Float64, crisis_intensity Float64, anchor_price Float64, payload String) ENGINE=MergeTree ORDER BY (commodity, ts)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTickStorage creates ClickHouse storage repository.
func ProvideTickStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseTickStorage(chClient.DB(), cfg.ClickHouse.Database+".market_ticks", "barchart")
}

// ProvideTickPublisher creates Kafka publisher repository.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaTickPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideIntelStore creates the ClickHouse intel writer.
func ProvideIntelStore(chClient *pkgch.Client) repository.IntelStore {
	return internalrepo.NewCHIntelStore(chClient.DB())
}

// ProvideReportStore creates the ClickHouse report writer.
func ProvideReportStore(chClient *pkgch.Client) repository.ReportStore {
	return internalrepo.NewCHReportStore(chClient.DB())
}

// ProvideMetricsStore creates the warehouse read repository for the engine.
func ProvideMetricsStore(chClient *pkgch.Client, l *applogger.Logger) repository.MetricsRepository {
	store := internalrepo.NewCHMetricsStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideKafkaHandlers registers handlers for the tick and intel topics.
func ProvideKafkaHandlers(
	store repository.Storage,
	intel repository.IntelStore,
	m repository.Metrics,
	cfg *config.Config,
) []pkgkafka.MessageHandler {
	handlers := []pkgkafka.MessageHandler{
		usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, store, m),
	}
	if cfg.Kafka.IntelTopic != "" {
		handlers = append(handlers, usecase.NewKafkaIntelHandler(cfg.Kafka.IntelTopic, intel, m))
	}
	return handlers
}

// ProvideBarchartStream creates the Barchart WebSocket stream.
func ProvideBarchartStream(cfg *config.Config) repository.MarketStream {
	return barchart.New(
		cfg.Barchart.APIKey,
		cfg.Barchart.WebSocketURL,
		cfg.Barchart.RestURL,
		cfg.Barchart.Symbols,
		cfg.Barchart.ReconnectDelay,
		cfg.Barchart.PingInterval,
	)
}

// ProvideTickProcessor creates the tick processor use case.
func ProvideTickProcessor(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(
		pub,
		store,
		m,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideTickCollector creates the tick collector use case.
func ProvideTickCollector(
	stream repository.MarketStream,
	processor *usecase.TickProcessor,
	m repository.Metrics,
) *usecase.TickCollector {
	// Build middleware pipeline between WebSocket and the backend
	pipe := mid.NewRealtimePipeline(processor, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, processor, m, pipe)
}

// ProvideCalibration builds the engine calibration with config overrides.
func ProvideCalibration(cfg *config.Config) engine.Calibration {
	cal := engine.DefaultCalibration()
	cal.ApplyThresholdOverrides(cfg.Engine.ThresholdOverrides)
	cal.ApplyMultiplierOverrides(cfg.Engine.MultiplierOverrides)
	return cal
}

// ProvideEvaluator creates the signal evaluator.
func ProvideEvaluator(
	store repository.MetricsRepository,
	cal engine.Calibration,
	cfg *config.Config,
	l *applogger.Logger,
) *engine.Evaluator {
	return engine.NewEvaluator(store, cal, engine.Options{
		Commodity:        cfg.Engine.Commodity,
		VolIndexSeries:   cfg.Engine.VolIndexSeries,
		CrossAssetSeries: cfg.Engine.CrossAssetSeries,
		CorrelationDays:  cfg.Engine.CorrelationDays,
	}, l)
}

// ProvideReportCache creates the typed report cache (Redis when enabled,
// in-process LRU otherwise).
func ProvideReportCache(cfg *config.Config) pkgcache.Service {
	if cfg.Redis.Enabled {
		host, port := splitAddr(cfg.Redis.Addr)
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Redis.Password),
			pkgcache.WithRedisDB(cfg.Redis.DB),
			pkgcache.WithRedisPrefix("agripulse"),
		)
		if err == nil {
			return c
		}
		// fall through to memory cache when Redis is unreachable
	}
	return pkgcache.NewMemoryCache()
}

// ProvideResponseCache creates the raw-bytes cache for HTTP responses.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideEvaluateUseCase creates the evaluation use case.
func ProvideEvaluateUseCase(
	eval *engine.Evaluator,
	reports repository.ReportStore,
	reportCache pkgcache.Service,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.EvaluateUseCase {
	return usecase.NewEvaluateUseCase(eval, reports, reportCache, m, cfg.Engine.ReportTTL, l)
}

// ProvideForecastHandler creates the HTTP handler for the forecast surface.
func ProvideForecastHandler(
	uc *usecase.EvaluateUseCase,
	respCache icache.BytesCache,
	chClient *pkgch.Client,
	l *applogger.Logger,
) *api.ForecastHandler {
	h := api.NewForecastHandler(l, uc)
	h.SetCache(respCache)
	h.SetHealthCheck(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return chClient.Health(ctx)
	})
	return h
}

// ProvideScheduler creates the periodic evaluation scheduler.
func ProvideScheduler(uc *usecase.EvaluateUseCase, cfg *config.Config, l *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(uc, cfg.Engine.Commodity, cfg.Engine.CronSchedule, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	handlers []pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	fh *api.ForecastHandler,
	sched *scheduler.Scheduler,
	uc *usecase.EvaluateUseCase,
	reportCache pkgcache.Service,
	l *applogger.Logger,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, handlers, chClient)
	app.SetHTTPHandler(fh)
	app.SetScheduler(sched)
	// attach tick processor to app for closing resources via collector
	if collector != nil {
		app.TickProc = collector.Processor()
	}

	// async evaluation queue rides the Redis report cache connection
	if cfg.Redis.Enabled && cfg.Engine.AsyncQueue {
		if rc, ok := reportCache.(*pkgcache.RedisCache); ok {
			job := usecase.NewEvaluationJob(uc, cfg.Engine.Commodity)
			q := queue.NewRedisQueue(l, &queue.QueueConfig{
				Workers:    2,
				RetryLimit: 3,
				RetryDelay: 30 * time.Second,
			}, rc.Client(), queue.ModeProducerConsumer, queue.WithKeyPrefix("agripulse:queue"))
			q.RegisterJob(job)
			sched.SetQueue(q)
			app.SetJobQueue(q)
		}
	}
	return app
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil || port <= 0 {
		port = 6379
	}
	return host, port
}
