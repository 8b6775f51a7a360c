//go:build wireinject
// +build wireinject

package di

import (
	"AgriPulse/pkg/config"
	"AgriPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories (with business logic)
		ProvideTickStorage,
		ProvideTickPublisher,
		ProvideIntelStore,
		ProvideReportStore,
		ProvideMetricsStore,
		ProvideBarchartStream,

		// Ingestion
		ProvideTickProcessor,
		ProvideTickCollector,
		ProvideKafkaHandlers,

		// Engine
		ProvideCalibration,
		ProvideEvaluator,
		ProvideReportCache,
		ProvideResponseCache,
		ProvideEvaluateUseCase,

		// Serving
		ProvideForecastHandler,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
