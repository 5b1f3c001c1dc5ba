//go:build wireinject
// +build wireinject

package di

import (
	"TrendCast/pkg/config"
	"TrendCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideCandleStore,
		ProvideForecastPublisher,
		ProvideHistoryProvider,

		// Domain services
		ProvideProjector,
		ProvideTrainer,

		// Use cases
		ProvidePipeline,
		ProvideForecastUseCase,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
