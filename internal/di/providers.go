package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"TrendCast/internal/domain/repository"
	domsvc "TrendCast/internal/domain/service"
	"TrendCast/internal/handler/api"
	internalrepo "TrendCast/internal/repository"
	"TrendCast/internal/service/provider"
	"TrendCast/internal/services/forecast"
	"TrendCast/internal/services/ml"
	"TrendCast/internal/usecase"
	pkgcache "TrendCast/pkg/cache"
	pkgch "TrendCast/pkg/clickhouse"
	"TrendCast/pkg/config"
	xhttp "TrendCast/pkg/http"
	pkgkafka "TrendCast/pkg/kafka"
	applogger "TrendCast/pkg/logger"
	"TrendCast/pkg/metrics"
	"TrendCast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the clickhouse
// backend is configured; otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Backend.Type != "clickhouse" {
		return nil, nil
	}
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
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the kafka backend is
// configured; otherwise it returns nil.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
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

// ProvideCandleStore creates the ClickHouse candle store and initializes
// its schema. Nil when the clickhouse backend is not configured.
func ProvideCandleStore(chClient *pkgch.Client, l *applogger.Logger) (repository.CandleStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewCHCandleStore(chClient)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("candle store schema: %w", err)
	}
	return store, nil
}

// ProvideForecastPublisher creates the Kafka forecast publisher. Nil when
// the kafka backend is not configured.
func ProvideForecastPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ForecastPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaForecastPublisher(producer, cfg.Kafka.Topic)
}

// ProvideHistoryProvider creates the REST history provider.
func ProvideHistoryProvider(cfg *config.Config) repository.HistoryProvider {
	return provider.New(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		cfg.Provider.Timeout,
		cfg.Provider.RetryAttempts,
	)
}

// ProvideProjector creates the trend projector.
func ProvideProjector(l *applogger.Logger) domsvc.TrendProjector {
	return forecast.New(l)
}

// ProvideTrainer creates the direction classifier trainer.
func ProvideTrainer() domsvc.DirectionTrainer {
	return ml.NewTrainer()
}

// ProvideCache builds the result cache: layered over Redis when enabled,
// in-memory otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) pkgcache.Service {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache()
	}
	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		l.Warn("invalid redis addr, falling back to memory cache",
			applogger.String("addr", cfg.Redis.Addr), applogger.Error(err))
		return pkgcache.NewMemoryCache()
	}
	port, _ := strconv.Atoi(portStr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		l.Warn("redis unavailable, falling back to memory cache", applogger.Error(err))
		return pkgcache.NewMemoryCache()
	}
	return pkgcache.NewLayeredCache(rc)
}

// ProvidePipeline creates the batch pipeline use case.
func ProvidePipeline(
	hp repository.HistoryProvider,
	store repository.CandleStore,
	publisher repository.ForecastPublisher,
	projector domsvc.TrendProjector,
	trainer domsvc.DirectionTrainer,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Pipeline {
	return usecase.NewPipeline(hp, store, publisher, projector, trainer, m, l, cfg.Backend.Type)
}

// ProvideForecastUseCase wraps the pipeline with result caching.
func ProvideForecastUseCase(pipeline *usecase.Pipeline, cache pkgcache.Service, cfg *config.Config) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(
		pipeline,
		cache,
		cfg.Forecast.CacheTTL,
		cfg.Provider.Symbol,
		cfg.Provider.LookbackDays,
	)
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(l *applogger.Logger, uc *usecase.ForecastUseCase) xhttp.Handler {
	return api.NewForecastEchoHandler(l, uc)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	uc *usecase.ForecastUseCase,
	handler xhttp.Handler,
	store repository.CandleStore,
	publisher repository.ForecastPublisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, uc, handler, store, publisher, chClient)
}
