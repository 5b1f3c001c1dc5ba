package repository

import (
	"context"
	"time"

	"TrendCast/internal/domain/models"
)

// HistoryProvider fetches the historical daily OHLCV series for a symbol.
// One-shot call; retry/timeout policy lives in the implementation, not in
// the callers.
type HistoryProvider interface {
	DailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error)
}

// CandleStore persists and reads back daily candles and forecast points.
type CandleStore interface {
	Init(ctx context.Context) error
	StoreCandles(ctx context.Context, candles []models.Candle) error
	StoreForecast(ctx context.Context, symbol string, points []models.ForecastPoint) error
	LatestCandles(ctx context.Context, symbol string, n int) ([]models.Candle, error)
	Health(ctx context.Context) error
	Close() error
}

// ForecastPublisher publishes a completed forecast to downstream consumers.
type ForecastPublisher interface {
	PublishForecast(ctx context.Context, symbol string, points []models.ForecastPoint) error
	Close() error
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordCandlesFetched(symbol string, n int)
	RecordForecastRun(symbol string, regime string)
	RecordAccuracy(model string, accuracy float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
