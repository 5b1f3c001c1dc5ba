package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TrendCast/internal/domain/models"
	pkgch "TrendCast/pkg/clickhouse"
	applogger "TrendCast/pkg/logger"
)

const (
	candleTable   = "trendcast.daily_candles"
	forecastTable = "trendcast.forecast_points"
)

// SchemaStatements returns the DDL needed by the candle store, suitable for
// Client.InitSchema.
func SchemaStatements() []string {
	return []string{
		`CREATE DATABASE IF NOT EXISTS trendcast`,
		`CREATE TABLE IF NOT EXISTS ` + candleTable + ` (
            day     Date,
            symbol  LowCardinality(String),
            open    Float64,
            high    Float64,
            low     Float64,
            close   Float64,
            volume  Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, day)`,
		`CREATE TABLE IF NOT EXISTS ` + forecastTable + ` (
            run_at          DateTime,
            symbol          LowCardinality(String),
            day             Date,
            tree_price      Float64,
            logistic_price  Float64
        ) ENGINE = MergeTree
        ORDER BY (symbol, run_at, day)`,
	}
}

// CHCandleStore implements CandleStore backed by ClickHouse.
type CHCandleStore struct {
	db *sql.DB
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client) *CHCandleStore {
	return &CHCandleStore{db: ch.DB(), ch: ch}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHCandleStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, SchemaStatements())
}

func (s *CHCandleStore) StoreCandles(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	start := time.Now()

	// Multi-row VALUES insert to keep round-trips down. Daily series are
	// small, so a single chunk is enough in practice.
	const chunkSize = 2000
	for lo := 0; lo < len(candles); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(candles) {
			hi = len(candles)
		}

		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*7)
		for _, c := range candles[lo:hi] {
			if c.Symbol == "" || c.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, c.Date, c.Symbol, c.Open, c.High, c.Low, c.Close, c.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (day, symbol, open, high, low, close, volume) VALUES %s",
			candleTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_candles insert error",
					applogger.Int("rows", hi-lo),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store candles: %w", err)
		}
	}

	if s.l != nil {
		s.l.Info("clickhouse store_candles ok",
			applogger.Int("rows", len(candles)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHCandleStore) StoreForecast(ctx context.Context, symbol string, points []models.ForecastPoint) error {
	if len(points) == 0 {
		return nil
	}
	start := time.Now()
	runAt := time.Now().UTC()

	values := make([]string, 0, len(points))
	args := make([]interface{}, 0, len(points)*5)
	for _, p := range points {
		values = append(values, "(?, ?, ?, ?, ?)")
		args = append(args, runAt, symbol, p.Date, p.TreePrice, p.LogisticPrice)
	}
	q := fmt.Sprintf("INSERT INTO %s (run_at, symbol, day, tree_price, logistic_price) VALUES %s",
		forecastTable, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_forecast insert error",
				applogger.String("symbol", symbol),
				applogger.Int("points", len(points)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store forecast: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse store_forecast ok",
			applogger.String("symbol", symbol),
			applogger.Int("points", len(points)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHCandleStore) LatestCandles(ctx context.Context, symbol string, n int) ([]models.Candle, error) {
	start := time.Now()
	const qtpl = `
        SELECT day, symbol, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY day DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, candleTable)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_candles query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("latest candles: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Candle, 0, n)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Date, &c.Symbol, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		tmp = append(tmp, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Info("clickhouse latest_candles ok",
			applogger.String("symbol", symbol),
			applogger.Int("limit", n),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *CHCandleStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHCandleStore) Close() error {
	return nil // connection pool is owned by pkg/clickhouse
}
