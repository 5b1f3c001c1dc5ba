package usecase

import (
	"context"
	"fmt"
	"time"

	"TrendCast/internal/domain/models"
	"TrendCast/internal/services/forecast"
	pkgcache "TrendCast/pkg/cache"
)

// ForecastUseCase wraps the pipeline with result caching for the
// chart-facing API. Identical inputs produce identical forecasts, so a
// cached run is indistinguishable from a fresh one within the TTL.
type ForecastUseCase struct {
	pipeline      *Pipeline
	cache         pkgcache.Service
	ttl           time.Duration
	defaultSymbol string
	lookbackDays  int
}

// NewForecastUseCase creates the use case. cache may be nil to disable
// caching.
func NewForecastUseCase(pipeline *Pipeline, cache pkgcache.Service, ttl time.Duration, defaultSymbol string, lookbackDays int) *ForecastUseCase {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if lookbackDays <= 0 {
		lookbackDays = 365 * 2
	}
	return &ForecastUseCase{
		pipeline:      pipeline,
		cache:         cache,
		ttl:           ttl,
		defaultSymbol: defaultSymbol,
		lookbackDays:  lookbackDays,
	}
}

// GetResult returns the pipeline result for symbol, running the pipeline
// on a cache miss. Empty symbol falls back to the configured default.
func (uc *ForecastUseCase) GetResult(ctx context.Context, symbol string, horizonDays int) (*models.PipelineResult, error) {
	if symbol == "" {
		symbol = uc.defaultSymbol
	}
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if horizonDays <= 0 {
		horizonDays = forecast.DefaultHorizonDays
	}

	key := pkgcache.GenerateKeyWithParams("forecast", symbol, horizonDays)
	if uc.cache != nil {
		var cached models.PipelineResult
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	now := time.Now().UTC()
	result, err := uc.pipeline.Run(ctx, RunParams{
		Symbol:      symbol,
		From:        now.AddDate(0, 0, -uc.lookbackDays),
		To:          now,
		HorizonDays: horizonDays,
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, key, result, uc.ttl) // cache failures are not fatal
	}
	return result, nil
}

// DefaultSymbol returns the configured fallback symbol.
func (uc *ForecastUseCase) DefaultSymbol() string { return uc.defaultSymbol }
