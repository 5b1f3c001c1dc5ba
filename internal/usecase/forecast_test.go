package usecase

import (
	"context"
	"testing"
	"time"

	"TrendCast/internal/domain/models"
	pkgcache "TrendCast/pkg/cache"
)

type countingProvider struct {
	candles []models.Candle
	calls   int
}

func (c *countingProvider) DailyCandles(_ context.Context, _ string, _, _ time.Time) ([]models.Candle, error) {
	c.calls++
	return c.candles, nil
}

func TestGetResultCacheHit(t *testing.T) {
	prov := &countingProvider{candles: constantCandles(30, 100)}
	cache := pkgcache.NewMemoryCache()
	defer cache.Close()

	uc := NewForecastUseCase(newTestPipeline(prov), cache, time.Minute, "TEST", 365)

	ctx := context.Background()
	first, err := uc.GetResult(ctx, "TEST", 180)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := uc.GetResult(ctx, "TEST", 180)
	if err != nil {
		t.Fatalf("cached run: %v", err)
	}

	if prov.calls != 1 {
		t.Fatalf("expected one provider fetch, got %d", prov.calls)
	}
	if second.Symbol != first.Symbol || !second.RunAt.Equal(first.RunAt) {
		t.Fatalf("cached result differs: first %s@%v second %s@%v",
			first.Symbol, first.RunAt, second.Symbol, second.RunAt)
	}
	if second.Trend != first.Trend {
		t.Fatalf("cached trend differs: %+v vs %+v", second.Trend, first.Trend)
	}
	if len(second.Forecast) != len(first.Forecast) {
		t.Fatalf("cached forecast length %d, want %d", len(second.Forecast), len(first.Forecast))
	}
	if second.Forecast[89].TreePrice != first.Forecast[89].TreePrice {
		t.Fatalf("cached day-90 price %v, want %v",
			second.Forecast[89].TreePrice, first.Forecast[89].TreePrice)
	}
	if second.Diagnostics.StoreDump != first.Diagnostics.StoreDump {
		t.Fatal("cached diagnostics dump differs")
	}
}

func TestGetResultDefaultSymbolAndHorizon(t *testing.T) {
	prov := &countingProvider{candles: constantCandles(30, 100)}
	cache := pkgcache.NewMemoryCache()
	defer cache.Close()

	uc := NewForecastUseCase(newTestPipeline(prov), cache, time.Minute, "TEST", 365)

	res, err := uc.GetResult(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Symbol != "TEST" {
		t.Fatalf("symbol = %q, want TEST", res.Symbol)
	}
	if res.Trend.HorizonDays != 180 {
		t.Fatalf("horizon = %d, want 180", res.Trend.HorizonDays)
	}
}

func TestGetResultNilCacheRunsEveryTime(t *testing.T) {
	prov := &countingProvider{candles: constantCandles(30, 100)}
	uc := NewForecastUseCase(newTestPipeline(prov), nil, time.Minute, "TEST", 365)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := uc.GetResult(ctx, "TEST", 180); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if prov.calls != 2 {
		t.Fatalf("expected two provider fetches without cache, got %d", prov.calls)
	}
}
