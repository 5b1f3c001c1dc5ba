package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"TrendCast/internal/domain/models"
	drepo "TrendCast/internal/domain/repository"
	"TrendCast/internal/services/forecast"
	"TrendCast/internal/services/ml"
	applogger "TrendCast/pkg/logger"
)

type stubProvider struct {
	candles []models.Candle
	err     error
}

func (s *stubProvider) DailyCandles(_ context.Context, _ string, _, _ time.Time) ([]models.Candle, error) {
	return s.candles, s.err
}

type nopMetrics struct{}

func (nopMetrics) RecordCandlesFetched(string, int) {}
func (nopMetrics) RecordForecastRun(string, string) {}
func (nopMetrics) RecordAccuracy(string, float64)   {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLatency(string, float64)    {}

func constantCandles(n int, close float64) []models.Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Date:   start.AddDate(0, 0, i),
			Symbol: "TEST",
			Open:   close,
			High:   close,
			Low:    close,
			Close:  close,
			Volume: 1000,
		}
	}
	return out
}

func newTestPipeline(p drepo.HistoryProvider) *Pipeline {
	l := applogger.NewNop()
	return NewPipeline(p, nil, nil, forecast.New(l), ml.NewTrainer(), nopMetrics{}, l, "none")
}

func TestRunFlatSeriesEndToEnd(t *testing.T) {
	pipe := newTestPipeline(&stubProvider{candles: constantCandles(30, 100)})

	result, err := pipe.Run(context.Background(), RunParams{
		Symbol:      "TEST",
		From:        time.Now().AddDate(-1, 0, 0),
		To:          time.Now(),
		HorizonDays: 180,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Trend.Regime != models.RegimeFlat {
		t.Fatalf("expected flat regime, got %s", result.Trend.Regime)
	}
	if math.Abs(result.Trend.TargetPrice-103.6) > 1e-9 {
		t.Fatalf("expected target 103.6, got %v", result.Trend.TargetPrice)
	}
	if len(result.Forecast) != 180 {
		t.Fatalf("expected 180 forecast points, got %d", len(result.Forecast))
	}
	if math.Abs(result.Forecast[89].TreePrice-101.8) > 1e-9 {
		t.Fatalf("expected day-90 price 101.8, got %v", result.Forecast[89].TreePrice)
	}
	// Constant series yields a single-class label column: training fails
	// and is reported, but the forecast still completes.
	if result.Classifier.TrainRows != 0 {
		t.Fatalf("expected empty classifier report, got %+v", result.Classifier)
	}

	// 30 candles minus the indicator warm-up leaves 16 feature rows.
	if result.Diagnostics.StoreSize != 16 {
		t.Fatalf("expected 16 day records, got %d", result.Diagnostics.StoreSize)
	}
	if result.Diagnostics.ChainEdges != 15 {
		t.Fatalf("expected 15 chain edges, got %d", result.Diagnostics.ChainEdges)
	}
	if result.Diagnostics.StoreDump == "" || result.Diagnostics.ChainDump == "" {
		t.Fatal("expected rendered diagnostic dumps")
	}
}

func TestRunRisingSeries(t *testing.T) {
	candles := constantCandles(40, 100)
	for i := range candles {
		c := 100 * math.Pow(1.01, float64(i)) // ~1% daily growth
		candles[i].Close = c
		candles[i].Open = c
		candles[i].High = c
		candles[i].Low = c
	}
	pipe := newTestPipeline(&stubProvider{candles: candles})

	result, err := pipe.Run(context.Background(), RunParams{
		Symbol:      "TEST",
		From:        time.Now().AddDate(-1, 0, 0),
		To:          time.Now(),
		HorizonDays: 90,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Trend.Regime != models.RegimeExponential {
		t.Fatalf("expected exponential regime, got %s", result.Trend.Regime)
	}
	last := result.Forecast[len(result.Forecast)-1]
	if last.TreePrice <= candles[len(candles)-1].Close {
		t.Fatalf("expected rising forecast, got %v", last.TreePrice)
	}
}

func TestRunTooFewRows(t *testing.T) {
	pipe := newTestPipeline(&stubProvider{candles: constantCandles(5, 100)})

	_, err := pipe.Run(context.Background(), RunParams{
		Symbol:      "TEST",
		From:        time.Now().AddDate(-1, 0, 0),
		To:          time.Now(),
		HorizonDays: 180,
	})
	if err == nil {
		t.Fatalf("expected error for short series")
	}
}

func TestRunRejectsBadParams(t *testing.T) {
	pipe := newTestPipeline(&stubProvider{candles: constantCandles(30, 100)})

	if _, err := pipe.Run(context.Background(), RunParams{Symbol: "", HorizonDays: 180}); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
	if _, err := pipe.Run(context.Background(), RunParams{Symbol: "TEST", HorizonDays: 0}); err == nil {
		t.Fatalf("expected error for zero horizon")
	}
}
