package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"TrendCast/internal/container/keyedstore"
	"TrendCast/internal/container/seqgraph"
	"TrendCast/internal/domain/models"
	drepo "TrendCast/internal/domain/repository"
	domsvc "TrendCast/internal/domain/service"
	"TrendCast/internal/services/features"
	applogger "TrendCast/pkg/logger"
)

// Pipeline runs the batch flow for one symbol: fetch history, build the
// indicator table and diagnostic containers, train and evaluate the
// direction classifiers, project the trend, then persist or publish the
// result. Every step runs to completion before the next; the provider
// fetch is the only blocking network call.
type Pipeline struct {
	provider  drepo.HistoryProvider
	store     drepo.CandleStore       // nil when backend != clickhouse
	publisher drepo.ForecastPublisher // nil when backend != kafka
	projector domsvc.TrendProjector
	trainer   domsvc.DirectionTrainer
	metrics   drepo.Metrics
	l         *applogger.Logger
	backend   string
}

// NewPipeline wires the batch pipeline.
func NewPipeline(
	provider drepo.HistoryProvider,
	store drepo.CandleStore,
	publisher drepo.ForecastPublisher,
	projector domsvc.TrendProjector,
	trainer domsvc.DirectionTrainer,
	metrics drepo.Metrics,
	l *applogger.Logger,
	backend string,
) *Pipeline {
	return &Pipeline{
		provider:  provider,
		store:     store,
		publisher: publisher,
		projector: projector,
		trainer:   trainer,
		metrics:   metrics,
		l:         l,
		backend:   backend,
	}
}

// RunParams parameterizes one pipeline run.
type RunParams struct {
	Symbol      string
	From        time.Time
	To          time.Time
	HorizonDays int
}

// Run executes the pipeline once. A classifier training failure is
// reported (log + error metric) but does not abort the run: the projector
// does not consume the classifiers, so the forecast is still valid.
func (p *Pipeline) Run(ctx context.Context, params RunParams) (*models.PipelineResult, error) {
	if params.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if params.HorizonDays <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", params.HorizonDays)
	}

	start := time.Now()
	candles, err := p.provider.DailyCandles(ctx, params.Symbol, params.From, params.To)
	if err != nil {
		p.metrics.RecordError("fetch")
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	p.metrics.RecordCandlesFetched(params.Symbol, len(candles))
	p.metrics.RecordLatency("fetch", time.Since(start).Seconds())

	table, err := features.Build(candles)
	if err != nil {
		p.metrics.RecordError("features")
		return nil, fmt.Errorf("build features: %w", err)
	}

	diag := p.buildDiagnostics(table)

	report := p.trainClassifiers(params.Symbol, table)

	state, points, err := p.projector.Project(
		table.LastClose(), table.LastDate(),
		table.DailyChange, table.Volatility,
		params.HorizonDays,
	)
	if err != nil {
		p.metrics.RecordError("project")
		return nil, fmt.Errorf("project trend: %w", err)
	}
	p.metrics.RecordForecastRun(params.Symbol, string(state.Regime))

	result := &models.PipelineResult{
		Symbol:      params.Symbol,
		RunAt:       time.Now().UTC(),
		Candles:     candles,
		Trend:       state,
		Forecast:    points,
		Classifier:  report,
		Diagnostics: diag,
	}

	if err := p.sink(ctx, result); err != nil {
		p.metrics.RecordError("sink")
		return nil, fmt.Errorf("sink result: %w", err)
	}

	p.l.Info("pipeline run complete",
		applogger.String("symbol", params.Symbol),
		applogger.Int("candles", len(candles)),
		applogger.String("regime", string(state.Regime)),
		applogger.Int("forecast_points", len(points)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return result, nil
}

// buildDiagnostics fills the keyed store and the day-adjacency chain,
// dumps both at debug level and returns the rendered text for the
// diagnostics endpoint. Nothing downstream reads the containers back.
func (p *Pipeline) buildDiagnostics(table *models.FeatureTable) models.Diagnostics {
	store := keyedstore.New(table.Len())
	for i := 0; i < table.Len(); i++ {
		store.Put(i, models.DayRecord{
			Index: i,
			Price: table.Closes[i],
			Features: map[string]float64{
				"daily_change": table.DailyChange[i],
				"ma7":          table.MA7[i],
				"volatility":   table.Volatility[i],
				"momentum":     table.Momentum[i],
				"rsi":          table.RSI[i],
			},
		})
	}

	graph := seqgraph.New(table.Len())
	graph.BuildChain()

	var buf bytes.Buffer
	store.Display(&buf)
	storeDump := buf.String()
	p.l.Debug("day record store", applogger.Int("size", store.Len()), applogger.String("dump", storeDump))

	buf.Reset()
	graph.Display(&buf)
	chainDump := buf.String()
	p.l.Debug("day adjacency chain", applogger.Int("edges", graph.EdgeCount()), applogger.String("dump", chainDump))

	return models.Diagnostics{
		StoreSize:  store.Len(),
		StoreDump:  storeDump,
		ChainEdges: graph.EdgeCount(),
		ChainDump:  chainDump,
	}
}

func (p *Pipeline) trainClassifiers(symbol string, table *models.FeatureTable) models.ClassifierReport {
	report, err := p.trainer.TrainAndScore(table.Matrix, table.Labels)
	if err != nil {
		p.metrics.RecordError("train")
		p.l.Error("classifier training failed", applogger.String("symbol", symbol), applogger.Error(err))
		return models.ClassifierReport{}
	}
	p.metrics.RecordAccuracy("tree", report.TreeAccuracy)
	p.metrics.RecordAccuracy("logistic", report.LogisticAccuracy)
	p.l.Info("classifiers evaluated",
		applogger.String("symbol", symbol),
		applogger.Float64("tree_accuracy", report.TreeAccuracy),
		applogger.Float64("logistic_accuracy", report.LogisticAccuracy),
		applogger.Int("train_rows", report.TrainRows),
		applogger.Int("test_rows", report.TestRows),
	)
	return report
}

func (p *Pipeline) sink(ctx context.Context, result *models.PipelineResult) error {
	switch p.backend {
	case "clickhouse":
		if p.store == nil {
			return fmt.Errorf("clickhouse backend configured but store is nil")
		}
		if err := p.store.StoreCandles(ctx, result.Candles); err != nil {
			return fmt.Errorf("store candles: %w", err)
		}
		if err := p.store.StoreForecast(ctx, result.Symbol, result.Forecast); err != nil {
			return fmt.Errorf("store forecast: %w", err)
		}
	case "kafka":
		if p.publisher == nil {
			return fmt.Errorf("kafka backend configured but publisher is nil")
		}
		if err := p.publisher.PublishForecast(ctx, result.Symbol, result.Forecast); err != nil {
			return fmt.Errorf("publish forecast: %w", err)
		}
	case "", "none":
		// in-memory only; the API serves the cached result
	default:
		return fmt.Errorf("unknown backend: %s", p.backend)
	}
	return nil
}
