package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TrendCast/internal/domain/repository"
	"TrendCast/internal/usecase"
	pkgch "TrendCast/pkg/clickhouse"
	"TrendCast/pkg/config"
	xhttp "TrendCast/pkg/http"
	applogger "TrendCast/pkg/logger"
)

// App encapsulates the entire application lifecycle: one warm-up pipeline
// run at startup, then the HTTP API until interrupted.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	uc         *usecase.ForecastUseCase
	handler    xhttp.Handler
	store      repository.CandleStore
	publisher  repository.ForecastPublisher
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. store, publisher
// and chClient may be nil depending on the configured backend.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	uc *usecase.ForecastUseCase,
	handler xhttp.Handler,
	store repository.CandleStore,
	publisher repository.ForecastPublisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		uc:        uc,
		handler:   handler,
		store:     store,
		publisher: publisher,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Warm-up run: fetch history, compute the forecast and fill the cache
	// so the first API hit is served immediately. A failure here is logged
	// but does not prevent serving; the API retries on demand.
	go func() {
		runCtx, runCancel := context.WithTimeout(ctx, 2*time.Minute)
		defer runCancel()
		start := time.Now()
		res, err := a.uc.GetResult(runCtx, a.uc.DefaultSymbol(), a.cfg.Forecast.HorizonDays)
		if err != nil {
			a.l.Error("startup pipeline run failed", applogger.Error(err))
			return
		}
		a.l.Info("startup pipeline run complete",
			applogger.String("symbol", res.Symbol),
			applogger.String("regime", string(res.Trend.Regime)),
			applogger.Float64("target_price", res.Trend.TargetPrice),
			applogger.Int("forecast_points", len(res.Forecast)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}()

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("api started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("symbol", a.uc.DefaultSymbol()),
		applogger.String("backend", a.cfg.Backend.Type),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.l.Warn("candle store close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
