package api

import (
	"time"

	models "TrendCast/internal/domain/models"
	"TrendCast/internal/service/apimetrics"
	"TrendCast/internal/usecase"
	xhttp "TrendCast/pkg/http"
	xlogger "TrendCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ForecastEchoHandler exposes the pipeline result over HTTP for the chart
// frontend. All endpoints are read-only; a cache miss triggers a pipeline
// run inside the usecase.
type ForecastEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.ForecastUseCase
}

func NewForecastEchoHandler(logger *xlogger.Logger, uc *usecase.ForecastUseCase) *ForecastEchoHandler {
	apimetrics.Register()
	return &ForecastEchoHandler{logger: logger, uc: uc}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/history", h.History)
	g.GET("/forecast", h.Forecast)
	g.GET("/classifiers", h.Classifiers)
	g.GET("/diagnostics", h.Diagnostics)
}

func (h *ForecastEchoHandler) History(c echo.Context) error {
	start := time.Now()
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.GetResult(c.Request().Context(), req.Symbol, 0)
	if err != nil {
		apimetrics.EndpointErrors.WithLabelValues("history").Inc()
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	candles := res.Candles
	if req.Limit > 0 && len(candles) > req.Limit {
		candles = candles[len(candles)-req.Limit:]
	}
	apimetrics.EndpointLatency.WithLabelValues("history").Observe(time.Since(start).Seconds())
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":  res.Symbol,
		"run_at":  res.RunAt,
		"candles": candles,
	})
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.GetResult(c.Request().Context(), req.Symbol, req.Horizon)
	if err != nil {
		apimetrics.EndpointErrors.WithLabelValues("forecast").Inc()
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	apimetrics.EndpointLatency.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":   res.Symbol,
		"run_at":   res.RunAt,
		"trend":    res.Trend,
		"forecast": res.Forecast,
	})
}

func (h *ForecastEchoHandler) Classifiers(c echo.Context) error {
	start := time.Now()
	req := &models.ClassifiersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.GetResult(c.Request().Context(), req.Symbol, 0)
	if err != nil {
		apimetrics.EndpointErrors.WithLabelValues("classifiers").Inc()
		h.logger.Error("classifiers usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	apimetrics.EndpointLatency.WithLabelValues("classifiers").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res.Classifier)
}

func (h *ForecastEchoHandler) Diagnostics(c echo.Context) error {
	start := time.Now()
	req := &models.DiagnosticsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.GetResult(c.Request().Context(), req.Symbol, 0)
	if err != nil {
		apimetrics.EndpointErrors.WithLabelValues("diagnostics").Inc()
		h.logger.Error("diagnostics usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	apimetrics.EndpointLatency.WithLabelValues("diagnostics").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res.Diagnostics)
}
