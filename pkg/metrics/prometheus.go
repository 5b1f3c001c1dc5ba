package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	candlesFetched *prometheus.CounterVec
	forecastRuns   *prometheus.CounterVec
	accuracy       *prometheus.GaugeVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		candlesFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_candles_fetched_total",
				Help: "Total number of daily candles fetched from the provider",
			},
			[]string{"symbol"},
		),
		forecastRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_forecast_runs_total",
				Help: "Total number of completed forecast pipeline runs",
			},
			[]string{"symbol", "regime"},
		),
		accuracy: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trendcast_classifier_accuracy",
				Help: "Held-out accuracy of the last classifier training run",
			},
			[]string{"model"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCandlesFetched records candles retrieved for a symbol.
func (r *Recorder) RecordCandlesFetched(symbol string, n int) {
	r.candlesFetched.WithLabelValues(symbol).Add(float64(n))
}

// RecordForecastRun records a completed pipeline run and its regime.
func (r *Recorder) RecordForecastRun(symbol, regime string) {
	r.forecastRuns.WithLabelValues(symbol, regime).Inc()
}

// RecordAccuracy records held-out accuracy for a classifier model.
func (r *Recorder) RecordAccuracy(model string, acc float64) {
	r.accuracy.WithLabelValues(model).Set(acc)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
