package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"TrendCast/internal/domain/models"
	domsvc "TrendCast/internal/domain/service"
	applogger "TrendCast/pkg/logger"
)

// DefaultHorizonDays is the projection horizon used when callers pass no
// explicit horizon.
const DefaultHorizonDays = 180

// Regime thresholds on the mean daily fractional change. Exact cutoffs:
// a tie at expThreshold classifies as linear (strict >), a tie at
// flatEpsilon classifies as linear (strict <).
const (
	expThreshold = 0.005
	flatEpsilon  = 1e-11
	// flatFloor guarantees a minimum 0.02% daily growth so flat or
	// declining-to-zero series still trend upward.
	flatFloor = 0.0002
)

var (
	// ErrInvalidHorizon is returned for zero or negative horizons.
	ErrInvalidHorizon = errors.New("horizon must be a positive number of days")
	// ErrEmptySeries is returned when the change series is empty.
	ErrEmptySeries = errors.New("empty daily change series")
)

// Projector classifies the historical trend regime from raw series
// statistics and interpolates a bounded, non-negative price path toward a
// single horizon target. It is fully deterministic, and deliberately does
// not consume the direction classifiers' predictions.
type Projector struct {
	l *applogger.Logger
}

// New creates a projector. Logger may be nil.
func New(l *applogger.Logger) *Projector { return &Projector{l: l} }

// Project implements the trend extrapolation: mean daily change classifies
// the regime, the regime formula fixes one target price at the end of the
// horizon, and each future day is a straight linear interpolation toward
// that target, clamped at zero. Tree and logistic series share the target
// and are therefore numerically identical.
func (p *Projector) Project(lastClose float64, lastDate time.Time, dailyChanges, volatility []float64, horizonDays int) (models.TrendState, []models.ForecastPoint, error) {
	if horizonDays <= 0 {
		return models.TrendState{}, nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonDays)
	}
	if len(dailyChanges) == 0 {
		return models.TrendState{}, nil, ErrEmptySeries
	}

	avgChange := mean(dailyChanges)
	avgVolatility := mean(volatility)

	regime := classify(avgChange)
	target := targetPrice(regime, lastClose, avgChange, horizonDays)

	state := models.TrendState{
		Regime:      regime,
		TargetPrice: target,
		HorizonDays: horizonDays,
	}

	if p.l != nil {
		p.l.Debug("trend state computed",
			applogger.String("regime", string(regime)),
			applogger.Float64("avg_daily_change", avgChange),
			applogger.Float64("avg_volatility", avgVolatility),
			applogger.Float64("target_price", target),
			applogger.Int("horizon_days", horizonDays),
		)
	}

	points := make([]models.ForecastPoint, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		price := lastClose + (target-lastClose)*float64(i)/float64(horizonDays)
		if price < 0 {
			price = 0
		}
		points[i-1] = models.ForecastPoint{
			Date:          lastDate.AddDate(0, 0, i),
			TreePrice:     price,
			LogisticPrice: price,
		}
	}
	return state, points, nil
}

func classify(avgChange float64) models.Regime {
	switch {
	case avgChange > expThreshold:
		return models.RegimeExponential
	case math.Abs(avgChange) < flatEpsilon:
		return models.RegimeFlat
	default:
		return models.RegimeLinear
	}
}

func targetPrice(regime models.Regime, lastClose, avgChange float64, horizonDays int) float64 {
	h := float64(horizonDays)
	switch regime {
	case models.RegimeExponential:
		return lastClose * math.Pow(1+avgChange, h)
	case models.RegimeFlat:
		return lastClose * (1 + math.Max(avgChange, flatFloor)*h)
	default:
		return lastClose * (1 + avgChange*h)
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

var _ domsvc.TrendProjector = (*Projector)(nil)
