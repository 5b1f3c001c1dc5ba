package features

import (
	"errors"
	"fmt"
	"math"
	"time"

	"TrendCast/internal/domain/models"
)

const (
	maWindow      = 7
	volWindow     = 7
	momentumShift = 5
	rsiWindow     = 14
)

// MinRows is the smallest candle count that yields at least one row with
// full window coverage (RSI needs rsiWindow prior changes).
const MinRows = rsiWindow + 1

var (
	// ErrInsufficientRows is returned when the series is too short for the
	// rolling windows.
	ErrInsufficientRows = errors.New("insufficient rows for rolling windows")
	// ErrNoValidCloses is returned when no close in the series is usable.
	ErrNoValidCloses = errors.New("no valid close prices in series")
)

// Build computes the indicator table from a raw candle series: fractional
// daily change, trailing 7-day mean and stddev of Close, 5-day momentum and
// 14-day Wilder RSI. Leading rows without full window coverage are dropped
// and the four indicator columns are standardized over the surviving rows.
func Build(candles []models.Candle) (*models.FeatureTable, error) {
	if len(candles) < MinRows {
		return nil, fmt.Errorf("%w: have %d rows, need %d", ErrInsufficientRows, len(candles), MinRows)
	}

	closes, err := fillCloses(candles)
	if err != nil {
		return nil, err
	}

	change := dailyChange(closes)
	ma := rollingMean(closes, maWindow)
	vol := rollingStd(closes, volWindow)
	mom := momentum(closes, momentumShift)
	rsi := wilderRSI(closes, rsiWindow)

	// First row with every column defined: RSI needs rsiWindow prior
	// changes, which dominates the other windows.
	start := rsiWindow
	n := len(closes) - start

	t := &models.FeatureTable{
		Dates:       make([]time.Time, n),
		Closes:      make([]float64, n),
		DailyChange: make([]float64, n),
		MA7:         make([]float64, n),
		Volatility:  make([]float64, n),
		Momentum:    make([]float64, n),
		RSI:         make([]float64, n),
		Labels:      make([]int, n),
	}
	for i := 0; i < n; i++ {
		row := start + i
		t.Dates[i] = candles[row].Date
		t.Closes[i] = closes[row]
		t.DailyChange[i] = change[row]
		t.MA7[i] = ma[row]
		t.Volatility[i] = vol[row]
		t.Momentum[i] = mom[row]
		t.RSI[i] = rsi[row]
		if change[row] > 0 {
			t.Labels[i] = 1
		}
	}

	t.Matrix = standardizeColumns(t.MA7, t.Volatility, t.Momentum, t.RSI)
	return t, nil
}

// fillCloses forward-fills non-positive or NaN closes from the previous
// valid row. A series with no valid close at all is rejected.
func fillCloses(candles []models.Candle) ([]float64, error) {
	out := make([]float64, len(candles))
	last := math.NaN()
	for i, c := range candles {
		v := c.Close
		if v <= 0 || math.IsNaN(v) {
			v = last
		}
		out[i] = v
		last = v
	}
	if math.IsNaN(out[0]) {
		// Leading gap: backfill from the first valid close.
		first := math.NaN()
		for _, v := range out {
			if !math.IsNaN(v) {
				first = v
				break
			}
		}
		if math.IsNaN(first) {
			return nil, ErrNoValidCloses
		}
		for i := range out {
			if math.IsNaN(out[i]) {
				out[i] = first
			} else {
				break
			}
		}
	}
	return out, nil
}

// dailyChange computes the fractional close-over-close change, aligned to
// the input. Index 0 is undefined (zero) and is dropped by the caller.
func dailyChange(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			out[i] = (closes[i] - closes[i-1]) / closes[i-1]
		}
	}
	return out
}

// rollingMean computes the trailing w-row mean, aligned to the input.
// Indices before the first full window are zero.
func rollingMean(xs []float64, w int) []float64 {
	out := make([]float64, len(xs))
	var sum float64
	for i := range xs {
		sum += xs[i]
		if i >= w {
			sum -= xs[i-w]
		}
		if i >= w-1 {
			out[i] = sum / float64(w)
		}
	}
	return out
}

// rollingStd computes the trailing w-row sample standard deviation.
func rollingStd(xs []float64, w int) []float64 {
	out := make([]float64, len(xs))
	if w <= 1 {
		return out
	}
	var sum, sum2 float64
	for i := range xs {
		sum += xs[i]
		sum2 += xs[i] * xs[i]
		if i >= w {
			sum -= xs[i-w]
			sum2 -= xs[i-w] * xs[i-w]
		}
		if i >= w-1 {
			n := float64(w)
			mean := sum / n
			variance := (sum2 - n*mean*mean) / (n - 1)
			if variance < 0 {
				variance = 0
			}
			out[i] = math.Sqrt(variance)
		}
	}
	return out
}

// momentum computes Close minus Close shifted s rows back.
func momentum(closes []float64, s int) []float64 {
	out := make([]float64, len(closes))
	for i := s; i < len(closes); i++ {
		out[i] = closes[i] - closes[i-s]
	}
	return out
}

// wilderRSI computes the w-row Wilder relative strength index in [0,100].
// Indices before the first full window are zero.
func wilderRSI(closes []float64, w int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) <= w {
		return out
	}
	var avgGain, avgLoss float64
	for i := 1; i <= w; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(w)
	avgLoss /= float64(w)
	out[w] = rsiValue(avgGain, avgLoss)

	for i := w + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(w-1) + gain) / float64(w)
		avgLoss = (avgLoss*float64(w-1) + loss) / float64(w)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50 // no movement at all
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// standardizeColumns rescales each column to zero mean and unit variance
// using its own sample statistics and returns the result as row-major
// feature vectors. A zero-variance column standardizes to all zeros.
func standardizeColumns(cols ...[]float64) [][]float64 {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil
	}
	n := len(cols[0])
	std := make([][]float64, len(cols))
	for j, col := range cols {
		std[j] = standardize(col)
	}
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = std[j][i]
		}
		rows[i] = row
	}
	return rows
}

func standardize(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) < 2 {
		return out
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(len(xs))
	var sum2 float64
	for _, v := range xs {
		d := v - mean
		sum2 += d * d
	}
	sd := math.Sqrt(sum2 / float64(len(xs)-1))
	if sd == 0 {
		return out
	}
	for i, v := range xs {
		out[i] = (v - mean) / sd
	}
	return out
}
