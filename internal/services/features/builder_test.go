package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"TrendCast/internal/domain/models"
)

func mkCandles(closes []float64) []models.Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Date:   start.AddDate(0, 0, i),
			Symbol: "TEST",
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func TestBuildTooFewRows(t *testing.T) {
	_, err := Build(mkCandles([]float64{100, 101, 102}))
	if !errors.Is(err, ErrInsufficientRows) {
		t.Fatalf("expected ErrInsufficientRows, got %v", err)
	}
}

func TestBuildDropsLeadingRows(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	tab, err := Build(mkCandles(closes))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// 30 rows minus the 14-row RSI warmup.
	if tab.Len() != 16 {
		t.Fatalf("expected 16 rows, got %d", tab.Len())
	}
	// First surviving date is day index 14.
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !tab.Dates[0].Equal(want) {
		t.Fatalf("expected first date %v, got %v", want, tab.Dates[0])
	}
}

func TestDailyChangeAndLabels(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i) // +1 every day
	}
	tab, err := Build(mkCandles(closes))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i, ch := range tab.DailyChange {
		if ch <= 0 {
			t.Fatalf("row %d: expected positive change, got %v", i, ch)
		}
		if tab.Labels[i] != 1 {
			t.Fatalf("row %d: expected label 1", i)
		}
	}
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{
		100, 103, 99, 105, 102, 108, 101, 110, 104, 112,
		98, 115, 103, 118, 101, 120, 99, 122, 105, 125,
	}
	tab, err := Build(mkCandles(closes))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i, v := range tab.RSI {
		if v < 0 || v > 100 {
			t.Fatalf("row %d: RSI out of range: %v", i, v)
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi := wilderRSI(closes, 14)
	if rsi[len(rsi)-1] != 100 {
		t.Fatalf("expected RSI 100 for all-gain series, got %v", rsi[len(rsi)-1])
	}
}

func TestRollingMean(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	ms := rollingMean(xs, 7)
	if ms[5] != 0 {
		t.Fatalf("expected zero before full window, got %v", ms[5])
	}
	if ms[6] != 4 { // mean of 1..7
		t.Fatalf("expected 4, got %v", ms[6])
	}
	if ms[7] != 5 { // mean of 2..8
		t.Fatalf("expected 5, got %v", ms[7])
	}
}

func TestStandardizedMatrix(t *testing.T) {
	closes := []float64{
		100, 103, 99, 105, 102, 108, 101, 110, 104, 112,
		98, 115, 103, 118, 101, 120, 99, 122, 105, 125,
		107, 128, 110, 130,
	}
	tab, err := Build(mkCandles(closes))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(tab.Matrix) != tab.Len() {
		t.Fatalf("matrix rows %d != table rows %d", len(tab.Matrix), tab.Len())
	}
	// Each standardized column has ~zero mean and ~unit variance.
	for j := 0; j < 4; j++ {
		var sum float64
		for _, row := range tab.Matrix {
			sum += row[j]
		}
		mean := sum / float64(len(tab.Matrix))
		if math.Abs(mean) > 1e-9 {
			t.Fatalf("column %d: mean %v not ~0", j, mean)
		}
		var sum2 float64
		for _, row := range tab.Matrix {
			d := row[j] - mean
			sum2 += d * d
		}
		sd := math.Sqrt(sum2 / float64(len(tab.Matrix)-1))
		if math.Abs(sd-1) > 1e-9 {
			t.Fatalf("column %d: stddev %v not ~1", j, sd)
		}
	}
}

func TestConstantSeriesStandardizesToZeros(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	tab, err := Build(mkCandles(closes))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i, row := range tab.Matrix {
		for j, v := range row {
			if v != 0 {
				t.Fatalf("row %d col %d: expected 0 for zero-variance column, got %v", i, j, v)
			}
		}
	}
	for i, ch := range tab.DailyChange {
		if ch != 0 {
			t.Fatalf("row %d: expected zero change, got %v", i, ch)
		}
	}
}

func TestForwardFillCloses(t *testing.T) {
	closes := []float64{
		100, 0, 102, math.NaN(), 104, 105, 106, 107, 108, 109,
		110, 111, 112, 113, 114, 115, 116, 117,
	}
	tab, err := Build(mkCandles(closes))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i, c := range tab.Closes {
		if c <= 0 || math.IsNaN(c) {
			t.Fatalf("row %d: invalid close survived fill: %v", i, c)
		}
	}
}
