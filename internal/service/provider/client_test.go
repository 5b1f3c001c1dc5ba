package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serve(t *testing.T, resp candleResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/candle" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("resolution") != "D" {
			t.Errorf("expected daily resolution, got %q", r.URL.Query().Get("resolution"))
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestDailyCandles(t *testing.T) {
	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC).Unix()
	srv := serve(t, candleResponse{
		Status: "ok",
		Open:   []float64{10, 11, 12},
		High:   []float64{11, 12, 13},
		Low:    []float64{9, 10, 11},
		Close:  []float64{10.5, 11.5, 12.5},
		Volume: []float64{100, 110, 120},
		Time:   []int64{base, base + 86400, base + 2*86400},
	})
	defer srv.Close()

	c := New(srv.URL, "test-key", 2*time.Second, 1)
	candles, err := c.DailyCandles(context.Background(), "AAPL", time.Unix(base, 0), time.Unix(base+3*86400, 0))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(candles))
	}
	if candles[0].Close != 10.5 || candles[2].Close != 12.5 {
		t.Fatalf("unexpected closes: %v %v", candles[0].Close, candles[2].Close)
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i].Date.After(candles[i-1].Date) {
			t.Fatalf("dates not ascending at %d", i)
		}
	}
}

func TestDailyCandlesNoData(t *testing.T) {
	srv := serve(t, candleResponse{Status: "no_data"})
	defer srv.Close()

	c := New(srv.URL, "test-key", 2*time.Second, 1)
	_, err := c.DailyCandles(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestDailyCandlesRaggedArrays(t *testing.T) {
	base := time.Now().Unix()
	srv := serve(t, candleResponse{
		Status: "ok",
		Open:   []float64{10},
		High:   []float64{11, 12},
		Low:    []float64{9},
		Close:  []float64{10.5},
		Volume: []float64{100},
		Time:   []int64{base},
	})
	defer srv.Close()

	c := New(srv.URL, "test-key", 2*time.Second, 1)
	if _, err := c.DailyCandles(context.Background(), "AAPL", time.Now().AddDate(0, 0, -1), time.Now()); err == nil {
		t.Fatalf("expected error for ragged arrays")
	}
}

func TestDailyCandlesDuplicateDates(t *testing.T) {
	base := time.Now().Unix()
	srv := serve(t, candleResponse{
		Status: "ok",
		Open:   []float64{10, 11},
		High:   []float64{11, 12},
		Low:    []float64{9, 10},
		Close:  []float64{10.5, 11.5},
		Volume: []float64{100, 110},
		Time:   []int64{base, base},
	})
	defer srv.Close()

	c := New(srv.URL, "test-key", 2*time.Second, 1)
	if _, err := c.DailyCandles(context.Background(), "AAPL", time.Now().AddDate(0, 0, -1), time.Now()); err == nil {
		t.Fatalf("expected error for duplicate timestamps")
	}
}

func TestRetryThenSuccess(t *testing.T) {
	base := time.Now().Unix()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(candleResponse{
			Status: "ok",
			Open:   []float64{10},
			High:   []float64{11},
			Low:    []float64{9},
			Close:  []float64{10.5},
			Volume: []float64{100},
			Time:   []int64{base},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 2*time.Second, 3)
	candles, err := c.DailyCandles(context.Background(), "AAPL", time.Now().AddDate(0, 0, -1), time.Now())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candles) != 1 || calls != 2 {
		t.Fatalf("expected success on second call, got %d candles after %d calls", len(candles), calls)
	}
}

func TestExhaustedRetriesReturnWithoutFinalBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", time.Second, 2)
	start := time.Now()
	_, err := c.DailyCandles(context.Background(), "AAPL", time.Unix(0, 0), time.Unix(86400, 0))
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	// Two attempts mean a single 200ms backoff between them; sleeping
	// after the last attempt would push this past 600ms.
	if elapsed >= 500*time.Millisecond {
		t.Fatalf("error delayed %v, backoff ran after the final attempt", elapsed)
	}
}
