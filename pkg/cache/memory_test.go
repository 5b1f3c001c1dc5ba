package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type cachedReport struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	RunAt  time.Time `json:"run_at"`
	Series []float64 `json:"series"`
}

func TestMemoryCacheGetStructDest(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	want := cachedReport{
		Symbol: "AAPL",
		Price:  187.5,
		RunAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Series: []float64{1, 2, 3},
	}
	if err := mc.Set(ctx, "report", &want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got cachedReport
	if err := mc.Get(ctx, "report", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Symbol != want.Symbol || got.Price != want.Price || !got.RunAt.Equal(want.RunAt) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.Series) != 3 || got.Series[2] != 3 {
		t.Fatalf("series = %v", got.Series)
	}
}

func TestMemoryCacheGetDoesNotAliasCachedValue(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	stored := cachedReport{Symbol: "AAPL", Series: []float64{1, 2, 3}}
	if err := mc.Set(ctx, "report", &stored, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var first cachedReport
	if err := mc.Get(ctx, "report", &first); err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Series[0] = -1

	var second cachedReport
	if err := mc.Get(ctx, "report", &second); err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.Series[0] != 1 {
		t.Fatalf("cached value mutated through reader: %v", second.Series)
	}
}

func TestMemoryCacheGetStringFastPath(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "greeting", "hello", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got string
	if err := mc.Get(ctx, "greeting", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryCacheGetMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got string
	err := mc.Get(context.Background(), "absent", &got)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiredEntryMisses(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "short", "v", time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "short", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}
