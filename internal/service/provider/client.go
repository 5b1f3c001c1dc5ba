package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"TrendCast/internal/domain/models"
	drepo "TrendCast/internal/domain/repository"
	xhttp "TrendCast/pkg/http"
	xutil "TrendCast/pkg/util"
)

// ErrNoData is returned when the provider reports an empty window.
var ErrNoData = errors.New("provider returned no data for window")

// Client fetches daily OHLCV history from the provider's candle endpoint.
// This is the collaborator boundary: timeout and retry policy live here,
// not in the pipeline.
type Client struct {
	baseURL  string
	apiKey   string
	client   *xhttp.Client
	attempts int
}

// New creates a provider client. attempts <= 1 disables retry.
func New(baseURL, apiKey string, timeout time.Duration, attempts int) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		attempts: attempts,
	}
}

// candleResponse mirrors the provider's parallel-array payload.
type candleResponse struct {
	Status string    `json:"s"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
	Time   []int64   `json:"t"` // unix seconds
}

// DailyCandles fetches the daily series for symbol in [from, to], ascending
// by date, one row per trading day.
func (c *Client) DailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	var resp candleResponse
	var err error
	for i := 1; i <= c.attempts; i++ {
		err = c.fetch(ctx, symbol, from, to, &resp)
		if err == nil || i == c.attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 200 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	if resp.Status == "no_data" || len(resp.Time) == 0 {
		return nil, fmt.Errorf("%w: %s %s..%s", ErrNoData, symbol,
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("provider status %q", resp.Status)
	}

	return toCandles(symbol, &resp)
}

func (c *Client) fetch(ctx context.Context, symbol string, from, to time.Time, dest *candleResponse) error {
	return c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, dest)
}

// toCandles zips the parallel arrays, enforcing equal lengths and strictly
// ascending dates (duplicate trading days are a provider contract
// violation, not something to patch silently).
func toCandles(symbol string, r *candleResponse) ([]models.Candle, error) {
	n := len(r.Time)
	if len(r.Open) != n || len(r.High) != n || len(r.Low) != n || len(r.Close) != n || len(r.Volume) != n {
		return nil, fmt.Errorf("ragged candle arrays: t=%d o=%d h=%d l=%d c=%d v=%d",
			n, len(r.Open), len(r.High), len(r.Low), len(r.Close), len(r.Volume))
	}

	out := make([]models.Candle, n)
	var prev int64
	for i := 0; i < n; i++ {
		if i > 0 && r.Time[i] <= prev {
			return nil, fmt.Errorf("non-ascending candle timestamps at row %d", i)
		}
		prev = r.Time[i]
		out[i] = models.Candle{
			Date:   xutil.TruncateToDay(time.Unix(r.Time[i], 0)),
			Symbol: symbol,
			Open:   r.Open[i],
			High:   r.High[i],
			Low:    r.Low[i],
			Close:  r.Close[i],
			Volume: r.Volume[i],
		}
	}
	return out, nil
}

var _ drepo.HistoryProvider = (*Client)(nil)
