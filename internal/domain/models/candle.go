package models

import "time"

// Candle represents one daily OHLCV bar for the tracked security.
type Candle struct {
	Date   time.Time `json:"date"`
	Symbol string    `json:"symbol"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Closes extracts the close column from a candle series.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// DayRecord is the per-day snapshot held by the diagnostic keyed store.
// Immutable once inserted; keyed by row index.
type DayRecord struct {
	Index    int
	Price    float64
	Features map[string]float64
}
