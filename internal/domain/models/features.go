package models

import "time"

// FeatureTable is the engineered indicator table produced by the feature
// builder. Columns are parallel slices aligned to Dates; raw indicator
// columns are kept for the projector while Matrix holds the standardized
// rows fed to the classifiers.
type FeatureTable struct {
	Dates       []time.Time
	Closes      []float64
	DailyChange []float64 // fractional close-over-close change
	MA7         []float64 // trailing 7-day mean of Close
	Volatility  []float64 // trailing 7-day sample stddev of Close
	Momentum    []float64 // Close - Close shifted 5 rows
	RSI         []float64 // 14-day Wilder RSI in [0,100]

	// Matrix holds one standardized row per day: [MA7, Volatility,
	// Momentum, RSI], each column rescaled to zero mean and unit variance.
	Matrix [][]float64

	// Labels holds the binary direction label: 1 iff DailyChange > 0.
	Labels []int
}

// Len returns the number of surviving rows.
func (t *FeatureTable) Len() int { return len(t.Dates) }

// LastClose returns the final close in the table, or 0 if empty.
func (t *FeatureTable) LastClose() float64 {
	if len(t.Closes) == 0 {
		return 0
	}
	return t.Closes[len(t.Closes)-1]
}

// LastDate returns the final date in the table.
func (t *FeatureTable) LastDate() time.Time {
	if len(t.Dates) == 0 {
		return time.Time{}
	}
	return t.Dates[len(t.Dates)-1]
}
