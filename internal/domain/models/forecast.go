package models

import "time"

// Regime is the classified shape of the historical trend.
type Regime string

const (
	RegimeExponential Regime = "exponential"
	RegimeLinear      Regime = "linear"
	RegimeFlat        Regime = "flat"
)

// TrendState is the ephemeral result of regime classification for one
// projection call. Not persisted.
type TrendState struct {
	Regime      Regime  `json:"regime"`
	TargetPrice float64 `json:"target_price"`
	HorizonDays int     `json:"horizon_days"`
}

// ForecastPoint is one projected day. TreePrice and LogisticPrice are kept
// as separate series for the chart overlay even though the current
// projection derives both from the same target.
type ForecastPoint struct {
	Date          time.Time `json:"date"`
	TreePrice     float64   `json:"tree_price"`
	LogisticPrice float64   `json:"logistic_price"`
}

// ClassifierReport holds held-out evaluation results for the two
// direction classifiers.
type ClassifierReport struct {
	TreeAccuracy     float64 `json:"tree_accuracy"`
	LogisticAccuracy float64 `json:"logistic_accuracy"`
	TrainRows        int     `json:"train_rows"`
	TestRows         int     `json:"test_rows"`
	Seed             int64   `json:"seed"`
}

// Diagnostics carries the rendered dumps of the day-record store and the
// day adjacency chain from the last pipeline run.
type Diagnostics struct {
	StoreSize  int    `json:"store_size"`
	StoreDump  string `json:"store_dump"`
	ChainEdges int    `json:"chain_edges"`
	ChainDump  string `json:"chain_dump"`
}

// PipelineResult is the full output of one batch pipeline run.
type PipelineResult struct {
	Symbol      string           `json:"symbol"`
	RunAt       time.Time        `json:"run_at"`
	Candles     []Candle         `json:"candles"`
	Trend       TrendState       `json:"trend"`
	Forecast    []ForecastPoint  `json:"forecast"`
	Classifier  ClassifierReport `json:"classifier"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}
