package service

import (
	"time"

	"TrendCast/internal/domain/models"
)

// TrendProjector classifies the historical trend regime and synthesizes a
// bounded future price path. It operates purely on the raw series
// statistics; classifier predictions are not an input.
type TrendProjector interface {
	Project(lastClose float64, lastDate time.Time, dailyChanges, volatility []float64, horizonDays int) (models.TrendState, []models.ForecastPoint, error)
}

// DirectionTrainer fits the two next-day direction classifiers on an
// engineered feature table and reports held-out accuracy for each.
type DirectionTrainer interface {
	TrainAndScore(features [][]float64, labels []int) (models.ClassifierReport, error)
}
