package ml

import (
	"errors"
	"fmt"
	"math/rand"

	"TrendCast/internal/domain/models"
	domsvc "TrendCast/internal/domain/service"
)

// Fixed training hyperparameters. The split and both fits are fully
// deterministic so that repeated runs report identical accuracy.
const (
	// Seed drives the pre-split shuffle.
	Seed int64 = 42
	// TrainFraction of rows goes to the training partition.
	TrainFraction = 0.7

	treeMaxDepth   = 3
	treeMinLeaf    = 2
	logisticRate   = 0.1
	logisticEpochs = 500
)

var (
	// ErrNoData is returned for an empty feature table.
	ErrNoData = errors.New("no training data")
	// ErrDimensionMismatch is returned when features and labels disagree.
	ErrDimensionMismatch = errors.New("features and labels length mismatch")
	// ErrSingleClass is returned when the label column contains only one
	// class; training would produce a degenerate model.
	ErrSingleClass = errors.New("label column contains a single class")
)

// Trainer fits the two independent next-day direction classifiers: a
// Gini decision tree and a logistic separator. Evaluative only; its
// predictions are not consumed by the trend projection.
type Trainer struct{}

// NewTrainer creates a trainer with the fixed hyperparameters.
func NewTrainer() *Trainer { return &Trainer{} }

// TrainAndScore splits rows 70/30 after a seeded shuffle, fits both
// classifiers on the training partition and reports held-out accuracy.
func (t *Trainer) TrainAndScore(features [][]float64, labels []int) (models.ClassifierReport, error) {
	if len(features) == 0 {
		return models.ClassifierReport{}, ErrNoData
	}
	if len(features) != len(labels) {
		return models.ClassifierReport{}, fmt.Errorf("%w: %d features vs %d labels", ErrDimensionMismatch, len(features), len(labels))
	}
	if singleClass(labels) {
		return models.ClassifierReport{}, ErrSingleClass
	}

	trainX, trainY, testX, testY := split(features, labels)
	if len(testX) == 0 {
		return models.ClassifierReport{}, fmt.Errorf("%w: too few rows for a held-out partition", ErrNoData)
	}

	tree := fitTree(trainX, trainY, treeMaxDepth, treeMinLeaf)
	logit := fitLogistic(trainX, trainY, logisticRate, logisticEpochs)

	report := models.ClassifierReport{
		TreeAccuracy:     accuracy(testX, testY, tree.predict),
		LogisticAccuracy: accuracy(testX, testY, logit.predict),
		TrainRows:        len(trainX),
		TestRows:         len(testX),
		Seed:             Seed,
	}
	return report, nil
}

func singleClass(labels []int) bool {
	first := labels[0]
	for _, y := range labels[1:] {
		if y != first {
			return false
		}
	}
	return true
}

// split shuffles row indices with the fixed seed and takes the leading
// TrainFraction for training, the remainder for evaluation.
func split(features [][]float64, labels []int) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	n := len(features)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(Seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	cut := int(float64(n) * TrainFraction)
	if cut < 1 {
		cut = 1
	}
	if cut >= n {
		cut = n - 1
	}
	for k, i := range idx {
		if k < cut {
			trainX = append(trainX, features[i])
			trainY = append(trainY, labels[i])
		} else {
			testX = append(testX, features[i])
			testY = append(testY, labels[i])
		}
	}
	return trainX, trainY, testX, testY
}

func accuracy(xs [][]float64, ys []int, predict func([]float64) int) float64 {
	if len(xs) == 0 {
		return 0
	}
	correct := 0
	for i, x := range xs {
		if predict(x) == ys[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(xs))
}

var _ domsvc.DirectionTrainer = (*Trainer)(nil)
