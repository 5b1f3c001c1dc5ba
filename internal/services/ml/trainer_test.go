package ml

import (
	"errors"
	"testing"
)

// separable builds a synthetic set where the first feature alone separates
// the classes with a wide margin.
func separable(n int) ([][]float64, []int) {
	xs := make([][]float64, 0, n)
	ys := make([]int, 0, n)
	for i := 0; i < n; i++ {
		jitter := float64(i%5) * 0.01
		if i%2 == 0 {
			xs = append(xs, []float64{2 + jitter, 0.5, -0.3, 1})
			ys = append(ys, 1)
		} else {
			xs = append(xs, []float64{-2 - jitter, 0.4, -0.2, 1})
			ys = append(ys, 0)
		}
	}
	return xs, ys
}

func TestPerfectlySeparableAccuracy(t *testing.T) {
	xs, ys := separable(60)
	report, err := NewTrainer().TrainAndScore(xs, ys)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if report.TreeAccuracy != 1.0 {
		t.Fatalf("expected tree accuracy 1.0, got %v", report.TreeAccuracy)
	}
	if report.LogisticAccuracy != 1.0 {
		t.Fatalf("expected logistic accuracy 1.0, got %v", report.LogisticAccuracy)
	}
}

func TestSplitProportions(t *testing.T) {
	xs, ys := separable(100)
	report, err := NewTrainer().TrainAndScore(xs, ys)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if report.TrainRows != 70 || report.TestRows != 30 {
		t.Fatalf("expected 70/30 split, got %d/%d", report.TrainRows, report.TestRows)
	}
	if report.Seed != Seed {
		t.Fatalf("expected seed %d in report, got %d", Seed, report.Seed)
	}
}

func TestDeterministicReports(t *testing.T) {
	xs, ys := separable(80)
	tr := NewTrainer()
	r1, err := tr.TrainAndScore(xs, ys)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	r2, err := tr.TrainAndScore(xs, ys)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if r1 != r2 {
		t.Fatalf("reports differ between runs: %+v vs %+v", r1, r2)
	}
}

func TestSingleClassRejected(t *testing.T) {
	xs := [][]float64{{1, 2, 3, 4}, {2, 3, 4, 5}, {3, 4, 5, 6}}
	ys := []int{1, 1, 1}
	_, err := NewTrainer().TrainAndScore(xs, ys)
	if !errors.Is(err, ErrSingleClass) {
		t.Fatalf("expected ErrSingleClass, got %v", err)
	}
}

func TestEmptyInputRejected(t *testing.T) {
	_, err := NewTrainer().TrainAndScore(nil, nil)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestDimensionMismatchRejected(t *testing.T) {
	xs := [][]float64{{1}, {2}}
	ys := []int{1}
	_, err := NewTrainer().TrainAndScore(xs, ys)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestTreePredictNoisyData(t *testing.T) {
	// Not separable: tree should still produce a usable model on the
	// majority structure without erroring.
	xs := [][]float64{
		{1, 0, 0, 0}, {1.1, 0, 0, 0}, {0.9, 0, 0, 0},
		{-1, 0, 0, 0}, {-1.1, 0, 0, 0}, {-0.9, 0, 0, 0},
		{1.2, 0, 0, 0}, {-1.2, 0, 0, 0}, {1.05, 0, 0, 0}, {-1.05, 0, 0, 0},
	}
	ys := []int{1, 1, 1, 0, 0, 0, 1, 0, 1, 0}
	report, err := NewTrainer().TrainAndScore(xs, ys)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if report.TreeAccuracy < 0 || report.TreeAccuracy > 1 {
		t.Fatalf("accuracy out of range: %v", report.TreeAccuracy)
	}
}

func TestLogisticLearnsSign(t *testing.T) {
	xs := [][]float64{{3}, {2.5}, {2}, {-2}, {-2.5}, {-3}}
	ys := []int{1, 1, 1, 0, 0, 0}
	m := fitLogistic(xs, ys, 0.1, 500)
	for i, x := range xs {
		if m.predict(x) != ys[i] {
			t.Fatalf("row %d misclassified", i)
		}
	}
}
