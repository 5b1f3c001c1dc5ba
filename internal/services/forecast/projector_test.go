package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"TrendCast/internal/domain/models"
)

var lastDate = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func TestClassifyExponential(t *testing.T) {
	if got := classify(0.006); got != models.RegimeExponential {
		t.Fatalf("expected exponential, got %s", got)
	}
}

func TestClassifyLinear(t *testing.T) {
	if got := classify(0.00001); got != models.RegimeLinear {
		t.Fatalf("expected linear, got %s", got)
	}
	// Ties at the cutoffs fall to linear.
	if got := classify(0.005); got != models.RegimeLinear {
		t.Fatalf("expected linear at threshold, got %s", got)
	}
	if got := classify(1e-11); got != models.RegimeLinear {
		t.Fatalf("expected linear at epsilon, got %s", got)
	}
	if got := classify(-0.001); got != models.RegimeLinear {
		t.Fatalf("expected linear for declining series, got %s", got)
	}
}

func TestClassifyFlat(t *testing.T) {
	if got := classify(0); got != models.RegimeFlat {
		t.Fatalf("expected flat, got %s", got)
	}
}

func TestProjectHorizonLength(t *testing.T) {
	p := New(nil)
	changes := []float64{0.001, -0.001, 0.002}

	_, points, err := p.Project(100, lastDate, changes, nil, 180)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if len(points) != 180 {
		t.Fatalf("expected 180 points, got %d", len(points))
	}
	for i, pt := range points {
		want := lastDate.AddDate(0, 0, i+1)
		if !pt.Date.Equal(want) {
			t.Fatalf("point %d: expected date %v, got %v", i, want, pt.Date)
		}
		if pt.TreePrice < 0 || pt.LogisticPrice < 0 {
			t.Fatalf("point %d: negative price", i)
		}
	}
}

func TestProjectFlatSeries(t *testing.T) {
	p := New(nil)
	changes := make([]float64, 30) // constant close -> all zero changes
	vol := make([]float64, 30)

	state, points, err := p.Project(100, lastDate, changes, vol, 180)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if state.Regime != models.RegimeFlat {
		t.Fatalf("expected flat regime, got %s", state.Regime)
	}
	// 100 * (1 + 0.0002*180) = 103.6
	if math.Abs(state.TargetPrice-103.6) > 1e-9 {
		t.Fatalf("expected target 103.6, got %v", state.TargetPrice)
	}
	if math.Abs(points[179].TreePrice-103.6) > 1e-9 {
		t.Fatalf("expected day-180 price 103.6, got %v", points[179].TreePrice)
	}
	// Day 90: 100 + 3.6*(90/180) = 101.8
	if math.Abs(points[89].TreePrice-101.8) > 1e-9 {
		t.Fatalf("expected day-90 price 101.8, got %v", points[89].TreePrice)
	}
}

func TestProjectExponentialTarget(t *testing.T) {
	p := New(nil)
	changes := []float64{0.01, 0.01, 0.01}

	state, _, err := p.Project(50, lastDate, changes, nil, 10)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if state.Regime != models.RegimeExponential {
		t.Fatalf("expected exponential, got %s", state.Regime)
	}
	want := 50 * math.Pow(1.01, 10)
	if math.Abs(state.TargetPrice-want) > 1e-9 {
		t.Fatalf("expected target %v, got %v", want, state.TargetPrice)
	}
}

func TestProjectClampsAtZero(t *testing.T) {
	p := New(nil)
	// Steep decline: linear target goes negative, prices clamp to 0.
	changes := []float64{-0.02, -0.02, -0.02}

	state, points, err := p.Project(10, lastDate, changes, nil, 180)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if state.Regime != models.RegimeLinear {
		t.Fatalf("expected linear, got %s", state.Regime)
	}
	if state.TargetPrice >= 0 {
		t.Fatalf("expected negative raw target, got %v", state.TargetPrice)
	}
	last := points[len(points)-1]
	if last.TreePrice != 0 {
		t.Fatalf("expected clamped 0, got %v", last.TreePrice)
	}
}

func TestProjectTreeAndLogisticIdentical(t *testing.T) {
	p := New(nil)
	changes := []float64{0.003, -0.001, 0.002, 0.001}

	_, points, err := p.Project(120, lastDate, changes, nil, 90)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	for i, pt := range points {
		if pt.TreePrice != pt.LogisticPrice {
			t.Fatalf("point %d: series diverge: %v vs %v", i, pt.TreePrice, pt.LogisticPrice)
		}
	}
}

func TestProjectIdempotent(t *testing.T) {
	p := New(nil)
	changes := []float64{0.004, -0.002, 0.006, 0.001, -0.003}
	vol := []float64{1.2, 1.1, 1.4, 1.3, 1.2}

	s1, p1, err := p.Project(87.5, lastDate, changes, vol, 180)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	s2, p2, err := p.Project(87.5, lastDate, changes, vol, 180)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("trend state differs between runs: %+v vs %+v", s1, s2)
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("point %d differs between runs", i)
		}
	}
}

func TestProjectRejectsBadHorizon(t *testing.T) {
	p := New(nil)
	for _, h := range []int{0, -1, -180} {
		_, _, err := p.Project(100, lastDate, []float64{0.001}, nil, h)
		if !errors.Is(err, ErrInvalidHorizon) {
			t.Fatalf("horizon %d: expected ErrInvalidHorizon, got %v", h, err)
		}
	}
}

func TestProjectRejectsEmptySeries(t *testing.T) {
	p := New(nil)
	_, _, err := p.Project(100, lastDate, nil, nil, 180)
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}
