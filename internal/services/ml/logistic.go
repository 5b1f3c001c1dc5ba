package ml

import "math"

// logisticModel is a binary logistic separator trained by full-batch
// gradient descent with a fixed step and epoch count, so a given training
// set always produces the same weights.
type logisticModel struct {
	weights []float64
	bias    float64
}

func fitLogistic(xs [][]float64, ys []int, rate float64, epochs int) *logisticModel {
	m := &logisticModel{weights: make([]float64, len(xs[0]))}
	n := float64(len(xs))

	for e := 0; e < epochs; e++ {
		grad := make([]float64, len(m.weights))
		var gradBias float64
		for i, x := range xs {
			err := m.prob(x) - float64(ys[i])
			for j, v := range x {
				grad[j] += err * v
			}
			gradBias += err
		}
		for j := range m.weights {
			m.weights[j] -= rate * grad[j] / n
		}
		m.bias -= rate * gradBias / n
	}
	return m
}

func (m *logisticModel) prob(x []float64) float64 {
	z := m.bias
	for j, w := range m.weights {
		z += w * x[j]
	}
	return 1 / (1 + math.Exp(-z))
}

func (m *logisticModel) predict(x []float64) int {
	if m.prob(x) > 0.5 {
		return 1
	}
	return 0
}
