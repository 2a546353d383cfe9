package model

import "math"

// Estimator is a fitted classifier over a dense feature matrix.
type Estimator interface {
	// Classes returns the class labels in the column order used for probabilities.
	Classes() []int
	// NumFeatures is the width every input row must have.
	NumFeatures() int
	// Predict returns one class label per row of X.
	Predict(X [][]float64) ([]int, error)
}

// ProbabilityEstimator is an Estimator that can also estimate class probabilities.
type ProbabilityEstimator interface {
	Estimator
	// PredictProba returns one probability vector per row, ordered like Classes().
	PredictProba(X [][]float64) ([][]float64, error)
}

// checkShape validates X against the estimator input width.
func checkShape(X [][]float64, nFeatures int, name string) error {
	for i, row := range X {
		if len(row) != nFeatures {
			return ErrInference("row %d: X has %d features, but %s is expecting %d features as input", i, len(row), name, nFeatures)
		}
	}
	return nil
}

// argmax returns the index of the first maximum of v.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func softmax(z []float64) []float64 {
	out := make([]float64, len(z))
	if len(z) == 0 {
		return out
	}
	top := z[argmax(z)]
	var sum float64
	for i, v := range z {
		out[i] = math.Exp(v - top)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
