package model

import "fmt"

// linear holds the weights shared by the linear estimators. Binary models
// carry a single coefficient row scoring classes[1].
type linear struct {
	coef      [][]float64
	intercept []float64
	classes   []int
	nFeatures int
}

func newLinear(coef [][]float64, intercept []float64, classes []int, nFeatures int) (linear, error) {
	rows := len(classes)
	if len(classes) == 2 {
		rows = 1
	}
	if len(coef) != rows {
		return linear{}, fmt.Errorf("coef has %d rows, want %d for %d classes", len(coef), rows, len(classes))
	}
	if len(intercept) != rows {
		return linear{}, fmt.Errorf("intercept has %d values, want %d", len(intercept), rows)
	}
	for i, c := range coef {
		if len(c) != nFeatures {
			return linear{}, fmt.Errorf("coef row %d has %d values, want %d", i, len(c), nFeatures)
		}
	}
	return linear{coef: coef, intercept: intercept, classes: classes, nFeatures: nFeatures}, nil
}

func (l linear) Classes() []int   { return l.classes }
func (l linear) NumFeatures() int { return l.nFeatures }

func (l linear) decision(x []float64) []float64 {
	out := make([]float64, len(l.coef))
	for k, w := range l.coef {
		z := l.intercept[k]
		for j, v := range w {
			z += v * x[j]
		}
		out[k] = z
	}
	return out
}

func (l linear) predict(X [][]float64, name string) ([]int, error) {
	if err := checkShape(X, l.nFeatures, name); err != nil {
		return nil, err
	}
	out := make([]int, len(X))
	for i, x := range X {
		z := l.decision(x)
		if len(z) == 1 {
			if z[0] > 0 {
				out[i] = l.classes[1]
			} else {
				out[i] = l.classes[0]
			}
			continue
		}
		out[i] = l.classes[argmax(z)]
	}
	return out, nil
}

// LogisticRegression scores with a sigmoid (binary) or softmax (multiclass).
type LogisticRegression struct{ linear }

// NewLogisticRegression validates weights against classes and input width.
func NewLogisticRegression(coef [][]float64, intercept []float64, classes []int, nFeatures int) (*LogisticRegression, error) {
	l, err := newLinear(coef, intercept, classes, nFeatures)
	if err != nil {
		return nil, err
	}
	return &LogisticRegression{l}, nil
}

func (m *LogisticRegression) Predict(X [][]float64) ([]int, error) {
	return m.predict(X, "LogisticRegression")
}

func (m *LogisticRegression) PredictProba(X [][]float64) ([][]float64, error) {
	if err := checkShape(X, m.nFeatures, "LogisticRegression"); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, x := range X {
		z := m.decision(x)
		if len(z) == 1 {
			p := sigmoid(z[0])
			out[i] = []float64{1 - p, p}
			continue
		}
		out[i] = softmax(z)
	}
	return out, nil
}

// LinearSVM only exposes a decision function; it cannot estimate probabilities.
type LinearSVM struct{ linear }

// NewLinearSVM validates weights against classes and input width.
func NewLinearSVM(coef [][]float64, intercept []float64, classes []int, nFeatures int) (*LinearSVM, error) {
	l, err := newLinear(coef, intercept, classes, nFeatures)
	if err != nil {
		return nil, err
	}
	return &LinearSVM{l}, nil
}

func (m *LinearSVM) Predict(X [][]float64) ([]int, error) {
	return m.predict(X, "LinearSVC")
}
