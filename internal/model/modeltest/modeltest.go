// Package modeltest writes small model artifacts for tests.
package modeltest

import (
	"os"
	"path/filepath"
	"testing"
)

// TreeJSON is a composite artifact over the five exoplanet features. It splits
// on planet_radius <= 2 and then stellar_temp <= 5000:
//
//	planet_radius > 2                      -> class 0, proba [0.8 0.2 0]
//	planet_radius <= 2, stellar_temp <= 5000 -> class 1, proba [0.1 0.6 0.3]
//	planet_radius <= 2, stellar_temp > 5000  -> class 2, proba [0 0.1 0.9]
const TreeJSON = `{
  "model": {
    "type": "decision_tree",
    "classes": [0, 1, 2],
    "n_features": 5,
    "nodes": [
      {"feature": 2, "threshold": 2.0, "left": 1, "right": 2},
      {"feature": 3, "threshold": 5000, "left": 3, "right": 4},
      {"left": -1, "right": -1, "value": [8, 2, 0]},
      {"left": -1, "right": -1, "value": [1, 6, 3]},
      {"left": -1, "right": -1, "value": [0, 1, 9]}
    ]
  },
  "features": ["orbital_period", "transit_duration", "planet_radius", "stellar_temp", "stellar_radius"]
}`

// BareLogisticJSON is a bare binary logistic regression on 5 inputs scoring
// only the first column: p(1) = sigmoid(x0 - 100).
const BareLogisticJSON = `{
  "type": "logistic_regression",
  "classes": [0, 1],
  "n_features": 5,
  "coef": [[1, 0, 0, 0, 0]],
  "intercept": [-100]
}`

// SVMJSON is a classification-only composite artifact with two declared
// features: class 1 when a + b > 10.
const SVMJSON = `{
  "model": {
    "type": "linear_svm",
    "classes": [0, 1],
    "n_features": 2,
    "coef": [[1, 1]],
    "intercept": [-10]
  },
  "features": ["a", "b"]
}`

// ConstantJSON always predicts the given class code (7), exercising unknown labels.
const ConstantJSON = `{
  "type": "decision_tree",
  "classes": [7, 8],
  "n_features": 5,
  "nodes": [{"left": -1, "right": -1, "value": [1, 0]}]
}`

// Write stores content as name under dir and returns the full path.
func Write(t testing.TB, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// WriteTree stores TreeJSON in a fresh temp dir and returns its path.
func WriteTree(t testing.TB) string {
	t.Helper()
	return Write(t, t.TempDir(), "model.json", TreeJSON)
}
