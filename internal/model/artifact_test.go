package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exovision/internal/model/modeltest"
)

const treeYAML = `
model:
  type: decision_tree
  classes: [0, 1]
  n_features: 1
  nodes:
    - {feature: 0, threshold: 0.5, left: 1, right: 2}
    - {left: -1, right: -1, value: [3, 1]}
    - {left: -1, right: -1, value: [0, 4]}
features: [x]
`

func TestLoadCompositeTree(t *testing.T) {
	a, err := Load(modeltest.WriteTree(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"orbital_period", "transit_duration", "planet_radius", "stellar_temp", "stellar_radius"}, a.Features)
	require.True(t, a.SupportsProbabilities())

	X := [][]float64{
		{365, 0.5, 1.0, 5800, 1.0},
		{42, 0.1, 0.8, 5000, 0.9},
		{10, 0.2, 3.5, 6000, 1.2},
	}
	got, err := a.Estimator.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, got)

	pos, err := a.PositiveProbabilities(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.6, 0.2}, pos, 1e-9)
}

func TestLoadBareHasNoFeatures(t *testing.T) {
	p := modeltest.Write(t, t.TempDir(), "bare.json", modeltest.BareLogisticJSON)
	a, err := Load(p)
	require.NoError(t, err)
	assert.Nil(t, a.Features)
	assert.True(t, a.SupportsProbabilities())

	got, err := a.Estimator.Predict([][]float64{{50, 0, 0, 0, 0}, {150, 0, 0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)
}

func TestLoadYAML(t *testing.T) {
	p := modeltest.Write(t, t.TempDir(), "model.yaml", treeYAML)
	a, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, a.Features)
	pos, err := a.PositiveProbabilities([][]float64{{0.2}, {0.9}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 1}, pos, 1e-9)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(t.TempDir() + "/missing.json")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsLoadError(err))
}

func TestLoadCorrupt(t *testing.T) {
	cases := map[string]string{
		"garbage":          "not json at all",
		"no type":          `{"classes":[0,1],"n_features":1}`,
		"unknown type":     `{"type":"xgboost","classes":[0,1],"n_features":1}`,
		"feature range":    `{"type":"decision_tree","classes":[0,1],"n_features":1,"nodes":[{"feature":3,"threshold":1,"left":1,"right":2},{"left":-1,"value":[1,0]},{"left":-1,"value":[0,1]}]}`,
		"cyclic children":  `{"type":"decision_tree","classes":[0,1],"n_features":1,"nodes":[{"feature":0,"threshold":1,"left":0,"right":0}]}`,
		"leaf width":       `{"type":"decision_tree","classes":[0,1],"n_features":1,"nodes":[{"left":-1,"value":[1]}]}`,
		"coef shape":       `{"type":"logistic_regression","classes":[0,1],"n_features":2,"coef":[[1]],"intercept":[0]}`,
		"feature mismatch": `{"model":{"type":"linear_svm","classes":[0,1],"n_features":2,"coef":[[1,1]],"intercept":[0]},"features":["a"]}`,
		"duplicate names":  `{"model":{"type":"linear_svm","classes":[0,1],"n_features":2,"coef":[[1,1]],"intercept":[0]},"features":["a","a"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := modeltest.Write(t, t.TempDir(), "model.json", body)
			_, err := Load(p)
			require.Error(t, err)
			assert.True(t, IsLoadError(err), "want load error, got %v", err)
			assert.False(t, IsNotFound(err))
		})
	}
}

func TestLinearSVMIsClassificationOnly(t *testing.T) {
	p := modeltest.Write(t, t.TempDir(), "svm.json", modeltest.SVMJSON)
	a, err := Load(p)
	require.NoError(t, err)
	assert.False(t, a.SupportsProbabilities())

	got, err := a.Estimator.Predict([][]float64{{1, 2}, {8, 9}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)

	_, err = a.PositiveProbabilities([][]float64{{1, 2}})
	require.Error(t, err)
	assert.True(t, IsInference(err))
}

func TestShapeMismatchIsInferenceError(t *testing.T) {
	a, err := Load(modeltest.WriteTree(t))
	require.NoError(t, err)
	_, err = a.Estimator.Predict([][]float64{{1, 2, 3, 4}})
	require.Error(t, err)
	assert.True(t, IsInference(err))
	assert.Contains(t, err.Error(), "X has 4 features")
}
