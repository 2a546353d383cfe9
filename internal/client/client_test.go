package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exovision/internal/httpapi"
	"exovision/internal/model"
	"exovision/internal/model/modeltest"
	"exovision/internal/predict"
	"exovision/internal/state"
	"exovision/internal/storage"
	"exovision/pkg/types"
)

func apiServer(t *testing.T, modelPath string) (*Client, string) {
	t.Helper()
	dataDir := t.TempDir()
	files, err := storage.New(dataDir)
	require.NoError(t, err)
	models, err := model.NewLazy(modelPath, 0)
	require.NoError(t, err)
	svc := predict.NewService(predict.NewClassifier(models), files, state.New(state.DefaultOptions()))
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second), dataDir
}

func TestClient_API(t *testing.T) {
	c, dataDir := apiServer(t, modeltest.WriteTree(t))
	ctx := context.Background()

	msg, err := c.Welcome(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to ExoVision API", msg.Message)

	ready, err := c.Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ready)

	pred, err := c.Predict(ctx, types.FeatureRecord{OrbitalPeriod: 365, TransitDuration: 0.5, PlanetRadius: 1, StellarTemp: 5800, StellarRadius: 1})
	require.NoError(t, err)
	assert.Equal(t, "Confirmed Exoplanet", pred.Prediction)

	up, err := c.Upload(ctx, "koi.csv", strings.NewReader("orbital_period,transit_duration,planet_radius,stellar_temp,stellar_radius\n42,0.1,0.8,4800,0.9\n"))
	require.NoError(t, err)
	assert.Equal(t, types.UploadResponse{Message: "Dataset uploaded successfully", Filename: "koi.csv", Rows: 1}, up)
	b, err := os.ReadFile(filepath.Join(dataDir, "koi.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "pred_exoplanet,prob_exoplanet")

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1.0", stats.ModelStats.Version)

	rt, err := c.Retrain(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1.1", rt.NewStats.Version)

	lr := 0.05
	cfg, err := c.UpdateConfig(ctx, types.ConfigUpdate{LearningRate: &lr})
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.CurrentConfig.LearningRate)

	data, err := c.Data(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Data, 2)
}

func TestClient_Errors(t *testing.T) {
	c, _ := apiServer(t, filepath.Join(t.TempDir(), "missing.json"))
	ctx := context.Background()

	_, err := c.Predict(ctx, types.FeatureRecord{})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "model file not found")

	_, err = c.UpdateConfig(ctx, types.ConfigUpdate{})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode())
	assert.Equal(t, "No parameters provided to update.", apiErr.Message)

	_, err = c.Upload(ctx, "notes.txt", strings.NewReader("x"))
	assert.True(t, IsStatus(err, http.StatusBadRequest))

	ready, err := c.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestClient_PredictRows(t *testing.T) {
	models, err := model.LoadStatic(modeltest.Write(t, t.TempDir(), "svm.json", modeltest.SVMJSON))
	require.NoError(t, err)
	srv := httptest.NewServer(httpapi.NewClassifierMux(predict.NewClassifier(models)))
	defer srv.Close()
	c := New(srv.URL, 0)

	rows := []types.Row{
		types.NewRow([]string{"a", "b"}, map[string]float64{"a": 20, "b": 1}),
		types.NewRow([]string{"b", "a"}, map[string]float64{"a": 1, "b": 1}),
	}
	resp, err := c.PredictRows(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 1, resp.Results[0].Prediction)
	assert.Equal(t, 0, resp.Results[1].Prediction)
	assert.Nil(t, resp.Results[0].Probability)

	_, err = c.PredictRows(context.Background(), []types.Row{types.NewRow([]string{"a"}, map[string]float64{"a": 1})})
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestClient_Unreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.Stats(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not API errors")
}
