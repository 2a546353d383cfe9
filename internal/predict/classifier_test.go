package predict

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exovision/internal/frame"
	"exovision/internal/model"
	"exovision/internal/model/modeltest"
	"exovision/pkg/types"
)

func num(v float64) *types.Number {
	n := types.Number(v)
	return &n
}

func earthLike() types.PredictRequest {
	return types.PredictRequest{
		OrbitalPeriod:   num(365),
		TransitDuration: num(0.5),
		PlanetRadius:    num(1.0),
		StellarTemp:     num(5800),
		StellarRadius:   num(1.0),
	}
}

func staticClassifier(t *testing.T, content string) *Classifier {
	t.Helper()
	a, err := model.Decode([]byte(content), ".json")
	require.NoError(t, err)
	return NewClassifier(model.NewStatic(a))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "False Positive", Label(0))
	assert.Equal(t, "Candidate", Label(1))
	assert.Equal(t, "Confirmed Exoplanet", Label(2))
	assert.Equal(t, "Unknown", Label(7))
	assert.Equal(t, "Unknown", Label(-1))
}

func TestValidateRecord_Missing(t *testing.T) {
	req := earthLike()
	req.StellarTemp = nil
	req.OrbitalPeriod = nil
	_, err := ValidateRecord(req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "orbital_period")
	assert.Contains(t, err.Error(), "stellar_temp")
}

func TestPredictRecord_Confirmed(t *testing.T) {
	c := staticClassifier(t, modeltest.TreeJSON)
	before := testutil.ToFloat64(predictionsTotal.WithLabelValues(sourceRecord, LabelConfirmed))

	resp, err := c.PredictRecord(context.Background(), earthLike())
	require.NoError(t, err)
	assert.Equal(t, "Confirmed Exoplanet", resp.Prediction)
	assert.Equal(t, types.FeatureRecord{
		OrbitalPeriod: 365, TransitDuration: 0.5, PlanetRadius: 1, StellarTemp: 5800, StellarRadius: 1,
	}, resp.Input)

	after := testutil.ToFloat64(predictionsTotal.WithLabelValues(sourceRecord, LabelConfirmed))
	assert.Equal(t, before+1, after)
}

func TestPredictRecord_UnknownClass(t *testing.T) {
	c := staticClassifier(t, modeltest.ConstantJSON)
	resp, err := c.PredictRecord(context.Background(), earthLike())
	require.NoError(t, err)
	assert.Equal(t, LabelUnknown, resp.Prediction)
}

func TestPredictRecord_BareModelUsesCanonicalOrder(t *testing.T) {
	c := staticClassifier(t, modeltest.BareLogisticJSON)
	req := earthLike()
	req.OrbitalPeriod = num(50)
	resp, err := c.PredictRecord(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, LabelFalsePositive, resp.Prediction)

	req.OrbitalPeriod = num(150)
	resp, err = c.PredictRecord(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, LabelCandidate, resp.Prediction)
}

func TestPredictRecord_ModelNotFound(t *testing.T) {
	l, err := model.NewLazy(t.TempDir()+"/missing.json", 0)
	require.NoError(t, err)
	c := NewClassifier(l)
	before := testutil.ToFloat64(predictErrorsTotal.WithLabelValues(sourceRecord, "model_not_found"))

	_, err = c.PredictRecord(context.Background(), earthLike())
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
	assert.False(t, c.Ready())
	assert.Equal(t, before+1, testutil.ToFloat64(predictErrorsTotal.WithLabelValues(sourceRecord, "model_not_found")))
}

func TestPredictRecord_ForeignFeatures(t *testing.T) {
	c := staticClassifier(t, modeltest.SVMJSON)
	_, err := c.PredictRecord(context.Background(), earthLike())
	require.Error(t, err)
	assert.True(t, model.IsInference(err))
}

const koiCSV = `kepid,orbital_period,transit_duration,planet_radius,stellar_temp,stellar_radius
1,365,0.5,1.0,5800,1.0
2,10,0.2,5.0,6000,1.2
3,42,0.1,0.8,4800,0.9
`

func TestPredictTable_AlignsRows(t *testing.T) {
	c := staticClassifier(t, modeltest.TreeJSON)
	tbl, err := frame.Read(strings.NewReader(koiCSV))
	require.NoError(t, err)

	require.NoError(t, c.PredictTable(context.Background(), tbl))
	pi := tbl.Index(types.PredictionColumn)
	qi := tbl.Index(types.ProbabilityColumn)
	require.GreaterOrEqual(t, pi, 0)
	require.GreaterOrEqual(t, qi, 0)

	want := []struct{ kepid, pred, prob string }{
		{"1", "2", "0.1"},
		{"2", "0", "0.2"},
		{"3", "1", "0.6"},
	}
	require.Equal(t, len(want), tbl.Len())
	for i, w := range want {
		assert.Equal(t, w.kepid, tbl.Rows[i][0])
		assert.Equal(t, w.pred, tbl.Rows[i][pi])
		assert.Equal(t, w.prob, tbl.Rows[i][qi])
	}
}

func TestPredictTable_MissingColumns(t *testing.T) {
	c := staticClassifier(t, modeltest.TreeJSON)
	tbl, err := frame.Read(strings.NewReader("orbital_period,planet_radius,stellar_radius\n1,2,3\n"))
	require.NoError(t, err)

	err = c.PredictTable(context.Background(), tbl)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.True(t, frame.IsMissingColumns(err))
	assert.Equal(t, []string{"transit_duration", "stellar_temp"}, frame.MissingColumns(err))
}

func TestPredictTable_ClassificationOnly(t *testing.T) {
	c := staticClassifier(t, `{"type":"linear_svm","classes":[0,1],"n_features":5,"coef":[[1,0,0,0,0]],"intercept":[0]}`)
	tbl, err := frame.Read(strings.NewReader(koiCSV))
	require.NoError(t, err)
	err = c.PredictTable(context.Background(), tbl)
	require.Error(t, err)
	assert.True(t, model.IsInference(err))
}

func decodeRows(t *testing.T, body string) types.RowsRequest {
	t.Helper()
	var req types.RowsRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestPredictRows_OrderAndNullProbability(t *testing.T) {
	c := staticClassifier(t, modeltest.SVMJSON)
	req := decodeRows(t, `{"rows":[{"a":1,"b":2,"extra":"x"},{"b":8,"a":9},{"a":"21","b":0}]}`)

	resp, err := c.PredictRows(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, []int{0, 1, 1}, []int{resp.Results[0].Prediction, resp.Results[1].Prediction, resp.Results[2].Prediction})
	for _, r := range resp.Results {
		assert.Nil(t, r.Probability)
	}

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"probability":null`)
}

func TestPredictRows_MissingFeatures(t *testing.T) {
	c := staticClassifier(t, modeltest.TreeJSON)
	req := decodeRows(t, `{"rows":[{"orbital_period":1,"planet_radius":1,"stellar_radius":1}]}`)
	_, err := c.PredictRows(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.True(t, IsMissingFeatures(err))
	assert.Equal(t, []string{"transit_duration", "stellar_temp"}, MissingFeatures(err))
}

func TestPredictRows_Probabilities(t *testing.T) {
	c := staticClassifier(t, modeltest.TreeJSON)
	row := types.NewRow(types.FeatureColumns, map[string]float64{
		"orbital_period": 365, "transit_duration": 0.5, "planet_radius": 1, "stellar_temp": 5800, "stellar_radius": 1,
	})
	resp, err := c.PredictRows(context.Background(), types.RowsRequest{Rows: []types.Row{row}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 2, resp.Results[0].Prediction)
	require.NotNil(t, resp.Results[0].Probability)
	assert.InDelta(t, 0.1, *resp.Results[0].Probability, 1e-9)
}

func TestPredictRows_BareModelUnion(t *testing.T) {
	c := staticClassifier(t, modeltest.BareLogisticJSON)
	req := decodeRows(t, `{"rows":[{"x0":150,"x1":0,"x2":0,"x3":0,"x4":0},{"x0":10,"x1":0,"x2":0,"x3":0}]}`)
	_, err := c.PredictRows(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), `row 1: missing key "x4"`)

	req = decodeRows(t, `{"rows":[{"x0":150,"x1":0,"x2":0,"x3":0,"x4":0},{"x4":0,"x0":10,"x1":0,"x2":0,"x3":0}]}`)
	resp, err := c.PredictRows(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 1, resp.Results[0].Prediction)
	assert.Equal(t, 0, resp.Results[1].Prediction)
}

func TestPredictRows_EmptyAndNonNumeric(t *testing.T) {
	c := staticClassifier(t, modeltest.SVMJSON)
	resp, err := c.PredictRows(context.Background(), types.RowsRequest{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)

	_, err = c.PredictRows(context.Background(), decodeRows(t, `{"rows":[{"a":"abc","b":1}]}`))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
