// Package predict runs the loaded estimator on single records, uploaded CSV
// datasets and free-form row lists.
package predict

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"exovision/internal/frame"
	"exovision/internal/model"
	"exovision/pkg/types"
)

// Classifier invokes the estimator served by a model.Provider.
type Classifier struct {
	models model.Provider
}

// NewClassifier returns a Classifier backed by models.
func NewClassifier(models model.Provider) *Classifier {
	return &Classifier{models: models}
}

// Ready reports whether a model can be served.
func (c *Classifier) Ready() bool { return c.models.Ready() }

// ValidateRecord checks that every feature is present and returns the typed record.
func ValidateRecord(req types.PredictRequest) (types.FeatureRecord, error) {
	fields := []struct {
		name string
		v    *types.Number
	}{
		{types.FeatureOrbitalPeriod, req.OrbitalPeriod},
		{types.FeatureTransitDuration, req.TransitDuration},
		{types.FeaturePlanetRadius, req.PlanetRadius},
		{types.FeatureStellarTemp, req.StellarTemp},
		{types.FeatureStellarRadius, req.StellarRadius},
	}
	var missing []string
	for _, f := range fields {
		if f.v == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return types.FeatureRecord{}, invalidf("field required: %s", strings.Join(missing, ", "))
	}
	return types.FeatureRecord{
		OrbitalPeriod:   float64(*req.OrbitalPeriod),
		TransitDuration: float64(*req.TransitDuration),
		PlanetRadius:    float64(*req.PlanetRadius),
		StellarTemp:     float64(*req.StellarTemp),
		StellarRadius:   float64(*req.StellarRadius),
	}, nil
}

// recordColumns is the column order the estimator consumes for records and
// datasets: the artifact's declared features, or the canonical order. A
// declared feature outside the fixed record fields cannot be served.
func recordColumns(a *model.Artifact) ([]string, error) {
	if a.Features == nil {
		return types.FeatureColumns, nil
	}
	for _, f := range a.Features {
		if _, ok := (types.FeatureRecord{}).Value(f); !ok {
			return nil, model.ErrInference("model expects feature %q which is not an exoplanet record field", f)
		}
	}
	return a.Features, nil
}

// PredictRecord classifies one record and maps the class to its disposition.
func (c *Classifier) PredictRecord(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	resp, err := c.predictRecord(ctx, req)
	return resp, observeError(sourceRecord, err)
}

func (c *Classifier) predictRecord(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	rec, err := ValidateRecord(req)
	if err != nil {
		return types.PredictResponse{}, err
	}
	a, err := c.models.Artifact(ctx)
	if err != nil {
		return types.PredictResponse{}, err
	}
	cols, err := recordColumns(a)
	if err != nil {
		return types.PredictResponse{}, err
	}
	x := make([]float64, len(cols))
	for i, col := range cols {
		x[i], _ = rec.Value(col)
	}
	preds, err := a.Estimator.Predict([][]float64{x})
	if err != nil {
		return types.PredictResponse{}, err
	}
	if len(preds) != 1 {
		return types.PredictResponse{}, model.ErrInference("estimator returned %d predictions for 1 row", len(preds))
	}
	observeLabels(sourceRecord, preds)
	return types.PredictResponse{Prediction: Label(preds[0]), Input: rec}, nil
}

// PredictTable scores every row of tbl and sets the prediction and
// probability columns by row position. tbl must contain all feature columns;
// other columns are carried through untouched.
func (c *Classifier) PredictTable(ctx context.Context, tbl *frame.Table) error {
	if err := tbl.Require(types.FeatureColumns); err != nil {
		return invalid(err)
	}
	a, err := c.models.Artifact(ctx)
	if err != nil {
		return err
	}
	cols, err := recordColumns(a)
	if err != nil {
		return err
	}
	X, err := tbl.Project(cols)
	if err != nil {
		return invalid(err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	preds, err := a.Estimator.Predict(X)
	if err != nil {
		return err
	}
	probs, err := a.PositiveProbabilities(X)
	if err != nil {
		return err
	}
	if len(preds) != tbl.Len() || len(probs) != tbl.Len() {
		return model.ErrInference("estimator returned %d predictions and %d probabilities for %d rows", len(preds), len(probs), tbl.Len())
	}
	predCol := make([]string, len(preds))
	probCol := make([]string, len(probs))
	for i := range preds {
		predCol[i] = strconv.Itoa(preds[i])
		probCol[i] = strconv.FormatFloat(probs[i], 'g', -1, 64)
	}
	if err := tbl.SetColumn(types.PredictionColumn, predCol); err != nil {
		return err
	}
	if err := tbl.SetColumn(types.ProbabilityColumn, probCol); err != nil {
		return err
	}
	observeLabels(sourceUpload, preds)
	return nil
}

// PredictRows classifies free-form rows. When the artifact declares features
// every row must carry all of them and extra keys are ignored; otherwise the
// union of row keys, in order of first appearance, is passed through. Results
// keep input order.
func (c *Classifier) PredictRows(ctx context.Context, req types.RowsRequest) (types.RowsResponse, error) {
	resp, err := c.predictRows(ctx, req.Rows)
	return resp, observeError(sourceRows, err)
}

func (c *Classifier) predictRows(ctx context.Context, rows []types.Row) (types.RowsResponse, error) {
	a, err := c.models.Artifact(ctx)
	if err != nil {
		return types.RowsResponse{}, err
	}
	results := make([]types.RowResult, 0, len(rows))
	if len(rows) == 0 {
		return types.RowsResponse{Results: results}, nil
	}
	cols, err := rowColumns(a, rows)
	if err != nil {
		return types.RowsResponse{}, err
	}
	X := make([][]float64, len(rows))
	for i, row := range rows {
		x := make([]float64, len(cols))
		for j, col := range cols {
			v, ok, err := row.Float(col)
			if !ok {
				return types.RowsResponse{}, invalidf("row %d: missing key %q", i, col)
			}
			if err != nil {
				return types.RowsResponse{}, invalidf("row %d: %s: %v", i, col, err)
			}
			x[j] = v
		}
		X[i] = x
	}
	preds, err := a.Estimator.Predict(X)
	if err != nil {
		return types.RowsResponse{}, err
	}
	var probs []float64
	if a.SupportsProbabilities() {
		if probs, err = a.PositiveProbabilities(X); err != nil {
			return types.RowsResponse{}, err
		}
	}
	if len(preds) != len(rows) || (probs != nil && len(probs) != len(rows)) {
		return types.RowsResponse{}, model.ErrInference("estimator output does not match %d input rows", len(rows))
	}
	for i, p := range preds {
		r := types.RowResult{Prediction: p}
		if probs != nil {
			v := probs[i]
			r.Probability = &v
		}
		results = append(results, r)
	}
	observeLabels(sourceRows, preds)
	return types.RowsResponse{Results: results}, nil
}

// rowColumns picks the input columns for a row list.
func rowColumns(a *model.Artifact, rows []types.Row) ([]string, error) {
	if a.Features != nil {
		var missing []string
		for _, f := range a.Features {
			for _, row := range rows {
				if _, ok := row.Values[f]; !ok {
					missing = append(missing, f)
					break
				}
			}
		}
		if len(missing) > 0 {
			return nil, invalid(missingFeaturesError{names: missing})
		}
		return a.Features, nil
	}
	var cols []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, k := range row.Keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	if len(cols) == 0 {
		return nil, invalidf("rows carry no features")
	}
	return cols, nil
}

// describe is used in log lines for artifacts.
func describe(a *model.Artifact) string {
	if a.Features == nil {
		return fmt.Sprintf("%T (features unspecified)", a.Estimator)
	}
	return fmt.Sprintf("%T %v", a.Estimator, a.Features)
}
