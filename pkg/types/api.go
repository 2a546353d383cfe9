package types

// PredictRequest is the body of POST /api/predict. All fields are required.
type PredictRequest struct {
	// Orbital period in days.
	// example: 365
	OrbitalPeriod *Number `json:"orbital_period" swaggertype:"number" example:"365"`
	// Transit duration in days.
	// example: 0.5
	TransitDuration *Number `json:"transit_duration" swaggertype:"number" example:"0.5"`
	// Planet radius in Earth radii.
	// example: 1
	PlanetRadius *Number `json:"planet_radius" swaggertype:"number" example:"1"`
	// Stellar effective temperature in Kelvin.
	// example: 5800
	StellarTemp *Number `json:"stellar_temp" swaggertype:"number" example:"5800"`
	// Stellar radius in solar radii.
	// example: 1
	StellarRadius *Number `json:"stellar_radius" swaggertype:"number" example:"1"`
}

// PredictResponse is returned by POST /api/predict.
type PredictResponse struct {
	// Disposition label.
	// example: Confirmed Exoplanet
	Prediction string `json:"prediction" example:"Confirmed Exoplanet"`
	// Echo of the validated input.
	Input FeatureRecord `json:"input"`
}

// UploadResponse is returned by POST /api/upload.
type UploadResponse struct {
	// example: Dataset uploaded successfully
	Message string `json:"message" example:"Dataset uploaded successfully"`
	// Stored file name.
	// example: koi.csv
	Filename string `json:"filename" example:"koi.csv"`
	// Number of data rows in the uploaded table.
	// example: 120
	Rows int `json:"rows" example:"120"`
}

// ModelStats holds the mock evaluation metrics of the served model.
type ModelStats struct {
	// example: 0.91
	Accuracy float64 `json:"accuracy" yaml:"accuracy" toml:"accuracy" example:"0.91"`
	// example: 0.89
	Precision float64 `json:"precision" yaml:"precision" toml:"precision" example:"0.89"`
	// example: 0.9
	Recall float64 `json:"recall" yaml:"recall" toml:"recall" example:"0.9"`
	// example: v1.0
	Version string `json:"version" yaml:"version" toml:"version" example:"v1.0"`
}

// StatsResponse is returned by GET /api/stats.
type StatsResponse struct {
	ModelStats ModelStats `json:"model_stats"`
}

// RetrainResponse is returned by POST /api/retrain.
type RetrainResponse struct {
	// example: Model retraining triggered successfully
	Message  string     `json:"message" example:"Model retraining triggered successfully"`
	NewStats ModelStats `json:"new_stats"`
}

// Hyperparams is the current (mock) training configuration.
type Hyperparams struct {
	// example: 0.01
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate" toml:"learning_rate" example:"0.01"`
	// example: 100
	NEstimators int `json:"n_estimators" yaml:"n_estimators" toml:"n_estimators" example:"100"`
	// example: 5
	MaxDepth int `json:"max_depth" yaml:"max_depth" toml:"max_depth" example:"5"`
}

// ConfigUpdate is the body of POST /api/config. Omitted or null fields are left unchanged.
type ConfigUpdate struct {
	// example: 0.05
	LearningRate *float64 `json:"learning_rate,omitempty" example:"0.05"`
	// example: 200
	NEstimators *int `json:"n_estimators,omitempty" example:"200"`
	// example: 8
	MaxDepth *int `json:"max_depth,omitempty" example:"8"`
}

// Empty reports whether the update carries no fields.
func (u ConfigUpdate) Empty() bool {
	return u.LearningRate == nil && u.NEstimators == nil && u.MaxDepth == nil
}

// ConfigResponse is returned by POST /api/config.
type ConfigResponse struct {
	// example: Hyperparameters updated
	Message       string      `json:"message" example:"Hyperparameters updated"`
	CurrentConfig Hyperparams `json:"current_config"`
}

// DataResponse is returned by GET /api/data.
type DataResponse struct {
	// example: ["orbital_period","transit_duration","planet_radius","stellar_temp","stellar_radius","label"]
	Columns []string `json:"columns"`
	// Up to five sample rows keyed by column name.
	Data []map[string]any `json:"data"`
}

// MessageResponse carries a plain message.
type MessageResponse struct {
	// example: Welcome to ExoVision API
	Message string `json:"message" example:"Welcome to ExoVision API"`
}

// RowsRequest is the body of POST /predict on the classifier service.
type RowsRequest struct {
	// Rows keyed by feature name.
	Rows []Row `json:"rows" swaggertype:"array,object"`
}

// RowResult is the prediction for one input row.
type RowResult struct {
	// example: 1
	Prediction int `json:"prediction" example:"1"`
	// Positive-class probability, null when the estimator cannot estimate probabilities.
	// example: 0.82
	Probability *float64 `json:"probability" example:"0.82"`
}

// RowsResponse is returned by POST /predict.
type RowsResponse struct {
	Results []RowResult `json:"results"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
