package predict

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"exovision/internal/frame"
	"exovision/internal/state"
	"exovision/internal/storage"
	"exovision/pkg/types"
)

// CSVExtension is the only accepted upload suffix.
const CSVExtension = ".csv"

// SampleFile is the mock dataset served by SampleData.
const SampleFile = "sample.csv"

// sampleRows caps how many rows SampleData returns.
const sampleRows = 5

// Service is the API service: predictions plus dataset storage and the mock
// training state.
type Service struct {
	*Classifier
	files *storage.Store
	state *state.Store
}

// NewService wires the classifier to its data directory and state store.
func NewService(c *Classifier, files *storage.Store, st *state.Store) *Service {
	return &Service{Classifier: c, files: files, state: st}
}

// UploadCSV stores the upload under its base name, scores it and overwrites
// the stored file with the scored table. The raw upload stays on disk when
// scoring fails.
func (s *Service) UploadCSV(ctx context.Context, filename string, r io.Reader) (types.UploadResponse, error) {
	resp, err := s.uploadCSV(ctx, filename, r)
	return resp, observeError(sourceUpload, err)
}

func (s *Service) uploadCSV(ctx context.Context, filename string, r io.Reader) (types.UploadResponse, error) {
	if !strings.HasSuffix(filename, CSVExtension) {
		return types.UploadResponse{}, invalidf("Only CSV files are accepted.")
	}
	name, err := storage.CleanName(filename)
	if err != nil {
		return types.UploadResponse{}, invalid(err)
	}
	path, err := s.files.Save(name, r)
	if err != nil {
		return types.UploadResponse{}, err
	}
	tbl, err := frame.ReadFile(path)
	if err != nil {
		if frame.IsMalformed(err) {
			return types.UploadResponse{}, invalid(err)
		}
		return types.UploadResponse{}, err
	}
	if err := s.PredictTable(ctx, tbl); err != nil {
		return types.UploadResponse{}, err
	}
	if err := tbl.WriteFile(path); err != nil {
		return types.UploadResponse{}, err
	}
	batchRows.Observe(float64(tbl.Len()))
	if a, err := s.models.Artifact(ctx); err == nil {
		log.Info().Str("file", name).Int("rows", tbl.Len()).Str("model", describe(a)).Msg("dataset scored")
	}
	return types.UploadResponse{
		Message:  "Dataset uploaded successfully",
		Filename: name,
		Rows:     tbl.Len(),
	}, nil
}

// SampleData returns the first rows of the sample dataset, creating the
// mock file on first use.
func (s *Service) SampleData(ctx context.Context) (types.DataResponse, error) {
	path, created, err := s.files.EnsureFile(SampleFile, writeSample)
	if err != nil {
		return types.DataResponse{}, err
	}
	if created {
		log.Info().Str("path", path).Msg("sample dataset created")
	}
	tbl, err := frame.ReadFile(path)
	if err != nil {
		return types.DataResponse{}, err
	}
	return types.DataResponse{Columns: tbl.Columns, Data: tbl.Records(sampleRows)}, nil
}

func writeSample(w io.Writer) error {
	cols := make([]string, 0, len(types.FeatureColumns)+1)
	cols = append(cols, types.FeatureColumns...)
	cols = append(cols, "label")
	tbl := &frame.Table{
		Columns: cols,
		Rows: [][]string{
			{"365", "0.5", "1.0", "5800", "1.0", LabelConfirmed},
			{"42", "0.1", "0.8", "5000", "0.9", LabelCandidate},
		},
	}
	return tbl.Write(w)
}

// Stats returns the current mock model statistics.
func (s *Service) Stats() types.StatsResponse {
	return types.StatsResponse{ModelStats: s.state.Stats()}
}

// Retrain runs the mock retraining step.
func (s *Service) Retrain() types.RetrainResponse {
	st := s.state.Retrain()
	log.Info().Float64("accuracy", st.Accuracy).Str("version", st.Version).Msg("mock retrain")
	return types.RetrainResponse{Message: "Model retraining triggered successfully", NewStats: st}
}

// UpdateConfig merges a partial hyperparameter update.
func (s *Service) UpdateConfig(u types.ConfigUpdate) (types.ConfigResponse, error) {
	h, err := s.state.UpdateHyperparams(u)
	if err != nil {
		if state.IsEmptyUpdate(err) {
			return types.ConfigResponse{}, invalid(err)
		}
		return types.ConfigResponse{}, err
	}
	return types.ConfigResponse{Message: "Hyperparameters updated", CurrentConfig: h}, nil
}
