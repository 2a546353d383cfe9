package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Estimator type names accepted in artifacts.
const (
	TypeDecisionTree       = "decision_tree"
	TypeRandomForest       = "random_forest"
	TypeLogisticRegression = "logistic_regression"
	TypeLinearSVM          = "linear_svm"
)

// Artifact is a loaded, immutable model: the estimator plus the ordered feature
// names it expects, when the artifact declares them.
type Artifact struct {
	Path      string
	Estimator Estimator
	// Features is nil when the artifact does not declare its inputs.
	Features []string
	// Proba is non-nil only when the estimator can estimate probabilities.
	Proba ProbabilityEstimator
}

// SupportsProbabilities reports whether PositiveProbabilities can succeed.
func (a *Artifact) SupportsProbabilities() bool { return a.Proba != nil }

// PositiveProbabilities returns the probability of the class at column 1 for every row.
func (a *Artifact) PositiveProbabilities(X [][]float64) ([]float64, error) {
	if a.Proba == nil {
		return nil, ErrInference("estimator does not support probability estimates")
	}
	if len(a.Estimator.Classes()) < 2 {
		return nil, ErrInference("estimator has a single class; no positive-class probability")
	}
	proba, err := a.Proba.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(proba))
	for i, p := range proba {
		out[i] = p[1]
	}
	return out, nil
}

// estimatorSpec is the serialized form shared by every estimator type.
type estimatorSpec struct {
	Type      string      `json:"type" yaml:"type"`
	Classes   []int       `json:"classes" yaml:"classes"`
	NFeatures int         `json:"n_features" yaml:"n_features"`
	Nodes     []TreeNode  `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Trees     []treeSpec  `json:"trees,omitempty" yaml:"trees,omitempty"`
	Coef      [][]float64 `json:"coef,omitempty" yaml:"coef,omitempty"`
	Intercept []float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`
}

type treeSpec struct {
	Nodes []TreeNode `json:"nodes" yaml:"nodes"`
}

// artifactDoc accepts both the composite form {model, features} and a bare estimator.
type artifactDoc struct {
	estimatorSpec `yaml:",inline"`
	Model         *estimatorSpec `json:"model,omitempty" yaml:"model,omitempty"`
	Features      []string       `json:"features,omitempty" yaml:"features,omitempty"`
}

// Load reads and decodes the artifact at path. The format is chosen by
// extension: .yaml/.yml, anything else is JSON.
func Load(path string) (*Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound(path)
		}
		return nil, ErrLoad(path, err)
	}
	a, err := Decode(b, filepath.Ext(path))
	if err != nil {
		return nil, ErrLoad(path, err)
	}
	a.Path = path
	return a, nil
}

// Decode builds an Artifact from serialized bytes in the format implied by ext.
func Decode(b []byte, ext string) (*Artifact, error) {
	var doc artifactDoc
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	}

	spec := doc.estimatorSpec
	var features []string
	if doc.Model != nil {
		spec = *doc.Model
		features = doc.Features
	} else if spec.Type == "" {
		return nil, fmt.Errorf("artifact has neither a model nor an estimator type")
	}

	est, err := buildEstimator(spec)
	if err != nil {
		return nil, err
	}
	if features != nil {
		if err := validateFeatures(features, est.NumFeatures()); err != nil {
			return nil, err
		}
	}
	a := &Artifact{Estimator: est, Features: features}
	if p, ok := est.(ProbabilityEstimator); ok {
		a.Proba = p
	}
	return a, nil
}

func buildEstimator(s estimatorSpec) (Estimator, error) {
	if len(s.Classes) == 0 {
		return nil, fmt.Errorf("%s: no classes", s.Type)
	}
	if s.NFeatures <= 0 {
		return nil, fmt.Errorf("%s: n_features must be positive", s.Type)
	}
	switch s.Type {
	case TypeDecisionTree:
		return NewDecisionTree(s.Nodes, s.Classes, s.NFeatures)
	case TypeRandomForest:
		trees := make([][]TreeNode, len(s.Trees))
		for i, t := range s.Trees {
			trees[i] = t.Nodes
		}
		return NewRandomForest(trees, s.Classes, s.NFeatures)
	case TypeLogisticRegression:
		return NewLogisticRegression(s.Coef, s.Intercept, s.Classes, s.NFeatures)
	case TypeLinearSVM:
		return NewLinearSVM(s.Coef, s.Intercept, s.Classes, s.NFeatures)
	default:
		return nil, fmt.Errorf("unsupported estimator type %q", s.Type)
	}
}

func validateFeatures(features []string, nFeatures int) error {
	if len(features) != nFeatures {
		return fmt.Errorf("artifact declares %d features, estimator expects %d", len(features), nFeatures)
	}
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		if f == "" {
			return fmt.Errorf("empty feature name")
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("duplicate feature %q", f)
		}
		seen[f] = struct{}{}
	}
	return nil
}
