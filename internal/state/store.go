// Package state holds the mock training configuration and model statistics.
// Values live in memory only and reset on restart.
package state

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"exovision/pkg/types"
)

// Options seeds a Store.
type Options struct {
	Hyperparams types.Hyperparams
	Stats       types.ModelStats
	// RetrainStep is added to accuracy on every retrain.
	RetrainStep float64
	// AccuracyCeiling is never exceeded by retrain.
	AccuracyCeiling float64
	// VersionStep is added to the numeric part of the version string.
	VersionStep float64
}

// DefaultOptions mirrors the values the service ships with.
func DefaultOptions() Options {
	return Options{
		Hyperparams:     types.Hyperparams{LearningRate: 0.01, NEstimators: 100, MaxDepth: 5},
		Stats:           types.ModelStats{Accuracy: 0.91, Precision: 0.89, Recall: 0.90, Version: "v1.0"},
		RetrainStep:     0.01,
		AccuracyCeiling: 0.97,
		VersionStep:     0.1,
	}
}

// emptyUpdateError rejects a config update that carries no fields.
type emptyUpdateError struct{}

func (emptyUpdateError) Error() string { return "No parameters provided to update." }

// IsEmptyUpdate reports whether err rejected an empty config update.
func IsEmptyUpdate(err error) bool {
	var e emptyUpdateError
	return errors.As(err, &e)
}

// Store is safe for concurrent use. Getters return copies.
type Store struct {
	mu      sync.RWMutex
	hyper   types.Hyperparams
	stats   types.ModelStats
	step    float64
	ceiling float64
	vstep   float64
}

// New creates a Store; zero retrain settings fall back to DefaultOptions.
func New(opts Options) *Store {
	def := DefaultOptions()
	if opts.RetrainStep <= 0 {
		opts.RetrainStep = def.RetrainStep
	}
	if opts.AccuracyCeiling <= 0 {
		opts.AccuracyCeiling = def.AccuracyCeiling
	}
	if opts.VersionStep <= 0 {
		opts.VersionStep = def.VersionStep
	}
	return &Store{
		hyper:   opts.Hyperparams,
		stats:   opts.Stats,
		step:    opts.RetrainStep,
		ceiling: opts.AccuracyCeiling,
		vstep:   opts.VersionStep,
	}
}

func (s *Store) Hyperparams() types.Hyperparams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hyper
}

func (s *Store) Stats() types.ModelStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// UpdateHyperparams merges the non-nil fields of u. An update without fields
// is rejected rather than treated as a no-op.
func (s *Store) UpdateHyperparams(u types.ConfigUpdate) (types.Hyperparams, error) {
	if u.Empty() {
		return types.Hyperparams{}, emptyUpdateError{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.LearningRate != nil {
		s.hyper.LearningRate = *u.LearningRate
	}
	if u.NEstimators != nil {
		s.hyper.NEstimators = *u.NEstimators
	}
	if u.MaxDepth != nil {
		s.hyper.MaxDepth = *u.MaxDepth
	}
	return s.hyper, nil
}

// Retrain simulates a training run: accuracy moves up by the step without
// passing the ceiling and the version is bumped. No model is touched.
func (s *Store) Retrain() types.ModelStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats.Accuracy < s.ceiling {
		s.stats.Accuracy = math.Min(round4(s.stats.Accuracy+s.step), s.ceiling)
	}
	s.stats.Version = bumpVersion(s.stats.Version, s.vstep)
	return s.stats
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }

// bumpVersion turns "v1.0" into "v1.1" for step 0.1. An unparseable version
// restarts from zero.
func bumpVersion(v string, step float64) string {
	n, err := strconv.ParseFloat(strings.TrimPrefix(v, "v"), 64)
	if err != nil {
		n = 0
	}
	return fmt.Sprintf("v%.1f", n+step)
}
