package model

import (
	"errors"
	"fmt"
)

// notFoundError signals a missing model artifact so the HTTP layer can return 404.
type notFoundError struct{ path string }

func (e notFoundError) Error() string { return "model file not found: " + e.path }

// ErrNotFound constructs a notFoundError for path.
func ErrNotFound(path string) error { return notFoundError{path: path} }

// IsNotFound reports whether err indicates a missing model artifact.
func IsNotFound(err error) bool {
	var e notFoundError
	return errors.As(err, &e)
}

// loadError wraps a failure to read or decode an artifact that exists on disk.
type loadError struct {
	path string
	err  error
}

func (e loadError) Error() string { return fmt.Sprintf("failed to load model %s: %v", e.path, e.err) }
func (e loadError) Unwrap() error { return e.err }

// ErrLoad constructs a loadError.
func ErrLoad(path string, err error) error { return loadError{path: path, err: err} }

// IsLoadError reports whether err indicates a corrupt or undecodable artifact.
func IsLoadError(err error) bool {
	var e loadError
	return errors.As(err, &e)
}

// inferenceError signals that the estimator could not be invoked on the given input.
type inferenceError struct{ msg string }

func (e inferenceError) Error() string { return e.msg }

// ErrInference constructs an inferenceError from a format string.
func ErrInference(format string, a ...any) error {
	return inferenceError{msg: fmt.Sprintf(format, a...)}
}

// IsInference reports whether err is a model invocation failure.
func IsInference(err error) bool {
	var e inferenceError
	return errors.As(err, &e)
}
