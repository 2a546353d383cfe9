package predict

import (
	"errors"
	"fmt"
	"strings"
)

// validationError marks input the caller must fix. It wraps the underlying
// cause so more specific predicates (frame.IsMissingColumns, ...) still match.
type validationError struct {
	msg string
	err error
}

func (e validationError) Error() string {
	if e.msg == "" && e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func (e validationError) Unwrap() error { return e.err }

func invalid(err error) error { return validationError{err: err} }

func invalidf(format string, a ...any) error {
	return validationError{msg: fmt.Sprintf(format, a...)}
}

// IsValidation reports whether err was caused by bad caller input.
func IsValidation(err error) bool {
	var e validationError
	return errors.As(err, &e)
}

// missingFeaturesError names declared model features absent from request rows.
type missingFeaturesError struct{ names []string }

func (e missingFeaturesError) Error() string {
	return "missing required features: " + strings.Join(e.names, ", ")
}

// IsMissingFeatures reports whether err rejected rows lacking declared features.
func IsMissingFeatures(err error) bool {
	var e missingFeaturesError
	return errors.As(err, &e)
}

// MissingFeatures returns the feature names carried by err, if any.
func MissingFeatures(err error) []string {
	var e missingFeaturesError
	if errors.As(err, &e) {
		return append([]string(nil), e.names...)
	}
	return nil
}
