package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"exovision/internal/frame"
	"exovision/internal/model"
	"exovision/internal/predict"
	"exovision/internal/state"
	"exovision/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps a service error to its response status.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case model.IsNotFound(err):
		return http.StatusNotFound
	case predict.IsValidation(err),
		predict.IsMissingFeatures(err),
		frame.IsMissingColumns(err),
		state.IsEmptyUpdate(err):
		return http.StatusBadRequest
	default:
		// LoadError, InferenceError and anything unexpected.
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeJSON encodes v with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
