package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"exovision/internal/frame"
	"exovision/internal/model"
	"exovision/internal/predict"
	"exovision/internal/state"
	"exovision/pkg/types"
)

func TestStatusFor(t *testing.T) {
	_, validation := predict.ValidateRecord(types.PredictRequest{})
	tbl, err := frame.Read(strings.NewReader("orbital_period\n1\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	missingCols := tbl.Require(types.FeatureColumns)
	_, empty := state.New(state.DefaultOptions()).UpdateHyperparams(types.ConfigUpdate{})

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", model.ErrNotFound("m.json"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("serve: %w", model.ErrNotFound("m.json")), http.StatusNotFound},
		{"load", model.ErrLoad("m.json", errors.New("bad json")), http.StatusInternalServerError},
		{"inference", model.ErrInference("X has 3 features"), http.StatusInternalServerError},
		{"validation", validation, http.StatusBadRequest},
		{"missing columns", missingCols, http.StatusBadRequest},
		{"empty update", empty, http.StatusBadRequest},
		{"http error", mockHTTPError{msg: "busy", code: http.StatusTooManyRequests}, http.StatusTooManyRequests},
		{"generic", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if tc.err == nil {
			t.Fatalf("%s: fixture produced no error", tc.name)
		}
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("%s: statusFor=%d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestPredictHandler_ErrorMapping(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{model.ErrLoad("m.json", errors.New("unexpected EOF")), http.StatusInternalServerError},
		{model.ErrInference("X has 4 features, but DecisionTree is expecting 5 features as input"), http.StatusInternalServerError},
		{mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
	} {
		w := postJSON(NewMux(&mockService{predictErr: tc.err}), "/api/predict", earthJSON)
		if w.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, w.Code)
		}
		if e := decodeError(t, w); e.Error != tc.err.Error() {
			t.Fatalf("error=%q, want %q", e.Error, tc.err.Error())
		}
	}
}
