// Package client is an HTTP client for the API and classifier services.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"exovision/pkg/types"
)

// APIError is a non-2xx response decoded from the server's error payload.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exovision: %d %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status of the failed call.
func (e *APIError) StatusCode() int { return e.Status }

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var e *APIError
	return errors.As(err, &e) && e.Status == status
}

// Client talks to one server base URL.
type Client struct {
	base string
	rest *resty.Client
}

// New returns a client for base (e.g. http://localhost:8000). A zero timeout
// falls back to 30s.
func New(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(30 * time.Second) // default fallback
	}
	r.SetHeader("Accept", "application/json")
	return &Client{base: strings.TrimRight(base, "/"), rest: r}
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.rest.R().SetContext(ctx).SetResult(result).SetError(&types.ErrorResponse{})
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, c.base+path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return checkResponse(resp)
}

func checkResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	msg := strings.TrimSpace(resp.String())
	if e, ok := resp.Error().(*types.ErrorResponse); ok && e.Error != "" {
		msg = e.Error
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}

// Welcome calls GET /.
func (c *Client) Welcome(ctx context.Context) (types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, resty.MethodGet, "/", nil, &out)
	return out, err
}

// Predict classifies one record via POST /api/predict.
func (c *Client) Predict(ctx context.Context, rec types.FeatureRecord) (types.PredictResponse, error) {
	var out types.PredictResponse
	err := c.do(ctx, resty.MethodPost, "/api/predict", rec, &out)
	return out, err
}

// Upload sends a CSV dataset via POST /api/upload.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (types.UploadResponse, error) {
	var out types.UploadResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetFileReader("file", filename, r).
		SetResult(&out).
		SetError(&types.ErrorResponse{}).
		Post(c.base + "/api/upload")
	if err != nil {
		return out, fmt.Errorf("POST /api/upload: %w", err)
	}
	return out, checkResponse(resp)
}

// Retrain triggers the mock retraining step.
func (c *Client) Retrain(ctx context.Context) (types.RetrainResponse, error) {
	var out types.RetrainResponse
	err := c.do(ctx, resty.MethodPost, "/api/retrain", nil, &out)
	return out, err
}

// Stats fetches the current model statistics.
func (c *Client) Stats(ctx context.Context) (types.StatsResponse, error) {
	var out types.StatsResponse
	err := c.do(ctx, resty.MethodGet, "/api/stats", nil, &out)
	return out, err
}

// UpdateConfig sends a partial hyperparameter update.
func (c *Client) UpdateConfig(ctx context.Context, u types.ConfigUpdate) (types.ConfigResponse, error) {
	var out types.ConfigResponse
	err := c.do(ctx, resty.MethodPost, "/api/config", u, &out)
	return out, err
}

// Data fetches the sample dataset preview.
func (c *Client) Data(ctx context.Context) (types.DataResponse, error) {
	var out types.DataResponse
	err := c.do(ctx, resty.MethodGet, "/api/data", nil, &out)
	return out, err
}

// PredictRows calls POST /predict on the classifier service.
func (c *Client) PredictRows(ctx context.Context, rows []types.Row) (types.RowsResponse, error) {
	var out types.RowsResponse
	err := c.do(ctx, resty.MethodPost, "/predict", types.RowsRequest{Rows: rows}, &out)
	return out, err
}

// Ready reports whether /readyz answers 200.
func (c *Client) Ready(ctx context.Context) (bool, error) {
	resp, err := c.rest.R().SetContext(ctx).Get(c.base + "/readyz")
	if err != nil {
		return false, err
	}
	return resp.StatusCode() == 200, nil
}
