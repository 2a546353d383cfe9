package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"exovision/pkg/types"
)

// Service defines the methods required by the API service.
type Service interface {
	PredictRecord(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error)
	UploadCSV(ctx context.Context, filename string, r io.Reader) (types.UploadResponse, error)
	SampleData(ctx context.Context) (types.DataResponse, error)
	Stats() types.StatsResponse
	Retrain() types.RetrainResponse
	UpdateConfig(u types.ConfigUpdate) (types.ConfigResponse, error)
	Ready() bool
}

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Welcome to ExoVision API"

// uploadField is the multipart form field carrying the CSV file.
const uploadField = "file"

// newRouter installs the middleware shared by both services.
func newRouter() chi.Router {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if c := corsMiddleware(); c != nil {
		r.Use(c)
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	return r
}

// mountProbes registers health, readiness, metrics and swagger routes.
func mountProbes(r chi.Router, ready func() bool) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
}

// NewMux builds the API service router.
func NewMux(svc Service) http.Handler {
	r := newRouter()

	r.Get("/", handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Post("/predict", handlePredict(svc))
		r.Post("/upload", handleUpload(svc))
		r.Post("/retrain", handleRetrain(svc))
		r.Get("/stats", handleStats(svc))
		r.Post("/config", handleConfig(svc))
		r.Get("/data", handleData(svc))
	})
	mountProbes(r, svc.Ready)

	return r
}

// handleRoot godoc
// @Summary  Liveness message
// @Tags     api
// @Produce  json
// @Success  200 {object} types.MessageResponse
// @Router   / [get]
func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.MessageResponse{Message: WelcomeMessage})
}

// requireJSON rejects requests whose Content-Type is not JSON.
func requireJSON(w http.ResponseWriter, r *http.Request, op string, start time.Time) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		const msg = "Content-Type must be application/json"
		writeJSONError(w, http.StatusUnsupportedMediaType, msg)
		logEnd(r, op, start, http.StatusUnsupportedMediaType, errors.New(msg))
		return false
	}
	return true
}

// decodeJSON reads a size-limited JSON body into v. Empty bodies are allowed
// when allowEmpty is set and leave v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, strict, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	err := dec.Decode(v)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// fail writes the mapped error status unless the request was abandoned.
func fail(w http.ResponseWriter, r *http.Request, op string, start time.Time, err error) {
	if canceled(r) {
		return
	}
	status := statusFor(err)
	writeJSONError(w, status, err.Error())
	logEnd(r, op, start, status, err)
}

// handlePredict godoc
// @Summary  Classify a single candidate
// @Tags     api
// @Accept   json
// @Produce  json
// @Param    body body types.PredictRequest true "Feature record"
// @Success  200 {object} types.PredictResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  404 {object} types.ErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /api/predict [post]
func handlePredict(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if !requireJSON(w, r, "predict", start) {
			return
		}
		var req types.PredictRequest
		if err := decodeJSON(w, r, &req, true, false); err != nil {
			// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			logEnd(r, "predict", start, http.StatusBadRequest, err)
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		resp, err := svc.PredictRecord(ctx, req)
		if err != nil {
			fail(w, r, "predict", start, err)
			return
		}
		logDebug(r).Interface("input", resp.Input).Str("prediction", resp.Prediction).Msg("predict result")
		writeJSON(w, resp)
		logEnd(r, "predict", start, http.StatusOK, nil)
	}
}

// handleUpload godoc
// @Summary  Score an uploaded CSV dataset
// @Tags     api
// @Accept   mpfd
// @Produce  json
// @Param    file formData file true "CSV dataset"
// @Success  200 {object} types.UploadResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  404 {object} types.ErrorResponse
// @Failure  413 {object} types.ErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /api/upload [post]
func handleUpload(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		f, hdr, err := r.FormFile(uploadField)
		if err != nil {
			status := http.StatusBadRequest
			msg := "multipart field \"file\" is required"
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
				msg = "upload exceeds size limit"
			}
			writeJSONError(w, status, msg)
			logEnd(r, "upload", start, status, err)
			return
		}
		defer f.Close()
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		resp, err := svc.UploadCSV(ctx, hdr.Filename, f)
		if err != nil {
			fail(w, r, "upload", start, err)
			return
		}
		uploadBytesTotal.Add(float64(hdr.Size))
		writeJSON(w, resp)
		logEnd(r, "upload", start, http.StatusOK, nil)
	}
}

// handleRetrain godoc
// @Summary  Trigger mock retraining
// @Tags     api
// @Produce  json
// @Success  200 {object} types.RetrainResponse
// @Router   /api/retrain [post]
func handleRetrain(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writeJSON(w, svc.Retrain())
		logEnd(r, "retrain", start, http.StatusOK, nil)
	}
}

// handleStats godoc
// @Summary  Current model statistics
// @Tags     api
// @Produce  json
// @Success  200 {object} types.StatsResponse
// @Router   /api/stats [get]
func handleStats(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writeJSON(w, svc.Stats())
		logEnd(r, "stats", start, http.StatusOK, nil)
	}
}

// handleConfig godoc
// @Summary  Update training hyperparameters
// @Tags     api
// @Accept   json
// @Produce  json
// @Param    body body types.ConfigUpdate true "Fields to change"
// @Success  200 {object} types.ConfigResponse
// @Failure  400 {object} types.ErrorResponse
// @Router   /api/config [post]
func handleConfig(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if !requireJSON(w, r, "config", start) {
			return
		}
		var u types.ConfigUpdate
		if err := decodeJSON(w, r, &u, false, true); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			logEnd(r, "config", start, http.StatusBadRequest, err)
			return
		}
		resp, err := svc.UpdateConfig(u)
		if err != nil {
			fail(w, r, "config", start, err)
			return
		}
		writeJSON(w, resp)
		logEnd(r, "config", start, http.StatusOK, nil)
	}
}

// handleData godoc
// @Summary  Sample dataset rows
// @Tags     api
// @Produce  json
// @Success  200 {object} types.DataResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /api/data [get]
func handleData(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, cancel := requestContext(r)
		defer cancel()
		resp, err := svc.SampleData(ctx)
		if err != nil {
			fail(w, r, "data", start, err)
			return
		}
		writeJSON(w, resp)
		logEnd(r, "data", start, http.StatusOK, nil)
	}
}
