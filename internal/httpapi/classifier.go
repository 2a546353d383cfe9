package httpapi

import (
	"context"
	"net/http"
	"time"

	"exovision/pkg/types"
)

// RowsService defines the methods required by the classifier service.
type RowsService interface {
	PredictRows(ctx context.Context, req types.RowsRequest) (types.RowsResponse, error)
	Ready() bool
}

// NewClassifierMux builds the router of the standalone classifier service.
func NewClassifierMux(svc RowsService) http.Handler {
	r := newRouter()
	r.Post("/predict", handlePredictRows(svc))
	mountProbes(r, svc.Ready)
	return r
}

// handlePredictRows godoc
// @Summary  Classify a list of feature rows
// @Tags     classifier
// @Accept   json
// @Produce  json
// @Param    body body types.RowsRequest true "Rows keyed by feature name"
// @Success  200 {object} types.RowsResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /predict [post]
func handlePredictRows(svc RowsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if !requireJSON(w, r, "predict_rows", start) {
			return
		}
		var req types.RowsRequest
		if err := decodeJSON(w, r, &req, false, false); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			logEnd(r, "predict_rows", start, http.StatusBadRequest, err)
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		resp, err := svc.PredictRows(ctx, req)
		if err != nil {
			fail(w, r, "predict_rows", start, err)
			return
		}
		logDebug(r).Int("rows", len(req.Rows)).Msg("predict rows result")
		writeJSON(w, resp)
		logEnd(r, "predict_rows", start, http.StatusOK, nil)
	}
}
