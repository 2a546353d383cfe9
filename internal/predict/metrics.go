package predict

import (
	"github.com/prometheus/client_golang/prometheus"

	"exovision/internal/model"
)

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "exovision",
			Subsystem: "predict",
			Name:      "predictions_total",
			Help:      "Rows classified, by entry point and resulting label",
		},
		[]string{"source", "label"},
	)

	predictErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "exovision",
			Subsystem: "predict",
			Name:      "errors_total",
			Help:      "Failed prediction requests, by entry point and kind",
		},
		[]string{"source", "kind"},
	)

	batchRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "exovision",
			Subsystem: "predict",
			Name:      "batch_rows",
			Help:      "Rows per uploaded dataset",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(predictionsTotal, predictErrorsTotal, batchRows)
}

// Entry point labels.
const (
	sourceRecord = "record"
	sourceUpload = "upload"
	sourceRows   = "rows"
)

func observeLabels(source string, codes []int) {
	for _, c := range codes {
		predictionsTotal.WithLabelValues(source, Label(c)).Inc()
	}
}

func observeError(source string, err error) error {
	if err == nil {
		return nil
	}
	kind := "internal"
	switch {
	case IsValidation(err):
		kind = "validation"
	case model.IsNotFound(err):
		kind = "model_not_found"
	case model.IsLoadError(err):
		kind = "model_load"
	case model.IsInference(err):
		kind = "inference"
	}
	predictErrorsTotal.WithLabelValues(source, kind).Inc()
	return err
}
