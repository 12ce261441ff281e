// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Learner Metrics
	LearnerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockwise_learner_runs_total",
			Help: "Total number of learning runs",
		},
		[]string{"learner", "outcome"}, // outcome: "success", "error"
	)

	LearnerStops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockwise_learner_stops_total",
			Help: "Stop reasons of successful learning runs",
		},
		[]string{"learner", "reason"},
	)

	LearnerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockwise_learner_duration_seconds",
			Help:    "Duration of learning runs in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"learner"},
	)

	LearnerCandidatePool = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockwise_learner_candidate_pool",
			Help: "Number of candidate blockers in the last run",
		},
		[]string{"learner"},
	)

	LearnerSelectedBlockers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockwise_learner_selected_blockers",
			Help: "Number of blockers selected by the last run",
		},
		[]string{"learner"},
	)

	IndexBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockwise_index_build_duration_seconds",
			Help:    "Duration of candidate index builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Evaluation Metrics
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockwise_evaluations_total",
			Help: "Total number of evaluations",
		},
		[]string{"outcome"},
	)

	EvaluationRecall = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockwise_evaluation_recall",
			Help: "Recall of the last evaluation of a dataset",
		},
		[]string{"dataset"},
	)

	EvaluationPrecision = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockwise_evaluation_precision",
			Help: "Precision of the last evaluation of a dataset",
		},
		[]string{"dataset"},
	)

	EvaluationReductionRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockwise_evaluation_reduction_ratio",
			Help: "Reduction ratio of the last evaluation of a dataset",
		},
		[]string{"dataset"},
	)

	PairsBlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockwise_pairs_blocked_total",
			Help: "Total number of candidate pairs produced by evaluations",
		},
	)

	// Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockwise_store_operations_total",
			Help: "Total number of run store operations",
		},
		[]string{"operation", "outcome"},
	)

	StoreRuns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockwise_store_runs",
			Help: "Number of stored runs seen by the last listing",
		},
	)

	RunCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockwise_run_cache_lookups_total",
			Help: "Run cache lookups of the report API",
		},
		[]string{"result"}, // hit, miss
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockwise_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockwise_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockwise_api_requests_in_flight",
			Help: "Number of API requests being served",
		},
	)
)

// outcome maps an error to the outcome label.
func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordLearnerRun records a learning run. stopReason, pool and selected
// are ignored for failed runs.
func RecordLearnerRun(learner, stopReason string, pool, selected int, duration time.Duration, err error) {
	LearnerRuns.WithLabelValues(learner, outcome(err)).Inc()
	LearnerDuration.WithLabelValues(learner).Observe(duration.Seconds())
	if err != nil {
		return
	}
	LearnerStops.WithLabelValues(learner, stopReason).Inc()
	LearnerCandidatePool.WithLabelValues(learner).Set(float64(pool))
	LearnerSelectedBlockers.WithLabelValues(learner).Set(float64(selected))
}

// RecordIndexBuild records the build of one candidate index
func RecordIndexBuild(kind string, duration time.Duration) {
	IndexBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordEvaluation records a successful evaluation of dataset
func RecordEvaluation(dataset string, recall, precision, reductionRatio float64, pairsBlocked uint64) {
	EvaluationsTotal.WithLabelValues("success").Inc()
	EvaluationRecall.WithLabelValues(dataset).Set(recall)
	EvaluationPrecision.WithLabelValues(dataset).Set(precision)
	EvaluationReductionRatio.WithLabelValues(dataset).Set(reductionRatio)
	PairsBlocked.Add(float64(pairsBlocked))
}

// RecordEvaluationError records a failed evaluation
func RecordEvaluationError() {
	EvaluationsTotal.WithLabelValues("error").Inc()
}

// RecordStoreOperation records a run store operation
func RecordStoreOperation(operation string, err error) {
	StoreOperations.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordRunCacheLookup records a run cache hit or miss
func RecordRunCacheLookup(hit bool) {
	if hit {
		RunCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	RunCacheLookups.WithLabelValues("miss").Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
