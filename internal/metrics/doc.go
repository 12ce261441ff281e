// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package metrics provides Prometheus instrumentation for learning runs,
evaluations, the run store and the report API.

Collectors are registered with the default registry through promauto and
exposed by the report API at /metrics:

	curl http://localhost:8390/metrics

# Available Metrics

Learning:
  - blockwise_learner_runs_total: Learning runs (counter)
    Labels: learner, outcome
  - blockwise_learner_stops_total: Stop reasons of successful runs (counter)
    Labels: learner, reason
  - blockwise_learner_duration_seconds: Learning time (histogram)
    Labels: learner
  - blockwise_learner_candidate_pool: Candidates of the last run (gauge)
    Labels: learner
  - blockwise_learner_selected_blockers: Blockers selected by the last run (gauge)
    Labels: learner
  - blockwise_index_build_duration_seconds: Candidate index builds (histogram)
    Labels: kind

Evaluation:
  - blockwise_evaluations_total: Evaluations (counter)
    Labels: outcome
  - blockwise_evaluation_recall, blockwise_evaluation_precision,
    blockwise_evaluation_reduction_ratio: Last evaluation of a dataset (gauge)
    Labels: dataset
  - blockwise_pairs_blocked_total: Candidate pairs produced (counter)

Store:
  - blockwise_store_operations_total: Run store operations (counter)
    Labels: operation, outcome
  - blockwise_store_runs: Stored runs after the last listing (gauge)
  - blockwise_run_cache_lookups_total: Run cache lookups (counter)
    Labels: result

API:
  - blockwise_api_requests_total, blockwise_api_request_duration_seconds,
    blockwise_api_requests_in_flight

# Usage

	start := time.Now()
	run, err := engine.Train(ctx, train)
	metrics.RecordLearnerRun(name, string(run.StopReason), run.CandidatePool,
	    len(run.Selected), time.Since(start), err)
*/
package metrics
