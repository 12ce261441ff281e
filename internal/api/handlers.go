// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/store"
	"github.com/tomtom215/blockwise/internal/validation"
)

// RunStore is the part of the run store the API reads.
// Satisfied by *store.Store.
type RunStore interface {
	Get(ctx context.Context, id string) (*store.Run, error)
	List(ctx context.Context, limit int) ([]*store.Run, error)
}

// Handler serves the API endpoints.
type Handler struct {
	store   RunStore
	started time.Time
}

// NewHandler returns a handler reading from st.
func NewHandler(st RunStore) *Handler {
	return &Handler{store: st, started: time.Now()}
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status         string  `json:"status"`
	StoreReachable bool    `json:"store_reachable"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// Health reports liveness and whether the run store answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_, err := h.store.List(r.Context(), 1)
	status := HealthStatus{
		Status:         "healthy",
		StoreReachable: err == nil,
		UptimeSeconds:  time.Since(h.started).Seconds(),
	}
	if err != nil {
		status.Status = "degraded"
	}
	respondData(w, status, Metadata{})
}

// RunSummary is one entry of the run listing.
type RunSummary struct {
	ID          string              `json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	Dataset     string              `json:"dataset"`
	Learner     string              `json:"learner"`
	Blockers    []string            `json:"blockers"`
	StopReason  blocking.StopReason `json:"stop_reason,omitempty"`
	TrainRecall float64             `json:"train_recall"`
	Evaluations int                 `json:"evaluations"`

	// Latest holds the most recent evaluation, if any.
	Latest *blocking.Statistics `json:"latest,omitempty"`
}

func summarize(run *store.Run) RunSummary {
	s := RunSummary{
		ID:          run.ID,
		CreatedAt:   run.CreatedAt,
		Dataset:     run.Dataset,
		Learner:     run.Learner,
		Blockers:    run.BlockerNames(),
		Evaluations: len(run.Evaluations),
	}
	if run.Learning != nil {
		s.StopReason = run.Learning.StopReason
		s.TrainRecall = run.Learning.Recall
	}
	if latest := run.Latest(); latest != nil {
		stats := latest.Statistics
		s.Latest = &stats
	}
	return s
}

// runsQuery holds the query parameters of ListRuns.
type runsQuery struct {
	Limit int `validate:"min=1,max=500"`
}

// ListRuns lists stored runs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := runsQuery{Limit: 50}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(r, w, http.StatusBadRequest, &validation.APIError{
				Code:    "VALIDATION_ERROR",
				Message: "limit must be an integer",
			}, nil)
			return
		}
		q.Limit = n
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		respondError(r, w, http.StatusBadRequest, verr.ToAPIError(), nil)
		return
	}

	start := time.Now()
	runs, err := h.store.List(r.Context(), q.Limit)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, &validation.APIError{
			Code:    "STORE_ERROR",
			Message: "failed to list runs",
		}, err)
		return
	}
	out := make([]RunSummary, len(runs))
	for i, run := range runs {
		out[i] = summarize(run)
	}
	respondData(w, out, Metadata{QueryTimeMS: time.Since(start).Milliseconds(), Count: len(out)})
}

// GetRun returns one stored run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondData(w, run, Metadata{})
}

// GetRunStatistics returns the latest statistics record of a run, with
// the field names in record order.
func (h *Handler) GetRunStatistics(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	latest := run.Latest()
	if latest == nil {
		respondError(r, w, http.StatusNotFound, &validation.APIError{
			Code:    "NOT_EVALUATED",
			Message: "run has no evaluation",
		}, nil)
		return
	}
	respondData(w, map[string]any{
		"header":     latest.Statistics.Header(),
		"values":     latest.Statistics.Values(),
		"dataset":    latest.Dataset,
		"evaluated":  latest.At,
		"statistics": latest.Statistics,
	}, Metadata{})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	id := chi.URLParam(r, "id")
	run, err := h.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		respondError(r, w, http.StatusNotFound, &validation.APIError{
			Code:    "NOT_FOUND",
			Message: "run not found",
			Details: map[string]any{"id": id},
		}, nil)
		return nil, false
	case err != nil:
		respondError(r, w, http.StatusInternalServerError, &validation.APIError{
			Code:    "STORE_ERROR",
			Message: "failed to load run",
		}, err)
		return nil, false
	}
	return run, true
}
