// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter configures all HTTP routes. A nil cfg selects
// DefaultMiddlewareConfig.
func NewRouter(h *Handler, cfg *MiddlewareConfig) http.Handler {
	if cfg == nil {
		cfg = DefaultMiddlewareConfig()
	}
	r := chi.NewRouter()

	// Global Middleware Stack
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cfg.CORS()) // CORS must be global to handle OPTIONS preflight

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(PrometheusMetrics)
		r.Use(cfg.RateLimit())
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/health", h.Health)
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}", h.GetRun)
		r.Get("/runs/{id}/statistics", h.GetRunStatistics)
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}
