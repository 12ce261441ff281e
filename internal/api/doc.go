// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package api serves stored learning runs over HTTP with the Chi router.

# Endpoints

	GET /api/v1/health                   liveness and store reachability
	GET /api/v1/runs?limit=N             run summaries, newest first
	GET /api/v1/runs/{id}                one run with its evaluations
	GET /api/v1/runs/{id}/statistics     the latest statistics record
	GET /metrics                         Prometheus metrics

Every JSON response has the envelope

	{"status": "success", "data": ..., "metadata": {"timestamp": ...}}

and errors carry {"code", "message", "details"} under "error".

# Middleware

Requests get an X-Request-ID that is attached to their log lines. CORS is
handled by go-chi/cors and per-client rate limiting by go-chi/httprate.
JSON responses under /api/v1 are gzip compressed when the client accepts it.

# Caching

CachedRunStore keeps decoded runs in a ristretto cache so that repeated
lookups of a run skip the BadgerDB read and JSON decode.
*/
package api
