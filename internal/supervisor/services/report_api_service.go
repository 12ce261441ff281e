// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/blockwise/internal/logging"
)

// ReportServer is satisfied by *http.Server.
type ReportServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// ReportAPIService serves the run report API on addr until its context is
// canceled, then drains open requests within drainTimeout.
type ReportAPIService struct {
	server       ReportServer
	addr         string
	drainTimeout time.Duration
}

// NewReportAPIService wraps server listening on addr. A non-positive
// drainTimeout selects 10s.
func NewReportAPIService(server ReportServer, addr string, drainTimeout time.Duration) *ReportAPIService {
	if drainTimeout <= 0 {
		drainTimeout = 10 * time.Second
	}
	return &ReportAPIService{server: server, addr: addr, drainTimeout: drainTimeout}
}

// Serve implements suture.Service. A canceled context drains the API and
// returns the context error. The listener closing on its own is an error so
// the supervisor restarts the API.
func (s *ReportAPIService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()
	started := time.Now()
	logging.Info().Str("addr", s.addr).Msg("report API listening")

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("report API listen on %s: %w", s.addr, err)
		}
		return fmt.Errorf("report API on %s closed unexpectedly", s.addr)

	case <-ctx.Done():
		drainCtx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
		defer cancel()

		if err := s.server.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("report API on %s drain: %w", s.addr, err)
		}
		<-listenErr
		logging.Info().
			Str("addr", s.addr).
			Dur("uptime", time.Since(started)).
			Msg("report API stopped")
		return ctx.Err()
	}
}

func (s *ReportAPIService) String() string {
	return "report-api(" + s.addr + ")"
}
