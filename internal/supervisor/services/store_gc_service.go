// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/blockwise/internal/logging"
)

// GarbageCollector is satisfied by *store.Store.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCService runs value log garbage collection of the run store on an
// interval. A failed pass ends Serve with the error so that the supervisor
// restarts the loop with backoff.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewStoreGCService returns the service. A non-positive interval selects
// 10 minutes.
func NewStoreGCService(gc GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{gc: gc, interval: interval, name: "store-gc"}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(); err != nil {
				return fmt.Errorf("store GC failed: %w", err)
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("store GC complete")
		}
	}
}

// String names the service in supervisor events.
func (s *StoreGCService) String() string {
	return s.name
}
