// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type mockReportServer struct {
	listenErr     error
	shutdownErr   error
	closeEarly    bool
	shutdownCalls atomic.Int32
	stop          chan struct{}
}

func newMockReportServer() *mockReportServer {
	return &mockReportServer{stop: make(chan struct{})}
}

func (m *mockReportServer) ListenAndServe() error {
	if m.listenErr != nil {
		return m.listenErr
	}
	if !m.closeEarly {
		<-m.stop
	}
	return http.ErrServerClosed
}

func (m *mockReportServer) Shutdown(context.Context) error {
	if m.shutdownCalls.Add(1) == 1 {
		close(m.stop)
	}
	return m.shutdownErr
}

func TestReportAPIService_Drain(t *testing.T) {
	srv := newMockReportServer()
	svc := NewReportAPIService(srv, "127.0.0.1:8741", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if srv.shutdownCalls.Load() != 1 {
		t.Errorf("Shutdown called %d times, want 1", srv.shutdownCalls.Load())
	}
}

func TestReportAPIService_ListenError(t *testing.T) {
	srv := newMockReportServer()
	srv.listenErr = errors.New("address in use")
	svc := NewReportAPIService(srv, ":8741", 0)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, srv.listenErr) {
		t.Fatalf("Serve() = %v, want wrapped listen error", err)
	}
	if !strings.Contains(err.Error(), "report API listen on :8741") {
		t.Errorf("Serve() = %q, want the API address in the error", err)
	}
	if svc.drainTimeout != 10*time.Second {
		t.Errorf("default drain timeout = %v", svc.drainTimeout)
	}
}

func TestReportAPIService_ClosedEarly(t *testing.T) {
	srv := newMockReportServer()
	srv.closeEarly = true
	svc := NewReportAPIService(srv, ":8741", time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "closed unexpectedly") {
		t.Errorf("Serve() = %v, want an unexpected close error", err)
	}
}

func TestReportAPIService_DrainError(t *testing.T) {
	srv := newMockReportServer()
	srv.shutdownErr = errors.New("stuck connections")
	svc := NewReportAPIService(srv, ":8741", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.Serve(ctx)
	if !errors.Is(err, srv.shutdownErr) {
		t.Errorf("Serve() = %v, want wrapped shutdown error", err)
	}
	if svc.String() != "report-api(:8741)" {
		t.Errorf("String() = %q", svc.String())
	}
}

type mockGC struct {
	calls atomic.Int32
	err   error
}

func (m *mockGC) RunGC() error {
	m.calls.Add(1)
	return m.err
}

func TestStoreGCService_RunsOnInterval(t *testing.T) {
	gc := &mockGC{}
	svc := NewStoreGCService(gc, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if gc.calls.Load() < 2 {
		t.Errorf("RunGC called %d times, want at least 2", gc.calls.Load())
	}
}

func TestStoreGCService_Failure(t *testing.T) {
	gc := &mockGC{err: errors.New("value log corrupt")}
	svc := NewStoreGCService(gc, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, gc.err) {
		t.Errorf("Serve() = %v, want wrapped GC error", err)
	}
	if gc.calls.Load() != 1 {
		t.Errorf("RunGC called %d times, want 1", gc.calls.Load())
	}
}

func TestStoreGCService_Defaults(t *testing.T) {
	svc := NewStoreGCService(&mockGC{}, 0)
	if svc.interval != 10*time.Minute || svc.String() != "store-gc" {
		t.Errorf("interval %v name %q", svc.interval, svc.String())
	}
}
