// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/blockwise/internal/logging"
	"github.com/tomtom215/blockwise/internal/metrics"
)

// Key prefixes for BadgerDB storage
const (
	runKeyPrefix     = "run:"
	runTimeKeyPrefix = "run_time:"
)

// DefaultGCRatio is the value log discard ratio used by RunGC.
const DefaultGCRatio = 0.5

// Errors
var (
	// ErrRunNotFound is returned when a run doesn't exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrStoreClosed is returned after Close.
	ErrStoreClosed = errors.New("run store is closed")
)

// Options configures Open.
type Options struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in memory, for tests and one-shot runs.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool
}

// Store persists runs in BadgerDB. It is safe for concurrent use.
type Store struct {
	db       *badger.DB
	inMemory bool

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the run store.
func Open(opts Options) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("open run store: path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
		bopts.SyncWrites = opts.SyncWrites
	}

	// Reduce logging verbosity
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Msg("run store opened")
	return &Store{db: db, inMemory: opts.InMemory}, nil
}

// Close closes the store. Further calls fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// guard returns ErrStoreClosed after Close or the context error.
// The caller holds s.mu for reading.
func (s *Store) guard(ctx context.Context) error {
	if s.closed {
		return ErrStoreClosed
	}
	return ctx.Err()
}

func timeKey(r *Run) []byte {
	// Zero-padded so that byte order is time order.
	return []byte(fmt.Sprintf("%s%020d:%s", runTimeKeyPrefix, r.CreatedAt.UnixNano(), r.ID))
}

// Save stores run. A run without an ID gets a new one, and a zero
// CreatedAt is set to now. Saving an existing ID replaces the run.
func (s *Store) Save(ctx context.Context, run *Run) (err error) {
	defer func() { metrics.RecordStoreOperation("save", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(ctx); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		old, err := getRun(txn, run.ID)
		switch {
		case err == nil:
			if err := txn.Delete(timeKey(old)); err != nil {
				return fmt.Errorf("delete time index: %w", err)
			}
		case !errors.Is(err, ErrRunNotFound):
			return err
		}
		if err := txn.Set([]byte(runKeyPrefix+run.ID), data); err != nil {
			return fmt.Errorf("set run: %w", err)
		}
		if err := txn.Set(timeKey(run), []byte(run.ID)); err != nil {
			return fmt.Errorf("set time index: %w", err)
		}
		return nil
	})
}

// Get retrieves a run by ID.
func (s *Store) Get(ctx context.Context, id string) (run *Run, err error) {
	defer func() { metrics.RecordStoreOperation("get", ignoreNotFound(err)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		var getErr error
		run, getErr = getRun(txn, id)
		return getErr
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

func getRun(txn *badger.Txn, id string) (*Run, error) {
	item, err := txn.Get([]byte(runKeyPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	var run Run
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &run)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", id, err)
	}
	return &run, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) (runs []*Run, err error) {
	defer func() { metrics.RecordStoreOperation("list", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runTimeKeyPrefix)
		for it.Seek(append([]byte(runTimeKeyPrefix), 0xff)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			run, err := getRun(txn, string(id))
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	if limit <= 0 {
		metrics.StoreRuns.Set(float64(len(runs)))
	}
	return runs, nil
}

// AddEvaluation appends an evaluation to the run with the given ID.
func (s *Store) AddEvaluation(ctx context.Context, id string, ev Evaluation) (err error) {
	defer func() { metrics.RecordStoreOperation("add_evaluation", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		run, err := getRun(txn, id)
		if err != nil {
			return err
		}
		if ev.At.IsZero() {
			ev.At = time.Now().UTC()
		}
		run.Evaluations = append(run.Evaluations, ev)
		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}
		return txn.Set([]byte(runKeyPrefix+id), data)
	})
}

// Delete removes a run by ID.
func (s *Store) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.RecordStoreOperation("delete", ignoreNotFound(err)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		run, err := getRun(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete([]byte(runKeyPrefix + id)); err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		if err := txn.Delete(timeKey(run)); err != nil {
			return fmt.Errorf("delete time index: %w", err)
		}
		return nil
	})
}

// RunGC reclaims value log space until BadgerDB finds nothing to rewrite.
// It is a no-op for in-memory stores.
func (s *Store) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	if s.inMemory {
		return nil
	}

	for {
		err := s.db.RunValueLogGC(DefaultGCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			metrics.RecordStoreOperation("gc", err)
			return fmt.Errorf("run GC: %w", err)
		}
	}
	metrics.RecordStoreOperation("gc", nil)
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrRunNotFound) {
		return nil
	}
	return err
}
