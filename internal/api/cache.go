// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/tomtom215/blockwise/internal/metrics"
	"github.com/tomtom215/blockwise/internal/store"
)

// CachedRunStore keeps decoded runs in memory in front of a RunStore.
//
// The report API never writes runs and the run store is locked by the
// serving process, so entries only expire by TTL or eviction. List is not
// cached.
type CachedRunStore struct {
	RunStore
	cache *ristretto.Cache[string, *store.Run]
	ttl   time.Duration
}

// NewCachedRunStore caches up to size runs of st for ttl each. A
// non-positive ttl keeps entries until they are evicted.
func NewCachedRunStore(st RunStore, size int, ttl time.Duration) (*CachedRunStore, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *store.Run]{
		NumCounters:        int64(size) * 10,
		MaxCost:            int64(size),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run cache: %w", err)
	}
	return &CachedRunStore{RunStore: st, cache: cache, ttl: ttl}, nil
}

// Get returns the run from the cache, loading it from the store on a miss.
func (c *CachedRunStore) Get(ctx context.Context, id string) (*store.Run, error) {
	if run, ok := c.cache.Get(id); ok {
		metrics.RecordRunCacheLookup(true)
		return run, nil
	}
	metrics.RecordRunCacheLookup(false)

	run, err := c.RunStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Each run costs 1 and internal cost is ignored, so MaxCost is the
	// entry count.
	if c.ttl > 0 {
		c.cache.SetWithTTL(id, run, 1, c.ttl)
	} else {
		c.cache.Set(id, run, 1)
	}
	c.cache.Wait()
	return run, nil
}

// Close releases the cache goroutines.
func (c *CachedRunStore) Close() {
	c.cache.Close()
}
