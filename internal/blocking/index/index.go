// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package index

import (
	"github.com/cockroachdb/errors"

	"github.com/tomtom215/blockwise/internal/blocking/pairs"
)

// denseLimit bounds the pair space for which PairsAsArray uses a flat boolean
// array. Larger spaces fall back to a compressed bitmap.
const denseLimit = 1 << 24

// Index is the block-key index of one blocker over one dataset.
//
// An Index is built once by a single goroutine and then queried. Cover
// estimates cache the classification of the index's pairs, so concurrent
// queries must be serialized by the caller.
type Index struct {
	numRecords  int
	overlapping bool

	blocks *blockMap
	keys   [][]string

	potential uint64
	computed  bool

	classified bool
	good       []pairs.Code
	bad        uint64

	// all memoizes PairsAsArray for the greedy loop when negatives are
	// tracked.
	all       []pairs.Code
	allCached bool
}

// New returns an empty index over numRecords records.
func New(numRecords int, overlapping bool) *Index {
	return &Index{
		numRecords:  numRecords,
		overlapping: overlapping,
		blocks:      newBlockMap(numRecords),
		keys:        make([][]string, numRecords),
	}
}

// NumRecords returns the number of records the index was created for.
func (x *Index) NumRecords() int { return x.numRecords }

// Overlapping reports whether the owning blocker may emit several keys per record.
func (x *Index) Overlapping() bool { return x.overlapping }

// NumBlocks returns the number of distinct block keys.
func (x *Index) NumBlocks() int {
	if x.blocks == nil {
		return 0
	}
	return x.blocks.Len()
}

// Put adds record to the block named key.
//
// Empty keys are ignored, as is a repeated (record, key) pair, so a block
// never lists the same record twice.
func (x *Index) Put(record int, key string) {
	if key == "" {
		return
	}
	if record < 0 || record >= x.numRecords {
		panic(errors.AssertionFailedf("index: record %d out of range [0, %d)", record, x.numRecords))
	}
	for _, k := range x.keys[record] {
		if k == key {
			return
		}
	}
	x.keys[record] = append(x.keys[record], key)
	x.blocks.add(key, int32(record))
	x.computed = false
	x.classified = false
	x.all, x.allCached = nil, false
}

// RecordKeys returns the block keys of record in insertion order.
func (x *Index) RecordKeys(record int) []string {
	return x.keys[record]
}

// SameBlock reports whether records a and b share at least one block.
func (x *Index) SameBlock(a, b int) bool {
	for _, ka := range x.keys[a] {
		for _, kb := range x.keys[b] {
			if ka == kb {
				return true
			}
		}
	}
	return false
}

// Blocks calls fn for every block until fn returns false. Iteration order is
// unspecified.
func (x *Index) Blocks(fn func(key string, records []int32) bool) {
	x.blocks.All(fn)
}

// ComputePotentialPairs returns the number of within-block pairs, counting a
// pair once per block that contains it.
func (x *Index) ComputePotentialPairs() uint64 {
	if x.computed {
		return x.potential
	}
	var n uint64
	x.blocks.All(func(_ string, recs []int32) bool {
		n += pairs.Total(len(recs))
		return true
	})
	x.potential = n
	x.computed = true
	return n
}

// ForEachPair calls fn for every within-block pair. Pairs shared by several
// blocks are reported once per block.
func (x *Index) ForEachPair(fn func(pairs.Code)) {
	x.blocks.All(func(_ string, recs []int32) bool {
		for a := 0; a < len(recs)-1; a++ {
			for b := a + 1; b < len(recs); b++ {
				fn(pairs.Encode(int(recs[a]), int(recs[b])))
			}
		}
		return true
	})
}

// PairsAsSet returns the distinct pairs of the index as a hash set.
func (x *Index) PairsAsSet() map[pairs.Code]struct{} {
	set := make(map[pairs.Code]struct{}, x.ComputePotentialPairs())
	x.ForEachPair(func(c pairs.Code) {
		set[c] = struct{}{}
	})
	return set
}

// PairsAsArray returns the distinct pairs of the index in ascending order.
//
// Small pair spaces are deduplicated with a boolean array indexed by pair
// code; larger ones with a roaring bitmap.
func (x *Index) PairsAsArray() []pairs.Code {
	total := pairs.Total(x.numRecords)
	if total <= denseLimit {
		seen := make([]bool, total)
		var n int
		x.ForEachPair(func(c pairs.Code) {
			if !seen[c] {
				seen[c] = true
				n++
			}
		})
		out := make([]pairs.Code, 0, n)
		for c, ok := range seen {
			if ok {
				out = append(out, pairs.Code(c))
			}
		}
		return out
	}

	cov := pairs.NewCoverage()
	x.ForEachPair(func(c pairs.Code) {
		cov.Add(c)
	})
	return cov.Codes()
}

// Release drops the block map and reverse key lists. The index must not be
// used afterwards.
func (x *Index) Release() {
	if x.blocks != nil {
		x.blocks.Close()
		x.blocks = nil
	}
	x.keys = nil
	x.good = nil
	x.all, x.allCached = nil, false
}
