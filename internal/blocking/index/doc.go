// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package index holds the per-blocker block-key index and the cover estimates
the greedy learners rank candidates with.

# Architecture

An Index maps each block key to the records that produced it and keeps the
reverse list of keys per record. Blocks live in a swiss table keyed by the
block key string and hashed with xxhash. Candidate pairs are enumerated
block by block and encoded with package pairs.

Two cover strategies are provided:

  - RedBlue: new true pairs / (false pairs + smoothing)
  - Chvatal: new true pairs / (new true pairs + new false pairs)

UpdateFoundPairLists folds an index's pairs into a Found value without
mutating its input, so applying it twice yields the same lists.

# Usage

	idx := index.New(ds.Len(), false)
	for r := range ds.Records {
		for _, k := range keys(r) {
			idx.Put(r, k)
		}
	}
	cover := idx.CoverEstimate(truePairs, found, index.CoverOptions{
		Strategy:  index.RedBlue,
		Smoothing: index.DefaultSmoothing,
	})
	found = idx.UpdateFoundPairLists(truePairs, found)
	idx.Release()

# Thread Safety

An Index is not safe for concurrent use. Learners build indices in parallel
but each index is owned by exactly one goroutine at a time.
*/
package index
