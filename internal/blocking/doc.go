// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package blocking provides learnable blocking for record linkage.

Comparing every pair of N records is quadratic. A blocker maps each record to
block keys and only records sharing a key become candidate pairs. A learner
picks, from many candidate blockers, a small set whose union covers nearly all
duplicate pairs of labeled training data while emitting few non-duplicates.

# Architecture

The package is organized in layers:

  - pairs: pair codes, sorted code lists and roaring coverage sets
  - index: the per-blocker block index and cover estimates
  - blocking: data model, Blocker and Learner interfaces, the Engine,
    evaluation and statistics
  - blockers: the blocker variants, their registry and templates
  - learners: greedy set cover, DNF, random and manual learners

Data flows from records through Blocker.BuildIndex into an index, whose pairs
are merged into a coverage set and counted against the true pairs derived
from record labels.

# Usage

	engine, err := blocking.NewEngine(nil, learner, blockers.DefaultTemplates(), logger)
	if err != nil {
		return err
	}
	run, err := engine.Train(ctx, train)
	if err != nil {
		return err
	}
	stats, _, err := engine.Evaluate(ctx, test)

# Statistics

Statistics carries 21 fields in a fixed order: record count, recall,
precision, reduction ratio and F1, followed by training-pair diagnostics,
test-pair counts, the number of blockers and timings.

# Thread Safety

Engine is safe for concurrent use; its deployed plan is guarded by a
sync.RWMutex. Blockers and indices are not, and are owned by one call at a
time.
*/
package blocking
