// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package learners selects the blockers to deploy from a candidate pool.

The pool holds one blocker per template and compatible attribute, each
indexed over the training records.

# Learners

  - setcover: greedy weighted set cover over the true pairs. Each step
    picks the candidate with the highest cover estimate above
    MinImprovement, then prunes candidates whose estimate was zero.
  - dnf: setcover over a pool extended with conjunctions of two
    candidates on different attributes.
  - random: the pool in seeded random order.
  - manual: a fixed list of blockers, combined into one conjunction.

# Stopping

The greedy loop stops when recall reaches MinRecall, when at most Epsilon
true pairs remain uncovered, when the pool is empty, when MaxBlockers are
selected, or when no candidate improves enough. The reason is recorded in
blocking.LearnerRun.StopReason.

After the loop, a selected blocker whose true pairs are a strict subset of
those of a later selection is dropped.

# Usage

	learner, err := learners.New(cfg, logger)
	if err != nil {
	    return err
	}
	run, err := learner.Learn(ctx, blockers.DefaultTemplates(), train)
*/
package learners
