// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package store persists learning runs in BadgerDB.

A Run records what a learner selected, as blocker descriptors that
blockers.New rebuilds against any dataset with the same attribute names,
together with the learner diagnostics and every evaluation made with it.

# Keys

	run:<id>                      JSON-encoded Run
	run_time:<unix nanos>:<id>    <id>, for newest-first listing

# Garbage Collection

BadgerDB reclaims value log space only when asked. RunGC does one pass;
the serve command runs it periodically through a supervised service.
*/
package store
