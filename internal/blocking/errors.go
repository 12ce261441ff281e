// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import "github.com/cockroachdb/errors"

var (
	// ErrNoCandidates is returned when no template applies to any attribute
	// of the training data.
	ErrNoCandidates = errors.New("no candidate blockers for the given templates and attributes")

	// ErrNotTrained is returned when evaluation is requested before any
	// blocker was learned or deployed.
	ErrNotTrained = errors.New("no blockers deployed")

	// ErrInvalidDataset marks malformed input data.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrSchemaMismatch is returned when evaluation data does not have the
	// schema the deployed blockers were learned on.
	ErrSchemaMismatch = errors.New("dataset schema does not match the training schema")
)
