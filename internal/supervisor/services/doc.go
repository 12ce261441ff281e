// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

// Package services adapts Blockwise components to suture.Service.
//
// Each wrapper depends on a small interface rather than the concrete
// component so that it can be tested with doubles.
package services
