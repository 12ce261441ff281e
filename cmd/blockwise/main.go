// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

// Package main is the blockwise command.
//
// Blockwise learns blocking schemes for record linkage: from a labeled
// training file it selects the blockers whose candidate pairs cover the
// known duplicates, then reports recall, precision and reduction ratio on
// a test file.
//
// # Commands
//
//	blockwise learn --train train.csv [--test test.csv] [--learner dnf] [--save]
//	blockwise evaluate --run <id> --test other.parquet
//	blockwise runs list | show <id> | delete <id>
//	blockwise serve
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command flags (--learner, --template, --store)
//   - Environment variables (BLOCKWISE_*, DATASET_*, STORE_*, HTTP_*, LOG_*)
//   - Config file (--config, $BLOCKWISE_CONFIG or ./blockwise.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// serve shuts down gracefully on SIGINT and SIGTERM: the supervisor tree
// stops the HTTP server within its shutdown timeout and the run store is
// closed last.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
