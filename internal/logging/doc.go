// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package logging provides the process-wide zerolog logger for Blockwise.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "console"})
	logging.Info().Str("dataset", path).Msg("dataset loaded")

Components derive child loggers with a component field and hand them to the
packages they construct:

	logger := logging.WithComponent("blocking")
	engine, err := blocking.NewEngine(cfg, learner, templates, logger)

# Runs

Every learn or evaluate invocation gets a run ID. It travels in the context
and is added to every line logged through Ctx:

	ctx = logging.ContextWithRunID(ctx, runID)
	logging.Ctx(ctx).Info().Msg("training started")

# Configuration

	LOG_LEVEL   trace, debug, info, warn, error (default: info)
	LOG_FORMAT  json, console (default: json)
	LOG_CALLER  include caller file:line (default: false)

# slog

SlogHandler routes log/slog records into zerolog. The supervisor tree uses it
for suture events through sutureslog.
*/
package logging
