// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package learners

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/tomtom215/blockwise/internal/blocking"
)

// Compile-time interface checks.
var (
	_ blocking.Learner = (*SetCover)(nil)
	_ blocking.Learner = (*DNF)(nil)
	_ blocking.Learner = (*Random)(nil)
	_ blocking.Learner = (*Manual)(nil)
)

// New returns the learner selected by cfg. A nil cfg selects DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *Config, logger zerolog.Logger) (blocking.Learner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid learner config")
	}
	logger = logger.With().Str("component", "learner").Logger()

	switch cfg.Learner {
	case NameSetCover:
		return NewSetCover(cfg.SetCover, logger)
	case NameDNF:
		return NewDNF(cfg.SetCover, cfg.DNF, logger)
	case NameRandom:
		return NewRandom(cfg.Random, logger), nil
	default:
		return NewManual(cfg.Manual, logger)
	}
}

// Names returns the accepted learner names.
func Names() []string {
	return []string{NameSetCover, NameDNF, NameRandom, NameManual}
}
