// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package learners

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/blockers"
)

// Manual deploys a fixed list of blockers without learning. More than one
// blocker is combined into a single conjunction. Templates are ignored.
type Manual struct {
	descs  []blocking.Descriptor
	logger zerolog.Logger
}

// NewManual parses the configured blockers, written as
// "kind(attribute;key=value)".
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewManual(cfg ManualConfig, logger zerolog.Logger) (*Manual, error) {
	if len(cfg.Blockers) == 0 {
		return nil, errors.New("manual: no blockers configured")
	}
	descs := make([]blocking.Descriptor, len(cfg.Blockers))
	for i, s := range cfg.Blockers {
		d, err := blockers.ParseDescriptor(s)
		if err != nil {
			return nil, errors.Wrap(err, "manual")
		}
		descs[i] = d
	}
	return &Manual{
		descs:  descs,
		logger: logger.With().Str("learner", NameManual).Logger(),
	}, nil
}

// Name implements blocking.Learner.
func (m *Manual) Name() string { return NameManual }

// Learn implements blocking.Learner.
func (m *Manual) Learn(ctx context.Context, _ []blocking.Template, train *blocking.Dataset) (*blocking.LearnerRun, error) {
	start := time.Now()

	bs, err := blockers.NewAll(m.descs, train)
	if err != nil {
		return nil, err
	}
	var selected blocking.Blocker = bs[0]
	if len(bs) > 1 {
		selected = blockers.NewCombo(bs...)
	}

	run := &blocking.LearnerRun{
		Learner:       NameManual,
		CandidatePool: len(bs),
		Selected:      []blocking.Blocker{selected},
		StopReason:    blocking.StopFixed,
	}
	if err := summarize(ctx, run, train, 1); err != nil {
		return nil, err
	}
	m.logger.Info().
		Str("blocker", selected.String()).
		Float64("recall", run.Recall).
		Msg("fixed blocker deployed")
	run.Duration = time.Since(start)
	return run, nil
}
