// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package learners

import (
	"context"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/index"
)

// Random deploys the candidate pool in a seeded random order. It is the
// baseline the set-cover learners are compared against.
type Random struct {
	config RandomConfig
	logger zerolog.Logger
}

// NewRandom creates a random-order learner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRandom(cfg RandomConfig, logger zerolog.Logger) *Random {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return &Random{
		config: cfg,
		logger: logger.With().Str("learner", NameRandom).Logger(),
	}
}

// Name implements blocking.Learner.
func (r *Random) Name() string { return NameRandom }

// Learn implements blocking.Learner.
func (r *Random) Learn(ctx context.Context, templates []blocking.Template, train *blocking.Dataset) (*blocking.LearnerRun, error) {
	start := time.Now()

	bs := candidateBlockers(templates, train)
	if len(bs) == 0 {
		return nil, errors.Wrapf(blocking.ErrNoCandidates, "%d templates over %d attributes",
			len(templates), len(train.Attributes))
	}

	poolSize := len(bs)
	rng := rand.New(rand.NewSource(r.config.Seed)) //nolint:gosec // math/rand is fine for shuffling
	rng.Shuffle(len(bs), func(i, j int) { bs[i], bs[j] = bs[j], bs[i] })
	if r.config.MaxBlockers > 0 && len(bs) > r.config.MaxBlockers {
		for _, b := range bs[r.config.MaxBlockers:] {
			blocking.Release(b)
		}
		bs = bs[:r.config.MaxBlockers]
	}

	run := &blocking.LearnerRun{
		Learner:       NameRandom,
		CandidatePool: poolSize,
		Selected:      bs,
		StopReason:    blocking.StopFixed,
	}
	if err := summarize(ctx, run, train, 1); err != nil {
		return nil, err
	}
	r.logger.Info().
		Int("selected", len(run.Selected)).
		Float64("recall", run.Recall).
		Msg("random selection complete")
	run.Duration = time.Since(start)
	return run, nil
}

// summarize fills the training coverage of a fixed selection: true pairs,
// true pairs found and recall, plus one step per blocker.
func summarize(ctx context.Context, run *blocking.LearnerRun, train *blocking.Dataset, workers int) error {
	good, _ := blocking.TruePairs(train)
	cs, err := buildIndices(ctx, run.Selected, train, workers)
	if err != nil {
		return err
	}

	var found index.Found
	for _, c := range cs {
		before := len(found.Good)
		found = c.idx.UpdateFoundPairLists(good, found)
		c.idx.Release()
		run.Steps = append(run.Steps, blocking.SelectionStep{
			Blocker:   c.blocker.String(),
			NewGood:   len(found.Good) - before,
			FoundGood: len(found.Good),
			Recall:    ratio(len(found.Good), len(good)),
		})
	}
	run.TruePairs = len(good)
	run.FoundGood = len(found.Good)
	run.Recall = ratio(len(found.Good), len(good))
	return nil
}
