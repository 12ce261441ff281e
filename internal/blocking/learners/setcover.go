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
	"github.com/tomtom215/blockwise/internal/blocking/index"
	"github.com/tomtom215/blockwise/internal/blocking/pairs"
)

// SetCover selects blockers by greedy weighted set cover over the true
// pairs of the training data.
type SetCover struct {
	config   SetCoverConfig
	strategy index.Strategy
	logger   zerolog.Logger
}

// NewSetCover creates a set-cover learner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSetCover(cfg SetCoverConfig, logger zerolog.Logger) (*SetCover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := index.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return &SetCover{
		config:   cfg,
		strategy: strategy,
		logger:   logger.With().Str("learner", NameSetCover).Logger(),
	}, nil
}

// Name implements blocking.Learner.
func (s *SetCover) Name() string { return NameSetCover }

// Learn implements blocking.Learner.
func (s *SetCover) Learn(ctx context.Context, templates []blocking.Template, train *blocking.Dataset) (*blocking.LearnerRun, error) {
	start := time.Now()

	bs := candidateBlockers(templates, train)
	if len(bs) == 0 {
		return nil, errors.Wrapf(blocking.ErrNoCandidates, "%d templates over %d attributes",
			len(templates), len(train.Attributes))
	}
	good, _ := blocking.TruePairs(train)

	pool, err := buildIndices(ctx, bs, train, s.config.Workers)
	if err != nil {
		return nil, err
	}
	run := &blocking.LearnerRun{
		Learner:       NameSetCover,
		CandidatePool: len(pool),
		TruePairs:     len(good),
	}
	if err := s.cover(ctx, pool, good, run); err != nil {
		return nil, err
	}
	run.Duration = time.Since(start)
	return run, nil
}

// cover runs the eta filter, the greedy loop and the subsumption filter over
// pool and fills run. Every candidate in pool is released.
func (s *SetCover) cover(ctx context.Context, pool []*candidate, good []pairs.Code, run *blocking.LearnerRun) error {
	opts := index.CoverOptions{Strategy: s.strategy, Smoothing: s.config.Smoothing}

	if s.config.Eta > 0 {
		kept := pool[:0]
		for _, c := range pool {
			c.idx.Classify(good)
			if c.idx.BadPairs() > uint64(s.config.Eta) {
				s.logger.Debug().
					Str("blocker", c.blocker.String()).
					Uint64("bad_pairs", c.idx.BadPairs()).
					Msg("candidate exceeds eta")
				c.release()
				run.EtaFiltered++
				continue
			}
			kept = append(kept, c)
		}
		pool = kept
	}

	var selected []*candidate
	defer func() {
		releaseAll(pool)
		for _, c := range selected {
			c.idx.Release()
		}
	}()

	found := index.Found{TrackAll: s.strategy == index.Chvatal && s.config.TrackNegatives}
	covers := make([]float64, len(pool))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if reason, done := s.done(len(found.Good), len(good), len(selected), len(pool)); done {
			run.StopReason = reason
			break
		}

		best, bestCover := -1, 0.0
		for i, c := range pool {
			covers[i] = c.idx.CoverEstimate(good, found, opts)
			if covers[i] > bestCover && covers[i] > s.config.MinImprovement {
				best, bestCover = i, covers[i]
			}
		}
		if best < 0 {
			run.StopReason = blocking.StopNoCandidates
			s.logger.Warn().
				Int("remaining", len(pool)).
				Int("found_good", len(found.Good)).
				Int("true_pairs", len(good)).
				Msg("ran out of candidates before reaching target recall")
			break
		}

		winner := pool[best]
		before := len(found.Good)
		found = winner.idx.UpdateFoundPairLists(good, found)
		selected = append(selected, winner)

		kept, pruned := pool[:0], 0
		for i, c := range pool {
			switch {
			case i == best:
			case covers[i] == 0:
				c.release()
				pruned++
			default:
				kept = append(kept, c)
			}
		}
		pool = kept
		covers = covers[:len(pool)]
		run.Pruned += pruned

		step := blocking.SelectionStep{
			Blocker:   winner.blocker.String(),
			Cover:     bestCover,
			NewGood:   len(found.Good) - before,
			FoundGood: len(found.Good),
			Recall:    ratio(len(found.Good), len(good)),
			Pruned:    pruned,
		}
		run.Steps = append(run.Steps, step)
		s.logger.Debug().
			Str("blocker", step.Blocker).
			Float64("cover", step.Cover).
			Int("new_good", step.NewGood).
			Float64("recall", step.Recall).
			Int("pool", len(pool)).
			Msg("blocker selected")
	}

	selected, run.Subsumed = subsume(selected)
	for _, c := range selected {
		run.Selected = append(run.Selected, c.blocker)
	}
	run.FoundGood = len(found.Good)
	run.Recall = ratio(len(found.Good), len(good))

	s.logger.Info().
		Int("selected", len(run.Selected)).
		Int("subsumed", len(run.Subsumed)).
		Float64("recall", run.Recall).
		Str("stop_reason", string(run.StopReason)).
		Msg("set cover complete")
	return nil
}

// done reports whether the greedy loop should stop before the next step.
func (s *SetCover) done(found, total, selected, remaining int) (blocking.StopReason, bool) {
	switch {
	case total > 0 && ratio(found, total) >= s.config.MinRecall:
		return blocking.StopMinRecall, true
	case total-found <= s.config.Epsilon:
		return blocking.StopEpsilon, true
	case remaining == 0:
		return blocking.StopPoolEmpty, true
	case s.config.MaxBlockers > 0 && selected >= s.config.MaxBlockers:
		return blocking.StopMaxBlockers, true
	}
	return "", false
}

// subsume drops every selected candidate whose true pairs are a strict
// subset of those of a later one. The union of true pairs is unchanged.
func subsume(selected []*candidate) (kept []*candidate, subsumed []string) {
	for i, c := range selected {
		drop := false
		for _, later := range selected[i+1:] {
			if pairs.IsStrictSubset(c.idx.GoodPairs(), later.idx.GoodPairs()) {
				drop = true
				break
			}
		}
		if drop {
			subsumed = append(subsumed, c.blocker.String())
			c.release()
			continue
		}
		kept = append(kept, c)
	}
	return kept, subsumed
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
