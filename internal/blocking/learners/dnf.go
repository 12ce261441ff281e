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
	"github.com/tomtom215/blockwise/internal/blocking/index"
	"github.com/tomtom215/blockwise/internal/blocking/pairs"
)

// DNF extends SetCover with conjunctions of two unary candidates on
// different attributes.
type DNF struct {
	setCover *SetCover
	config   DNFConfig
	logger   zerolog.Logger
}

// NewDNF creates a conjunction-extended set-cover learner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDNF(sc SetCoverConfig, cfg DNFConfig, logger zerolog.Logger) (*DNF, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := NewSetCover(sc, logger)
	if err != nil {
		return nil, err
	}
	s.logger = logger.With().Str("learner", NameDNF).Logger()
	return &DNF{setCover: s, config: cfg, logger: s.logger}, nil
}

// Name implements blocking.Learner.
func (d *DNF) Name() string { return NameDNF }

// Learn implements blocking.Learner.
func (d *DNF) Learn(ctx context.Context, templates []blocking.Template, train *blocking.Dataset) (*blocking.LearnerRun, error) {
	start := time.Now()

	bs := candidateBlockers(templates, train)
	if len(bs) == 0 {
		return nil, errors.Wrapf(blocking.ErrNoCandidates, "%d templates over %d attributes",
			len(templates), len(train.Attributes))
	}
	good, _ := blocking.TruePairs(train)

	workers := d.setCover.config.Workers
	pool, err := buildIndices(ctx, bs, train, workers)
	if err != nil {
		return nil, err
	}

	combos := d.conjunctions(pool, len(train.Attributes), good)
	comboPool, err := buildIndices(ctx, combos, train, workers)
	if err != nil {
		releaseAll(pool)
		return nil, err
	}
	d.logger.Info().
		Int("unary", len(pool)).
		Int("conjunctions", len(comboPool)).
		Msg("candidate pool extended")

	run := &blocking.LearnerRun{
		Learner:       NameDNF,
		CandidatePool: len(pool),
		Synthesized:   len(comboPool),
		TruePairs:     len(good),
	}
	if err := d.setCover.cover(ctx, append(pool, comboPool...), good, run); err != nil {
		return nil, err
	}
	run.Duration = time.Since(start)
	return run, nil
}

// conjunctions pairs every unary candidate with the best candidate of each
// other attribute. A pairing is kept when its combined cover exceeds
// MinCover and fewer than TopK attributes offer a strictly better one.
// Pairings of two canopies are not considered, and each pair of candidates
// yields at most one conjunction.
func (d *DNF) conjunctions(pool []*candidate, numAttributes int, good []pairs.Code) []blocking.Blocker {
	type pairing struct{ a, b int }
	seen := make(map[pairing]struct{})
	var out []blocking.Blocker

	bestCover := make([]float64, numAttributes)
	bestNext := make([]int, numAttributes)
	for i, first := range pool {
		firstAttr := first.blocker.Attributes()[0]
		for a := range bestCover {
			bestCover[a] = 0
			bestNext[a] = -1
		}

		for j, next := range pool {
			nextAttr := next.blocker.Attributes()[0]
			if j == i || nextAttr == firstAttr {
				continue
			}
			if isCanopy(first.blocker) && isCanopy(next.blocker) {
				continue
			}
			cover := index.CombinedCoverEstimate(first.idx, next.idx, good, d.setCover.config.Smoothing)
			if cover > bestCover[nextAttr] {
				bestCover[nextAttr] = cover
				bestNext[nextAttr] = j
			}
		}

		for a, j := range bestNext {
			if j < 0 || bestCover[a] <= d.config.MinCover {
				continue
			}
			better := 0
			for _, c := range bestCover {
				if c > bestCover[a] {
					better++
				}
			}
			if better >= d.config.TopK {
				continue
			}

			key := pairing{min(i, j), max(i, j)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, blockers.NewCombo(pool[key.a].blocker, pool[key.b].blocker))
			d.logger.Debug().
				Str("first", first.blocker.String()).
				Str("next", pool[j].blocker.String()).
				Float64("cover", bestCover[a]).
				Msg("conjunction added")
		}
	}
	return out
}

func isCanopy(b blocking.Blocker) bool {
	return b.Kind() == string(blockers.KindCanopy)
}
