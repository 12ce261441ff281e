// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/tomtom215/blockwise/internal/blocking/pairs"
)

// Contribution is the share of one deployed blocker in an evaluation.
type Contribution struct {
	Blocker string `json:"blocker"`
	Added   int    `json:"added"`
	New     uint64 `json:"new"`
	NewGood uint64 `json:"new_good"`
}

// Evaluation holds the pair counts of applying deployed blockers to a dataset.
type Evaluation struct {
	NumInstances  int            `json:"num_instances"`
	TotalPairs    uint64         `json:"total_pairs"`
	TruePairs     uint64         `json:"true_pairs"`
	GoodBlocked   uint64         `json:"good_blocked"`
	TotalBlocked  uint64         `json:"total_blocked"`
	Unlabeled     int            `json:"unlabeled"`
	Contributions []Contribution `json:"contributions"`
}

// TruePairs returns the sorted codes of all same-label pairs of ds and the
// number of unlabeled records, which take part in no true pair.
func TruePairs(ds *Dataset) ([]pairs.Code, int) {
	groups, unlabeled := LabelGroups(ds)
	return pairs.FromGroups(groups), unlabeled
}

// Evaluate applies the deployed blockers to ds in order and counts the
// distinct candidate pairs they emit together.
//
// Each blocker's index is built, folded into the shared coverage and released
// before the next one is built, so at most one index is alive at a time.
// ds is used as given; callers that normalize must do so beforehand.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Evaluate(ctx context.Context, deployed []Blocker, ds *Dataset, logger zerolog.Logger) (*Evaluation, error) {
	truth, unlabeled := TruePairs(ds)
	if unlabeled > 0 {
		logger.Warn().
			Int("unlabeled", unlabeled).
			Msg("records without a label are excluded from true pairs")
	}

	ev := &Evaluation{
		NumInstances:  ds.Len(),
		TotalPairs:    pairs.Total(ds.Len()),
		TruePairs:     uint64(len(truth)),
		Unlabeled:     unlabeled,
		Contributions: make([]Contribution, 0, len(deployed)),
	}

	covered := pairs.NewCoverage()
	for _, b := range deployed {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "evaluation cancelled")
		}

		idx := b.BuildIndex(ds)
		blocked := idx.PairsAsArray()
		c := Contribution{Blocker: b.String(), Added: len(blocked)}
		for _, code := range blocked {
			if covered.Add(code) {
				c.New++
				if pairs.Contains(truth, code) {
					c.NewGood++
				}
			}
		}
		idx.Release()
		Release(b)

		ev.TotalBlocked += c.New
		ev.GoodBlocked += c.NewGood
		ev.Contributions = append(ev.Contributions, c)

		logger.Debug().
			Str("blocker", c.Blocker).
			Int("added", c.Added).
			Uint64("new", c.New).
			Uint64("total", ev.TotalBlocked).
			Uint64("good", ev.GoodBlocked).
			Msg("blocker applied")
	}
	return ev, nil
}
