// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import (
	"math/rand"
)

// SampleByClass returns the records of a random subset of entities.
//
// The number of entities is FractionOfClasses of all labeled entities when the
// fraction is below 1, capped by MaxClasses. Entities are added in random
// order until MaxInstances records have been collected. Unlabeled records are
// never sampled. When no restriction applies the labeled records are kept in
// their original order, and a fully labeled ds is returned unchanged.
func SampleByClass(ds *Dataset, cfg SamplingConfig, rng *rand.Rand) *Dataset {
	groups, unlabeled := LabelGroups(ds)
	total := len(groups)

	numClasses := total
	if cfg.FractionOfClasses > 0 && cfg.FractionOfClasses < 1 {
		numClasses = int(float64(total) * cfg.FractionOfClasses)
	}
	if cfg.MaxClasses > 0 && numClasses > cfg.MaxClasses {
		numClasses = cfg.MaxClasses
	}
	if numClasses >= total && cfg.MaxInstances == 0 {
		if unlabeled == 0 {
			return ds
		}
		labeled := make([]int, 0, ds.Len()-unlabeled)
		for i, r := range ds.Records {
			if r.HasLabel {
				labeled = append(labeled, i)
			}
		}
		return ds.Subset(labeled)
	}
	if numClasses < 1 && total > 0 {
		numClasses = 1
	}

	var records []int
	for _, g := range rng.Perm(total)[:numClasses] {
		if cfg.MaxInstances > 0 && len(records) >= cfg.MaxInstances {
			break
		}
		records = append(records, groups[g]...)
	}
	return ds.Subset(records)
}
