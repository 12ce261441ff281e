// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package index

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tomtom215/blockwise/internal/blocking/pairs"
)

// KeySeparator joins the keys of conjoined blockers.
const KeySeparator = "___"

// DefaultSmoothing is the additive constant in the cost denominators.
const DefaultSmoothing = 50

// Strategy selects the cover-estimate formula used by the greedy learner.
type Strategy int

const (
	// RedBlue rates an index by new true pairs per covered false pair.
	RedBlue Strategy = iota
	// Chvatal rates an index by the fraction of its new pairs that are true.
	Chvatal
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case RedBlue:
		return "redblue"
	case Chvatal:
		return "chvatal"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a configuration name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "redblue", "red_blue", "":
		return RedBlue, nil
	case "chvatal":
		return Chvatal, nil
	default:
		return 0, errors.Newf("unknown cover strategy %q", name)
	}
}

// CoverOptions parameterize CoverEstimate.
type CoverOptions struct {
	Strategy  Strategy
	Smoothing float64
}

// Found holds the pairs already covered by previously selected blockers.
// Good and All are ascending. All is only maintained when TrackAll is set.
type Found struct {
	Good     []pairs.Code
	All      []pairs.Code
	TrackAll bool
}

// Classify splits the distinct pairs of the index into true pairs, which are
// retained, and false pairs, which are counted. good must be ascending.
//
// The result is cached; later calls are no-ops until the index changes, so
// every call on one index must pass the same good list.
func (x *Index) Classify(good []pairs.Code) {
	if x.classified {
		return
	}
	x.good = x.good[:0]
	x.bad = 0
	all := x.all
	if !x.allCached {
		all = x.PairsAsArray()
	}
	for _, c := range all {
		if pairs.Contains(good, c) {
			x.good = append(x.good, c)
		} else {
			x.bad++
		}
	}
	x.classified = true
}

// GoodPairs returns the ascending true pairs covered by the index. Classify
// must have been called.
func (x *Index) GoodPairs() []pairs.Code {
	return x.good
}

// BadPairs returns the number of false pairs covered by the index. Classify
// must have been called.
func (x *Index) BadPairs() uint64 {
	return x.bad
}

// sortedPairs returns PairsAsArray, computed once until the index changes.
// Callers must not modify the result.
func (x *Index) sortedPairs() []pairs.Code {
	if !x.allCached {
		x.all = x.PairsAsArray()
		x.allCached = true
	}
	return x.all
}

// CoverEstimate rates how much the index would add to found.
func (x *Index) CoverEstimate(good []pairs.Code, found Found, opts CoverOptions) float64 {
	x.Classify(good)
	newPos := float64(pairs.CountMissing(x.good, found.Good))

	switch opts.Strategy {
	case Chvatal:
		var newNeg float64
		if found.TrackAll {
			for _, c := range x.sortedPairs() {
				if !pairs.Contains(good, c) && !pairs.Contains(found.All, c) {
					newNeg++
				}
			}
		} else {
			newNeg = float64(x.bad)
		}
		return ratio(newPos, newPos+newNeg)
	default:
		return ratio(newPos, float64(x.bad)+opts.Smoothing)
	}
}

// UpdateFoundPairLists returns found extended with the pairs of the index.
// found is not modified.
func (x *Index) UpdateFoundPairLists(good []pairs.Code, found Found) Found {
	x.Classify(good)
	next := Found{
		Good:     pairs.Merge(found.Good, x.good),
		TrackAll: found.TrackAll,
	}
	if found.TrackAll {
		next.All = pairs.Merge(found.All, x.sortedPairs())
	}
	return next
}

// CombinedCoverEstimate rates the conjunction of two indices over the same
// records: a pair is covered only if both indices place it in a shared block.
func CombinedCoverEstimate(a, b *Index, good []pairs.Code, smoothing float64) float64 {
	if a.numRecords != b.numRecords {
		panic(errors.AssertionFailedf("index: combining indices over %d and %d records",
			a.numRecords, b.numRecords))
	}
	conj := New(a.numRecords, a.overlapping && b.overlapping)
	defer conj.Release()
	for r := 0; r < a.numRecords; r++ {
		for _, ka := range a.keys[r] {
			for _, kb := range b.keys[r] {
				conj.Put(r, ka+KeySeparator+kb)
			}
		}
	}

	var pos, neg float64
	for _, c := range conj.PairsAsArray() {
		if pairs.Contains(good, c) {
			pos++
		} else {
			neg++
		}
	}
	return ratio(pos, pos+neg+smoothing)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
