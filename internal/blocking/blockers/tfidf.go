// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"math"
)

// SimilarityScorer turns text into weighted term vectors for the canopy
// blocker.
type SimilarityScorer interface {
	// Tokenize returns the term counts of text.
	Tokenize(text string) map[string]float64

	// IDFWeight returns the weight of term. Terms weighted 0 are ignored.
	IDFWeight(term string) float64
}

// ScorerFactory fits a scorer to the values of one attribute.
type ScorerFactory func(corpus []string) SimilarityScorer

// TFIDFScorer weights terms by inverse document frequency ln(N/df).
// Terms occurring in every document get weight 0 and are ignored.
type TFIDFScorer struct {
	idf    map[string]float64
	useIDF bool
}

// NewTFIDFScorer computes document frequencies over corpus. When useIDF is
// false every retained term has weight 1.
func NewTFIDFScorer(corpus []string, useIDF bool) *TFIDFScorer {
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for tok, d := range df {
		idf[tok] = math.Log(n / float64(d))
	}
	return &TFIDFScorer{idf: idf, useIDF: useIDF}
}

// Tokenize returns the term counts of text.
func (s *TFIDFScorer) Tokenize(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}
	return counts
}

// IDFWeight returns the inverse document frequency of term.
func (s *TFIDFScorer) IDFWeight(term string) float64 {
	w := s.idf[term]
	if w == 0 {
		return 0
	}
	if !s.useIDF {
		return 1
	}
	return w
}
