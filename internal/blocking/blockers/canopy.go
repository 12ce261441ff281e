// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/index"
)

const (
	// DefaultCanopyThreshold is the minimum similarity to join a canopy.
	DefaultCanopyThreshold = 0.6

	// DefaultCanopyMaxDF excludes terms occurring in this many records or
	// more from candidate lookup.
	DefaultCanopyMaxDF = 1000
)

// Canopy clusters records into overlapping canopies by TF-IDF cosine
// similarity and uses the index of each canopy's center as the block key.
//
// Centers are taken in ascending record order from the records not yet
// admitted to any canopy. A canopy collects every record that shares a term
// with the center and whose similarity reaches the threshold; those records
// can no longer become centers but may still join later canopies. Canopies
// of a single record produce no key.
//
// Canopies depend on the whole dataset, so they are computed once per
// dataset and cached until Release.
type Canopy struct {
	base
	threshold float64
	useIDF    bool
	maxDF     int
	scorer    ScorerFactory

	mu     sync.Mutex
	fitted *blocking.Dataset
	keys   [][]string
}

// NewCanopy returns a Canopy blocker on attr using the TF-IDF scorer.
func NewCanopy(attr Attr, threshold float64, useIDF bool, maxDF int) *Canopy {
	return &Canopy{
		base:      base{attr: attr},
		threshold: threshold,
		useIDF:    useIDF,
		maxDF:     maxDF,
	}
}

// WithScorer replaces the similarity scorer.
func (b *Canopy) WithScorer(f ScorerFactory) *Canopy {
	b.scorer = f
	return b
}

func (b *Canopy) Kind() string { return string(KindCanopy) }
func (b *Canopy) String() string {
	return "Canopy(" + b.attr.Name + "," + strconv.FormatFloat(b.threshold, 'g', -1, 64) + ")"
}
func (b *Canopy) Overlapping() bool { return true }

func (b *Canopy) BlockKeys(ds *blocking.Dataset, record int) []string {
	return b.assign(ds)[record]
}

func (b *Canopy) SameBlock(ds *blocking.Dataset, a, c int) bool { return sameBlock(b, ds, a, c) }

func (b *Canopy) BuildIndex(ds *blocking.Dataset) *index.Index {
	keys := b.assign(ds)
	idx := index.New(ds.Len(), true)
	for r, ks := range keys {
		for _, k := range ks {
			idx.Put(r, k)
		}
	}
	return idx
}

func (b *Canopy) Descriptor() blocking.Descriptor {
	return b.descriptor(KindCanopy, Params{
		"threshold": strconv.FormatFloat(b.threshold, 'g', -1, 64),
		"idf":       strconv.FormatBool(b.useIDF),
		"max_df":    strconv.Itoa(b.maxDF),
	})
}

// Release drops the cached canopies.
func (b *Canopy) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fitted = nil
	b.keys = nil
}

type termVector struct {
	counts map[string]float64
	terms  []string
	length float64
}

func (b *Canopy) assign(ds *blocking.Dataset) [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fitted == ds && b.keys != nil {
		return b.keys
	}

	n := ds.Len()
	corpus := make([]string, n)
	for r := range corpus {
		if v, ok := b.present(ds, r); ok {
			corpus[r] = v.Str
		}
	}
	var scorer SimilarityScorer
	if b.scorer != nil {
		scorer = b.scorer(corpus)
	} else {
		scorer = NewTFIDFScorer(corpus, b.useIDF)
	}

	vecs := make([]termVector, n)
	postings := make(map[string][]int)
	for r, doc := range corpus {
		vec := termVector{counts: make(map[string]float64)}
		var sq float64
		for term, c := range scorer.Tokenize(doc) {
			w := scorer.IDFWeight(term)
			if w == 0 {
				continue
			}
			vec.counts[term] = c
			vec.terms = append(vec.terms, term)
			sq += (w * c) * (w * c)
			postings[term] = append(postings[term], r)
		}
		slices.Sort(vec.terms)
		vec.length = math.Sqrt(sq)
		vecs[r] = vec
	}

	keys := make([][]string, n)
	candidate := make([]bool, n)
	for r := range candidate {
		candidate[r] = true
	}
	for center := 0; center < n; center++ {
		if !candidate[center] {
			continue
		}
		candidate[center] = false

		members := []int{center}
		seen := map[int]struct{}{center: {}}
		for _, term := range vecs[center].terms {
			post := postings[term]
			if len(post) <= 1 || len(post) >= b.maxDF {
				continue
			}
			for _, r := range post {
				if _, ok := seen[r]; ok {
					continue
				}
				seen[r] = struct{}{}
				if similarity(scorer, &vecs[center], &vecs[r]) >= b.threshold {
					members = append(members, r)
					candidate[r] = false
				}
			}
		}

		if len(members) > 1 {
			key := strconv.Itoa(center)
			for _, m := range members {
				keys[m] = append(keys[m], key)
			}
		}
	}

	b.fitted = ds
	b.keys = keys
	return keys
}

// similarity is the weighted cosine of two term vectors.
func similarity(scorer SimilarityScorer, a, c *termVector) float64 {
	if a.length == 0 || c.length == 0 {
		return 0
	}
	if len(c.counts) < len(a.counts) {
		a, c = c, a
	}
	var dot float64
	for term, ca := range a.counts {
		if cc, ok := c.counts[term]; ok {
			w := scorer.IDFWeight(term)
			dot += ca * cc * w * w
		}
	}
	return dot / (a.length * c.length)
}
