// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/blockwise/internal/blocking/index"
)

// Blocker maps each record to zero or more block keys. Records sharing a key
// form candidate pairs.
//
// Implementations must keep SameBlock consistent with BlockKeys: SameBlock(a, b)
// is true exactly when the key lists of a and b intersect.
type Blocker interface {
	// Kind returns the registry tag of the blocker variant.
	Kind() string

	// String returns a readable name such as "CommonWord(title)".
	String() string

	// Attributes returns the dataset positions the blocker reads.
	Attributes() []int

	// Overlapping reports whether one record may carry several keys.
	Overlapping() bool

	// BlockKeys returns the keys of record, without duplicates.
	BlockKeys(ds *Dataset, record int) []string

	// SameBlock reports whether records a and b share a key.
	SameBlock(ds *Dataset, a, b int) bool

	// BuildIndex computes the keys of every record into a fresh index.
	BuildIndex(ds *Dataset) *index.Index

	// Descriptor returns the persistent form of the blocker.
	Descriptor() Descriptor
}

// Releaser is implemented by blockers that cache per-dataset state.
type Releaser interface {
	Release()
}

// Release drops cached state of b, if it holds any.
func Release(b Blocker) {
	if r, ok := b.(Releaser); ok {
		r.Release()
	}
}

// Template produces a blocker for one attribute. It reports false when the
// attribute type does not suit the blocker kind.
type Template interface {
	Kind() string
	ForAttribute(ds *Dataset, attr int) (Blocker, bool)
}

// Descriptor is the serializable form of a blocker: enough to rebuild it
// against any dataset with the same attribute names.
type Descriptor struct {
	Kind       string            `json:"kind"`
	Attributes []string          `json:"attributes,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	Parts      []Descriptor      `json:"parts,omitempty"`
}

// String renders the descriptor as kind(attr;k=v) or kind[part & part].
func (d Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString(d.Kind)
	if len(d.Parts) > 0 {
		sb.WriteByte('[')
		for i, p := range d.Parts {
			if i > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteByte(']')
		return sb.String()
	}
	sb.WriteByte('(')
	sb.WriteString(strings.Join(d.Attributes, ","))
	for _, k := range slices.Sorted(maps.Keys(d.Params)) {
		sb.WriteByte(';')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(d.Params[k])
	}
	sb.WriteByte(')')
	return sb.String()
}

// Descriptors returns the descriptors of bs.
func Descriptors(bs []Blocker) []Descriptor {
	out := make([]Descriptor, len(bs))
	for i, b := range bs {
		out[i] = b.Descriptor()
	}
	return out
}

// Learner selects a set of blockers from candidate templates using labeled
// training data.
type Learner interface {
	// Name returns the configuration name of the learner.
	Name() string

	// Learn returns the selected blockers. Zero candidate blockers is reported
	// as ErrNoCandidates.
	Learn(ctx context.Context, templates []Template, train *Dataset) (*LearnerRun, error)
}

// StopReason records why a learner stopped selecting blockers.
type StopReason string

const (
	StopMinRecall    StopReason = "min_recall_reached"
	StopEpsilon      StopReason = "within_epsilon"
	StopPoolEmpty    StopReason = "pool_empty"
	StopMaxBlockers  StopReason = "max_blockers"
	StopNoCandidates StopReason = "ran_out_of_candidates"
	StopFixed        StopReason = "fixed_selection"
)

// SelectionStep is one iteration of a greedy learner.
type SelectionStep struct {
	Blocker   string  `json:"blocker"`
	Cover     float64 `json:"cover"`
	NewGood   int     `json:"new_good"`
	FoundGood int     `json:"found_good"`
	Recall    float64 `json:"recall"`
	Pruned    int     `json:"pruned"`
}

// LearnerRun describes one learning run.
type LearnerRun struct {
	Learner string `json:"learner"`

	// Selected are the blockers to deploy, in selection order.
	Selected []Blocker `json:"-"`

	// CandidatePool is the number of candidates before any filtering.
	CandidatePool int `json:"candidate_pool"`

	// Synthesized counts conjunctions added to the pool.
	Synthesized int `json:"synthesized,omitempty"`

	// EtaFiltered counts candidates dropped for covering too many false pairs.
	EtaFiltered int `json:"eta_filtered,omitempty"`

	// Pruned counts candidates dropped for covering nothing new.
	Pruned int `json:"pruned"`

	Steps      []SelectionStep `json:"steps,omitempty"`
	Subsumed   []string        `json:"subsumed,omitempty"`
	StopReason StopReason      `json:"stop_reason"`

	TruePairs int     `json:"true_pairs"`
	FoundGood int     `json:"found_good"`
	Recall    float64 `json:"recall"`

	Duration time.Duration `json:"duration"`
}

// Names returns the String of every selected blocker.
func (r *LearnerRun) Names() []string {
	out := make([]string, len(r.Selected))
	for i, b := range r.Selected {
		out[i] = b.String()
	}
	return out
}
