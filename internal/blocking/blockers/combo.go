// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"slices"
	"strings"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/index"
)

// Combo is the conjunction of several blockers. A record's keys are the
// Cartesian product of its sub-blocker keys joined with index.KeySeparator,
// so two records share a combo block only if they share a block under every
// sub-blocker.
type Combo struct {
	parts []blocking.Blocker
}

// NewCombo returns the conjunction of parts.
func NewCombo(parts ...blocking.Blocker) *Combo {
	return &Combo{parts: parts}
}

// Parts returns the sub-blockers.
func (b *Combo) Parts() []blocking.Blocker {
	return b.parts
}

func (b *Combo) Kind() string { return string(KindCombo) }

func (b *Combo) String() string {
	names := make([]string, len(b.parts))
	for i, p := range b.parts {
		names[i] = p.String()
	}
	return "Combo[" + strings.Join(names, " & ") + "]"
}

// Attributes returns the attributes of all parts, without duplicates.
func (b *Combo) Attributes() []int {
	var out []int
	for _, p := range b.parts {
		for _, a := range p.Attributes() {
			if !slices.Contains(out, a) {
				out = append(out, a)
			}
		}
	}
	return out
}

// Overlapping is true only if every part overlaps.
func (b *Combo) Overlapping() bool {
	for _, p := range b.parts {
		if !p.Overlapping() {
			return false
		}
	}
	return len(b.parts) > 0
}

func (b *Combo) BlockKeys(ds *blocking.Dataset, record int) []string {
	if len(b.parts) == 0 {
		return nil
	}
	keys := b.parts[0].BlockKeys(ds, record)
	for _, p := range b.parts[1:] {
		if len(keys) == 0 {
			return nil
		}
		next := p.BlockKeys(ds, record)
		product := make([]string, 0, len(keys)*len(next))
		for _, k := range keys {
			for _, n := range next {
				product = append(product, k+index.KeySeparator+n)
			}
		}
		keys = product
	}
	return unique(keys)
}

// SameBlock is true if the records share a block under every part.
func (b *Combo) SameBlock(ds *blocking.Dataset, a, c int) bool {
	if len(b.parts) == 0 {
		return false
	}
	for _, p := range b.parts {
		if !p.SameBlock(ds, a, c) {
			return false
		}
	}
	return true
}

func (b *Combo) BuildIndex(ds *blocking.Dataset) *index.Index { return buildIndex(b, ds) }

func (b *Combo) Descriptor() blocking.Descriptor {
	d := blocking.Descriptor{Kind: string(KindCombo)}
	for _, p := range b.parts {
		d.Parts = append(d.Parts, p.Descriptor())
	}
	return d
}

// Release releases every part.
func (b *Combo) Release() {
	for _, p := range b.parts {
		blocking.Release(p)
	}
}
