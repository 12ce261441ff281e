// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"strconv"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/index"
)

// DefaultPrefixLength is the default N of FirstNChars.
const DefaultPrefixLength = 3

// FirstNChars blocks records whose values share the first N characters.
// Values shorter than N are used whole.
type FirstNChars struct {
	base
	n int
}

// NewFirstNChars returns a FirstNChars blocker on attr.
func NewFirstNChars(attr Attr, n int) *FirstNChars {
	return &FirstNChars{base: base{attr: attr}, n: n}
}

func (b *FirstNChars) Kind() string { return string(KindFirstNChars) }
func (b *FirstNChars) String() string { return "FirstNChars(" + b.attr.Name + "," + strconv.Itoa(b.n) + ")" }
func (b *FirstNChars) Overlapping() bool { return false }

func (b *FirstNChars) BlockKeys(ds *blocking.Dataset, record int) []string {
	v, ok := b.present(ds, record)
	if !ok || v.Str == "" {
		return nil
	}
	seen := 0
	for i := range v.Str {
		if seen == b.n {
			return []string{v.Str[:i]}
		}
		seen++
	}
	return []string{v.Str}
}

func (b *FirstNChars) SameBlock(ds *blocking.Dataset, a, c int) bool { return sameBlock(b, ds, a, c) }
func (b *FirstNChars) BuildIndex(ds *blocking.Dataset) *index.Index { return buildIndex(b, ds) }

func (b *FirstNChars) Descriptor() blocking.Descriptor {
	return b.descriptor(KindFirstNChars, Params{"n": strconv.Itoa(b.n)})
}
