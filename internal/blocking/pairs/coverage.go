// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package pairs

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Coverage is a set of pair codes backed by a 64-bit roaring bitmap.
//
// It replaces the N*(N-1)/2 boolean array used to merge candidate pairs from
// several blockers: membership stays O(1) while memory tracks the number of
// covered pairs instead of the size of the pair space.
type Coverage struct {
	bm *roaring64.Bitmap
}

// NewCoverage returns an empty coverage set.
func NewCoverage() *Coverage {
	return &Coverage{bm: roaring64.New()}
}

// Add inserts c and reports whether it was not already present.
func (c *Coverage) Add(code Code) bool {
	return c.bm.CheckedAdd(uint64(code))
}

// AddMany inserts every code.
func (c *Coverage) AddMany(codes []Code) {
	for _, code := range codes {
		c.bm.Add(uint64(code))
	}
}

// Contains reports whether code is in the set.
func (c *Coverage) Contains(code Code) bool {
	return c.bm.Contains(uint64(code))
}

// Len returns the number of codes in the set.
func (c *Coverage) Len() uint64 {
	return c.bm.GetCardinality()
}

// Codes returns the set as an ascending slice.
func (c *Coverage) Codes() []Code {
	raw := c.bm.ToArray()
	out := make([]Code, len(raw))
	for i, v := range raw {
		out[i] = Code(v)
	}
	return out
}

// Union adds every code of other to c.
func (c *Coverage) Union(other *Coverage) {
	c.bm.Or(other.bm)
}

// IntersectionLen returns the number of codes present in both sets.
func (c *Coverage) IntersectionLen(other *Coverage) uint64 {
	return c.bm.AndCardinality(other.bm)
}
