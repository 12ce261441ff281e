// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/index"
)

// keyer is the part of blocking.Blocker the shared helpers need.
type keyer interface {
	BlockKeys(ds *blocking.Dataset, record int) []string
	Overlapping() bool
}

// base carries the attribute of a unary blocker.
type base struct {
	attr Attr
}

// Attributes returns the single attribute position.
func (b *base) Attributes() []int {
	return []int{b.attr.Index}
}

// present returns the value of record, or false when it is missing.
func (b *base) present(ds *blocking.Dataset, record int) (blocking.Value, bool) {
	v := ds.Value(record, b.attr.Index)
	return v, !v.Missing
}

func (b *base) descriptor(kind Kind, params Params) blocking.Descriptor {
	return blocking.Descriptor{
		Kind:       string(kind),
		Attributes: []string{b.attr.Name},
		Params:     params,
	}
}

func (b *base) label(name string) string {
	return name + "(" + b.attr.Name + ")"
}

// buildIndex indexes every record under its block keys.
func buildIndex(k keyer, ds *blocking.Dataset) *index.Index {
	idx := index.New(ds.Len(), k.Overlapping())
	for r := range ds.Records {
		for _, key := range k.BlockKeys(ds, r) {
			idx.Put(r, key)
		}
	}
	return idx
}

// sameBlock reports whether the key lists of a and c intersect.
func sameBlock(k keyer, ds *blocking.Dataset, a, c int) bool {
	ka := k.BlockKeys(ds, a)
	if len(ka) == 0 {
		return false
	}
	for _, y := range k.BlockKeys(ds, c) {
		for _, x := range ka {
			if x == y {
				return true
			}
		}
	}
	return false
}
