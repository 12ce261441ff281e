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

// ExactString blocks records whose whole string value is equal.
type ExactString struct {
	base
}

// NewExactString returns an ExactString blocker on attr.
func NewExactString(attr Attr) *ExactString {
	return &ExactString{base{attr: attr}}
}

func (b *ExactString) Kind() string { return string(KindExactString) }
func (b *ExactString) String() string { return b.label("ExactString") }
func (b *ExactString) Overlapping() bool { return false }

func (b *ExactString) BlockKeys(ds *blocking.Dataset, record int) []string {
	v, ok := b.present(ds, record)
	if !ok || v.Str == "" {
		return nil
	}
	return []string{v.Str}
}

func (b *ExactString) SameBlock(ds *blocking.Dataset, a, c int) bool { return sameBlock(b, ds, a, c) }
func (b *ExactString) BuildIndex(ds *blocking.Dataset) *index.Index { return buildIndex(b, ds) }
func (b *ExactString) Descriptor() blocking.Descriptor { return b.descriptor(KindExactString, nil) }

// ExactNumeric blocks records whose numeric value is equal.
type ExactNumeric struct {
	base
}

// NewExactNumeric returns an ExactNumeric blocker on attr.
func NewExactNumeric(attr Attr) *ExactNumeric {
	return &ExactNumeric{base{attr: attr}}
}

func (b *ExactNumeric) Kind() string { return string(KindExactNumeric) }
func (b *ExactNumeric) String() string { return b.label("ExactNumeric") }
func (b *ExactNumeric) Overlapping() bool { return false }

func (b *ExactNumeric) BlockKeys(ds *blocking.Dataset, record int) []string {
	v, ok := b.present(ds, record)
	if !ok {
		return nil
	}
	return []string{strconv.FormatFloat(v.Num, 'g', -1, 64)}
}

func (b *ExactNumeric) SameBlock(ds *blocking.Dataset, a, c int) bool { return sameBlock(b, ds, a, c) }
func (b *ExactNumeric) BuildIndex(ds *blocking.Dataset) *index.Index { return buildIndex(b, ds) }
func (b *ExactNumeric) Descriptor() blocking.Descriptor { return b.descriptor(KindExactNumeric, nil) }
