// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/index"
)

// DefaultNGramSize is the default N of CommonTokenNGram.
const DefaultNGramSize = 2

// CommonWord blocks records sharing any token.
type CommonWord struct {
	base
}

// NewCommonWord returns a CommonWord blocker on attr.
func NewCommonWord(attr Attr) *CommonWord {
	return &CommonWord{base{attr: attr}}
}

func (b *CommonWord) Kind() string { return string(KindCommonWord) }
func (b *CommonWord) String() string { return b.label("CommonWord") }
func (b *CommonWord) Overlapping() bool { return true }

func (b *CommonWord) BlockKeys(ds *blocking.Dataset, record int) []string {
	v, ok := b.present(ds, record)
	if !ok {
		return nil
	}
	return unique(Tokenize(v.Str))
}

func (b *CommonWord) SameBlock(ds *blocking.Dataset, a, c int) bool { return sameBlock(b, ds, a, c) }
func (b *CommonWord) BuildIndex(ds *blocking.Dataset) *index.Index { return buildIndex(b, ds) }
func (b *CommonWord) Descriptor() blocking.Descriptor { return b.descriptor(KindCommonWord, nil) }

// CommonTokenNGram blocks records sharing a run of N consecutive tokens.
type CommonTokenNGram struct {
	base
	n int
}

// NewCommonTokenNGram returns a CommonTokenNGram blocker on attr.
func NewCommonTokenNGram(attr Attr, n int) *CommonTokenNGram {
	return &CommonTokenNGram{base: base{attr: attr}, n: n}
}

func (b *CommonTokenNGram) Kind() string { return string(KindCommonTokenNGram) }
func (b *CommonTokenNGram) String() string {
	return "CommonTokenNGram(" + b.attr.Name + "," + strconv.Itoa(b.n) + ")"
}
func (b *CommonTokenNGram) Overlapping() bool { return true }

// BlockKeys concatenates every run of N tokens without a separator. Values
// with fewer than N tokens have no keys.
func (b *CommonTokenNGram) BlockKeys(ds *blocking.Dataset, record int) []string {
	v, ok := b.present(ds, record)
	if !ok {
		return nil
	}
	tokens := Tokenize(v.Str)
	if len(tokens) < b.n {
		return nil
	}
	keys := make([]string, 0, len(tokens)-b.n+1)
	for i := 0; i+b.n <= len(tokens); i++ {
		keys = append(keys, strings.Join(tokens[i:i+b.n], ""))
	}
	return unique(keys)
}

func (b *CommonTokenNGram) SameBlock(ds *blocking.Dataset, a, c int) bool {
	return sameBlock(b, ds, a, c)
}
func (b *CommonTokenNGram) BuildIndex(ds *blocking.Dataset) *index.Index { return buildIndex(b, ds) }

func (b *CommonTokenNGram) Descriptor() blocking.Descriptor {
	return b.descriptor(KindCommonTokenNGram, Params{"n": strconv.Itoa(b.n)})
}

// CommonInteger blocks records sharing a number written inside a token.
// Every maximal run of digits in a token is a key.
type CommonInteger struct {
	base
}

// NewCommonInteger returns a CommonInteger blocker on attr.
func NewCommonInteger(attr Attr) *CommonInteger {
	return &CommonInteger{base{attr: attr}}
}

func (b *CommonInteger) Kind() string { return string(KindCommonInteger) }
func (b *CommonInteger) String() string { return b.label("CommonInteger") }
func (b *CommonInteger) Overlapping() bool { return true }

func (b *CommonInteger) BlockKeys(ds *blocking.Dataset, record int) []string {
	v, ok := b.present(ds, record)
	if !ok {
		return nil
	}
	var keys []string
	for _, tok := range Tokenize(v.Str) {
		keys = append(keys, digitRuns(tok)...)
	}
	return unique(keys)
}

func (b *CommonInteger) SameBlock(ds *blocking.Dataset, a, c int) bool { return sameBlock(b, ds, a, c) }
func (b *CommonInteger) BuildIndex(ds *blocking.Dataset) *index.Index { return buildIndex(b, ds) }
func (b *CommonInteger) Descriptor() blocking.Descriptor { return b.descriptor(KindCommonInteger, nil) }

// digitRuns returns the maximal runs of digits in tok, in order.
func digitRuns(tok string) []string {
	var runs []string
	start := -1
	for i, r := range tok {
		switch {
		case unicode.IsDigit(r) && start < 0:
			start = i
		case !unicode.IsDigit(r) && start >= 0:
			runs = append(runs, tok[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, tok[start:])
	}
	return runs
}
