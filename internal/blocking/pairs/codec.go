// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

// Package pairs encodes unordered record pairs as single integers and provides
// the sorted-list and bitmap containers used to accumulate candidate pairs.
//
// # Encoding
//
// The pair {i, j} with i > j is encoded as the triangular number
//
//	code = i*(i-1)/2 + j
//
// which is a bijection between [0, N*(N-1)/2) and the unordered pairs of N
// records. Decoding estimates the row with a floating-point square root and
// then corrects it with exact integer arithmetic, so it stays exact for every
// code that fits in 64 bits.
package pairs

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Code identifies an unordered pair of distinct record indices.
type Code uint64

// Encode returns the code of the unordered pair {i, j}.
//
// Encoding a record with itself is a programmer error and panics.
func Encode(i, j int) Code {
	if i == j {
		panic(errors.AssertionFailedf("pairs: cannot encode self-pair (%d, %d)", i, j))
	}
	if i < 0 || j < 0 {
		panic(errors.AssertionFailedf("pairs: negative record index in (%d, %d)", i, j))
	}
	if i < j {
		i, j = j, i
	}
	return Code(tri(uint64(i)) + uint64(j))
}

// Decode returns the pair encoded by c as (larger, smaller).
func Decode(c Code) (i, j int) {
	n := uint64(c)
	hi := uint64(math.Sqrt(2*float64(n))) + 1
	for hi > 1 && tri(hi) > n {
		hi--
	}
	for tri(hi+1) <= n {
		hi++
	}
	return int(hi), int(n - tri(hi))
}

// Total returns the number of unordered pairs among n records.
func Total(n int) uint64 {
	if n < 2 {
		return 0
	}
	return tri(uint64(n))
}

// tri returns h*(h-1)/2 without overflowing the intermediate product.
func tri(h uint64) uint64 {
	if h%2 == 0 {
		return (h / 2) * (h - 1)
	}
	return h * ((h - 1) / 2)
}
