// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package pairs

import (
	"slices"
)

// Sort sorts codes in ascending order and removes duplicates in place.
func Sort(codes []Code) []Code {
	slices.Sort(codes)
	return slices.Compact(codes)
}

// Contains reports whether c is present in the ascending slice sorted.
func Contains(sorted []Code, c Code) bool {
	_, found := slices.BinarySearch(sorted, c)
	return found
}

// Merge returns the sorted union of two ascending slices.
// Neither input is modified.
func Merge(a, b []Code) []Code {
	out := make([]Code, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// CountMissing returns how many elements of sub are absent from set.
// Both slices must be ascending.
func CountMissing(sub, set []Code) int {
	missing := 0
	j := 0
	for _, c := range sub {
		for j < len(set) && set[j] < c {
			j++
		}
		if j >= len(set) || set[j] != c {
			missing++
		}
	}
	return missing
}

// IsStrictSubset reports whether every element of a is in b and b is larger.
// Both slices must be ascending and free of duplicates.
func IsStrictSubset(a, b []Code) bool {
	return len(a) < len(b) && CountMissing(a, b) == 0
}

// FromGroups returns the sorted codes of every pair drawn from the same group.
// Groups must not repeat an index.
func FromGroups(groups [][]int) []Code {
	var n uint64
	for _, g := range groups {
		n += Total(len(g))
	}
	out := make([]Code, 0, n)
	for _, g := range groups {
		for a := 0; a < len(g)-1; a++ {
			for b := a + 1; b < len(g); b++ {
				out = append(out, Encode(g[a], g[b]))
			}
		}
	}
	slices.Sort(out)
	return out
}

// CountGroups returns the number of same-group pairs, the sum of C(len, 2).
func CountGroups(sizes []int) uint64 {
	var n uint64
	for _, s := range sizes {
		n += Total(s)
	}
	return n
}
