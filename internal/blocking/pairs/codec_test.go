// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package pairs

import (
	"math/rand"
	"testing"
)

func TestEncodeDecode_Bijection(t *testing.T) {
	t.Parallel()

	const n = 400
	seen := make([]bool, Total(n))
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			c := Encode(i, j)
			if uint64(c) >= Total(n) {
				t.Fatalf("Encode(%d, %d) = %d, want < %d", i, j, c, Total(n))
			}
			if seen[c] {
				t.Fatalf("Encode(%d, %d) = %d collides", i, j, c)
			}
			seen[c] = true

			gi, gj := Decode(c)
			if gi != i || gj != j {
				t.Fatalf("Decode(%d) = (%d, %d), want (%d, %d)", c, gi, gj, i, j)
			}
		}
	}
	for c, ok := range seen {
		if !ok {
			t.Errorf("code %d never produced", c)
		}
	}
}

func TestEncodeDecode_LargeIndices(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data
	for k := 0; k < 10000; k++ {
		i := rng.Intn(10000) + 1
		j := rng.Intn(i)
		gi, gj := Decode(Encode(i, j))
		if gi != i || gj != j {
			t.Fatalf("Decode(Encode(%d, %d)) = (%d, %d)", i, j, gi, gj)
		}
	}

	// Indices near the limit of a uint64 code.
	for _, tc := range [][2]int{{1 << 31, 0}, {1 << 31, 1<<31 - 1}, {3_000_000_000, 2_999_999_999}} {
		gi, gj := Decode(Encode(tc[0], tc[1]))
		if gi != tc[0] || gj != tc[1] {
			t.Errorf("Decode(Encode(%d, %d)) = (%d, %d)", tc[0], tc[1], gi, gj)
		}
	}
}

func TestEncode_Symmetric(t *testing.T) {
	t.Parallel()

	if Encode(7, 3) != Encode(3, 7) {
		t.Errorf("Encode(7, 3) = %d, Encode(3, 7) = %d, want equal", Encode(7, 3), Encode(3, 7))
	}
	if got := Encode(1, 0); got != 0 {
		t.Errorf("Encode(1, 0) = %d, want 0", got)
	}
}

func TestEncode_SelfPairPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("Encode(4, 4) did not panic")
		}
	}()
	Encode(4, 4)
}

func TestTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want uint64
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{6, 15},
		{10000, 49995000},
	}
	for _, tt := range tests {
		if got := Total(tt.n); got != tt.want {
			t.Errorf("Total(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestFromGroups(t *testing.T) {
	t.Parallel()

	// Labels [A, A, A, B, B, C].
	groups := [][]int{{0, 1, 2}, {3, 4}, {5}}
	got := FromGroups(groups)
	if len(got) != 4 {
		t.Fatalf("len(FromGroups) = %d, want 4", len(got))
	}
	want := []Code{Encode(1, 0), Encode(2, 0), Encode(2, 1), Encode(4, 3)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FromGroups[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if n := CountGroups([]int{3, 2, 1}); n != 4 {
		t.Errorf("CountGroups = %d, want 4", n)
	}
}
