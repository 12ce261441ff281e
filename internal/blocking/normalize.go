// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, keeps letters and digits, and replaces every run of
// other characters with a single space. The result has no leading or
// trailing space.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			pendingSpace = false
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSpace = true
	}
	return sb.String()
}

// NormalizeDataset returns a copy of ds with Normalize applied to every
// present string and nominal value.
func NormalizeDataset(ds *Dataset) *Dataset {
	out := ds.Clone()
	for a, attr := range out.Attributes {
		if attr.Type.IsNumeric() {
			continue
		}
		for i := range out.Records {
			v := &out.Records[i].Values[a]
			if !v.Missing {
				v.Str = Normalize(v.Str)
			}
		}
	}
	return out
}
