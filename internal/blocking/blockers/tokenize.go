// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"strings"
	"unicode"
)

const punctuation = "'\"\\!@#$%^&*()_-+={}<>,.;:|[]/*~`"

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(punctuation, r)
}

// Tokenize splits s on whitespace and punctuation.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, isDelimiter)
}

// unique removes repeated keys, keeping first occurrences in order.
func unique(keys []string) []string {
	if len(keys) < 2 {
		return keys
	}
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
