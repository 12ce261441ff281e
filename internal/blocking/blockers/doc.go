// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package blockers implements the blocker variants and their registry.

# Variants

	exact_string        the whole value
	exact_numeric       the number, formatted with strconv 'g'
	first_n_chars       the first n runes (n=3)
	common_word         every token
	common_token_ngram  every run of n tokens, concatenated (n=2)
	common_integer      every maximal run of digits
	canopy              the center of each TF-IDF canopy the record joins
	combo               Cartesian product of sub-blocker keys

Missing values produce no keys. Numeric kinds apply only to numeric
attributes and string kinds only to string and nominal ones.

# Templates

A Template pairs a kind with parameters and yields one blocker per
compatible attribute. Templates are parsed from "kind" or
"kind:key=value,key=value":

	ts, err := blockers.ParseTemplates([]string{"first_n_chars:n=4", "common_word"})

Blockers persist as blocking.Descriptor values and are rebuilt with New.
*/
package blockers
