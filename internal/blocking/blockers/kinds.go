// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind is the registry tag of a blocker variant.
type Kind string

// Built-in kinds.
const (
	KindExactString      Kind = "exact_string"
	KindExactNumeric     Kind = "exact_numeric"
	KindFirstNChars      Kind = "first_n_chars"
	KindCommonWord       Kind = "common_word"
	KindCommonTokenNGram Kind = "common_token_ngram"
	KindCommonInteger    Kind = "common_integer"
	KindCanopy           Kind = "canopy"
	KindCombo            Kind = "combo"
)

// Params are the string-typed parameters of a blocker.
type Params map[string]string

// Int returns the integer parameter key, or def when it is unset.
func (p Params) Int(key string, def int) (int, error) {
	s, ok := p[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parameter %s", key)
	}
	return n, nil
}

// Float returns the float parameter key, or def when it is unset.
func (p Params) Float(key string, def float64) (float64, error) {
	s, ok := p[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parameter %s", key)
	}
	return f, nil
}

// Bool returns the boolean parameter key, or def when it is unset.
func (p Params) Bool(key string, def bool) (bool, error) {
	s, ok := p[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.Wrapf(err, "parameter %s", key)
	}
	return b, nil
}

// String renders the parameters as k=v pairs sorted by key.
func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for _, k := range slices.Sorted(maps.Keys(p)) {
		parts = append(parts, k+"="+p[k])
	}
	return strings.Join(parts, ",")
}

// Attr identifies the attribute a unary blocker reads.
type Attr struct {
	Index int
	Name  string
}
