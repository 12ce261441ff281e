// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tomtom215/blockwise/internal/blocking"
)

// FromRows builds a dataset from a header and text rows. A column is
// numeric when every non-empty value parses as a number and at least one
// does. Empty values are missing.
func FromRows(name string, header []string, rows [][]string, opts Options) (*blocking.Dataset, error) {
	pos := func(col string) int { return slices.Index(header, col) }
	labelAt, idAt := -1, -1
	if opts.LabelColumn != "" {
		if labelAt = pos(opts.LabelColumn); labelAt < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.LabelColumn)
		}
	}
	if opts.IDColumn != "" {
		if idAt = pos(opts.IDColumn); idAt < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.IDColumn)
		}
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, want %d", i, len(row), len(header))
		}
	}

	ds := &blocking.Dataset{Name: name}
	var cols []int
	for c, col := range header {
		if !opts.isAttribute(col) {
			continue
		}
		typ := opts.textType(col)
		if numericColumn(rows, c) {
			typ = blocking.AttributeNumeric
		}
		ds.Attributes = append(ds.Attributes, blocking.Attribute{Name: col, Type: typ})
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return nil, ErrNoAttributes
	}

	ds.Records = make([]blocking.Record, len(rows))
	for i, row := range rows {
		rec := blocking.Record{Values: make([]blocking.Value, len(cols))}
		for j, c := range cols {
			rec.Values[j] = parseValue(row[c], ds.Attributes[j].Type)
		}
		if labelAt >= 0 && row[labelAt] != "" {
			rec.Label, rec.HasLabel = row[labelAt], true
		}
		if idAt >= 0 {
			rec.ID = row[idAt]
		}
		ds.Records[i] = rec
	}
	return ds, nil
}

func numericColumn(rows [][]string, c int) bool {
	seen := false
	for _, row := range rows {
		v := strings.TrimSpace(row[c])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func parseValue(s string, typ blocking.AttributeType) blocking.Value {
	if strings.TrimSpace(s) == "" {
		return blocking.MissingValue()
	}
	if typ.IsNumeric() {
		f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64) //nolint:errcheck // checked by numericColumn
		return blocking.NumericValue(f)
	}
	return blocking.StringValue(s)
}
