// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"

	"github.com/tomtom215/blockwise/internal/blocking"
)

// parseDataset reads a header of name:type fields followed by rows of
// "|"-separated values. "?" marks a missing value.
func parseDataset(t *testing.T, input string) *blocking.Dataset {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(input), "\n")
	ds := &blocking.Dataset{Name: "test"}
	for _, field := range strings.Fields(lines[0]) {
		name, typ, _ := strings.Cut(field, ":")
		at, err := blocking.ParseAttributeType(typ)
		if err != nil {
			t.Fatalf("header field %q: %v", field, err)
		}
		ds.Attributes = append(ds.Attributes, blocking.Attribute{Name: name, Type: at})
	}
	for i, line := range lines[1:] {
		cells := strings.Split(line, "|")
		if len(cells) != len(ds.Attributes) {
			t.Fatalf("row %d has %d cells, want %d", i, len(cells), len(ds.Attributes))
		}
		rec := blocking.Record{ID: strconv.Itoa(i)}
		for a, cell := range cells {
			switch {
			case cell == "?":
				rec.Values = append(rec.Values, blocking.MissingValue())
			case ds.Attributes[a].Type.IsNumeric():
				f, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					t.Fatalf("row %d: %v", i, err)
				}
				rec.Values = append(rec.Values, blocking.NumericValue(f))
			default:
				rec.Values = append(rec.Values, blocking.StringValue(cell))
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

func TestBlockKeys(t *testing.T) {
	var ds *blocking.Dataset
	datadriven.RunTest(t, "testdata/keys", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "dataset":
			ds = parseDataset(t, td.Input)
			return fmt.Sprintf("%d records\n", ds.Len())

		case "keys":
			var kind, attrName string
			params := Params{}
			for _, arg := range td.CmdArgs {
				switch arg.Key {
				case "kind":
					kind = arg.Vals[0]
				case "attr":
					attrName = arg.Vals[0]
				default:
					params[arg.Key] = arg.Vals[0]
				}
			}
			tmpl, err := NewTemplate(Kind(kind), params)
			if err != nil {
				return err.Error() + "\n"
			}
			attr := ds.AttributeIndex(attrName)
			b, ok := tmpl.ForAttribute(ds, attr)
			if !ok {
				return fmt.Sprintf("not applicable to %s attribute %s\n", ds.Attributes[attr].Type, attrName)
			}
			checkConsistent(t, b, ds)

			var sb strings.Builder
			for r := range ds.Records {
				fmt.Fprintf(&sb, "%d: %q\n", r, b.BlockKeys(ds, r))
			}
			return sb.String()

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

// checkConsistent verifies SameBlock against the built index for every pair.
func checkConsistent(t *testing.T, b blocking.Blocker, ds *blocking.Dataset) {
	t.Helper()
	idx := b.BuildIndex(ds)
	defer idx.Release()
	for a := 0; a < ds.Len(); a++ {
		for c := a + 1; c < ds.Len(); c++ {
			if got, want := b.SameBlock(ds, a, c), idx.SameBlock(a, c); got != want {
				t.Errorf("%s: SameBlock(%d, %d) = %v, index says %v", b, a, c, got, want)
			}
		}
	}
}

func TestCommonInteger_DigitRuns(t *testing.T) {
	t.Parallel()

	ds := parseDataset(t, "unit:string\napt12b34\nunit 12\nflat 1234")
	b := NewCommonInteger(Attr{Index: 0, Name: "unit"})

	if got := b.BlockKeys(ds, 0); len(got) != 2 || got[0] != "12" || got[1] != "34" {
		t.Errorf("BlockKeys(apt12b34) = %q, want [12 34]", got)
	}
	if !b.SameBlock(ds, 0, 1) {
		t.Error("apt12b34 and unit 12 do not share block 12")
	}
	if b.SameBlock(ds, 0, 2) {
		t.Error("apt12b34 and flat 1234 share a block; runs must not be joined")
	}
}
