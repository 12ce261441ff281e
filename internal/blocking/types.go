// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// AttributeType classifies the values of one attribute.
type AttributeType int

const (
	// AttributeString holds free text.
	AttributeString AttributeType = iota
	// AttributeNominal holds one value out of a closed set of labels.
	AttributeNominal
	// AttributeNumeric holds real numbers.
	AttributeNumeric
)

// String returns the configuration name of the attribute type.
func (t AttributeType) String() string {
	switch t {
	case AttributeString:
		return "string"
	case AttributeNominal:
		return "nominal"
	case AttributeNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values are numbers.
func (t AttributeType) IsNumeric() bool {
	return t == AttributeNumeric
}

// ParseAttributeType parses a configuration name into an AttributeType.
func ParseAttributeType(name string) (AttributeType, error) {
	switch strings.ToLower(name) {
	case "string":
		return AttributeString, nil
	case "nominal":
		return AttributeNominal, nil
	case "numeric":
		return AttributeNumeric, nil
	default:
		return 0, errors.Newf("unknown attribute type %q", name)
	}
}

// Attribute describes one column of a Dataset.
type Attribute struct {
	// Name is the column name.
	Name string `json:"name"`

	// Type decides which blockers may key on the attribute.
	Type AttributeType `json:"type"`
}

// Value is one attribute value of a record.
type Value struct {
	// Str is set for string and nominal attributes.
	Str string `json:"str,omitempty"`

	// Num is set for numeric attributes.
	Num float64 `json:"num,omitempty"`

	// Missing marks an absent value. Missing values never produce block keys.
	Missing bool `json:"missing,omitempty"`
}

// StringValue returns a present string value.
func StringValue(s string) Value {
	return Value{Str: s}
}

// NumericValue returns a present numeric value.
func NumericValue(f float64) Value {
	return Value{Num: f}
}

// MissingValue returns an absent value.
func MissingValue() Value {
	return Value{Missing: true}
}

// Text renders the value for display.
func (v Value) Text(t AttributeType) string {
	switch {
	case v.Missing:
		return "?"
	case t.IsNumeric():
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return v.Str
	}
}

// Record is one row of a Dataset.
type Record struct {
	// ID is the caller's identifier. It is not used for blocking.
	ID string `json:"id"`

	// Values holds one value per dataset attribute.
	Values []Value `json:"values"`

	// Label is the entity the record refers to. Records with equal labels are
	// duplicates of each other.
	Label string `json:"label,omitempty"`

	// HasLabel is false for records whose entity is unknown.
	HasLabel bool `json:"has_label"`
}

// Dataset is an ordered collection of records sharing one schema.
// Record positions are the indices used in pair codes.
type Dataset struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
	Records    []Record    `json:"records"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// AttributeIndex returns the position of the named attribute, or -1.
func (d *Dataset) AttributeIndex(name string) int {
	for i, a := range d.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Value returns the value of attribute attr of record r.
func (d *Dataset) Value(r, attr int) Value {
	return d.Records[r].Values[attr]
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Name:       d.Name,
		Attributes: append([]Attribute(nil), d.Attributes...),
		Records:    make([]Record, len(d.Records)),
	}
	for i, r := range d.Records {
		r.Values = append([]Value(nil), r.Values...)
		out.Records[i] = r
	}
	return out
}

// Subset returns a dataset holding the given records, in the given order.
// Values are shared with d.
func (d *Dataset) Subset(records []int) *Dataset {
	out := &Dataset{
		Name:       d.Name,
		Attributes: d.Attributes,
		Records:    make([]Record, len(records)),
	}
	for i, r := range records {
		out.Records[i] = d.Records[r]
	}
	return out
}

// Validate checks that every record carries one value per attribute.
func (d *Dataset) Validate() error {
	if len(d.Attributes) == 0 {
		return errors.Wrapf(ErrInvalidDataset, "dataset %q has no attributes", d.Name)
	}
	for i, r := range d.Records {
		if len(r.Values) != len(d.Attributes) {
			return errors.Wrapf(ErrInvalidDataset, "record %d has %d values, want %d",
				i, len(r.Values), len(d.Attributes))
		}
	}
	return nil
}

// SameSchema reports whether other has the same attribute names and types.
func (d *Dataset) SameSchema(other *Dataset) bool {
	if len(d.Attributes) != len(other.Attributes) {
		return false
	}
	for i := range d.Attributes {
		if d.Attributes[i] != other.Attributes[i] {
			return false
		}
	}
	return true
}

// LabelGroups groups the labeled records by label, in order of first
// appearance, and counts the records without a label.
func LabelGroups(ds *Dataset) (groups [][]int, unlabeled int) {
	byLabel := make(map[string]int)
	for i, r := range ds.Records {
		if !r.HasLabel {
			unlabeled++
			continue
		}
		g, ok := byLabel[r.Label]
		if !ok {
			g = len(groups)
			byLabel[r.Label] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups, unlabeled
}
