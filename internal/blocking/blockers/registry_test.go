// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/tomtom215/blockwise/internal/blocking"
)

func peopleDataset() *blocking.Dataset {
	return &blocking.Dataset{
		Name: "people",
		Attributes: []blocking.Attribute{
			{Name: "name", Type: blocking.AttributeString},
			{Name: "city", Type: blocking.AttributeNominal},
			{Name: "age", Type: blocking.AttributeNumeric},
		},
		Records: []blocking.Record{
			{Values: []blocking.Value{blocking.StringValue("ann lee"), blocking.StringValue("oslo"), blocking.NumericValue(30)}},
			{Values: []blocking.Value{blocking.StringValue("ann lee"), blocking.StringValue("rome"), blocking.NumericValue(30)}},
			{Values: []blocking.Value{blocking.StringValue("bo lee"), blocking.StringValue("oslo"), blocking.NumericValue(41)}},
			{Values: []blocking.Value{blocking.StringValue("ann li"), blocking.StringValue("oslo"), blocking.MissingValue()}},
		},
	}
}

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec    string
		want    string
		wantErr bool
	}{
		{spec: "exact_string", want: "exact_string"},
		{spec: " first_n_chars:n=5 ", want: "first_n_chars:n=5"},
		{spec: "canopy:threshold=0.7,idf=false", want: "canopy:idf=false,threshold=0.7"},
		{spec: "first_n_chars:n=0", wantErr: true},
		{spec: "first_n_chars:n", wantErr: true},
		{spec: "canopy:threshold=2", wantErr: true},
		{spec: "soundex", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTemplate(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTemplate(%q) = %v, want error", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTemplate(%q) error = %v", tt.spec, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseTemplate(%q).String() = %q, want %q", tt.spec, got.String(), tt.want)
			}
		})
	}
}

func TestParseTemplate_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := ParseTemplate("soundex")
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseTemplate(soundex) error = %v, want ErrUnknownKind", err)
	}
}

func TestTemplate_TypeCompatibility(t *testing.T) {
	t.Parallel()

	ds := peopleDataset()
	tests := []struct {
		kind Kind
		attr int
		want bool
	}{
		{KindExactString, 0, true},
		{KindExactString, 1, true},
		{KindExactString, 2, false},
		{KindExactNumeric, 2, true},
		{KindExactNumeric, 0, false},
		{KindCommonWord, 1, true},
		{KindCanopy, 2, false},
	}
	for _, tt := range tests {
		tmpl, err := NewTemplate(tt.kind, nil)
		if err != nil {
			t.Fatalf("NewTemplate(%s) error = %v", tt.kind, err)
		}
		if _, ok := tmpl.ForAttribute(ds, tt.attr); ok != tt.want {
			t.Errorf("%s.ForAttribute(%s) ok = %v, want %v", tt.kind, ds.Attributes[tt.attr].Name, ok, tt.want)
		}
	}
}

func TestDefaultTemplates(t *testing.T) {
	t.Parallel()

	ts := DefaultTemplates()
	if len(ts) != len(DefaultTemplateSpecs) {
		t.Fatalf("len(DefaultTemplates()) = %d, want %d", len(ts), len(DefaultTemplateSpecs))
	}

	// Every string template applies to name and city, exact_numeric to age.
	ds := peopleDataset()
	var n int
	for _, tmpl := range ts {
		for a := range ds.Attributes {
			if _, ok := tmpl.ForAttribute(ds, a); ok {
				n++
			}
		}
	}
	if want := 5*2 + 1; n != want {
		t.Errorf("candidate blockers = %d, want %d", n, want)
	}
}

func TestNew_RoundTripsDescriptors(t *testing.T) {
	t.Parallel()

	ds := peopleDataset()
	originals := []blocking.Blocker{
		NewExactString(Attr{0, "name"}),
		NewFirstNChars(Attr{0, "name"}, 2),
		NewCommonTokenNGram(Attr{0, "name"}, 1),
		NewExactNumeric(Attr{2, "age"}),
		NewCanopy(Attr{0, "name"}, 0.5, false, 10),
		NewCombo(NewCommonWord(Attr{0, "name"}), NewExactString(Attr{1, "city"})),
	}
	for _, orig := range originals {
		desc := orig.Descriptor()
		rebuilt, err := New(desc, ds)
		if err != nil {
			t.Fatalf("New(%s) error = %v", desc, err)
		}
		if rebuilt.String() != orig.String() {
			t.Errorf("New(%s).String() = %q, want %q", desc, rebuilt.String(), orig.String())
		}
		for r := range ds.Records {
			if got, want := rebuilt.BlockKeys(ds, r), orig.BlockKeys(ds, r); !slices.Equal(got, want) {
				t.Errorf("%s record %d keys = %q, want %q", orig, r, got, want)
			}
		}
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	ds := peopleDataset()
	tests := []struct {
		name string
		desc blocking.Descriptor
	}{
		{"unknown kind", blocking.Descriptor{Kind: "soundex", Attributes: []string{"name"}}},
		{"missing attribute", blocking.Descriptor{Kind: "exact_string", Attributes: []string{"zip"}}},
		{"incompatible type", blocking.Descriptor{Kind: "exact_numeric", Attributes: []string{"name"}}},
		{"two attributes", blocking.Descriptor{Kind: "exact_string", Attributes: []string{"name", "city"}}},
		{"empty combo", blocking.Descriptor{Kind: "combo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.desc, ds); err == nil {
				t.Errorf("New(%s) succeeded, want error", tt.desc)
			}
		})
	}
}

func TestCombo(t *testing.T) {
	t.Parallel()

	ds := peopleDataset()
	combo := NewCombo(NewCommonWord(Attr{0, "name"}), NewExactString(Attr{1, "city"}))

	if got, want := combo.BlockKeys(ds, 0), []string{"ann___oslo", "lee___oslo"}; !slices.Equal(got, want) {
		t.Errorf("BlockKeys(0) = %q, want %q", got, want)
	}
	if combo.Overlapping() {
		t.Error("Overlapping() = true, want false when one part does not overlap")
	}
	if got := combo.Attributes(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Attributes() = %v, want [0 1]", got)
	}

	// 0 and 2 share "lee" and "oslo"; 0 and 1 share words but not city;
	// 0 and 3 share "ann" and "oslo".
	tests := []struct {
		a, b int
		want bool
	}{
		{0, 2, true},
		{0, 1, false},
		{0, 3, true},
		{1, 2, false},
	}
	for _, tt := range tests {
		if got := combo.SameBlock(ds, tt.a, tt.b); got != tt.want {
			t.Errorf("SameBlock(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
	checkConsistent(t, combo, ds)
}

func TestTFIDFScorer(t *testing.T) {
	t.Parallel()

	s := NewTFIDFScorer([]string{"a b", "a c", "a"}, true)
	if w := s.IDFWeight("a"); w != 0 {
		t.Errorf("IDFWeight(a) = %v, want 0 for a term in every document", w)
	}
	if w, want := s.IDFWeight("b"), math.Log(3); math.Abs(w-want) > 1e-12 {
		t.Errorf("IDFWeight(b) = %v, want %v", w, want)
	}
	if w := s.IDFWeight("zzz"); w != 0 {
		t.Errorf("IDFWeight(zzz) = %v, want 0", w)
	}

	flat := NewTFIDFScorer([]string{"a b", "a c", "a"}, false)
	if w := flat.IDFWeight("b"); w != 1 {
		t.Errorf("IDFWeight(b) without idf = %v, want 1", w)
	}
	if got := flat.Tokenize("x y x"); got["x"] != 2 || got["y"] != 1 {
		t.Errorf("Tokenize = %v, want x:2 y:1", got)
	}
}

type constScorer struct{}

func (constScorer) Tokenize(text string) map[string]float64 {
	out := map[string]float64{}
	for _, tok := range Tokenize(text) {
		out[tok]++
	}
	return out
}

func (constScorer) IDFWeight(string) float64 { return 1 }

func TestCanopy_CustomScorerAndRelease(t *testing.T) {
	t.Parallel()

	ds := &blocking.Dataset{
		Attributes: []blocking.Attribute{{Name: "t", Type: blocking.AttributeString}},
		Records: []blocking.Record{
			{Values: []blocking.Value{blocking.StringValue("x y")}},
			{Values: []blocking.Value{blocking.StringValue("x y")}},
			{Values: []blocking.Value{blocking.StringValue("z")}},
		},
	}
	c := NewCanopy(Attr{0, "t"}, 0.9, true, 1000).WithScorer(func([]string) SimilarityScorer {
		return constScorer{}
	})
	if got := c.BlockKeys(ds, 1); !slices.Equal(got, []string{"0"}) {
		t.Errorf("BlockKeys(1) = %q, want [\"0\"]", got)
	}
	if c.SameBlock(ds, 0, 2) {
		t.Error("SameBlock(0, 2) = true, want false")
	}
	c.Release()
	if c.keys != nil {
		t.Error("Release() kept cached canopies")
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := Tokenize("Smith, J. (jr)_42\tfoo/bar")
	want := []string{"Smith", "J", "jr", "42", "foo", "bar"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestParseDescriptor(t *testing.T) {
	t.Parallel()

	d, err := ParseDescriptor("first_n_chars(name;n=4)")
	if err != nil {
		t.Fatalf("ParseDescriptor error = %v", err)
	}
	if d.Kind != "first_n_chars" || !slices.Equal(d.Attributes, []string{"name"}) || d.Params["n"] != "4" {
		t.Errorf("ParseDescriptor = %+v", d)
	}
	if got := d.String(); got != "first_n_chars(name;n=4)" {
		t.Errorf("String() = %q, want round trip", got)
	}

	for _, bad := range []string{"exact_string", "exact_string()", "soundex(name)", "first_n_chars(name;n)"} {
		if _, err := ParseDescriptor(bad); err == nil {
			t.Errorf("ParseDescriptor(%q) succeeded, want error", bad)
		}
	}
}
