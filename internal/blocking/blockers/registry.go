// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blockers

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/tomtom215/blockwise/internal/blocking"
)

// ErrUnknownKind is returned for a kind that was never registered.
var ErrUnknownKind = errors.New("unknown blocker kind")

// Factory constructs a unary blocker on attr from its parameters.
type Factory func(attr Attr, params Params) (blocking.Blocker, error)

// Registration describes one blocker kind.
type Registration struct {
	// New builds the blocker.
	New Factory

	// Numeric kinds apply only to numeric attributes, the others only to
	// string and nominal attributes.
	Numeric bool
}

// accepts reports whether the kind suits attributes of type t.
func (r Registration) accepts(t blocking.AttributeType) bool {
	return r.Numeric == t.IsNumeric()
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Kind]Registration)
)

//nolint:gochecknoinits // built-in kinds must be registered before any lookup
func init() {
	Register(KindExactString, Registration{New: func(a Attr, _ Params) (blocking.Blocker, error) {
		return NewExactString(a), nil
	}})
	Register(KindExactNumeric, Registration{Numeric: true, New: func(a Attr, _ Params) (blocking.Blocker, error) {
		return NewExactNumeric(a), nil
	}})
	Register(KindFirstNChars, Registration{New: func(a Attr, p Params) (blocking.Blocker, error) {
		n, err := p.Int("n", DefaultPrefixLength)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, errors.Newf("first_n_chars: n must be positive, got %d", n)
		}
		return NewFirstNChars(a, n), nil
	}})
	Register(KindCommonWord, Registration{New: func(a Attr, _ Params) (blocking.Blocker, error) {
		return NewCommonWord(a), nil
	}})
	Register(KindCommonTokenNGram, Registration{New: func(a Attr, p Params) (blocking.Blocker, error) {
		n, err := p.Int("n", DefaultNGramSize)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, errors.Newf("common_token_ngram: n must be positive, got %d", n)
		}
		return NewCommonTokenNGram(a, n), nil
	}})
	Register(KindCommonInteger, Registration{New: func(a Attr, _ Params) (blocking.Blocker, error) {
		return NewCommonInteger(a), nil
	}})
	Register(KindCanopy, Registration{New: newCanopyFromParams})
}

func newCanopyFromParams(a Attr, p Params) (blocking.Blocker, error) {
	threshold, err := p.Float("threshold", DefaultCanopyThreshold)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 || threshold > 1 {
		return nil, errors.Newf("canopy: threshold must be in (0, 1], got %f", threshold)
	}
	useIDF, err := p.Bool("idf", true)
	if err != nil {
		return nil, err
	}
	maxDF, err := p.Int("max_df", DefaultCanopyMaxDF)
	if err != nil {
		return nil, err
	}
	if maxDF < 2 {
		return nil, errors.Newf("canopy: max_df must be at least 2, got %d", maxDF)
	}
	return NewCanopy(a, threshold, useIDF, maxDF), nil
}

// Register adds or replaces a blocker kind.
func Register(kind Kind, reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = reg
}

func lookup(kind Kind) (Registration, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[kind]
	if !ok {
		return Registration{}, errors.Wrapf(ErrUnknownKind, "%q", string(kind))
	}
	return reg, nil
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

// New rebuilds a blocker from its descriptor against ds, resolving
// attributes by name.
func New(desc blocking.Descriptor, ds *blocking.Dataset) (blocking.Blocker, error) {
	if Kind(desc.Kind) == KindCombo {
		if len(desc.Parts) == 0 {
			return nil, errors.New("combo: no parts")
		}
		parts := make([]blocking.Blocker, len(desc.Parts))
		for i, pd := range desc.Parts {
			p, err := New(pd, ds)
			if err != nil {
				return nil, errors.Wrapf(err, "combo part %d", i)
			}
			parts[i] = p
		}
		return NewCombo(parts...), nil
	}

	reg, err := lookup(Kind(desc.Kind))
	if err != nil {
		return nil, err
	}
	if len(desc.Attributes) != 1 {
		return nil, errors.Newf("%s: want exactly one attribute, got %d", desc.Kind, len(desc.Attributes))
	}
	name := desc.Attributes[0]
	attr := ds.AttributeIndex(name)
	if attr < 0 {
		return nil, errors.Newf("%s: attribute %q not in dataset", desc.Kind, name)
	}
	if !reg.accepts(ds.Attributes[attr].Type) {
		return nil, errors.Newf("%s: attribute %q has incompatible type %s",
			desc.Kind, name, ds.Attributes[attr].Type)
	}
	return reg.New(Attr{Index: attr, Name: name}, Params(desc.Params))
}

// NewAll rebuilds every descriptor against ds.
func NewAll(descs []blocking.Descriptor, ds *blocking.Dataset) ([]blocking.Blocker, error) {
	out := make([]blocking.Blocker, len(descs))
	for i, d := range descs {
		b, err := New(d, ds)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Template instantiates one blocker kind for each compatible attribute.
type Template struct {
	kind   Kind
	params Params
	reg    Registration
}

// NewTemplate returns a template for kind. The parameters are checked
// eagerly.
func NewTemplate(kind Kind, params Params) (*Template, error) {
	reg, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	if _, err := reg.New(Attr{}, params); err != nil {
		return nil, err
	}
	return &Template{kind: kind, params: params, reg: reg}, nil
}

// Kind returns the kind of blockers the template produces.
func (t *Template) Kind() string { return string(t.kind) }

// String renders the template as it is parsed by ParseTemplate.
func (t *Template) String() string {
	if len(t.params) == 0 {
		return string(t.kind)
	}
	return string(t.kind) + ":" + t.params.String()
}

// ForAttribute returns a blocker on attr, or false when the attribute type
// does not suit the kind.
func (t *Template) ForAttribute(ds *blocking.Dataset, attr int) (blocking.Blocker, bool) {
	a := ds.Attributes[attr]
	if !t.reg.accepts(a.Type) {
		return nil, false
	}
	b, err := t.reg.New(Attr{Index: attr, Name: a.Name}, t.params)
	if err != nil {
		return nil, false
	}
	return b, true
}

// ParseTemplate parses "kind" or "kind:key=value,key=value".
func ParseTemplate(spec string) (*Template, error) {
	kind, rest, _ := strings.Cut(strings.TrimSpace(spec), ":")
	params := Params{}
	if rest != "" {
		for _, kv := range strings.Split(rest, ",") {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || strings.TrimSpace(k) == "" {
				return nil, errors.Newf("template %q: malformed parameter %q", spec, kv)
			}
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	t, err := NewTemplate(Kind(kind), params)
	if err != nil {
		return nil, errors.Wrapf(err, "template %q", spec)
	}
	return t, nil
}

// ParseTemplates parses every spec.
func ParseTemplates(specs []string) ([]blocking.Template, error) {
	out := make([]blocking.Template, 0, len(specs))
	for _, s := range specs {
		t, err := ParseTemplate(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// DefaultTemplateSpecs are the templates used when none are configured.
var DefaultTemplateSpecs = []string{
	string(KindExactString),
	string(KindExactNumeric),
	string(KindFirstNChars) + ":n=3",
	string(KindCommonWord),
	string(KindCommonTokenNGram) + ":n=2",
	string(KindCommonInteger),
}

// DefaultTemplates returns the templates of DefaultTemplateSpecs.
func DefaultTemplates() []blocking.Template {
	ts, err := ParseTemplates(DefaultTemplateSpecs)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "default templates"))
	}
	return ts
}

// ParseDescriptor parses the unary form written by blocking.Descriptor.String,
// "kind(attribute;key=value;key=value)".
func ParseDescriptor(s string) (blocking.Descriptor, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return blocking.Descriptor{}, errors.Newf("descriptor %q: want kind(attribute;key=value)", s)
	}
	fields := strings.Split(s[open+1:len(s)-1], ";")
	attr := strings.TrimSpace(fields[0])
	if attr == "" {
		return blocking.Descriptor{}, errors.Newf("descriptor %q: no attribute", s)
	}
	d := blocking.Descriptor{
		Kind:       strings.TrimSpace(s[:open]),
		Attributes: []string{attr},
	}
	for _, kv := range fields[1:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return blocking.Descriptor{}, errors.Newf("descriptor %q: malformed parameter %q", s, kv)
		}
		if d.Params == nil {
			d.Params = map[string]string{}
		}
		d.Params[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if _, err := lookup(Kind(d.Kind)); err != nil {
		return blocking.Descriptor{}, err
	}
	return d, nil
}
