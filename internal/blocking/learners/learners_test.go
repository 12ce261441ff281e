// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package learners

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/rs/zerolog"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/blockers"
)

// parseLabeled reads a header of name:type fields followed by rows of
// "label|value|value...". A "?" label leaves the record unlabeled.
func parseLabeled(t *testing.T, input string) *blocking.Dataset {
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
		if len(cells) != len(ds.Attributes)+1 {
			t.Fatalf("row %d has %d cells, want %d", i, len(cells), len(ds.Attributes)+1)
		}
		rec := blocking.Record{ID: strconv.Itoa(i)}
		if cells[0] != "?" {
			rec.Label, rec.HasLabel = cells[0], true
		}
		for a, cell := range cells[1:] {
			if ds.Attributes[a].Type.IsNumeric() {
				f, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					t.Fatalf("row %d: %v", i, err)
				}
				rec.Values = append(rec.Values, blocking.NumericValue(f))
				continue
			}
			rec.Values = append(rec.Values, blocking.StringValue(cell))
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

// learnerFromArgs applies command arguments to the default configuration.
func learnerFromArgs(t *testing.T, td *datadriven.TestData) (blocking.Learner, []blocking.Template) {
	t.Helper()
	cfg := DefaultConfig()
	specs := []string{"exact_string"}
	for _, arg := range td.CmdArgs {
		val := arg.Vals[0]
		var err error
		switch arg.Key {
		case "learner":
			cfg.Learner = val
		case "templates":
			specs = arg.Vals
		case "epsilon":
			cfg.SetCover.Epsilon, err = strconv.Atoi(val)
		case "eta":
			cfg.SetCover.Eta, err = strconv.Atoi(val)
		case "max_blockers":
			cfg.SetCover.MaxBlockers, err = strconv.Atoi(val)
		case "smoothing":
			cfg.SetCover.Smoothing, err = strconv.ParseFloat(val, 64)
		case "min_improvement":
			cfg.SetCover.MinImprovement, err = strconv.ParseFloat(val, 64)
		case "min_recall":
			cfg.SetCover.MinRecall, err = strconv.ParseFloat(val, 64)
		case "strategy":
			cfg.SetCover.Strategy = val
		case "track_negatives":
			cfg.SetCover.TrackNegatives, err = strconv.ParseBool(val)
		case "top_k":
			cfg.DNF.TopK, err = strconv.Atoi(val)
		case "min_cover":
			cfg.DNF.MinCover, err = strconv.ParseFloat(val, 64)
		default:
			t.Fatalf("unknown argument %q", arg.Key)
		}
		if err != nil {
			t.Fatalf("argument %s: %v", arg.Key, err)
		}
	}
	learner, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	templates, err := blockers.ParseTemplates(specs)
	if err != nil {
		t.Fatalf("ParseTemplates: %v", err)
	}
	return learner, templates
}

func formatRun(run *blocking.LearnerRun) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "pool: %d synthesized: %d eta_filtered: %d pruned: %d\n",
		run.CandidatePool, run.Synthesized, run.EtaFiltered, run.Pruned)
	for _, s := range run.Steps {
		fmt.Fprintf(&sb, "step %s cover=%.4f new=%d recall=%.4f\n", s.Blocker, s.Cover, s.NewGood, s.Recall)
	}
	list := func(names []string) string {
		if len(names) == 0 {
			return "none"
		}
		return strings.Join(names, ", ")
	}
	fmt.Fprintf(&sb, "selected: %s\n", list(run.Names()))
	fmt.Fprintf(&sb, "subsumed: %s\n", list(run.Subsumed))
	fmt.Fprintf(&sb, "stop: %s\n", run.StopReason)
	fmt.Fprintf(&sb, "recall: %d/%d\n", run.FoundGood, run.TruePairs)
	return sb.String()
}

func TestLearn(t *testing.T) {
	var ds *blocking.Dataset
	datadriven.RunTest(t, "testdata/learn", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "dataset":
			ds = parseLabeled(t, td.Input)
			good, _ := blocking.TruePairs(ds)
			return fmt.Sprintf("%d records, %d true pairs\n", ds.Len(), len(good))

		case "learn":
			learner, templates := learnerFromArgs(t, td)
			run, err := learner.Learn(context.Background(), templates, ds)
			if errors.Is(err, blocking.ErrNoCandidates) {
				return "error: no candidate blockers\n"
			}
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			return formatRun(run)

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

// overlapDataset has three clusters of two; x covers the first two, y the
// last two, and z nothing.
func overlapDataset(t *testing.T) *blocking.Dataset {
	return parseLabeled(t, `x:string y:string z:string
A|a|s|z1
A|a|t|z2
B|b|c|z3
B|b|c|z4
C|m|d|z5
C|n|d|z6`)
}

func TestSetCover_StepsAboveMinImprovement(t *testing.T) {
	t.Parallel()

	ds := overlapDataset(t)
	cfg := DefaultSetCoverConfig()
	cfg.Epsilon = 0
	cfg.MinImprovement = 0.01
	learner, err := NewSetCover(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSetCover: %v", err)
	}
	run, err := learner.Learn(context.Background(), blockers.DefaultTemplates(), ds)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}

	if run.Recall != 1.0 {
		t.Errorf("Recall = %v, want 1", run.Recall)
	}
	for _, s := range run.Steps {
		if s.Cover <= cfg.MinImprovement {
			t.Errorf("step %s cover %v not above %v", s.Blocker, s.Cover, cfg.MinImprovement)
		}
		if s.NewGood == 0 {
			t.Errorf("step %s found no new true pairs", s.Blocker)
		}
	}
	if got := run.Steps[len(run.Steps)-1].Recall; got != 1.0 {
		t.Errorf("last step recall = %v, want 1", got)
	}
}

func TestSetCover_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	ds := overlapDataset(t)
	names := func(workers int) []string {
		cfg := DefaultSetCoverConfig()
		cfg.Epsilon = 0
		cfg.Workers = workers
		learner, err := NewSetCover(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewSetCover: %v", err)
		}
		run, err := learner.Learn(context.Background(), blockers.DefaultTemplates(), ds)
		if err != nil {
			t.Fatalf("Learn: %v", err)
		}
		return run.Names()
	}
	if seq, par := names(1), names(4); !slices.Equal(seq, par) {
		t.Errorf("workers=4 selected %q, workers=1 selected %q", par, seq)
	}
}

func TestSetCover_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	learner, err := NewSetCover(DefaultSetCoverConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSetCover: %v", err)
	}
	if _, err := learner.Learn(ctx, blockers.DefaultTemplates(), overlapDataset(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Learn error = %v, want context.Canceled", err)
	}
}

func TestRandom(t *testing.T) {
	t.Parallel()

	ds := overlapDataset(t)
	templates := blockers.DefaultTemplates()
	learn := func(cfg RandomConfig) *blocking.LearnerRun {
		run, err := NewRandom(cfg, zerolog.Nop()).Learn(context.Background(), templates, ds)
		if err != nil {
			t.Fatalf("Learn: %v", err)
		}
		return run
	}

	a, b := learn(RandomConfig{Seed: 7}), learn(RandomConfig{Seed: 7})
	if !slices.Equal(a.Names(), b.Names()) {
		t.Errorf("same seed gave %q and %q", a.Names(), b.Names())
	}
	if len(a.Selected) != a.CandidatePool {
		t.Errorf("selected %d of %d candidates, want all", len(a.Selected), a.CandidatePool)
	}
	if a.Recall != 1.0 {
		t.Errorf("Recall = %v, want 1 with every candidate deployed", a.Recall)
	}

	capped := learn(RandomConfig{Seed: 7, MaxBlockers: 2})
	if len(capped.Selected) != 2 {
		t.Errorf("len(Selected) = %d, want 2", len(capped.Selected))
	}
	if !slices.Equal(capped.Names(), a.Names()[:2]) {
		t.Errorf("capped selection %q is not a prefix of %q", capped.Names(), a.Names())
	}
}

func TestManual(t *testing.T) {
	t.Parallel()

	ds := overlapDataset(t)
	tests := []struct {
		blockers []string
		want     string
		found    int
	}{
		{[]string{"exact_string(x)"}, "ExactString(x)", 2},
		{[]string{"exact_string(x)", "exact_string(y)"}, "Combo[ExactString(x) & ExactString(y)]", 1},
	}
	for _, tt := range tests {
		m, err := NewManual(ManualConfig{Blockers: tt.blockers}, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewManual(%q): %v", tt.blockers, err)
		}
		run, err := m.Learn(context.Background(), nil, ds)
		if err != nil {
			t.Fatalf("Learn: %v", err)
		}
		if got := run.Names(); !slices.Equal(got, []string{tt.want}) {
			t.Errorf("selected %q, want [%q]", got, tt.want)
		}
		if run.FoundGood != tt.found || run.TruePairs != 3 {
			t.Errorf("found %d/%d, want %d/3", run.FoundGood, run.TruePairs, tt.found)
		}
		if run.StopReason != blocking.StopFixed {
			t.Errorf("StopReason = %s, want %s", run.StopReason, blocking.StopFixed)
		}
	}

	if _, err := NewManual(ManualConfig{Blockers: []string{"soundex(x)"}}, zerolog.Nop()); err == nil {
		t.Error("NewManual with an unknown kind succeeded")
	}
	m, err := NewManual(ManualConfig{Blockers: []string{"exact_string(zip)"}}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManual: %v", err)
	}
	if _, err := m.Learn(context.Background(), nil, ds); err == nil {
		t.Error("Learn with a missing attribute succeeded")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown learner", func(c *Config) { c.Learner = "genetic" }},
		{"negative epsilon", func(c *Config) { c.SetCover.Epsilon = -1 }},
		{"zero smoothing", func(c *Config) { c.SetCover.Smoothing = 0 }},
		{"bad strategy", func(c *Config) { c.SetCover.Strategy = "greedy" }},
		{"min recall above one", func(c *Config) { c.SetCover.MinRecall = 1.5 }},
		{"no workers", func(c *Config) { c.SetCover.Workers = 0 }},
		{"dnf top k", func(c *Config) { c.Learner = NameDNF; c.DNF.TopK = 0 }},
		{"manual empty", func(c *Config) { c.Learner = NameManual }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		cfg := DefaultConfig()
		cfg.Learner = name
		cfg.Manual.Blockers = []string{"exact_string(x)"}
		l, err := New(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if l.Name() != name {
			t.Errorf("New(%s).Name() = %s", name, l.Name())
		}
	}
}
