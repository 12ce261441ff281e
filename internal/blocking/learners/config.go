// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package learners

import (
	"github.com/cockroachdb/errors"

	"github.com/tomtom215/blockwise/internal/blocking/index"
)

// Learner names accepted by New.
const (
	NameSetCover = "setcover"
	NameDNF      = "dnf"
	NameRandom   = "random"
	NameManual   = "manual"
)

// Config selects and parameterizes a learner.
type Config struct {
	// Learner is one of setcover, dnf, random or manual. Default: setcover.
	Learner string `json:"learner" koanf:"learner"`

	SetCover SetCoverConfig `json:"setcover" koanf:"setcover"`
	DNF      DNFConfig      `json:"dnf" koanf:"dnf"`
	Random   RandomConfig   `json:"random" koanf:"random"`
	Manual   ManualConfig   `json:"manual" koanf:"manual"`
}

// SetCoverConfig contains parameters for greedy set-cover selection.
type SetCoverConfig struct {
	// MinImprovement is the cover estimate a candidate must exceed to be
	// selected. Default: 0.001.
	MinImprovement float64 `json:"min_improvement" koanf:"min_improvement"`

	// MinRecall stops selection once this share of true pairs is covered.
	// Default: 1.0.
	MinRecall float64 `json:"min_recall" koanf:"min_recall"`

	// Epsilon stops selection once at most this many true pairs remain
	// uncovered. Default: 10.
	Epsilon int `json:"epsilon" koanf:"epsilon"`

	// Strategy is the cover estimate, redblue or chvatal. Default: redblue.
	Strategy string `json:"strategy" koanf:"strategy"`

	// Smoothing is added to the false-pair count in cost denominators.
	// Default: 50.
	Smoothing float64 `json:"smoothing" koanf:"smoothing"`

	// Eta drops candidates covering more false pairs than this before
	// selection. Zero disables the filter.
	Eta int `json:"eta" koanf:"eta"`

	// MaxBlockers caps the number of selected blockers. Zero means unlimited.
	MaxBlockers int `json:"max_blockers" koanf:"max_blockers"`

	// TrackNegatives makes chvatal count only false pairs not yet covered.
	// Default: false.
	TrackNegatives bool `json:"track_negatives" koanf:"track_negatives"`

	// Workers is the number of candidate indices built concurrently.
	// Default: 1.
	Workers int `json:"workers" koanf:"workers"`
}

// DNFConfig contains parameters for conjunction synthesis.
type DNFConfig struct {
	// MinCover is the combined cover a conjunction must exceed. Default: 0.1.
	MinCover float64 `json:"min_cover" koanf:"min_cover"`

	// TopK keeps, per unary candidate, conjunctions with the K best other
	// attributes. Default: 2.
	TopK int `json:"top_k" koanf:"top_k"`
}

// RandomConfig contains parameters for the random baseline.
type RandomConfig struct {
	// Seed is the shuffle seed. If zero, a fixed default seed is used.
	Seed int64 `json:"seed" koanf:"seed"`

	// MaxBlockers keeps only the first blockers after shuffling.
	// Zero keeps all of them.
	MaxBlockers int `json:"max_blockers" koanf:"max_blockers"`
}

// ManualConfig lists fixed blockers as "kind(attribute;key=value)".
type ManualConfig struct {
	Blockers []string `json:"blockers" koanf:"blockers"`
}

// DefaultConfig returns the default learner configuration.
func DefaultConfig() *Config {
	return &Config{
		Learner:  NameSetCover,
		SetCover: DefaultSetCoverConfig(),
		DNF:      DefaultDNFConfig(),
		Random:   RandomConfig{Seed: 42},
	}
}

// DefaultSetCoverConfig returns the default set-cover parameters.
func DefaultSetCoverConfig() SetCoverConfig {
	return SetCoverConfig{
		MinImprovement: 1e-3,
		MinRecall:      1.0,
		Epsilon:        10,
		Strategy:       index.RedBlue.String(),
		Smoothing:      index.DefaultSmoothing,
		Workers:        1,
	}
}

// DefaultDNFConfig returns the default conjunction parameters.
func DefaultDNFConfig() DNFConfig {
	return DNFConfig{
		MinCover: 0.1,
		TopK:     2,
	}
}

// Validate checks the set-cover parameters.
func (c *SetCoverConfig) Validate() error {
	if c.MinImprovement < 0 {
		return errors.Newf("setcover.min_improvement must be non-negative, got %f", c.MinImprovement)
	}
	if c.MinRecall <= 0 || c.MinRecall > 1 {
		return errors.Newf("setcover.min_recall must be in (0, 1], got %f", c.MinRecall)
	}
	if c.Epsilon < 0 {
		return errors.Newf("setcover.epsilon must be non-negative, got %d", c.Epsilon)
	}
	if _, err := index.ParseStrategy(c.Strategy); err != nil {
		return errors.Wrap(err, "setcover.strategy")
	}
	if c.Smoothing <= 0 {
		return errors.Newf("setcover.smoothing must be positive, got %f", c.Smoothing)
	}
	if c.Eta < 0 {
		return errors.Newf("setcover.eta must be non-negative, got %d", c.Eta)
	}
	if c.MaxBlockers < 0 {
		return errors.Newf("setcover.max_blockers must be non-negative, got %d", c.MaxBlockers)
	}
	if c.Workers < 1 {
		return errors.Newf("setcover.workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Validate checks the conjunction parameters.
func (c *DNFConfig) Validate() error {
	if c.MinCover < 0 {
		return errors.Newf("dnf.min_cover must be non-negative, got %f", c.MinCover)
	}
	if c.TopK < 1 {
		return errors.Newf("dnf.top_k must be positive, got %d", c.TopK)
	}
	return nil
}

// Validate checks the parameters of the selected learner.
func (c *Config) Validate() error {
	switch c.Learner {
	case NameSetCover:
		return c.SetCover.Validate()
	case NameDNF:
		if err := c.SetCover.Validate(); err != nil {
			return err
		}
		return c.DNF.Validate()
	case NameRandom:
		if c.Random.MaxBlockers < 0 {
			return errors.Newf("random.max_blockers must be non-negative, got %d", c.Random.MaxBlockers)
		}
		return nil
	case NameManual:
		if len(c.Manual.Blockers) == 0 {
			return errors.New("manual.blockers must not be empty")
		}
		return nil
	default:
		return errors.Newf("unknown learner %q", c.Learner)
	}
}
