// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import (
	"github.com/cockroachdb/errors"
)

// Config contains the engine settings that do not belong to a learner.
type Config struct {
	// Normalize lowercases string values and collapses punctuation before
	// blocking. Default: true.
	Normalize bool `json:"normalize" koanf:"normalize"`

	// TrainDiagnostics re-applies the learned blockers to the training data to
	// report how many true and false pairs they cover. Default: true.
	TrainDiagnostics bool `json:"train_diagnostics" koanf:"train_diagnostics"`

	// Sampling restricts training to a random subset of entities.
	Sampling SamplingConfig `json:"sampling" koanf:"sampling"`

	// Seed is the random seed for sampling.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed" koanf:"seed"`
}

// SamplingConfig contains the by-class training sampler parameters.
type SamplingConfig struct {
	// Enabled turns on sampling. Default: false.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// FractionOfClasses is the share of entities kept when below 1.
	// Default: 0.1.
	FractionOfClasses float64 `json:"fraction_of_classes" koanf:"fraction_of_classes"`

	// MaxClasses caps the number of entities kept. Zero means unlimited.
	MaxClasses int `json:"max_classes" koanf:"max_classes"`

	// MaxInstances stops adding entities once the sample holds this many
	// records. Zero means unlimited.
	MaxInstances int `json:"max_instances" koanf:"max_instances"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Normalize:        true,
		TrainDiagnostics: true,
		Sampling: SamplingConfig{
			FractionOfClasses: 0.1,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Sampling.FractionOfClasses <= 0 || c.Sampling.FractionOfClasses > 1 {
		return errors.Newf("sampling.fraction_of_classes must be in (0, 1], got %f", c.Sampling.FractionOfClasses)
	}
	if c.Sampling.MaxClasses < 0 {
		return errors.Newf("sampling.max_classes must be non-negative, got %d", c.Sampling.MaxClasses)
	}
	if c.Sampling.MaxInstances < 0 {
		return errors.Newf("sampling.max_instances must be non-negative, got %d", c.Sampling.MaxInstances)
	}
	return nil
}
