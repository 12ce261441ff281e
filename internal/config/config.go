// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package config

import (
	"time"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/learners"
	"github.com/tomtom215/blockwise/internal/dataset"
	"github.com/tomtom215/blockwise/internal/logging"
)

// Config holds all application configuration
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Blocking  blocking.Config `koanf:"blocking"`
	Learner   learners.Config `koanf:"learner"`
	Templates []string        `koanf:"templates" validate:"required,min=1,dive,blocker_template"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic off disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DatasetConfig describes how record files are turned into datasets
type DatasetConfig struct {
	// LabelColumn names the entity column. Records with equal labels are
	// duplicates.
	LabelColumn string `koanf:"label_column" validate:"required"`

	// IDColumn names an optional record identifier column.
	IDColumn string `koanf:"id_column"`

	// Exclude lists columns that are not blocking attributes.
	Exclude []string `koanf:"exclude"`

	// Nominal lists text columns holding labels from a closed set.
	Nominal []string `koanf:"nominal"`
}

// StoreConfig holds run store configuration
type StoreConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval" validate:"min=1m"`
}

// ServerConfig holds report API configuration
type ServerConfig struct {
	Host        string        `koanf:"host" validate:"required"`
	Port        int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout     time.Duration `koanf:"timeout" validate:"min=1s"`
	RateLimit   int           `koanf:"rate_limit" validate:"min=0"` // requests per minute per client, 0 disables
	CORSOrigins []string      `koanf:"cors_origins"`

	// CacheSize is the number of decoded runs kept in memory. 0 disables
	// the cache.
	CacheSize int           `koanf:"cache_size" validate:"min=0"`
	CacheTTL  time.Duration `koanf:"cache_ttl" validate:"min=0"`
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}

// DatasetOptions converts the dataset section for the dataset loader.
func (c *Config) DatasetOptions() dataset.Options {
	return dataset.Options{
		LabelColumn: c.Dataset.LabelColumn,
		IDColumn:    c.Dataset.IDColumn,
		Exclude:     c.Dataset.Exclude,
		Nominal:     c.Dataset.Nominal,
	}
}
