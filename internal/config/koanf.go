// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/blockers"
	"github.com/tomtom215/blockwise/internal/blocking/learners"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"blockwise.yaml",
	"blockwise.yml",
	"/etc/blockwise/config.yaml",
	"/etc/blockwise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "BLOCKWISE_CONFIG"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Blocking:  *blocking.DefaultConfig(),
		Learner:   *learners.DefaultConfig(),
		Templates: append([]string(nil), blockers.DefaultTemplateSpecs...),
		Dataset: DatasetConfig{
			LabelColumn: "label",
		},
		Store: StoreConfig{
			Path:       "/data/blockwise",
			GCInterval: 10 * time.Minute,
		},
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8390,
			Timeout:   30 * time.Second,
			RateLimit: 600,
			CacheSize: 256,
			CacheTTL:  5 * time.Minute,
		},
	}
}

// Default returns the default configuration without reading a file or the
// environment.
func Default() *Config {
	return defaultConfig()
}

// Load loads configuration from defaults, the config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// LOG_LEVEL -> logging.level
	// BLOCKWISE_LEARNER -> learner.learner
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the config file to load, or "" when there is none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are the list settings that environment variables set as
// comma-separated strings.
var sliceConfigPaths = []string{
	"templates",
	"learner.manual.blockers",
	"dataset.exclude",
	"dataset.nominal",
	"server.cors_origins",
}

// processSliceFields splits comma-separated strings at sliceConfigPaths.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Engine
	"blockwise_normalize":         "blocking.normalize",
	"blockwise_train_diagnostics": "blocking.train_diagnostics",
	"blockwise_seed":              "blocking.seed",
	"blockwise_sampling_enabled":  "blocking.sampling.enabled",
	"blockwise_sampling_fraction": "blocking.sampling.fraction_of_classes",
	"blockwise_sampling_classes":  "blocking.sampling.max_classes",
	"blockwise_sampling_records":  "blocking.sampling.max_instances",
	"blockwise_templates":         "templates",

	// Learners
	"blockwise_learner":         "learner.learner",
	"blockwise_min_improvement": "learner.setcover.min_improvement",
	"blockwise_min_recall":      "learner.setcover.min_recall",
	"blockwise_epsilon":         "learner.setcover.epsilon",
	"blockwise_strategy":        "learner.setcover.strategy",
	"blockwise_smoothing":       "learner.setcover.smoothing",
	"blockwise_eta":             "learner.setcover.eta",
	"blockwise_max_blockers":    "learner.setcover.max_blockers",
	"blockwise_track_negatives": "learner.setcover.track_negatives",
	"blockwise_workers":         "learner.setcover.workers",
	"blockwise_dnf_min_cover":   "learner.dnf.min_cover",
	"blockwise_dnf_top_k":       "learner.dnf.top_k",
	"blockwise_random_seed":     "learner.random.seed",
	"blockwise_random_max":      "learner.random.max_blockers",
	"blockwise_manual_blockers": "learner.manual.blockers",

	// Dataset
	"dataset_label_column": "dataset.label_column",
	"dataset_id_column":    "dataset.id_column",
	"dataset_exclude":      "dataset.exclude",
	"dataset_nominal":      "dataset.nominal",

	// Store
	"store_path":        "store.path",
	"store_in_memory":   "store.in_memory",
	"store_gc_interval": "store.gc_interval",

	// Server
	"http_host":       "server.host",
	"http_port":       "server.port",
	"http_timeout":    "server.timeout",
	"http_rate_limit": "server.rate_limit",
	"cors_origins":    "server.cors_origins",
	"http_cache_size": "server.cache_size",
	"http_cache_ttl":  "server.cache_ttl",
}

// envTransformFunc maps an environment variable name to its config path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
