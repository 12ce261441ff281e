// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package config loads the Blockwise configuration with koanf.

Configuration is layered, later layers overriding earlier ones:

 1. Defaults from defaultConfig
 2. A YAML file: $BLOCKWISE_CONFIG, or the first of DefaultConfigPaths
 3. Environment variables listed in envTransformFunc

Environment variables holding lists (BLOCKWISE_TEMPLATES, DATASET_EXCLUDE,
CORS_ORIGINS, ...) are comma separated.

# Example File

	logging:
	  level: debug
	learner:
	  learner: dnf
	  setcover:
	    min_recall: 0.95
	    epsilon: 0
	  dnf:
	    top_k: 3
	templates:
	  - exact_string
	  - first_n_chars:n=4
	  - canopy:threshold=0.8
	dataset:
	  label_column: entity_id
	store:
	  path: /var/lib/blockwise

# Usage

	cfg, err := config.Load()
	if err != nil {
	    return err
	}
	learner, err := learners.New(&cfg.Learner, logger)
*/
package config
