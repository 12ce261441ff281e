// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/blockwise/internal/config"
	"github.com/tomtom215/blockwise/internal/logging"
	"github.com/tomtom215/blockwise/internal/store"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	storePath  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "blockwise",
		Short: "Learnable blocking for record linkage",
		Long:  "Learn, evaluate and serve blocking schemes that cut the pairs a record linkage system must compare.",
	}
	root.SilenceUsage = true
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: $BLOCKWISE_CONFIG or ./blockwise.yaml)")
	root.PersistentFlags().StringVar(&opts.storePath, "store", "", "run store directory (overrides store.path)")

	root.AddCommand(
		newLearnCmd(opts),
		newEvaluateCmd(opts),
		newRunsCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// loadConfig loads the configuration, applies the global flags and
// initializes logging.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if o.storePath != "" {
		cfg.Store.Path = o.storePath
		cfg.Store.InMemory = false
	}
	logging.Init(cfg.LoggingOptions())
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(store.Options{Path: cfg.Store.Path, InMemory: cfg.Store.InMemory})
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return st, nil
}

// closeStore logs instead of failing: results are already written.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logging.Warn().Err(err).Msg("failed to close run store")
	}
}
