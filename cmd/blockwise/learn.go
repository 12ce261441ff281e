// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/config"
	"github.com/tomtom215/blockwise/internal/dataset"
	"github.com/tomtom215/blockwise/internal/logging"
	"github.com/tomtom215/blockwise/internal/pipeline"
	"github.com/tomtom215/blockwise/internal/store"
)

type learnOptions struct {
	train     string
	test      string
	learner   string
	templates []string
	save      bool
	asJSON    bool
}

func newLearnCmd(g *globalOptions) *cobra.Command {
	opts := &learnOptions{}
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn a blocking scheme from a labeled file",
		Long: "Learn selects blockers on the training file and evaluates them on the test file " +
			"(the training file when --test is not given). CSV and Parquet files are accepted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return runLearn(cmd, cfg, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.train, "train", "", "training file (.csv or .parquet)")
	f.StringVar(&opts.test, "test", "", "test file (default: the training file)")
	f.StringVar(&opts.learner, "learner", "", "learner: setcover, dnf, random or manual (overrides learner.learner)")
	f.StringSliceVar(&opts.templates, "template", nil, "blocker template, repeatable (overrides templates)")
	f.BoolVar(&opts.save, "save", false, "save the run to the run store")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("train")
	return cmd
}

func runLearn(cmd *cobra.Command, cfg *config.Config, opts *learnOptions) error {
	if opts.learner != "" {
		cfg.Learner.Learner = opts.learner
	}
	if len(opts.templates) > 0 {
		cfg.Templates = opts.templates
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	train, test, err := loadDatasets(ctx, cfg, opts.train, opts.test)
	if err != nil {
		return err
	}

	var st *store.Store
	if opts.save {
		if st, err = openStore(cfg); err != nil {
			return err
		}
		defer closeStore(st)
	}

	res, err := pipeline.New(cfg, st).Learn(ctx, train, test, opts.save)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return printJSON(cmd.OutOrStdout(), res.Run)
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// loadDatasets reads the training and test files. An empty test path
// returns a nil test dataset.
func loadDatasets(ctx context.Context, cfg *config.Config, trainPath, testPath string) (train, test *blocking.Dataset, err error) {
	loader, err := dataset.Open(logging.WithComponent("dataset"))
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := loader.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("failed to close dataset loader")
		}
	}()

	opts := cfg.DatasetOptions()
	if trainPath != "" {
		if train, err = loader.LoadFile(ctx, trainPath, opts); err != nil {
			return nil, nil, fmt.Errorf("training file: %w", err)
		}
	}
	if testPath != "" {
		if test, err = loader.LoadFile(ctx, testPath, opts); err != nil {
			return nil, nil, fmt.Errorf("test file: %w", err)
		}
	}
	return train, test, nil
}
