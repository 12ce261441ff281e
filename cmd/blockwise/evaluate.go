// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/blockwise/internal/pipeline"
)

func newEvaluateCmd(g *globalOptions) *cobra.Command {
	var runID, testPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a stored run on another file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			_, test, err := loadDatasets(ctx, cfg, "", testPath)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			res, err := pipeline.New(cfg, st).Evaluate(ctx, runID, test)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res.Run.Latest())
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "run ID")
	cmd.Flags().StringVar(&testPath, "test", "", "test file (.csv or .parquet)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the evaluation as JSON")
	_ = cmd.MarkFlagRequired("run")
	_ = cmd.MarkFlagRequired("test")
	return cmd
}
