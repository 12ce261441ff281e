// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/blockwise/internal/api"
	"github.com/tomtom215/blockwise/internal/config"
	"github.com/tomtom215/blockwise/internal/logging"
	"github.com/tomtom215/blockwise/internal/supervisor"
	"github.com/tomtom215/blockwise/internal/supervisor/services"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the run report API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	mw := api.DefaultMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mw.RateLimitRequests = cfg.Server.RateLimit
	mw.RateLimitDisabled = cfg.Server.RateLimit == 0

	var runs api.RunStore = st
	if cfg.Server.CacheSize > 0 {
		cached, err := api.NewCachedRunStore(st, cfg.Server.CacheSize, cfg.Server.CacheTTL)
		if err != nil {
			return err
		}
		defer cached.Close()
		runs = cached
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(api.NewHandler(runs), mw),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddStoreService(services.NewStoreGCService(st, cfg.Store.GCInterval))
	tree.AddAPIService(services.NewReportAPIService(server, addr, 10*time.Second))

	logging.Info().Str("addr", addr).Str("store", cfg.Store.Path).Msg("serving run reports")
	err = tree.Serve(ctx)
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("services did not stop in time")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("shutdown complete")
	return nil
}
