// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

// Package main is the entry point for the Dashboarr server.
//
// Dashboarr is a self-hosted home media dashboard. One service polls five
// independent backends — Plex, qBittorrent, Sonarr, Radarr, Overseerr —
// concurrently, normalizes their responses and serves a single JSON
// document to the browser, plus a command endpoint for deleting torrents.
//
// # Startup order
//
//  1. Configuration: layered load via Koanf v2 (defaults, config.yaml,
//     environment variables)
//  2. Logging: zerolog global logger
//  3. Shared upstream HTTP client (single cookie jar for the torrent
//     client's session auth)
//  4. Source adapters and aggregator
//  5. HTTP server under a suture supervisor tree
//
// A source with missing configuration never fails startup; it simply
// renders as "not configured" on the dashboard.
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: new connections stop,
// in-flight requests get the configured shutdown timeout to finish.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/dashboarr/internal/api"
	"github.com/tomtom215/dashboarr/internal/cache"
	"github.com/tomtom215/dashboarr/internal/config"
	"github.com/tomtom215/dashboarr/internal/logging"
	"github.com/tomtom215/dashboarr/internal/sources"
	"github.com/tomtom215/dashboarr/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting Dashboarr")

	for name, url := range cfg.URLMap() {
		logging.Debug().Str("source", name).Str("url", url).Msg("Source base URL")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One HTTP client for all upstreams; its cookie jar carries the
	// torrent client's session.
	client := sources.NewClient()

	qbit := sources.NewQBittorrent(cfg.QBittorrent, client)
	aggregator := sources.NewAggregator(cfg, client, qbit)

	responseCache := cache.New(cfg.API.CacheTTL)

	handler := api.NewHandler(aggregator, qbit, responseCache)
	router := api.NewRouter(handler, cfg.API)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("Dashboarr stopped gracefully")
}
