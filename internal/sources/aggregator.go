// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/dashboarr/internal/config"
	"github.com/tomtom215/dashboarr/internal/logging"
	"github.com/tomtom215/dashboarr/internal/metrics"
	"github.com/tomtom215/dashboarr/internal/models"
)

// Aggregator fans out to every source adapter concurrently and joins on
// all of them. It is a barrier, never a race: the unified response is
// assembled only after each adapter has produced either a payload or an
// error, and total latency equals the slowest adapter's, bounded by that
// adapter's own timeouts.
type Aggregator struct {
	plex        Source
	qbittorrent Source
	sonarr      Source
	radarr      Source
	overseerr   Source

	urls map[string]string
}

// NewAggregator builds the five adapters over the shared client, each
// wrapped with its own circuit breaker.
func NewAggregator(cfg *config.Config, client *Client, qbit *QBittorrent) *Aggregator {
	return &Aggregator{
		plex:        withBreaker(NewPlex(cfg.Plex, client), "Plex"),
		qbittorrent: withBreaker(qbit, "Qbittorrent"),
		sonarr:      withBreaker(NewSonarr(cfg.Sonarr, client), "Sonarr"),
		radarr:      withBreaker(NewRadarr(cfg.Radarr, client), "Radarr"),
		overseerr:   withBreaker(NewOverseerr(cfg.Overseerr, client), "Overseerr"),
		urls:        cfg.URLMap(),
	}
}

// Fetch runs all five adapters concurrently and waits for every result.
// A slow or failing adapter never delays or corrupts its siblings beyond
// its own timeout budget.
func (a *Aggregator) Fetch(ctx context.Context) models.DashboardResponse {
	var (
		wg   sync.WaitGroup
		resp models.DashboardResponse
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		resp.Plex = fetchOne(ctx, a.plex)
	}()
	go func() {
		defer wg.Done()
		resp.QBittorrent = fetchOne(ctx, a.qbittorrent)
	}()
	go func() {
		defer wg.Done()
		resp.Sonarr = fetchOne(ctx, a.sonarr)
	}()
	go func() {
		defer wg.Done()
		resp.Radarr = fetchOne(ctx, a.radarr)
	}()
	go func() {
		defer wg.Done()
		resp.Overseerr = fetchOne(ctx, a.overseerr)
	}()
	wg.Wait()

	resp.URLs = a.urls
	return resp
}

// fetchOne invokes a single adapter, converting its error — or a
// recovered panic — into an inline result. Nothing an adapter does may
// escape this boundary.
func fetchOne(ctx context.Context, src Source) (result models.SourceResult) {
	start := time.Now()
	outcome := "success"

	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			logging.Error().Str("source", src.Name()).Interface("panic", r).Msg("Source adapter panicked")
			result = models.Errf(fmt.Sprintf("%v", r))
		}
		metrics.RecordSourceFetch(src.Name(), outcome, time.Since(start))
	}()

	data, err := src.Fetch(ctx)
	if err != nil {
		outcome = errorOutcome(err)
		if outcome != "not_configured" {
			logging.Warn().Str("source", src.Name()).Err(err).Msg("Source fetch failed")
		}
		return models.Errf(err.Error())
	}
	return models.Ok(data)
}

// errorOutcome derives the metrics outcome label from a fetch error.
func errorOutcome(err error) string {
	if srcErr, ok := err.(*Error); ok {
		return srcErr.Kind.String()
	}
	return "error"
}
