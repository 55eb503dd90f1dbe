// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/dashboarr/internal/config"
	"github.com/tomtom215/dashboarr/internal/models"
)

const arrTimeout = 5 * time.Second

// Arr is the adapter for Sonarr and Radarr, which share the same v3 API:
// health checks partitioned by severity plus the current download queue.
// One type serves both; the display name distinguishes them in error
// messages and metrics.
type Arr struct {
	name    string
	display string
	cfg     config.ArrConfig
	client  *Client
}

// NewSonarr creates the series-manager adapter.
func NewSonarr(cfg config.ArrConfig, client *Client) *Arr {
	return &Arr{name: "sonarr", display: "Sonarr", cfg: cfg, client: client}
}

// NewRadarr creates the movie-manager adapter.
func NewRadarr(cfg config.ArrConfig, client *Client) *Arr {
	return &Arr{name: "radarr", display: "Radarr", cfg: cfg, client: client}
}

// Name implements Source.
func (a *Arr) Name() string { return a.name }

// Configured implements Source.
func (a *Arr) Configured() bool { return a.cfg.Configured() }

type arrHealthEntry struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type arrQueue struct {
	Records []struct {
		Title    string `json:"title"`
		Status   string `json:"status"`
		Protocol string `json:"protocol"`
	} `json:"records"`
}

// Fetch implements Source.
func (a *Arr) Fetch(ctx context.Context) (any, error) {
	if !a.Configured() {
		return nil, NotConfigured(a.display)
	}

	headers := map[string]string{"X-Api-Key": a.cfg.APIKey}

	healthCtx, cancelHealth := context.WithTimeout(ctx, arrTimeout)
	defer cancelHealth()

	var health []arrHealthEntry
	if err := a.client.GetJSON(healthCtx, a.display, a.cfg.URL+"/api/v3/health", headers, &health); err != nil {
		return nil, a.renameStatusError(err, "Health")
	}

	payload := models.ArrPayload{
		Errors:   []models.HealthIssue{},
		Warnings: []models.HealthIssue{},
		Activity: []models.QueueItem{},
	}
	for _, entry := range health {
		issue := models.HealthIssue{Type: entry.Type, Message: entry.Message}
		switch entry.Type {
		case "error":
			payload.Errors = append(payload.Errors, issue)
		case "warning":
			payload.Warnings = append(payload.Warnings, issue)
		}
	}

	queueCtx, cancelQueue := context.WithTimeout(ctx, arrTimeout)
	defer cancelQueue()

	var queue arrQueue
	if err := a.client.GetJSON(queueCtx, a.display, a.cfg.URL+"/api/v3/queue", headers, &queue); err != nil {
		return nil, a.renameStatusError(err, "Queue")
	}
	for _, rec := range queue.Records {
		payload.Activity = append(payload.Activity, models.QueueItem{
			Title:    rec.Title,
			Status:   rec.Status,
			Protocol: rec.Protocol,
		})
	}

	return payload, nil
}

// renameStatusError qualifies HTTP status errors with the endpoint that
// produced them ("Sonarr Health HTTP 503"); other kinds pass through.
func (a *Arr) renameStatusError(err error, endpoint string) error {
	srcErr, ok := err.(*Error)
	if !ok || srcErr.Kind != KindHTTPStatus {
		return err
	}
	srcErr.Message = fmt.Sprintf("%s %s HTTP %d", a.display, endpoint, srcErr.StatusCode)
	return srcErr
}
