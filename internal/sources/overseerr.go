// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/dashboarr/internal/config"
	"github.com/tomtom215/dashboarr/internal/logging"
	"github.com/tomtom215/dashboarr/internal/models"
)

const (
	overseerrListTimeout   = 2 * time.Second
	overseerrDetailTimeout = 3 * time.Second
	overseerrPageSize      = 50

	// statusPendingApproval is the request status the dashboard cares about.
	statusPendingApproval = 1

	tmdbPosterBase = "https://image.tmdb.org/t/p/w200"

	unknownTitle = "Unknown Title"
	unknownDate  = "Unknown Date"
)

// Overseerr fetches pending media requests. Title and poster come from
// the list response when present; otherwise a best-effort detail lookup
// fills them in, throttled so enrichment never hammers the backend and
// swallowed on failure so it only ever degrades the fields it would have
// populated.
type Overseerr struct {
	cfg     config.OverseerrConfig
	client  *Client
	limiter *rate.Limiter
}

// NewOverseerr creates the request-service adapter. Detail lookups are
// capped at 10/s with a small burst.
func NewOverseerr(cfg config.OverseerrConfig, client *Client) *Overseerr {
	return &Overseerr{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

// Name implements Source.
func (o *Overseerr) Name() string { return "overseerr" }

// Configured implements Source.
func (o *Overseerr) Configured() bool { return o.cfg.Configured() }

type overseerrRequestList struct {
	Results []overseerrRequest `json:"results"`
}

type overseerrRequest struct {
	ID          int            `json:"id"`
	Status      int            `json:"status"`
	Type        string         `json:"type"`
	CreatedAt   string         `json:"createdAt"`
	Media       map[string]any `json:"media"`
	RequestedBy struct {
		Email  string `json:"email"`
		Avatar string `json:"avatar"`
	} `json:"requestedBy"`
}

// Fetch implements Source. Requests are filtered to pending approval and
// kept in the upstream's order.
func (o *Overseerr) Fetch(ctx context.Context) (any, error) {
	if !o.Configured() {
		return nil, NotConfigured("Overseerr")
	}

	headers := map[string]string{"X-Api-Key": o.cfg.APIKey}

	listCtx, cancel := context.WithTimeout(ctx, overseerrListTimeout)
	defer cancel()

	listURL := fmt.Sprintf("%s/api/v1/request?take=%d&sort=added&skip=0", o.cfg.URL, overseerrPageSize)
	var list overseerrRequestList
	if err := o.client.GetJSON(listCtx, "Overseerr", listURL, headers, &list); err != nil {
		return nil, err
	}

	pending := []models.PendingRequest{}
	for _, item := range list.Results {
		if item.Status != statusPendingApproval {
			continue
		}

		title := extractTitle(item.Media)
		posterPath := stringField(item.Media, "posterPath")
		tmdbID := intField(item.Media, "tmdbId")

		if (title == unknownTitle || posterPath == "") && tmdbID != 0 && item.Type != "" {
			o.enrich(ctx, headers, item.Type, tmdbID, &title, &posterPath)
		}

		image := ""
		if posterPath != "" {
			image = tmdbPosterBase + posterPath
		}

		pending = append(pending, models.PendingRequest{
			ID:         item.ID,
			Title:      title,
			User:       requesterName(item.RequestedBy.Email),
			UserAvatar: item.RequestedBy.Avatar,
			Date:       formatRequestDate(item.CreatedAt),
			Image:      image,
			Status:     "Pending Approval",
		})
	}

	return models.OverseerrPayload{Requests: pending, Count: len(pending)}, nil
}

// enrich fills in a missing title or poster from the per-title detail
// endpoint. All failures are swallowed.
func (o *Overseerr) enrich(ctx context.Context, headers map[string]string, mediaType string, tmdbID int, title, posterPath *string) {
	if err := o.limiter.Wait(ctx); err != nil {
		return
	}

	detailCtx, cancel := context.WithTimeout(ctx, overseerrDetailTimeout)
	defer cancel()

	detailURL := fmt.Sprintf("%s/api/v1/%s/%d", o.cfg.URL, mediaType, tmdbID)
	var details map[string]any
	if err := o.client.GetJSON(detailCtx, "Overseerr", detailURL, headers, &details); err != nil {
		logging.Debug().Err(err).Int("tmdb_id", tmdbID).Msg("Overseerr detail lookup failed")
		return
	}

	if t := stringField(details, "title"); t != "" {
		*title = t
	} else if n := stringField(details, "name"); n != "" {
		*title = n
	}
	if *posterPath == "" {
		if p := stringField(details, "posterPath"); p != "" {
			*posterPath = p
		}
	}
}

// extractTitle tries the known title keys in a fixed order; the first one
// present wins.
func extractTitle(media map[string]any) string {
	for _, key := range []string{"title", "name", "originalTitle", "originalName"} {
		if v, ok := media[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return unknownTitle
}

// requesterName shows the local part of the requester's email address.
func requesterName(email string) string {
	if email == "" {
		email = "Unknown User"
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// formatRequestDate renders an ISO timestamp as YYYY-MM-DD, ignoring any
// fractional-second suffix. Unparseable input falls back to a placeholder.
func formatRequestDate(createdAt string) string {
	if createdAt == "" {
		return unknownDate
	}
	trimmed, _, _ := strings.Cut(createdAt, ".")
	t, err := time.Parse("2006-01-02T15:04:05", trimmed)
	if err != nil {
		return unknownDate
	}
	return t.Format("2006-01-02")
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
