// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package models

import (
	"github.com/goccy/go-json"
)

// SourceResult is the tagged union every adapter produces: either a
// normalized payload or an inline error descriptor. It serializes as the
// payload itself on success or as {"error": "..."} on failure, so one
// source's outage never blanks the page.
type SourceResult struct {
	Data any
	Err  string
}

// Ok wraps a successful payload.
func Ok(data any) SourceResult {
	return SourceResult{Data: data}
}

// Errf wraps a failure message.
func Errf(msg string) SourceResult {
	return SourceResult{Err: msg}
}

// IsError reports whether the result carries an error instead of data.
func (r SourceResult) IsError() bool {
	return r.Err != ""
}

// MarshalJSON implements json.Marshaler.
func (r SourceResult) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(ErrorResponse{Error: r.Err})
	}
	return json.Marshal(r.Data)
}

// MediaShelf is a sub-result inside the media-server payload: a list of
// items or an inline error for just that shelf. Serializes as a plain
// array on success, mirroring SourceResult's error shape on failure.
type MediaShelf struct {
	Items []MediaItem
	Err   string
}

// MarshalJSON implements json.Marshaler.
func (s MediaShelf) MarshalJSON() ([]byte, error) {
	if s.Err != "" {
		return json.Marshal(ErrorResponse{Error: s.Err})
	}
	if s.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Items)
}

// DashboardResponse is the unified aggregation served to the browser,
// keyed by source name, plus the static map of configured base URLs.
type DashboardResponse struct {
	Plex        SourceResult      `json:"plex"`
	QBittorrent SourceResult      `json:"qbittorrent"`
	Sonarr      SourceResult      `json:"sonarr"`
	Radarr      SourceResult      `json:"radarr"`
	Overseerr   SourceResult      `json:"overseerr"`
	URLs        map[string]string `json:"urls"`
}
