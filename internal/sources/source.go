// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

// Package sources implements the per-backend adapters and the concurrent
// aggregation over them. Each adapter normalizes one upstream (media
// server, torrent client, download managers, request service) into the
// UI-ready payloads in internal/models.
//
// Adapters never let a failure escape as anything but an error return:
// the aggregator converts those, and any recovered panic, into inline
// per-source error entries so one backend's outage cannot blank the
// dashboard.
package sources

import "context"

// Source is the common adapter capability. Name returns the JSON key the
// source occupies in the unified response; Fetch produces the normalized
// payload or a classified error.
//
// Fetch must apply its own per-call deadlines via the supplied context and
// must perform zero network activity when the source is not configured.
type Source interface {
	Name() string
	Configured() bool
	Fetch(ctx context.Context) (any, error)
}
