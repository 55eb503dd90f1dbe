// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

// Package models defines the UI-ready structures served to the dashboard
// frontend. All entities here are request-scoped: they are built during one
// aggregation pass and discarded after the response is serialized.
//
// JSON field names are part of the wire contract with the browser and must
// not change without a matching frontend update.
package models

// MediaItem is a recently added movie or episode from the media server.
// For episodes, Title carries the show name and Episode the episode title.
type MediaItem struct {
	Title   string `json:"title"`
	Year    int    `json:"year,omitempty"`
	Episode string `json:"episode,omitempty"`
	Thumb   string `json:"thumb,omitempty"`
}

// Session is an active playback session on the media server.
type Session struct {
	User      string `json:"user"`
	UserThumb string `json:"user_thumb,omitempty"`
	Title     string `json:"title"`
	Thumb     string `json:"thumb,omitempty"`
	Year      int    `json:"year,omitempty"`
	Type      string `json:"type,omitempty"`
}

// PlexPayload is the normalized media-server card. Movies and Shows are
// independently fault-isolated: either may carry an inline error while the
// other holds data.
type PlexPayload struct {
	Movies         MediaShelf `json:"movies"`
	Shows          MediaShelf `json:"shows"`
	ActiveSessions []Session  `json:"active_sessions"`
}

// Torrent is one entry in the torrent client's recent list.
// Progress is pre-formatted ("42.5%") for direct display.
type Torrent struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	DLSpeed  int64  `json:"dlspeed"`
	Progress string `json:"progress"`
}

// TorrentError describes an errored torrent with a human-readable message
// resolved from its tracker status.
type TorrentError struct {
	Name    string `json:"name"`
	Hash    string `json:"hash"`
	State   string `json:"state"`
	Message string `json:"message"`
}

// TransferTotals holds session-cumulative transfer bytes and current rates.
type TransferTotals struct {
	DLData  int64 `json:"dl_info_data"`
	UPData  int64 `json:"up_info_data"`
	DLSpeed int64 `json:"dl_info_speed"`
	UPSpeed int64 `json:"up_info_speed"`
}

// QBitPayload is the normalized torrent-client card.
type QBitPayload struct {
	Recent          []Torrent      `json:"recent"`
	ActiveDownloads []Torrent      `json:"active_downloads"`
	ErrorCount      int            `json:"error_count"`
	ErroredTorrents []TorrentError `json:"errored_torrents"`
	TransferInfo    TransferTotals `json:"transfer_info"`
}

// HealthIssue is a single health check result from a download manager.
type HealthIssue struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// QueueItem is one queued download in a download manager.
type QueueItem struct {
	Title    string `json:"title"`
	Status   string `json:"status"`
	Protocol string `json:"protocol"`
}

// ArrPayload is the normalized card for a Sonarr/Radarr style manager:
// health issues partitioned by severity plus current queue activity.
type ArrPayload struct {
	Errors   []HealthIssue `json:"errors"`
	Warnings []HealthIssue `json:"warnings"`
	Activity []QueueItem   `json:"activity"`
}

// PendingRequest is a media request awaiting approval.
type PendingRequest struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	User       string `json:"user"`
	UserAvatar string `json:"user_avatar,omitempty"`
	Date       string `json:"date"`
	Image      string `json:"image"`
	Status     string `json:"status"`
}

// OverseerrPayload is the normalized request-approval card.
type OverseerrPayload struct {
	Requests []PendingRequest `json:"requests"`
	Count    int              `json:"count"`
}

// DeleteResult is the response for the torrent deletion command.
type DeleteResult struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the generic error envelope for client errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
