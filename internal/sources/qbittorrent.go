// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/dashboarr/internal/config"
	"github.com/tomtom215/dashboarr/internal/logging"
	"github.com/tomtom215/dashboarr/internal/models"
)

const (
	qbitTimeout     = 5 * time.Second
	qbitRecentLimit = 20
	qbitErrorLimit  = 500

	// unknownError is the placeholder message for an errored torrent whose
	// trackers offered no usable explanation.
	unknownError = "Unknown Error"
)

// qbitStateMap translates qBittorrent's internal state keywords into the
// display labels the dashboard shows. Unknown keywords pass through
// unchanged so new upstream states degrade visibly instead of silently.
var qbitStateMap = map[string]string{
	"error":              "Error",
	"missingFiles":       "Missing Files",
	"uploading":          "Seeding",
	"pausedUP":           "Seeding",
	"queuedUP":           "Seeding",
	"stalledUP":          "Seeding",
	"checkingUP":         "Checking",
	"forcedUP":           "Seeding",
	"allocating":         "Allocating",
	"downloading":        "Downloading",
	"metaDL":             "Downloading",
	"pausedDL":           "Paused",
	"queuedDL":           "Queued",
	"stalledDL":          "Stalled",
	"checkingDL":         "Checking",
	"forcedDL":           "Downloading",
	"checkingResumeData": "Checking",
	"moving":             "Moving",
}

// displayState maps a raw state keyword to its dashboard label.
func displayState(state string) string {
	if mapped, ok := qbitStateMap[state]; ok {
		return mapped
	}
	return state
}

// QBittorrent is the torrent-client adapter. Unlike the other upstreams it
// authenticates with a session cookie set by a form login, carried in the
// shared client's cookie jar. Logging in again with a valid session is
// harmless, so every fetch and every delete starts with a login when
// credentials are configured.
type QBittorrent struct {
	cfg     config.QBittorrentConfig
	client  *Client
	limiter *rate.Limiter
}

// NewQBittorrent creates the torrent-client adapter. The tracker fan-out
// for errored torrents is capped at 20/s.
func NewQBittorrent(cfg config.QBittorrentConfig, client *Client) *QBittorrent {
	return &QBittorrent{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(20), 10),
	}
}

// Name implements Source.
func (q *QBittorrent) Name() string { return "qbittorrent" }

// Configured implements Source.
func (q *QBittorrent) Configured() bool { return q.cfg.Configured() }

type qbitTorrent struct {
	Name     string  `json:"name"`
	Hash     string  `json:"hash"`
	State    string  `json:"state"`
	DLSpeed  int64   `json:"dlspeed"`
	Progress float64 `json:"progress"`
}

type qbitTracker struct {
	Msg string `json:"msg"`
}

type qbitTransfer struct {
	DLData  int64 `json:"dl_info_data"`
	UPData  int64 `json:"up_info_data"`
	DLSpeed int64 `json:"dl_info_speed"`
	UPSpeed int64 `json:"up_info_speed"`
}

// Fetch implements Source: login, recent torrents, errored torrents with
// tracker messages, transfer totals.
func (q *QBittorrent) Fetch(ctx context.Context) (any, error) {
	if !q.Configured() {
		return nil, &Error{Source: "Qbittorrent", Kind: KindNotConfigured, Message: "Qbittorrent URL not configured"}
	}

	if err := q.login(ctx); err != nil {
		return nil, err
	}

	recent, err := q.recentTorrents(ctx)
	if err != nil {
		return nil, err
	}

	active := []models.Torrent{}
	for _, t := range recent {
		if t.State == "Downloading" {
			active = append(active, t)
		}
	}

	errored := q.erroredTorrents(ctx)
	transfer := q.transferTotals(ctx)

	return models.QBitPayload{
		Recent:          recent,
		ActiveDownloads: active,
		ErrorCount:      len(errored),
		ErroredTorrents: errored,
		TransferInfo:    transfer,
	}, nil
}

// login authenticates when credentials are configured. The upstream
// answers HTTP 200 with the literal body "Fails." on bad credentials.
func (q *QBittorrent) login(ctx context.Context) error {
	if !q.cfg.HasCredentials() {
		return nil
	}

	loginCtx, cancel := context.WithTimeout(ctx, qbitTimeout)
	defer cancel()

	form := url.Values{
		"username": {q.cfg.Username},
		"password": {q.cfg.Password},
	}
	status, body, err := q.client.PostForm(loginCtx, "Qbittorrent", q.cfg.URL+"/api/v2/auth/login", form)
	if err != nil {
		return err
	}
	if status != 200 {
		return AuthError("Qbittorrent", fmt.Sprintf("Qbittorrent Login HTTP %d", status))
	}
	if strings.Contains(string(body), "Fails.") {
		return AuthError("Qbittorrent", "Qbittorrent Login Failed")
	}
	return nil
}

// recentTorrents returns the newest additions with display states and
// pre-formatted progress.
func (q *QBittorrent) recentTorrents(ctx context.Context) ([]models.Torrent, error) {
	reqCtx, cancel := context.WithTimeout(ctx, qbitTimeout)
	defer cancel()

	infoURL := fmt.Sprintf("%s/api/v2/torrents/info?sort=added_on&reverse=true&limit=%d", q.cfg.URL, qbitRecentLimit)
	var torrents []qbitTorrent
	if err := q.client.GetJSON(reqCtx, "Qbittorrent", infoURL, nil, &torrents); err != nil {
		if srcErr, ok := err.(*Error); ok && srcErr.Kind == KindHTTPStatus {
			srcErr.Message = fmt.Sprintf("Qbittorrent Info HTTP %d", srcErr.StatusCode)
		}
		return nil, err
	}

	recent := make([]models.Torrent, 0, len(torrents))
	for _, t := range torrents {
		recent = append(recent, models.Torrent{
			Name:     t.Name,
			State:    displayState(t.State),
			DLSpeed:  t.DLSpeed,
			Progress: fmt.Sprintf("%.1f%%", t.Progress*100),
		})
	}
	return recent, nil
}

// erroredTorrents lists torrents in error states with a human-readable
// message resolved from their trackers. The whole step is best-effort:
// any failure degrades to an empty list.
func (q *QBittorrent) erroredTorrents(ctx context.Context) []models.TorrentError {
	reqCtx, cancel := context.WithTimeout(ctx, qbitTimeout)
	defer cancel()

	errURL := fmt.Sprintf("%s/api/v2/torrents/info?filter=error&limit=%d", q.cfg.URL, qbitErrorLimit)
	var torrents []qbitTorrent
	if err := q.client.GetJSON(reqCtx, "Qbittorrent", errURL, nil, &torrents); err != nil {
		logging.Debug().Err(err).Msg("qBittorrent error-list fetch failed")
		return []models.TorrentError{}
	}

	errored := []models.TorrentError{}
	for _, t := range torrents {
		msg := unknownError
		if t.Hash != "" {
			msg = q.trackerMessage(ctx, t.Hash)
		}

		// A torrent with no usable tracker message and a state outside the
		// genuine error classes is noise (e.g. stalled-by-choice), so it is
		// suppressed rather than shown with a placeholder.
		if msg == unknownError && t.State != "error" && t.State != "missingFiles" && t.State != "metaDL" {
			continue
		}

		errored = append(errored, models.TorrentError{
			Name:    t.Name,
			Hash:    t.Hash,
			State:   t.State,
			Message: msg,
		})
	}
	return errored
}

// trackerMessage scans a torrent's trackers in upstream order and returns
// the first message that is non-empty, not the routine "ok", and not the
// private-torrent notice every private tracker emits. Failures are
// swallowed; the caller's placeholder stands.
func (q *QBittorrent) trackerMessage(ctx context.Context, hash string) string {
	if err := q.limiter.Wait(ctx); err != nil {
		return unknownError
	}

	reqCtx, cancel := context.WithTimeout(ctx, qbitTimeout)
	defer cancel()

	trackersURL := q.cfg.URL + "/api/v2/torrents/trackers?hash=" + url.QueryEscape(hash)
	var trackers []qbitTracker
	if err := q.client.GetJSON(reqCtx, "Qbittorrent", trackersURL, nil, &trackers); err != nil {
		return unknownError
	}

	for _, tracker := range trackers {
		msg := tracker.Msg
		lower := strings.ToLower(msg)
		if msg == "" || lower == "ok" || strings.Contains(lower, "this torrent is private") {
			continue
		}
		return msg
	}
	return unknownError
}

// transferTotals fetches session-cumulative transfer stats. Failure
// degrades to zeroed totals.
func (q *QBittorrent) transferTotals(ctx context.Context) models.TransferTotals {
	reqCtx, cancel := context.WithTimeout(ctx, qbitTimeout)
	defer cancel()

	var transfer qbitTransfer
	if err := q.client.GetJSON(reqCtx, "Qbittorrent", q.cfg.URL+"/api/v2/transfer/info", nil, &transfer); err != nil {
		logging.Debug().Err(err).Msg("qBittorrent transfer-info fetch failed")
		return models.TransferTotals{}
	}
	return models.TransferTotals{
		DLData:  transfer.DLData,
		UPData:  transfer.UPData,
		DLSpeed: transfer.DLSpeed,
		UPSpeed: transfer.UPSpeed,
	}
}

// DeleteTorrent removes a torrent, optionally with its data on disk. It
// re-runs the login first; repeating a login with a live session is
// idempotent upstream, and it guarantees the session cookie exists even
// when no dashboard fetch has run yet.
func (q *QBittorrent) DeleteTorrent(ctx context.Context, hash string, deleteFiles bool) error {
	if !q.Configured() {
		return &Error{Source: "Qbittorrent", Kind: KindNotConfigured, Message: "Qbittorrent URL not configured"}
	}

	if q.cfg.HasCredentials() {
		loginCtx, cancel := context.WithTimeout(ctx, qbitTimeout)
		defer cancel()

		form := url.Values{
			"username": {q.cfg.Username},
			"password": {q.cfg.Password},
		}
		status, _, err := q.client.PostForm(loginCtx, "Qbittorrent", q.cfg.URL+"/api/v2/auth/login", form)
		if err != nil {
			return err
		}
		if status != 200 {
			return AuthError("Qbittorrent", "Qbittorrent login failed")
		}
	}

	delCtx, cancel := context.WithTimeout(ctx, qbitTimeout)
	defer cancel()

	form := url.Values{
		"hashes":      {hash},
		"deleteFiles": {fmt.Sprintf("%t", deleteFiles)},
	}
	status, _, err := q.client.PostForm(delCtx, "Qbittorrent", q.cfg.URL+"/api/v2/torrents/delete", form)
	if err != nil {
		return err
	}
	if status != 200 {
		return HTTPStatusError("Qbittorrent", status).withMessage(fmt.Sprintf("Delete failed with HTTP %d", status))
	}
	return nil
}
