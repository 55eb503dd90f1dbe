// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

// Package api provides HTTP routing and handlers for the dashboard.
//
// The dashboard endpoint always answers 200: per-source failures travel
// inline inside the payload, so the frontend renders every card it can
// and shows an error on the rest.
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dashboarr/internal/cache"
	"github.com/tomtom215/dashboarr/internal/logging"
	"github.com/tomtom215/dashboarr/internal/models"
	"github.com/tomtom215/dashboarr/internal/sources"
	"github.com/tomtom215/dashboarr/internal/validation"
)

const dashboardCacheKey = "dashboard"

// DashboardFetcher produces the unified aggregation result.
type DashboardFetcher interface {
	Fetch(ctx context.Context) models.DashboardResponse
}

// TorrentDeleter executes the torrent removal command.
type TorrentDeleter interface {
	DeleteTorrent(ctx context.Context, hash string, deleteFiles bool) error
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	aggregator DashboardFetcher
	deleter    TorrentDeleter
	cache      *cache.Cache
}

// NewHandler creates the handler set. The cache sits in front of the
// dashboard aggregation so browser polling does not multiply upstream
// load; its TTL is a few seconds and it never outlives the process.
func NewHandler(aggregator DashboardFetcher, deleter TorrentDeleter, responseCache *cache.Cache) *Handler {
	return &Handler{
		aggregator: aggregator,
		deleter:    deleter,
		cache:      responseCache,
	}
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Dashboard handles GET /api/v1/dashboard (and the legacy /api/data
// path). It always returns 200 with per-source inline errors.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(dashboardCacheKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	resp := h.aggregator.Fetch(r.Context())
	h.cache.Set(dashboardCacheKey, resp)
	respondJSON(w, http.StatusOK, resp)
}

// DeleteTorrentRequest is the body for the torrent removal command.
type DeleteTorrentRequest struct {
	Hash        string `json:"hash" validate:"required"`
	DeleteFiles bool   `json:"delete_files"`
}

// DeleteTorrent handles POST /api/v1/torrents/delete (and the legacy
// /api/delete_torrent path). A missing hash is the caller's mistake and
// gets a 400; upstream failures come back 200 with an inline error, the
// same convention the dashboard payload uses.
func (h *Handler) DeleteTorrent(w http.ResponseWriter, r *http.Request) {
	var req DeleteTorrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No hash provided"})
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No hash provided"})
		return
	}

	if err := h.deleter.DeleteTorrent(r.Context(), req.Hash, req.DeleteFiles); err != nil {
		logging.Warn().Err(err).Str("hash", req.Hash).Msg("Torrent delete failed")
		respondJSON(w, http.StatusOK, models.DeleteResult{Error: err.Error()})
		return
	}

	// Invalidate so the next poll reflects the removal immediately.
	h.cache.Delete(dashboardCacheKey)

	logging.Info().Str("hash", req.Hash).Bool("delete_files", req.DeleteFiles).Msg("Torrent deleted")
	respondJSON(w, http.StatusOK, models.DeleteResult{Success: true})
}

// respondJSON writes a JSON response. Encoding failures at this point can
// only be reported by log; headers are already gone.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

var (
	_ DashboardFetcher = (*sources.Aggregator)(nil)
	_ TorrentDeleter   = (*sources.QBittorrent)(nil)
)
