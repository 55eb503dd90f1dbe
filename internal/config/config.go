// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

// Package config provides layered configuration for Dashboarr using Koanf v2.
//
// Configuration Loading Order (highest priority wins):
//  1. Environment variables (PLEX_URL, QBITTORRENT_USERNAME, ...)
//  2. Optional YAML config file (config.yaml)
//  3. Built-in defaults
//
// Every upstream source is optional: a source whose required fields are
// absent is treated as "not configured" and skipped by its adapter without
// affecting the others. Missing source config is therefore never a
// validation error; only malformed values (bad URLs, out-of-range port)
// fail Load().
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Plex        PlexConfig        `koanf:"plex"`
	QBittorrent QBittorrentConfig `koanf:"qbittorrent"`
	Sonarr      ArrConfig         `koanf:"sonarr"`
	Radarr      ArrConfig         `koanf:"radarr"`
	Overseerr   OverseerrConfig   `koanf:"overseerr"`
	Server      ServerConfig      `koanf:"server"`
	API         APIConfig         `koanf:"api"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// PlexConfig holds Plex Media Server connection settings.
//
// Environment Variables:
//   - PLEX_URL: server URL (e.g., http://localhost:32400)
//   - PLEX_TOKEN: X-Plex-Token (Settings > Network > Show Advanced)
type PlexConfig struct {
	URL   string `koanf:"url"`
	Token string `koanf:"token"`
}

// Configured reports whether both required fields are present.
func (c PlexConfig) Configured() bool {
	return c.URL != "" && c.Token != ""
}

// QBittorrentConfig holds qBittorrent WebUI connection settings.
// Username and password are optional: installations with WebUI auth
// disabled (or IP-whitelisted) need only the URL.
//
// Environment Variables:
//   - QBITTORRENT_URL: WebUI URL (e.g., http://localhost:8080)
//   - QBITTORRENT_USERNAME, QBITTORRENT_PASSWORD: WebUI credentials
type QBittorrentConfig struct {
	URL      string `koanf:"url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Configured reports whether the base URL is present.
func (c QBittorrentConfig) Configured() bool {
	return c.URL != ""
}

// HasCredentials reports whether a login step is required.
func (c QBittorrentConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// ArrConfig holds connection settings for a Sonarr/Radarr style download
// manager. Both instances share the same shape and API surface (v3).
//
// Environment Variables (per instance):
//   - SONARR_URL / RADARR_URL
//   - SONARR_API_KEY / RADARR_API_KEY
type ArrConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`
}

// Configured reports whether both required fields are present.
func (c ArrConfig) Configured() bool {
	return c.URL != "" && c.APIKey != ""
}

// OverseerrConfig holds Overseerr connection settings.
//
// Environment Variables:
//   - OVERSEERR_URL: server URL (e.g., http://localhost:5055)
//   - OVERSEERR_API_KEY: API key from Settings > General
type OverseerrConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`
}

// Configured reports whether both required fields are present.
func (c OverseerrConfig) Configured() bool {
	return c.URL != "" && c.APIKey != ""
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	// CacheTTL bounds how often a browser poll actually reaches the
	// upstream services. Zero disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default display URLs for sources that are not configured. These match
// each service's stock port so the frontend can still render links.
const (
	defaultPlexURL        = "http://localhost:32400"
	defaultQBittorrentURL = "http://localhost:8080"
	defaultSonarrURL      = "http://localhost:8989"
	defaultRadarrURL      = "http://localhost:7878"
	defaultOverseerrURL   = "http://localhost:5055"
)

// URLMap returns the per-source base URLs exposed to the frontend,
// substituting each service's stock URL when unconfigured.
func (c *Config) URLMap() map[string]string {
	pick := func(configured, fallback string) string {
		if configured != "" {
			return configured
		}
		return fallback
	}
	return map[string]string{
		"plex":        pick(c.Plex.URL, defaultPlexURL),
		"qbittorrent": pick(c.QBittorrent.URL, defaultQBittorrentURL),
		"sonarr":      pick(c.Sonarr.URL, defaultSonarrURL),
		"radarr":      pick(c.Radarr.URL, defaultRadarrURL),
		"overseerr":   pick(c.Overseerr.URL, defaultOverseerrURL),
	}
}

// Validate checks that configured values are well formed. Absent source
// config is not an error; only malformed values are.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range 1-65535", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown_timeout must be positive")
	}

	urls := map[string]string{
		"plex":        c.Plex.URL,
		"qbittorrent": c.QBittorrent.URL,
		"sonarr":      c.Sonarr.URL,
		"radarr":      c.Radarr.URL,
		"overseerr":   c.Overseerr.URL,
	}
	for name, raw := range urls {
		if raw == "" {
			continue
		}
		if err := validateBaseURL(name, raw); err != nil {
			return err
		}
	}
	return nil
}

// validateBaseURL requires an absolute http(s) URL with a host.
func validateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s url invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s url must use http or https, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s url missing host: %q", name, raw)
	}
	return nil
}

// normalize strips trailing slashes from configured base URLs so path
// concatenation in the adapters stays predictable.
func (c *Config) normalize() {
	c.Plex.URL = strings.TrimRight(c.Plex.URL, "/")
	c.QBittorrent.URL = strings.TrimRight(c.QBittorrent.URL, "/")
	c.Sonarr.URL = strings.TrimRight(c.Sonarr.URL, "/")
	c.Radarr.URL = strings.TrimRight(c.Radarr.URL, "/")
	c.Overseerr.URL = strings.TrimRight(c.Overseerr.URL, "/")
}
